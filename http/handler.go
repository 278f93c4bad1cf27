package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/ndpa"
)

// MaxRequestSize caps the size of a JSON-RPC request body.
const MaxRequestSize = 1 << 20

// Handler serves the A2A JSON-RPC endpoint for a set of agents.
type Handler struct {
	agents map[string]ndpa.Agent
	logger *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewHandler creates a Handler serving agents keyed by agent id.
func NewHandler(agents map[string]ndpa.Agent, logger *slog.Logger) *Handler {
	return &Handler{agents: agents, logger: logger, Now: time.Now}
}

// Healthz reports that the server is up.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ServeA2A handles POST /a2a/agent/{agentId}.
//
// Bodies that are not a non-empty JSON object, and requests whose method is
// not message/send, receive a failed "unknown method" task with status 200.
// A message/send call must carry jsonrpc "2.0" and an id.
func (h *Handler) ServeA2A(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agentID := r.PathValue("agentId")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestSize))
	if err != nil {
		writeJSON(w, http.StatusOK, UnknownMethodResponse(nil, h.Now()))
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || len(fields) == 0 {
		writeJSON(w, http.StatusOK, UnknownMethodResponse(nil, h.Now()))
		return
	}

	id := fields["id"]
	var method, version string
	_ = decodeField(fields, "method", &method)
	_ = decodeField(fields, "jsonrpc", &version)

	if method != MethodSend {
		writeJSON(w, http.StatusOK, UnknownMethodResponse(id, h.Now()))
		return
	}

	if version != JSONRPCVersion || !hasID(id) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse(id, CodeInvalidRequest, InvalidRequestText, nil))
		return
	}

	agent, ok := h.agents[agentID]
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse(id, CodeInvalidParams, fmt.Sprintf("Agent '%s' not found", agentID), nil))
		return
	}

	params := decodeSendParams(fields["params"])
	messages := make([]ndpa.Message, 0, len(params.Messages))
	for _, m := range params.Messages {
		messages = append(messages, toAgentMessage(m))
	}

	resp, err := h.generate(ctx, agent, messages)
	if err != nil {
		h.logger.ErrorContext(ctx, "agent failed", "agent", agentID, "request_id", RequestIDFromContext(ctx), "err", err)
		writeInternalError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, &Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result:  completedTask(agentID, params, resp, h.Now()),
	})
}

// generate runs the agent, converting a panic into an error.
func (h *Handler) generate(ctx context.Context, agent ndpa.Agent, messages []ndpa.Message) (resp *ndpa.Response, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()

	resp, err = agent.Generate(ctx, messages)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, ndpa.Errorf(ndpa.EINTERNAL, "agent returned no response")
	}
	return resp, nil
}

// writeInternalError writes a -32603 response carrying details.
func writeInternalError(w http.ResponseWriter, details string) {
	writeJSON(w, http.StatusInternalServerError, ErrorResponse(nil, CodeInternalError, "Internal error",
		map[string]string{"details": details}))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
