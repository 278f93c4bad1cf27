package http

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/ndpa"
	"github.com/google/uuid"
)

// JSON-RPC and A2A protocol constants.
const (
	JSONRPCVersion = "2.0"
	MethodSend     = "message/send"

	CodeInvalidRequest = -32600
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeRateLimited    = -32000

	KindText    = "text"
	KindData    = "data"
	KindMessage = "message"
	KindTask    = "task"

	StateCompleted = "completed"
	StateFailed    = "failed"

	// ToolResultsArtifact names the artifact carrying the agent's tool results.
	ToolResultsArtifact = "ToolResults"
)

// UnknownMethodText is returned for any request that is not a message/send call.
const UnknownMethodText = "Unknown method. Use 'message/send' or 'help'."

// InvalidRequestText is the error message for malformed JSON-RPC envelopes.
const InvalidRequestText = `Invalid Request: jsonrpc must be "2.0" and id is required`

// timestampFormat matches the millisecond UTC timestamps A2A clients expect.
const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Part is one piece of message or artifact content. All keys are always
// present on the wire; unused ones are null.
type Part struct {
	Kind    string  `json:"kind"`
	Text    *string `json:"text"`
	Data    any     `json:"data"`
	FileURL *string `json:"file_url"`
}

// TextPart returns a text part.
func TextPart(text string) Part {
	return Part{Kind: KindText, Text: &text}
}

// DataPart returns a data part.
func DataPart(data any) Part {
	return Part{Kind: KindData, Data: data}
}

// Message is an A2A message.
type Message struct {
	Kind      string  `json:"kind"`
	Role      string  `json:"role"`
	Parts     []Part  `json:"parts"`
	MessageID string  `json:"messageId"`
	TaskID    *string `json:"taskId"`
	Metadata  any     `json:"metadata"`
}

// Artifact is a named output attached to a task.
type Artifact struct {
	ArtifactID string `json:"artifactId"`
	Name       string `json:"name"`
	Parts      []Part `json:"parts"`
}

// TaskStatus reports the state of a task.
type TaskStatus struct {
	State     string  `json:"state"`
	Timestamp string  `json:"timestamp"`
	Message   Message `json:"message"`
}

// Task is the result of a message/send call.
type Task struct {
	ID        string     `json:"id"`
	ContextID string     `json:"contextId"`
	Status    TaskStatus `json:"status"`
	Artifacts []Artifact `json:"artifacts"`
	History   []Message  `json:"history"`
	Kind      string     `json:"kind"`
}

// RPCError is a JSON-RPC error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Response is a JSON-RPC response envelope. Exactly one of Result and Error
// is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  *Task           `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

var (
	nullID  = json.RawMessage("null")
	emptyID = json.RawMessage(`""`)
)

// UnknownMethodResponse builds the failed task returned for requests that are
// not message/send calls. A falsy id is echoed as "".
func UnknownMethodResponse(id json.RawMessage, now time.Time) *Response {
	if !hasID(id) {
		id = emptyID
	}
	return &Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result: &Task{
			ID:        uuid.NewString(),
			ContextID: uuid.NewString(),
			Status: TaskStatus{
				State:     StateFailed,
				Timestamp: now.UTC().Format(timestampFormat),
				Message: Message{
					Kind:      KindMessage,
					Role:      ndpa.RoleAgent,
					Parts:     []Part{TextPart(UnknownMethodText)},
					MessageID: uuid.NewString(),
				},
			},
			Artifacts: []Artifact{{
				ArtifactID: uuid.NewString(),
				Name:       "assistantResponse",
				Parts:      []Part{TextPart(UnknownMethodText)},
			}},
			History: []Message{},
			Kind:    KindTask,
		},
	}
}

// ErrorResponse builds a JSON-RPC error response. A falsy id is sent as null.
func ErrorResponse(id json.RawMessage, code int, message string, data any) *Response {
	if !hasID(id) {
		id = nullID
	}
	return &Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &RPCError{Code: code, Message: message, Data: data},
	}
}

// hasID reports whether a raw JSON-RPC id is present and truthy. Missing,
// null, false, "" and 0 ids are treated as absent.
func hasID(raw json.RawMessage) bool {
	s := string(bytes.TrimSpace(raw))
	switch s {
	case "", "null", "false", `""`:
		return false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == 0 {
		return false
	}
	return true
}

// inboundPart is a part as sent by a client.
type inboundPart struct {
	Kind string          `json:"kind"`
	Text *string         `json:"text"`
	Data json.RawMessage `json:"data"`
}

// inboundMessage is a message as sent by a client.
type inboundMessage struct {
	Role      string          `json:"role"`
	Parts     []inboundPart   `json:"parts"`
	MessageID string          `json:"messageId"`
	TaskID    string          `json:"taskId"`
	Metadata  json.RawMessage `json:"metadata"`
}

// sendParams holds the fields of a message/send call.
type sendParams struct {
	Messages  []inboundMessage
	ContextID string
	TaskID    string
}

// decodeSendParams extracts message/send parameters. A single "message" wins
// over a "messages" array. Fields with unexpected types are ignored.
func decodeSendParams(raw json.RawMessage) sendParams {
	var p sendParams
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return p
	}

	var single inboundMessage
	if msg, ok := fields["message"]; ok && isObject(msg) && json.Unmarshal(msg, &single) == nil {
		p.Messages = []inboundMessage{single}
	} else if msgs, ok := fields["messages"]; ok {
		var list []inboundMessage
		if json.Unmarshal(msgs, &list) == nil {
			p.Messages = list
		}
	}

	_ = decodeField(fields, "contextId", &p.ContextID)
	_ = decodeField(fields, "taskId", &p.TaskID)
	return p
}

// decodeField unmarshals fields[key] into v and reports whether it succeeded.
func decodeField(fields map[string]json.RawMessage, key string, v any) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// toAgentMessage converts an inbound message into an agent message. Text
// parts contribute their text; data parts contribute their JSON, except
// that text items inside a data array contribute their text. Contributions
// are joined with newlines.
func toAgentMessage(m inboundMessage) ndpa.Message {
	contents := make([]string, 0, len(m.Parts))
	for _, part := range m.Parts {
		contents = append(contents, partContent(part))
	}

	role := m.Role
	if role == "" {
		role = ndpa.RoleUser
	}

	msg := ndpa.Message{Role: role, Content: strings.Join(contents, "\n")}
	if isObject(m.Metadata) {
		_ = json.Unmarshal(m.Metadata, &msg.Metadata)
	}
	return msg
}

func partContent(p inboundPart) string {
	switch p.Kind {
	case KindText:
		if p.Text == nil {
			return ""
		}
		return *p.Text
	case KindData:
		var items []json.RawMessage
		if !isArray(p.Data) || json.Unmarshal(p.Data, &items) != nil {
			return compactJSON(p.Data)
		}
		lines := make([]string, 0, len(items))
		for _, item := range items {
			var text struct {
				Kind string  `json:"kind"`
				Text *string `json:"text"`
			}
			if isObject(item) && json.Unmarshal(item, &text) == nil && text.Kind == KindText {
				if text.Text != nil {
					lines = append(lines, *text.Text)
				} else {
					lines = append(lines, "")
				}
				continue
			}
			lines = append(lines, compactJSON(item))
		}
		return strings.Join(lines, "\n")
	default:
		return ""
	}
}

// compactJSON renders raw without insignificant whitespace. Missing data
// renders as the empty string.
func compactJSON(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// historyMessage echoes an inbound message into task history. Text parts
// drop their data; every part has a null file_url.
func historyMessage(m inboundMessage, taskID string) Message {
	parts := make([]Part, 0, len(m.Parts))
	for _, p := range m.Parts {
		out := Part{Kind: p.Kind, Text: p.Text}
		if p.Kind != KindText && len(p.Data) > 0 {
			out.Data = p.Data
		}
		parts = append(parts, out)
	}

	role := m.Role
	if role == "" {
		role = ndpa.RoleUser
	}
	messageID := m.MessageID
	if messageID == "" {
		messageID = uuid.NewString()
	}
	if m.TaskID != "" {
		taskID = m.TaskID
	}

	var metadata any
	if len(m.Metadata) > 0 && string(bytes.TrimSpace(m.Metadata)) != "null" {
		metadata = m.Metadata
	}

	return Message{
		Kind:      KindMessage,
		Role:      role,
		Parts:     parts,
		MessageID: messageID,
		TaskID:    &taskID,
		Metadata:  metadata,
	}
}

// agentMessage wraps the agent's reply text.
func agentMessage(text, taskID string) Message {
	return Message{
		Kind:      KindMessage,
		Role:      ndpa.RoleAgent,
		Parts:     []Part{TextPart(text)},
		MessageID: uuid.NewString(),
		TaskID:    &taskID,
	}
}

// completedTask builds the task returned for a successful agent run.
func completedTask(agentID string, params sendParams, resp *ndpa.Response, now time.Time) *Task {
	taskID := params.TaskID
	if taskID == "" {
		taskID = uuid.NewString()
	}
	contextID := params.ContextID
	if contextID == "" {
		contextID = uuid.NewString()
	}

	artifacts := []Artifact{{
		ArtifactID: uuid.NewString(),
		Name:       agentID + "Response",
		Parts:      []Part{TextPart(resp.Text)},
	}}
	if len(resp.ToolResults) > 0 {
		parts := make([]Part, 0, len(resp.ToolResults))
		for _, tr := range resp.ToolResults {
			parts = append(parts, DataPart(tr))
		}
		artifacts = append(artifacts, Artifact{
			ArtifactID: uuid.NewString(),
			Name:       ToolResultsArtifact,
			Parts:      parts,
		})
	}

	history := make([]Message, 0, len(params.Messages)+1)
	for _, m := range params.Messages {
		history = append(history, historyMessage(m, taskID))
	}
	history = append(history, agentMessage(resp.Text, taskID))

	return &Task{
		ID:        taskID,
		ContextID: contextID,
		Status: TaskStatus{
			State:     StateCompleted,
			Timestamp: now.UTC().Format(timestampFormat),
			Message:   agentMessage(resp.Text, taskID),
		},
		Artifacts: artifacts,
		History:   history,
		Kind:      KindTask,
	}
}
