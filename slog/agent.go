package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ndpa"
)

// Ensure LoggingAgent implements ndpa.Agent.
var _ ndpa.Agent = (*LoggingAgent)(nil)

// LoggingAgent wraps an Agent with logging of each generation.
type LoggingAgent struct {
	next    ndpa.Agent
	agentID string
	logger  *slog.Logger
}

// NewLoggingAgent creates a new LoggingAgent.
func NewLoggingAgent(next ndpa.Agent, agentID string, logger *slog.Logger) *LoggingAgent {
	return &LoggingAgent{next: next, agentID: agentID, logger: logger}
}

// Generate delegates to the wrapped agent and logs the tools it called.
func (a *LoggingAgent) Generate(ctx context.Context, messages []ndpa.Message) (resp *ndpa.Response, err error) {
	defer func(begin time.Time) {
		var tools []string
		if resp != nil {
			for _, tr := range resp.ToolResults {
				tools = append(tools, tr.ToolName)
			}
		}
		a.logger.Info("agent generate",
			"agent", a.agentID,
			"messages", len(messages),
			"tool_calls", tools,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Generate(ctx, messages)
}
