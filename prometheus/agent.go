package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/ndpa"
)

// Ensure Agent implements ndpa.Agent.
var _ ndpa.Agent = (*Agent)(nil)

// Agent records generation counts, latency and tool calls.
type Agent struct {
	next    ndpa.Agent
	agentID string
	metrics *Metrics
}

// NewAgent wraps next with metrics labelled by agentID.
func NewAgent(next ndpa.Agent, agentID string, metrics *Metrics) *Agent {
	return &Agent{next: next, agentID: agentID, metrics: metrics}
}

// Generate delegates to the wrapped agent.
func (a *Agent) Generate(ctx context.Context, messages []ndpa.Message) (*ndpa.Response, error) {
	begin := time.Now()
	resp, err := a.next.Generate(ctx, messages)
	a.metrics.AgentDuration.WithLabelValues(a.agentID).Observe(time.Since(begin).Seconds())

	status := "ok"
	if err != nil {
		status = "error"
	}
	a.metrics.AgentRequestsTotal.WithLabelValues(a.agentID, status).Inc()

	if resp != nil {
		for _, tr := range resp.ToolResults {
			a.metrics.ToolCallsTotal.WithLabelValues(a.agentID, tr.ToolName).Inc()
		}
	}
	return resp, err
}
