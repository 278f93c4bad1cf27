package mock

import (
	"context"

	"github.com/fwojciec/ndpa"
)

var _ ndpa.Agent = (*Agent)(nil)

// Agent is a mock implementation of ndpa.Agent.
type Agent struct {
	GenerateFn func(ctx context.Context, messages []ndpa.Message) (*ndpa.Response, error)
}

func (a *Agent) Generate(ctx context.Context, messages []ndpa.Message) (*ndpa.Response, error) {
	return a.GenerateFn(ctx, messages)
}
