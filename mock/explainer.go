package mock

import (
	"context"

	"github.com/fwojciec/ndpa"
)

var _ ndpa.Explainer = (*Explainer)(nil)

// Explainer is a mock implementation of ndpa.Explainer.
type Explainer struct {
	ExplainFn func(ctx context.Context, result ndpa.Result) (string, error)
}

func (e *Explainer) Explain(ctx context.Context, result ndpa.Result) (string, error) {
	return e.ExplainFn(ctx, result)
}
