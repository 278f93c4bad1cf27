package mock

import (
	"context"

	"github.com/fwojciec/ndpa"
)

var _ ndpa.Finder = (*Finder)(nil)

// Finder is a mock implementation of ndpa.Finder.
type Finder struct {
	FindSectionFn func(ctx context.Context, question string) (ndpa.Result, error)
}

func (f *Finder) FindSection(ctx context.Context, question string) (ndpa.Result, error) {
	return f.FindSectionFn(ctx, question)
}
