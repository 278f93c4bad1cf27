package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/ndpa"
)

// Ensure Finder implements ndpa.Finder.
var _ ndpa.Finder = (*Finder)(nil)

// Finder counts section lookups by tier and observes their latency.
type Finder struct {
	next    ndpa.Finder
	metrics *Metrics
}

// NewFinder wraps next with metrics.
func NewFinder(next ndpa.Finder, metrics *Metrics) *Finder {
	return &Finder{next: next, metrics: metrics}
}

// FindSection delegates to the wrapped finder. Failed lookups are counted
// under the "error" tier.
func (f *Finder) FindSection(ctx context.Context, question string) (ndpa.Result, error) {
	begin := time.Now()
	result, err := f.next.FindSection(ctx, question)
	f.metrics.FindDuration.Observe(time.Since(begin).Seconds())

	tier := string(result.Tier)
	if err != nil {
		tier = "error"
	}
	f.metrics.FindTotal.WithLabelValues(tier).Inc()
	return result, err
}
