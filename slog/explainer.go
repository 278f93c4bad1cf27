package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ndpa"
)

// Ensure LoggingExplainer implements ndpa.Explainer.
var _ ndpa.Explainer = (*LoggingExplainer)(nil)

// LoggingExplainer wraps an Explainer with logging.
type LoggingExplainer struct {
	next   ndpa.Explainer
	logger *slog.Logger
}

// NewLoggingExplainer creates a new LoggingExplainer.
func NewLoggingExplainer(next ndpa.Explainer, logger *slog.Logger) *LoggingExplainer {
	return &LoggingExplainer{next: next, logger: logger}
}

// Explain delegates to the wrapped explainer and logs the operation.
func (e *LoggingExplainer) Explain(ctx context.Context, result ndpa.Result) (explanation string, err error) {
	defer func(begin time.Time) {
		e.logger.Info("explain section",
			"part", result.Part,
			"section", result.SectionNumber,
			"chars", len(explanation),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Explain(ctx, result)
}
