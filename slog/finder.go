// Package slog provides logging decorators for ndpa services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ndpa"
)

// Ensure LoggingFinder implements ndpa.Finder.
var _ ndpa.Finder = (*LoggingFinder)(nil)

// LoggingFinder wraps a Finder with logging of each lookup.
type LoggingFinder struct {
	next   ndpa.Finder
	logger *slog.Logger
}

// NewLoggingFinder creates a new LoggingFinder.
func NewLoggingFinder(next ndpa.Finder, logger *slog.Logger) *LoggingFinder {
	return &LoggingFinder{next: next, logger: logger}
}

// FindSection delegates to the wrapped finder and logs the match.
func (f *LoggingFinder) FindSection(ctx context.Context, question string) (result ndpa.Result, err error) {
	defer func(begin time.Time) {
		f.logger.Info("find section",
			"question", question,
			"part", result.Part,
			"section", result.SectionNumber,
			"tier", string(result.Tier),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FindSection(ctx, question)
}
