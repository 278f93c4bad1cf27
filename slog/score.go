package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ndpa"
)

// Ensure LoggingScoreService implements ndpa.ScoreService.
var _ ndpa.ScoreService = (*LoggingScoreService)(nil)

// LoggingScoreService wraps a ScoreService with debug logging.
type LoggingScoreService struct {
	next   ndpa.ScoreService
	logger *slog.Logger
}

// NewLoggingScoreService creates a new LoggingScoreService.
func NewLoggingScoreService(next ndpa.ScoreService, logger *slog.Logger) *LoggingScoreService {
	return &LoggingScoreService{next: next, logger: logger}
}

// CreateScore delegates to the wrapped service and logs the stored score.
func (s *LoggingScoreService) CreateScore(ctx context.Context, score *ndpa.Score) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("create score",
			"run", score.RunID,
			"scorer", score.ScorerID,
			"value", score.Value,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateScore(ctx, score)
}

// FindScores delegates to the wrapped service and logs the result count.
func (s *LoggingScoreService) FindScores(ctx context.Context, filter ndpa.ScoreFilter) (scores []*ndpa.Score, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find scores",
			"count", len(scores),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindScores(ctx, filter)
}
