package prometheus

import (
	"context"

	"github.com/fwojciec/ndpa"
)

// Ensure ScoreService implements ndpa.ScoreService.
var _ ndpa.ScoreService = (*ScoreService)(nil)

// ScoreService observes the value of every stored score.
type ScoreService struct {
	next    ndpa.ScoreService
	metrics *Metrics
}

// NewScoreService wraps next with metrics.
func NewScoreService(next ndpa.ScoreService, metrics *Metrics) *ScoreService {
	return &ScoreService{next: next, metrics: metrics}
}

// CreateScore delegates to the wrapped service and records the value once
// it is stored.
func (s *ScoreService) CreateScore(ctx context.Context, score *ndpa.Score) error {
	if err := s.next.CreateScore(ctx, score); err != nil {
		return err
	}
	s.metrics.ScoreValue.WithLabelValues(score.ScorerID).Observe(score.Value)
	return nil
}

// FindScores delegates to the wrapped service.
func (s *ScoreService) FindScores(ctx context.Context, filter ndpa.ScoreFilter) ([]*ndpa.Score, error) {
	return s.next.FindScores(ctx, filter)
}
