package mock

import (
	"context"

	"github.com/fwojciec/ndpa"
)

var _ ndpa.Scorer = (*Scorer)(nil)

// Scorer is a mock implementation of ndpa.Scorer.
type Scorer struct {
	IDFn    func() string
	ScoreFn func(ctx context.Context, run *ndpa.Run) (*ndpa.Score, error)
}

func (s *Scorer) ID() string {
	return s.IDFn()
}

func (s *Scorer) Score(ctx context.Context, run *ndpa.Run) (*ndpa.Score, error) {
	return s.ScoreFn(ctx, run)
}

var _ ndpa.ScoreService = (*ScoreService)(nil)

// ScoreService is a mock implementation of ndpa.ScoreService.
type ScoreService struct {
	CreateScoreFn func(ctx context.Context, score *ndpa.Score) error
	FindScoresFn  func(ctx context.Context, filter ndpa.ScoreFilter) ([]*ndpa.Score, error)
}

func (s *ScoreService) CreateScore(ctx context.Context, score *ndpa.Score) error {
	return s.CreateScoreFn(ctx, score)
}

func (s *ScoreService) FindScores(ctx context.Context, filter ndpa.ScoreFilter) ([]*ndpa.Score, error) {
	return s.FindScoresFn(ctx, filter)
}
