package eval_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/fwojciec/ndpa"
	"github.com/fwojciec/ndpa/eval"
	"github.com/fwojciec/ndpa/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedScorer(id string, value float64) *mock.Scorer {
	return &mock.Scorer{
		IDFn: func() string { return id },
		ScoreFn: func(context.Context, *ndpa.Run) (*ndpa.Score, error) {
			return &ndpa.Score{Value: value, Reason: id + " reason"}, nil
		},
	}
}

type scoreRecorder struct {
	mu     sync.Mutex
	scores []*ndpa.Score
}

func (r *scoreRecorder) service() *mock.ScoreService {
	return &mock.ScoreService{
		CreateScoreFn: func(_ context.Context, s *ndpa.Score) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.scores = append(r.scores, s)
			return nil
		},
	}
}

func TestRunner_Score(t *testing.T) {
	t.Parallel()

	run := &ndpa.Run{
		ID:      "run-1",
		AgentID: "ndpaAgent",
		Input:   []ndpa.Message{{Role: ndpa.RoleUser, Content: "What is consent?"}},
		Output:  &ndpa.Response{Text: "Consent means..."},
	}

	t.Run("stores a score per scorer", func(t *testing.T) {
		t.Parallel()

		rec := &scoreRecorder{}
		runner := &eval.Runner{
			Scorers:          []ndpa.Scorer{fixedScorer("a", 1), fixedScorer("b", 0.25)},
			Scores:           rec.service(),
			Logger:           slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
			Sampling:         1,
			DocumentChecksum: "abc123",
		}

		scores, err := runner.Score(context.Background(), run)

		require.NoError(t, err)
		require.Len(t, scores, 2)
		assert.Len(t, rec.scores, 2)
		assert.Equal(t, "a", scores[0].ScorerID)
		assert.Equal(t, "b", scores[1].ScorerID)
		assert.InDelta(t, 0.25, scores[1].Value, 0.0001)
		assert.Equal(t, "run-1", scores[0].RunID)
		assert.Equal(t, "ndpaAgent", scores[0].AgentID)
		assert.Equal(t, "abc123", scores[0].DocumentChecksum)
		assert.Equal(t, "What is consent?", scores[0].Input)
		assert.Equal(t, "Consent means...", scores[0].Output)
	})

	t.Run("skips unsampled scorers", func(t *testing.T) {
		t.Parallel()

		rec := &scoreRecorder{}
		runner := &eval.Runner{
			Scorers:  []ndpa.Scorer{fixedScorer("a", 1)},
			Scores:   rec.service(),
			Sampling: 0.5,
			Rand:     func() float64 { return 0.7 },
		}

		scores, err := runner.Score(context.Background(), run)

		require.NoError(t, err)
		assert.Empty(t, scores)
		assert.Empty(t, rec.scores)
	})

	t.Run("logs and skips failing scorer", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		rec := &scoreRecorder{}
		failing := &mock.Scorer{
			IDFn: func() string { return "judge" },
			ScoreFn: func(context.Context, *ndpa.Run) (*ndpa.Score, error) {
				return nil, errors.New("judge unavailable")
			},
		}
		runner := &eval.Runner{
			Scorers:  []ndpa.Scorer{failing, fixedScorer("a", 1)},
			Scores:   rec.service(),
			Logger:   slog.New(slog.NewTextHandler(&buf, nil)),
			Sampling: 1,
		}

		scores, err := runner.Score(context.Background(), run)

		require.NoError(t, err)
		require.Len(t, scores, 1)
		assert.Equal(t, "a", scores[0].ScorerID)
		assert.Contains(t, buf.String(), "scorer failed")
		assert.Contains(t, buf.String(), "scorer=judge")
		assert.Contains(t, buf.String(), `err="judge unavailable"`)
	})

	t.Run("returns storage error", func(t *testing.T) {
		t.Parallel()

		runner := &eval.Runner{
			Scorers: []ndpa.Scorer{fixedScorer("a", 1)},
			Scores: &mock.ScoreService{
				CreateScoreFn: func(context.Context, *ndpa.Score) error {
					return errors.New("disk full")
				},
			},
			Sampling: 1,
		}

		_, err := runner.Score(context.Background(), run)

		require.EqualError(t, err, "disk full")
	})
}

func TestAgent_Generate(t *testing.T) {
	t.Parallel()

	t.Run("returns response and scores run in background", func(t *testing.T) {
		t.Parallel()

		rec := &scoreRecorder{}
		inner := &mock.Agent{
			GenerateFn: func(context.Context, []ndpa.Message) (*ndpa.Response, error) {
				return &ndpa.Response{Text: "Consent means..."}, nil
			},
		}
		runner := &eval.Runner{
			Scorers:  []ndpa.Scorer{eval.Completeness{}},
			Scores:   rec.service(),
			Logger:   slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
			Sampling: 1,
		}

		agent := eval.NewAgent(inner, "ndpaAgent", runner)
		ctx, cancel := context.WithCancel(context.Background())
		resp, err := agent.Generate(ctx, []ndpa.Message{{Role: ndpa.RoleUser, Content: "consent"}})
		cancel()
		agent.Wait()

		require.NoError(t, err)
		assert.Equal(t, "Consent means...", resp.Text)
		require.Len(t, rec.scores, 1)
		assert.Equal(t, eval.CompletenessID, rec.scores[0].ScorerID)
		assert.Equal(t, "ndpaAgent", rec.scores[0].AgentID)
		assert.NotEmpty(t, rec.scores[0].RunID)
		assert.InDelta(t, 1.0, rec.scores[0].Value, 0.0001)
	})

	t.Run("does not score failed runs", func(t *testing.T) {
		t.Parallel()

		inner := &mock.Agent{
			GenerateFn: func(context.Context, []ndpa.Message) (*ndpa.Response, error) {
				return nil, errors.New("model unavailable")
			},
		}
		runner := &eval.Runner{
			Scorers: []ndpa.Scorer{eval.Completeness{}},
			Scores: &mock.ScoreService{
				CreateScoreFn: func(context.Context, *ndpa.Score) error {
					t.Error("unexpected CreateScore")
					return nil
				},
			},
			Sampling: 1,
		}

		agent := eval.NewAgent(inner, "ndpaAgent", runner)
		_, err := agent.Generate(context.Background(), []ndpa.Message{{Content: "consent"}})
		agent.Wait()

		require.EqualError(t, err, "model unavailable")
	})
}
