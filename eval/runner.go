package eval

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/fwojciec/ndpa"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultScoreTimeout bounds a single asynchronous scoring pass.
const DefaultScoreTimeout = 60 * time.Second

// Runner applies scorers to agent runs and stores the scores.
type Runner struct {
	Scorers []ndpa.Scorer
	Scores  ndpa.ScoreService
	Logger  *slog.Logger

	// Sampling is the probability in [0, 1] that a scorer is applied to a run.
	Sampling float64

	// DocumentChecksum identifies the document version the run was served from.
	DocumentChecksum string

	// Rand returns a number in [0, 1). Defaults to math/rand.
	Rand func() float64
}

// Score applies every sampled scorer to run concurrently and stores the
// results. Scorer failures are logged and skipped; storage failures are
// returned. Stored scores are returned in scorer order.
func (r *Runner) Score(ctx context.Context, run *ndpa.Run) ([]*ndpa.Score, error) {
	random := r.Rand
	if random == nil {
		random = rand.Float64
	}

	results := make([]*ndpa.Score, len(r.Scorers))
	var g errgroup.Group
	for i, scorer := range r.Scorers {
		if random() >= r.Sampling {
			continue
		}
		g.Go(func() error {
			score, err := scorer.Score(ctx, run)
			if err != nil {
				r.Logger.Warn("scorer failed", "scorer", scorer.ID(), "run", run.ID, "err", err)
				return nil
			}
			score.RunID = run.ID
			score.ScorerID = scorer.ID()
			score.AgentID = run.AgentID
			score.DocumentChecksum = r.DocumentChecksum
			score.Input = run.InputText()
			score.Output = run.OutputText()
			if err := r.Scores.CreateScore(ctx, score); err != nil {
				return err
			}
			results[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scores := make([]*ndpa.Score, 0, len(results))
	for _, s := range results {
		if s != nil {
			scores = append(scores, s)
		}
	}
	return scores, nil
}

var _ ndpa.Agent = (*Agent)(nil)

// Agent wraps an ndpa.Agent and scores each successful run in the background.
type Agent struct {
	next    ndpa.Agent
	agentID string
	runner  *Runner
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAgent creates a new scoring Agent.
func NewAgent(next ndpa.Agent, agentID string, runner *Runner) *Agent {
	return &Agent{next: next, agentID: agentID, runner: runner, timeout: DefaultScoreTimeout}
}

// Generate delegates to the wrapped agent and schedules scoring of the run.
// Scoring outlives the request context but not the timeout.
func (a *Agent) Generate(ctx context.Context, messages []ndpa.Message) (*ndpa.Response, error) {
	resp, err := a.next.Generate(ctx, messages)
	if err != nil {
		return nil, err
	}

	run := &ndpa.Run{
		ID:      uuid.New().String(),
		AgentID: a.agentID,
		Input:   messages,
		Output:  resp,
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()
		if _, err := a.runner.Score(sctx, run); err != nil {
			a.runner.Logger.Error("scoring failed", "run", run.ID, "err", err)
		}
	}()

	return resp, nil
}

// Wait blocks until all scheduled scoring has finished.
func (a *Agent) Wait() {
	a.wg.Wait()
}
