package ndpa

import (
	"context"
	"time"
)

// Run is one agent invocation observed by scorers.
type Run struct {
	ID      string
	AgentID string
	Input   []Message
	Output  *Response
}

// InputText returns the content of the first input message.
func (r *Run) InputText() string {
	if len(r.Input) == 0 {
		return ""
	}
	return r.Input[0].Content
}

// OutputText returns the agent's reply text.
func (r *Run) OutputText() string {
	if r.Output == nil {
		return ""
	}
	return r.Output.Text
}

// Score is the evaluation of a Run by a single Scorer.
type Score struct {
	ID               string    `json:"id"`
	RunID            string    `json:"runId"`
	ScorerID         string    `json:"scorerId"`
	AgentID          string    `json:"agentId"`
	DocumentChecksum string    `json:"documentChecksum"`
	Input            string    `json:"input"`
	Output           string    `json:"output"`
	Value            float64   `json:"value"`
	Reason           string    `json:"reason"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Validate returns an error if the score contains invalid fields.
func (s *Score) Validate() error {
	if s.RunID == "" {
		return Errorf(EINVALID, "score run ID required")
	}
	if s.ScorerID == "" {
		return Errorf(EINVALID, "score scorer ID required")
	}
	if s.Value < 0 || s.Value > 1 {
		return Errorf(EINVALID, "score value must be between 0 and 1, got %v", s.Value)
	}
	return nil
}

// Scorer evaluates agent runs.
type Scorer interface {
	// ID returns a stable identifier for the scorer.
	ID() string

	// Score evaluates run. Only Value and Reason need to be set.
	Score(ctx context.Context, run *Run) (*Score, error)
}

// ScoreService represents a service for storing scores.
type ScoreService interface {
	// CreateScore stores a new score.
	CreateScore(ctx context.Context, score *Score) error

	// FindScores retrieves scores matching the filter, newest first.
	FindScores(ctx context.Context, filter ScoreFilter) ([]*Score, error)
}

// ScoreFilter represents a filter for FindScores.
type ScoreFilter struct {
	ScorerID *string `json:"scorerId"`
	RunID    *string `json:"runId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
