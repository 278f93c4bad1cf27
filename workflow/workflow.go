// Package workflow runs the two-step question pipeline: find the relevant
// section of the act, then explain it.
package workflow

import (
	"context"
	"fmt"

	"github.com/fwojciec/ndpa"
)

// Step identifiers.
const (
	SearchStepID  = "search-ndpa-step"
	ExplainStepID = "explain-ndpa-step"
)

// ID identifies the pipeline.
const ID = "ndpa-workflow"

// Output is the result of a pipeline run.
type Output struct {
	Result      ndpa.Result `json:"result"`
	Explanation string      `json:"explanation"`
}

// Pipeline finds the section answering a question and explains it.
type Pipeline struct {
	Finder    ndpa.Finder
	Explainer ndpa.Explainer
}

// Run executes both steps. The search step's result is passed unchanged to
// the explain step. Errors are wrapped with the failing step's ID.
func (p *Pipeline) Run(ctx context.Context, question string) (*Output, error) {
	result, err := p.Finder.FindSection(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", SearchStepID, err)
	}

	explanation, err := p.Explainer.Explain(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ExplainStepID, err)
	}

	return &Output{Result: result, Explanation: explanation}, nil
}
