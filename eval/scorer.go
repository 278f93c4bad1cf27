// Package eval scores agent runs after the fact: whether the agent used the
// section search tool, how completely it addressed the question, and (via
// an LLM judge supplied by the caller) whether the cited section is relevant.
package eval

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/fwojciec/ndpa"
)

// Scorer IDs.
const (
	ToolCallAccuracyID = "ndpa-tool-call-accuracy"
	CompletenessID     = "completeness"
)

var _ ndpa.Scorer = (*ToolCallAccuracy)(nil)

// ToolCallAccuracy scores 1 when the agent called the expected tool.
// In strict mode the expected tool must be the only tool called.
type ToolCallAccuracy struct {
	Expected string
	Strict   bool
}

// ID implements ndpa.Scorer.
func (s *ToolCallAccuracy) ID() string { return ToolCallAccuracyID }

// Score implements ndpa.Scorer.
func (s *ToolCallAccuracy) Score(_ context.Context, run *ndpa.Run) (*ndpa.Score, error) {
	var called []string
	if run.Output != nil {
		for _, tr := range run.Output.ToolResults {
			called = append(called, tr.ToolName)
		}
	}

	var found, others bool
	for _, name := range called {
		if name == s.Expected {
			found = true
		} else {
			others = true
		}
	}

	ok := found && !(s.Strict && (others || len(called) > 1))
	score := &ndpa.Score{}
	if ok {
		score.Value = 1
	}
	score.Reason = fmt.Sprintf("expected tool %q; called %v", s.Expected, called)
	return score, nil
}

var _ ndpa.Scorer = (*Completeness)(nil)

// Completeness scores the share of distinct input terms that also appear in
// the agent's output. Stopwords are ignored.
type Completeness struct{}

// ID implements ndpa.Scorer.
func (Completeness) ID() string { return CompletenessID }

// Score implements ndpa.Scorer.
func (Completeness) Score(_ context.Context, run *ndpa.Run) (*ndpa.Score, error) {
	input := Terms(run.InputText())
	output := Terms(run.OutputText())

	switch {
	case len(input) == 0 && len(output) == 0:
		return &ndpa.Score{Value: 1, Reason: "input and output are both empty"}, nil
	case len(input) == 0 || len(output) == 0:
		return &ndpa.Score{Value: 0, Reason: "input or output is empty"}, nil
	}

	present := make(map[string]bool, len(output))
	for _, t := range output {
		present[t] = true
	}
	var covered int
	for _, t := range input {
		if present[t] {
			covered++
		}
	}
	return &ndpa.Score{
		Value:  float64(covered) / float64(len(input)),
		Reason: fmt.Sprintf("%d of %d input terms covered", covered, len(input)),
	}, nil
}

// Terms returns the distinct lowercase words of s in order of first
// appearance, excluding stopwords.
func Terms(s string) []string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool, len(words))
	var terms []string
	for _, w := range words {
		if stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		terms = append(terms, w)
	}
	return terms
}

var stopwords = map[string]bool{
	"a": true, "about": true, "an": true, "and": true, "are": true, "as": true,
	"at": true, "be": true, "by": true, "can": true, "do": true, "does": true,
	"for": true, "from": true, "how": true, "i": true, "if": true, "in": true,
	"is": true, "it": true, "me": true, "my": true, "of": true, "on": true,
	"or": true, "s": true, "say": true, "says": true, "tell": true, "that": true,
	"the": true, "this": true, "to": true, "under": true, "what": true,
	"when": true, "which": true, "who": true, "with": true, "you": true,
}
