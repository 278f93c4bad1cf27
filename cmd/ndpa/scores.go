package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fwojciec/ndpa"
)

// Run executes the scores command.
func (c *ScoresCmd) Run(deps *Dependencies) error {
	filter := ndpa.ScoreFilter{Limit: c.Limit, Offset: c.Offset}
	if c.Scorer != "" {
		filter.ScorerID = &c.Scorer
	}
	if c.RunID != "" {
		filter.RunID = &c.RunID
	}

	scores, err := deps.Scores.FindScores(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ndpa.ErrorMessage(err))
		return err
	}

	if len(scores) == 0 {
		fmt.Fprintln(deps.Stdout, "No scores found. Scores are recorded by 'ndpa ask' and 'ndpa serve'.")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tSCORER\tVALUE\tRUN\tREASON")
	for _, s := range scores {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n",
			s.CreatedAt.Local().Format(time.DateTime), s.ScorerID, s.Value, s.RunID, truncate(s.Reason, 80))
	}
	return w.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
