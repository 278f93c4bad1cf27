package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/ndpa"
	"github.com/fwojciec/ndpa/workflow"
)

// Run executes the explain command.
func (c *ExplainCmd) Run(deps *Dependencies) error {
	pipeline := &workflow.Pipeline{Finder: deps.Finder, Explainer: deps.Explainer}

	out, err := pipeline.Run(deps.Ctx, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ndpa.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(out)
	}

	if out.Result.Found() {
		fmt.Fprintf(deps.Stdout, "%s, Section %s\n\n", out.Result.Part, out.Result.SectionNumber)
	}
	fmt.Fprintln(deps.Stdout, out.Explanation)
	return nil
}
