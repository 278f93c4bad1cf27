package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/ndpa"
)

// Run executes the find command. The result is printed as JSON in the
// same shape the search tool returns to the agent.
func (c *FindCmd) Run(deps *Dependencies) error {
	result, err := deps.Finder.FindSection(deps.Ctx, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ndpa.ErrorMessage(err))
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}
