package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/ndpa"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	resp, err := deps.Agent.Generate(deps.Ctx, []ndpa.Message{{Role: ndpa.RoleUser, Content: c.Question}})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ndpa.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, resp.Text)

	if c.Tools {
		for _, tr := range resp.ToolResults {
			args, err := json.Marshal(tr.Args)
			if err != nil {
				return err
			}
			fmt.Fprintf(deps.Stdout, "\n[%s] %s\n", tr.ToolName, args)
		}
	}
	return nil
}
