package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/ndpa"
	"github.com/fwojciec/ndpa/fs"
)

// Run executes the prepare command.
func (c *PrepareCmd) Run(deps *Dependencies) error {
	if (c.Source == "") == (c.URL == "") {
		fmt.Fprintln(deps.Stderr, "usage: ndpa prepare <file> | --url <url>")
		return ndpa.Errorf(ndpa.EINVALID, "exactly one of a source file or --url is required")
	}

	raw, isHTML, err := c.read(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ndpa.ErrorMessage(err))
		return err
	}

	text := raw
	if isHTML {
		if text, err = deps.Extractor.ExtractText(raw); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", ndpa.ErrorMessage(err))
			return err
		}
	}

	doc := ndpa.ParseActText(text)
	if doc.SectionCount() == 0 {
		err := ndpa.Errorf(ndpa.EINVALID, "no sections found in source")
		fmt.Fprintf(deps.Stderr, "error: %s\n", ndpa.ErrorMessage(err))
		return err
	}

	output := c.Output
	if output == "" {
		output = deps.DocumentPath
	}
	if err := fs.WriteDocument(output, doc); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	fmt.Fprintf(deps.Stdout, "Wrote %d parts, %d sections to %s\n", len(doc.Parts), doc.SectionCount(), output)
	return nil
}

// read returns the source contents and whether they are HTML.
func (c *PrepareCmd) read(deps *Dependencies) (string, bool, error) {
	if c.URL != "" {
		body, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
		if err != nil {
			return "", false, err
		}
		return body, looksLikeHTML(body), nil
	}

	data, err := os.ReadFile(c.Source)
	if err != nil {
		return "", false, err
	}
	switch strings.ToLower(filepath.Ext(c.Source)) {
	case ".html", ".htm":
		return string(data), true, nil
	default:
		return string(data), false, nil
	}
}

func looksLikeHTML(body string) bool {
	head := strings.ToLower(strings.TrimSpace(body))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype html") || strings.Contains(head, "<html") || strings.Contains(head, "<body")
}
