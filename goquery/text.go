// Package goquery converts HTML renditions of the act into plain text.
package goquery

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ndpa"
	"golang.org/x/net/html"
)

// Ensure TextExtractor implements ndpa.TextExtractor at compile time.
var _ ndpa.TextExtractor = (*TextExtractor)(nil)

// DefaultContentSelectors are tried in order to find the element holding
// the act. The first selector that matches is used.
var DefaultContentSelectors = []string{"main", "article", "#content", ".content", "body"}

// removedSelector matches elements whose text is never part of the act.
const removedSelector = "head, script, style, noscript, template, iframe, svg, nav, header, footer"

// blockElements start and end on their own line.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "fieldset": true,
	"figcaption": true, "figure": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "hr": true, "li": true,
	"main": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "tbody": true, "td": true, "tfoot": true, "th": true,
	"thead": true, "tr": true, "ul": true,
}

// TextExtractor extracts the visible text of an HTML page.
type TextExtractor struct {
	selectors []string
}

// Option configures a TextExtractor.
type Option func(*TextExtractor)

// WithContentSelectors overrides DefaultContentSelectors.
func WithContentSelectors(selectors ...string) Option {
	return func(e *TextExtractor) {
		e.selectors = selectors
	}
}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor(opts ...Option) *TextExtractor {
	e := &TextExtractor{selectors: DefaultContentSelectors}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractText returns the text of the first matching content element with
// one line per block element. Blank lines are dropped and runs of spaces
// are collapsed.
func (e *TextExtractor) ExtractText(source string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return "", ndpa.Errorf(ndpa.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find(removedSelector).Remove()

	root := doc.Selection
	for _, selector := range e.selectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			root = sel
			break
		}
	}

	var b strings.Builder
	for _, n := range root.Nodes {
		writeNode(&b, n, false)
	}
	return normalizeLines(b.String()), nil
}

// writeNode writes the text under n. Outside <pre>, whitespace inside text
// is collapsed so that only block boundaries and <br> break lines.
func writeNode(b *strings.Builder, n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		if pre {
			b.WriteString(n.Data)
		} else {
			b.WriteString(collapseSpace(n.Data))
		}
		return
	case html.ElementNode:
		if n.Data == "br" {
			b.WriteByte('\n')
			return
		}
	case html.CommentNode:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteByte('\n')
	}
	pre = pre || (n.Type == html.ElementNode && n.Data == "pre")
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(b, c, pre)
	}
	if block {
		b.WriteByte('\n')
	}
}

// collapseSpace replaces each run of whitespace with a single space,
// keeping a leading or trailing space so adjacent inline text stays apart.
func collapseSpace(text string) string {
	var b strings.Builder
	space := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	if space {
		b.WriteByte(' ')
	}
	return b.String()
}

func normalizeLines(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
