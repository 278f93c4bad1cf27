package mock

import "github.com/fwojciec/ndpa"

var _ ndpa.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of ndpa.TextExtractor.
type TextExtractor struct {
	ExtractTextFn func(html string) (string, error)
}

func (e *TextExtractor) ExtractText(html string) (string, error) {
	return e.ExtractTextFn(html)
}
