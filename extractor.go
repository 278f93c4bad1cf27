package ndpa

// TextExtractor converts an HTML rendition of the act into plain text
// suitable for ParseActText.
type TextExtractor interface {
	// ExtractText returns the visible text of html. Block-level elements
	// start on their own line so PART and section headings survive.
	ExtractText(html string) (string, error)
}
