package ndpa

import (
	"bytes"
	"encoding/json"
	"io"
	"slices"
)

// Document is the structured text of the act: an ordered list of parts.
// A Document is immutable once decoded.
type Document struct {
	Parts []Part
}

// Part is a titled division of the act. The title carries the part label
// (e.g. "PART II — ...") as it appears in the source text.
type Part struct {
	Title    string    `json:"part"`
	Sections []Section `json:"sections"`
}

// Section is the unit of retrieval.
type Section struct {
	Number  string `json:"section_number"`
	Content string `json:"content"`
}

// Entry is the flattened, query-time view of a section.
type Entry struct {
	Part          string `json:"part"`
	SectionNumber string `json:"section_number"`
	Content       string `json:"content"`
}

// SectionCount returns the total number of sections across all parts.
func (d *Document) SectionCount() int {
	var n int
	for _, p := range d.Parts {
		n += len(p.Sections)
	}
	return n
}

// Flatten returns one Entry per section in document order.
func (d *Document) Flatten() []Entry {
	entries := make([]Entry, 0, d.SectionCount())
	for _, p := range d.Parts {
		for _, s := range p.Sections {
			entries = append(entries, Entry{
				Part:          p.Title,
				SectionNumber: s.Number,
				Content:       s.Content,
			})
		}
	}
	return entries
}

// DecodeDocument parses the structured JSON form of the act:
//
//	[{"part": "...", "sections": [{"section_number": "...", "content": "..."}]}]
//
// Returns EINVALID if the input is not a single JSON array of parts or any
// part or section is missing a required field.
func DecodeDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Errorf(EINVALID, "failed to read document: %v", err)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, Errorf(EINVALID, "invalid document JSON: %v", err)
	}

	var elems []json.RawMessage
	if !hasPrefix(raw, '[') || json.Unmarshal(raw, &elems) != nil {
		return nil, Errorf(EINVALID, "document must be a JSON array of parts")
	}

	doc := &Document{Parts: make([]Part, 0, len(elems))}
	for i, elem := range elems {
		part, err := decodePart(elem)
		if err != nil {
			return nil, Errorf(EINVALID, "part %d: %s", i, ErrorMessage(err))
		}
		doc.Parts = append(doc.Parts, part)
	}
	return doc, nil
}

func decodePart(raw json.RawMessage) (Part, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return Part{}, err
	}

	title, err := stringField(fields, "part")
	if err != nil {
		return Part{}, err
	}

	rawSections, ok := fields["sections"]
	if !ok {
		return Part{}, Errorf(EINVALID, `missing "sections"`)
	}
	var elems []json.RawMessage
	if !hasPrefix(rawSections, '[') || json.Unmarshal(rawSections, &elems) != nil {
		return Part{}, Errorf(EINVALID, `"sections" must be an array`)
	}

	part := Part{Title: title, Sections: make([]Section, 0, len(elems))}
	for j, elem := range elems {
		fields, err := decodeObject(elem)
		if err != nil {
			return Part{}, Errorf(EINVALID, "section %d: %s", j, ErrorMessage(err))
		}
		number, err := stringField(fields, "section_number")
		if err != nil {
			return Part{}, Errorf(EINVALID, "section %d: %s", j, ErrorMessage(err))
		}
		content, err := stringField(fields, "content")
		if err != nil {
			return Part{}, Errorf(EINVALID, "section %d: %s", j, ErrorMessage(err))
		}
		part.Sections = append(part.Sections, Section{Number: number, Content: content})
	}
	return part, nil
}

func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if !hasPrefix(raw, '{') || json.Unmarshal(raw, &fields) != nil {
		return nil, Errorf(EINVALID, "must be an object")
	}
	return fields, nil
}

func stringField(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", Errorf(EINVALID, "missing %q", key)
	}
	var s string
	if !hasPrefix(raw, '"') || json.Unmarshal(raw, &s) != nil {
		return "", Errorf(EINVALID, "%q must be a string", key)
	}
	return s, nil
}

func hasPrefix(raw json.RawMessage, c byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == c
}

// EncodeDocument writes doc in the structured JSON form read by DecodeDocument.
func EncodeDocument(w io.Writer, doc *Document) error {
	parts := make([]Part, 0, len(doc.Parts))
	for _, p := range doc.Parts {
		if p.Sections == nil {
			p.Sections = []Section{}
		}
		parts = append(parts, p)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(parts)
}

// Index is the flattened, read-only view of a Document used for matching.
// It is safe for concurrent use.
type Index struct {
	entries []Entry
}

// NewIndex flattens doc into an Index.
func NewIndex(doc *Document) *Index {
	return &Index{entries: doc.Flatten()}
}

// Entries returns a copy of the index entries in document order.
func (idx *Index) Entries() []Entry {
	return slices.Clone(idx.entries)
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	return len(idx.entries)
}
