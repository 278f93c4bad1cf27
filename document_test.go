package ndpa_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fwojciec/ndpa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `[
  {
    "part": "PART I — OBJECTIVE, SCOPE AND APPLICATION",
    "sections": [
      {"section_number": "1", "content": "The objective of this Act is to safeguard the fundamental rights of data subjects."},
      {"section_number": "2", "content": "This Act applies to the processing of personal data."}
    ]
  },
  {
    "part": "PART II — ESTABLISHMENT OF THE COMMISSION",
    "sections": [
      {"section_number": "4", "content": "There is established the Nigeria Data Protection Commission."}
    ]
  }
]`

func TestDecodeDocument(t *testing.T) {
	t.Parallel()

	t.Run("decodes parts and sections in order", func(t *testing.T) {
		t.Parallel()

		doc, err := ndpa.DecodeDocument(strings.NewReader(sampleDocument))

		require.NoError(t, err)
		require.Len(t, doc.Parts, 2)
		assert.Equal(t, "PART I — OBJECTIVE, SCOPE AND APPLICATION", doc.Parts[0].Title)
		require.Len(t, doc.Parts[0].Sections, 2)
		assert.Equal(t, "1", doc.Parts[0].Sections[0].Number)
		assert.Equal(t, "2", doc.Parts[0].Sections[1].Number)
		assert.Equal(t, "There is established the Nigeria Data Protection Commission.", doc.Parts[1].Sections[0].Content)
		assert.Equal(t, 3, doc.SectionCount())
	})

	t.Run("accepts surrounding whitespace", func(t *testing.T) {
		t.Parallel()

		doc, err := ndpa.DecodeDocument(strings.NewReader("\n  [{\"part\": \"P\", \"sections\": []}]\n"))

		require.NoError(t, err)
		require.Len(t, doc.Parts, 1)
	})

	t.Run("accepts empty array", func(t *testing.T) {
		t.Parallel()

		doc, err := ndpa.DecodeDocument(strings.NewReader(`[]`))

		require.NoError(t, err)
		assert.Empty(t, doc.Parts)
	})

	tests := []struct {
		name    string
		input   string
		message string
	}{
		{name: "invalid JSON", input: `[{`, message: "invalid document JSON"},
		{name: "empty input", input: ``, message: "invalid document JSON"},
		{name: "trailing text", input: `[] trailing`, message: "invalid document JSON"},
		{name: "trailing object", input: `[]{"part":"x"}`, message: "invalid document JSON"},
		{name: "trailing bracket", input: `[{"part": "P", "sections": []}] ]`, message: "invalid document JSON"},
		{name: "object instead of array", input: `{"part": "PART I", "sections": []}`, message: "must be a JSON array"},
		{name: "null", input: `null`, message: "must be a JSON array"},
		{name: "string", input: `"PART I"`, message: "must be a JSON array"},
		{name: "part is not an object", input: `["PART I"]`, message: "part 0: must be an object"},
		{name: "missing part", input: `[{"sections": []}]`, message: `part 0: missing "part"`},
		{name: "missing sections", input: `[{"part": "PART I"}]`, message: `part 0: missing "sections"`},
		{name: "sections not array", input: `[{"part": "PART I", "sections": {}}]`, message: `"sections" must be an array`},
		{name: "part not string", input: `[{"part": 1, "sections": []}]`, message: `"part" must be a string`},
		{name: "missing section number", input: `[{"part": "PART I", "sections": [{"content": "x"}]}]`, message: `section 0: missing "section_number"`},
		{name: "missing content", input: `[{"part": "PART I", "sections": [{"section_number": "1"}]}]`, message: `section 0: missing "content"`},
		{name: "numeric section number", input: `[{"part": "PART I", "sections": [{"section_number": 1, "content": "x"}]}]`, message: `"section_number" must be a string`},
		{name: "null content", input: `[{"part": "PART I", "sections": [{"section_number": "1", "content": null}]}]`, message: `"content" must be a string`},
		{name: "second part invalid", input: `[{"part": "PART I", "sections": []}, {"part": "PART II"}]`, message: "part 1:"},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := ndpa.DecodeDocument(strings.NewReader(tt.input))

			require.Error(t, err)
			assert.Nil(t, doc)
			assert.Equal(t, ndpa.EINVALID, ndpa.ErrorCode(err))
			assert.Contains(t, ndpa.ErrorMessage(err), tt.message)
		})
	}
}

func TestDocument_Flatten(t *testing.T) {
	t.Parallel()

	t.Run("produces one entry per section in document order", func(t *testing.T) {
		t.Parallel()

		doc, err := ndpa.DecodeDocument(strings.NewReader(sampleDocument))
		require.NoError(t, err)

		entries := doc.Flatten()

		require.Len(t, entries, doc.SectionCount())
		assert.Equal(t, ndpa.Entry{
			Part:          "PART I — OBJECTIVE, SCOPE AND APPLICATION",
			SectionNumber: "1",
			Content:       "The objective of this Act is to safeguard the fundamental rights of data subjects.",
		}, entries[0])
		assert.Equal(t, "2", entries[1].SectionNumber)
		assert.Equal(t, "PART II — ESTABLISHMENT OF THE COMMISSION", entries[2].Part)
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		doc, err := ndpa.DecodeDocument(strings.NewReader(sampleDocument))
		require.NoError(t, err)

		assert.Equal(t, doc.Flatten(), doc.Flatten())
	})

	t.Run("empty document yields no entries", func(t *testing.T) {
		t.Parallel()

		doc := &ndpa.Document{}

		assert.Empty(t, doc.Flatten())
	})
}

func TestEncodeDocument(t *testing.T) {
	t.Parallel()

	t.Run("round trips through DecodeDocument", func(t *testing.T) {
		t.Parallel()

		doc, err := ndpa.DecodeDocument(strings.NewReader(sampleDocument))
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, ndpa.EncodeDocument(&buf, doc))
		decoded, err := ndpa.DecodeDocument(&buf)

		require.NoError(t, err)
		assert.Equal(t, doc, decoded)
	})

	t.Run("writes empty sections as array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := ndpa.EncodeDocument(&buf, &ndpa.Document{Parts: []ndpa.Part{{Title: "PART I"}}})

		require.NoError(t, err)
		assert.Contains(t, buf.String(), `"sections": []`)
	})
}

func TestIndex(t *testing.T) {
	t.Parallel()

	t.Run("exposes flattened entries", func(t *testing.T) {
		t.Parallel()

		doc, err := ndpa.DecodeDocument(strings.NewReader(sampleDocument))
		require.NoError(t, err)

		idx := ndpa.NewIndex(doc)

		assert.Equal(t, 3, idx.Len())
		assert.Equal(t, doc.Flatten(), idx.Entries())
	})

	t.Run("entries cannot be modified by callers", func(t *testing.T) {
		t.Parallel()

		doc, err := ndpa.DecodeDocument(strings.NewReader(sampleDocument))
		require.NoError(t, err)
		idx := ndpa.NewIndex(doc)

		entries := idx.Entries()
		entries[0].Content = "changed"

		assert.NotEqual(t, "changed", idx.Entries()[0].Content)
	})
}
