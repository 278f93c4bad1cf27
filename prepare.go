package ndpa

import (
	"regexp"
	"strings"
)

// UnknownPartTitle is the title given to sections found before the first
// part heading.
const UnknownPartTitle = "UNKNOWN PART"

var (
	partHeadingRe    = regexp.MustCompile(`PART\s+[IVX]+`)
	partTitleRe      = regexp.MustCompile(`PART\s+[IVX]+[^\n]*`)
	sectionHeadingRe = regexp.MustCompile(`(\d+)\.\s*[–—-]\s*\(?(\d*)\)?`)
)

// ParseActText structures the plain text of the act into parts and sections.
//
// Parts start at each "PART <roman numeral>" heading and are titled by the
// rest of the heading line. Sections start at headings of the form
// "12. — (1)" and run until the next section heading; their content has all
// whitespace collapsed to single spaces. Text before the first part heading
// is kept as UnknownPartTitle only if it contains sections.
func ParseActText(text string) *Document {
	doc := &Document{Parts: []Part{}}
	for _, chunk := range splitParts(text) {
		part := Part{Title: UnknownPartTitle, Sections: parseSections(chunk)}
		if m := partTitleRe.FindString(chunk); m != "" {
			part.Title = strings.TrimSpace(m)
		} else if len(part.Sections) == 0 {
			continue
		}
		doc.Parts = append(doc.Parts, part)
	}
	return doc
}

func splitParts(text string) []string {
	locs := partHeadingRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}
	var chunks []string
	if locs[0][0] > 0 {
		chunks = append(chunks, text[:locs[0][0]])
	}
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		chunks = append(chunks, text[loc[0]:end])
	}
	return chunks
}

func parseSections(chunk string) []Section {
	locs := sectionHeadingRe.FindAllStringSubmatchIndex(chunk, -1)
	sections := make([]Section, 0, len(locs))
	for i, loc := range locs {
		end := len(chunk)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		sections = append(sections, Section{
			Number:  chunk[loc[2]:loc[3]],
			Content: collapseSpace(chunk[loc[1]:end]),
		})
	}
	return sections
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
