package ndpa

import (
	"context"
	"regexp"
	"strings"
)

const (
	// NotApplicable is the part and section number of the no-match result.
	NotApplicable = "N/A"

	// SummaryLimit is the maximum number of characters of section content
	// returned in a summary before the ellipsis.
	SummaryLimit = 500

	// Ellipsis marks a truncated summary.
	Ellipsis = "..."

	// FallbackSummary is the summary of the no-match result.
	FallbackSummary = "No specific section found, but here's what the NDPA generally says about data protection."
)

// Tier identifies how a Result was found.
type Tier string

// Tier constants for Result.
const (
	TierCitation Tier = "citation"
	TierKeyword  Tier = "keyword"
	TierNone     Tier = "none"
)

// Result is the best-matching section for a question.
type Result struct {
	Part          string `json:"part"`
	SectionNumber string `json:"section_number"`
	Summary       string `json:"summary"`

	Tier Tier `json:"-"`
}

// NoMatch returns the sentinel result for questions that match no section.
func NoMatch() Result {
	return Result{
		Part:          NotApplicable,
		SectionNumber: NotApplicable,
		Summary:       FallbackSummary,
		Tier:          TierNone,
	}
}

// Found reports whether r refers to an actual section.
func (r Result) Found() bool {
	return r.Part != NotApplicable || r.SectionNumber != NotApplicable
}

// Finder locates the section of the act that best answers a question.
type Finder interface {
	FindSection(ctx context.Context, question string) (Result, error)
}

var _ Finder = (*Index)(nil)

// FindSection implements Finder. It never returns an error.
func (idx *Index) FindSection(_ context.Context, question string) (Result, error) {
	return idx.Match(question), nil
}

// Match returns the entry of idx that best matches question.
func (idx *Index) Match(question string) Result {
	return Match(question, idx.entries)
}

var (
	partRe    = regexp.MustCompile(`(?i)part\s*([ivx\d]+)`)
	sectionRe = regexp.MustCompile(`(?i)section\s*(\d+)`)
)

// Citation is an explicit part and/or section reference in a question.
// Empty fields mean the reference was not present.
type Citation struct {
	Part    string // uppercased part token, e.g. "II" or "2"
	Section string // section digits, e.g. "5"
}

// Empty reports whether no reference was found.
func (c Citation) Empty() bool {
	return c.Part == "" && c.Section == ""
}

// ParseCitation extracts "part <roman|digits>" and "section <digits>"
// references from question. Only the first occurrence of each is used.
func ParseCitation(question string) Citation {
	var c Citation
	if m := partRe.FindStringSubmatch(question); m != nil {
		c.Part = strings.ToUpper(m[1])
	}
	if m := sectionRe.FindStringSubmatch(question); m != nil {
		c.Section = m[1]
	}
	return c
}

// Summarize truncates content to SummaryLimit characters, appending Ellipsis
// if anything was cut.
func Summarize(content string) string {
	runes := []rune(content)
	if len(runes) <= SummaryLimit {
		return content
	}
	return string(runes[:SummaryLimit]) + Ellipsis
}

// Match returns the entry that best matches question.
//
// An explicit citation ("part ii", "section 5") is tried first; the first
// entry whose part title contains "part <token>" and whose section number
// equals the cited digits wins. Otherwise each entry is scored by how many
// question words occur in its content, and the earliest highest-scoring
// entry wins. Questions matching nothing yield NoMatch.
func Match(question string, entries []Entry) Result {
	query := strings.ToLower(strings.TrimSpace(question))

	if c := ParseCitation(query); !c.Empty() {
		if e, ok := findCited(c, entries); ok {
			return resultFor(e, TierCitation)
		}
	}

	words := strings.Fields(query)
	var best *Entry
	var bestScore int
	for i := range entries {
		content := strings.ToLower(entries[i].Content)
		var score int
		for _, w := range words {
			if strings.Contains(content, w) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = &entries[i]
		}
	}
	if best == nil {
		return NoMatch()
	}
	return resultFor(*best, TierKeyword)
}

func findCited(c Citation, entries []Entry) (Entry, bool) {
	partNeedle := "part " + strings.ToLower(c.Part)
	for _, e := range entries {
		if c.Part != "" && !strings.Contains(strings.ToLower(e.Part), partNeedle) {
			continue
		}
		if c.Section != "" && e.SectionNumber != c.Section {
			continue
		}
		return e, true
	}
	return Entry{}, false
}

func resultFor(e Entry, tier Tier) Result {
	return Result{
		Part:          e.Part,
		SectionNumber: e.SectionNumber,
		Summary:       Summarize(e.Content),
		Tier:          tier,
	}
}
