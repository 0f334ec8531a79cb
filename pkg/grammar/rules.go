package grammar

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/coolbeans/regparser/pkg/label"
	"github.com/coolbeans/regparser/pkg/tokens"
)

// rule recognizes one token shape. Patterns are anchored: a rule only
// matches at the scanner's current position.
type rule struct {
	name    string
	pattern *regexp.Regexp
	build   func(submatch) (tokens.Token, error)
}

// submatch gives named access to the groups of one rule match.
type submatch struct {
	text    string
	indices []int
	pattern *regexp.Regexp
}

func (m submatch) group(name string) string {
	index := m.pattern.SubexpIndex(name)
	if index < 0 || m.indices[2*index] < 0 {
		return ""
	}
	return m.text[m.indices[2*index]:m.indices[2*index+1]]
}

func (m submatch) has(name string) bool {
	return m.group(name) != ""
}

func (m submatch) matched() string {
	return m.text[m.indices[0]:m.indices[1]]
}

func anchored(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + pattern + `)`)
}

func newRule(name, pattern string, build func(submatch) (tokens.Token, error)) rule {
	return rule{name: name, pattern: anchored(pattern), build: build}
}

// verbRule matches any of words as a whole word.
func verbRule(name string, kind tokens.VerbKind, active bool, words ...string) rule {
	pattern := `(?i:` + strings.Join(words, "|") + `)\b`
	return newRule(name, pattern, func(submatch) (tokens.Token, error) {
		return tokens.Verb{Kind: kind, Active: active}, nil
	})
}

// listRule matches two or more items joined by conjunctions. The whole list
// is located with a capture-free pattern, then walked item by item so each
// label can be built from its own groups. A "through" conjunction expands
// into the labels strictly between its neighbours.
func listRule(name, marker string, item func(bool) string, toLabel func(submatch) label.Label) rule {
	plainItem := item(false) + optionalIntroText(false)
	plainConjunction := strings.Replace(conjunction, "(?P<through>", "(?:", 1)
	listPattern := marker + plainItem + `(?:` + plainConjunction + plainItem + `)+`

	itemPattern := anchored(item(true) + optionalIntroText(true))
	conjunctionPattern := anchored(conjunction)
	markerPattern := anchored(marker)

	build := func(m submatch) (tokens.Token, error) {
		rest := m.matched()
		if loc := markerPattern.FindStringIndex(rest); loc != nil {
			rest = rest[loc[1]:]
		}

		var paragraphs []tokens.Paragraph
		through := false
		for {
			loc := itemPattern.FindStringSubmatchIndex(rest)
			if loc == nil {
				break
			}
			itemMatch := submatch{text: rest, indices: loc, pattern: itemPattern}
			paragraph := tokens.Paragraph{Label: toLabel(itemMatch)}
			if itemMatch.has("intro") {
				paragraph.Field = tokens.TextField
			}

			if through && len(paragraphs) > 0 {
				previous := paragraphs[len(paragraphs)-1]
				between, err := label.ExpandRange(previous.Label, paragraph.Label)
				if err != nil {
					return nil, err
				}
				for _, betweenLabel := range between {
					paragraphs = append(paragraphs, tokens.Paragraph{Label: betweenLabel})
				}
			}
			paragraphs = append(paragraphs, paragraph)
			rest = rest[loc[1]:]

			conjunctionLoc := conjunctionPattern.FindStringSubmatchIndex(rest)
			if conjunctionLoc == nil {
				break
			}
			conjunctionMatch := submatch{text: rest, indices: conjunctionLoc, pattern: conjunctionPattern}
			through = conjunctionMatch.has("through")
			rest = rest[conjunctionLoc[1]:]
		}

		if len(paragraphs) < 2 {
			return nil, fmt.Errorf("list %q has fewer than two items", m.matched())
		}
		return tokens.TokenList{Paragraphs: paragraphs}, nil
	}
	return newRule(name, listPattern, build)
}

func isCertain(m submatch) bool {
	return m.has("certain")
}

func fieldOf(m submatch) tokens.Field {
	if m.has("intro") {
		return tokens.TextField
	}
	return tokens.WholeParagraph
}

// paragraphMarkers returns the p1..p5 groups that matched.
func paragraphMarkers(m submatch) []string {
	var markers []string
	for _, name := range []string{"p1", "p2", "p3", "p4", "p5"} {
		if marker := m.group(name); marker != "" {
			markers = append(markers, marker)
		}
	}
	return markers
}

// regulationParagraph builds a label from part, section and paragraph
// markers, with an empty division slot.
func regulationParagraph(m submatch) label.Label {
	components := append([]string{m.group("part"), "", m.group("section")}, paragraphMarkers(m)...)
	return label.New(components...)
}

// bareParagraph builds a label that only knows its paragraph markers.
func bareParagraph(m submatch) label.Label {
	components := append([]string{"", "", ""}, paragraphMarkers(m)...)
	return label.New(components...)
}

// commentReference builds an interpretation label for "31(b)(2)": the
// section number and the parenthesized regulation paragraph it interprets.
func commentReference(m submatch) label.Label {
	markers := paragraphMarkers(m)
	reference := ""
	if len(markers) > 0 {
		reference = "(" + strings.Join(markers, ")(") + ")"
	}
	return label.New("", label.Interpretations, m.group("section"), reference)
}

// commentNumber builds an interpretation label for a comment paragraph
// such as "2.xi".
func commentNumber(m submatch) label.Label {
	return label.New("", label.Interpretations, "", "", m.group("level2"), m.group("level3"), m.group("level4"))
}

func appendixParagraph(m submatch) label.Label {
	components := append([]string{"", label.Appendix(m.group("appendix")), m.group("appendix_section")}, paragraphMarkers(m)...)
	return label.New(components...)
}

func contextToken(build func(submatch) label.Label) func(submatch) (tokens.Token, error) {
	return func(m submatch) (tokens.Token, error) {
		return tokens.Context{Label: build(m), Certain: isCertain(m)}, nil
	}
}

func paragraphToken(build func(submatch) label.Label, field tokens.Field) func(submatch) (tokens.Token, error) {
	return func(m submatch) (tokens.Token, error) {
		if field == tokens.WholeParagraph {
			return tokens.Paragraph{Label: build(m), Field: fieldOf(m)}, nil
		}
		return tokens.Paragraph{Label: build(m), Field: field}, nil
	}
}

func emptyLabel(submatch) label.Label {
	return label.Label{}
}

// defaultRules returns the rules in priority order. At each position the
// first rule that matches wins, so longer and more specific shapes come
// before the shapes they contain.
func defaultRules() []rule {
	return []rule{
		verbRule("put_active", tokens.PUT, true, "revising", "revise", "correcting", "correct"),
		verbRule("put_passive", tokens.PUT, false, "revised", "corrected"),
		verbRule("post_active", tokens.POST, true, "adding", "add"),
		verbRule("post_passive", tokens.POST, false, "added"),
		verbRule("delete_active", tokens.DELETE, true, "removing", "remove"),
		verbRule("delete_passive", tokens.DELETE, false, "removed"),
		verbRule("move_active", tokens.MOVE, true, "redesignating", "redesignate"),
		verbRule("move_passive", tokens.MOVE, false, "redesignated"),
		verbRule("designate_active", tokens.DESIGNATE, true, "designating", "designate"),

		newRule("interp",
			certainty+`(?i:supplement\s+I|commentary|comment|official\s+interpretations?)\s+(?:(?i:to)\s+)?(?i:parts?)\s+(?P<part>\d+)\b`,
			contextToken(func(m submatch) label.Label {
				return label.New(m.group("part"), label.Interpretations)
			})),
		newRule("subpart",
			certainty+`(?i:subpart)\s+(?P<subpart>[A-Z]{1,2})\b`,
			contextToken(func(m submatch) label.Label {
				return label.New("", label.Subpart(m.group("subpart")))
			})),
		newRule("appendix",
			certainty+`(?i:appendix)\s+(?P<appendix>[A-Z]{1,2}\d*)\b(?:\s+(?i:to)\s+(?i:parts?)\s+(?P<part>\d+)\b)?`,
			contextToken(func(m submatch) label.Label {
				return label.New(m.group("part"), label.Appendix(m.group("appendix")))
			})),
		newRule("comment_with_section",
			certainty+`(?i:comment|paragraph)\s+`+commentItem(true),
			contextToken(commentReference)),
		newRule("comment_without_section",
			certainty+paragraphMarker+depth2Paragraph(true),
			contextToken(commentReference)),

		newRule("heading_of",
			`(?i:heading)\s+(?i:of)\s+`+sectionMarker+partSection(true),
			paragraphToken(regulationParagraph, tokens.HeadingField)),
		newRule("heading", `(?i:heading)\b`, paragraphToken(emptyLabel, tokens.HeadingField)),
		newRule("intro_text_of",
			introText+`\s+(?i:of)\s+`+paragraphMarker+depth1Paragraph(true),
			paragraphToken(bareParagraph, tokens.TextField)),
		newRule("section_single_par",
			sectionMarker+partSection(true)+depth1Paragraph(true)+optionalIntroText(true),
			paragraphToken(regulationParagraph, tokens.WholeParagraph)),

		listRule("multiple_sections", sectionsMarker, partSection, regulationParagraph),
		listRule("multiple_pars", paragraphsMarker, depth1Paragraph, bareParagraph),
		listRule("multiple_appendices", "", appendixItem, appendixParagraph),
		listRule("multiple_comment_pars", paragraphsMarker, commentParagraph, commentNumber),
		listRule("multiple_comments", commentsMarker, commentItem, commentReference),

		newRule("single_par",
			paragraphMarker+depth1Paragraph(true)+optionalIntroText(true),
			paragraphToken(bareParagraph, tokens.WholeParagraph)),
		newRule("single_comment_par",
			paragraphMarker+commentParagraph(true),
			paragraphToken(commentNumber, tokens.WholeParagraph)),
		newRule("section",
			certainty+sectionMarker+partSection(true),
			contextToken(func(m submatch) label.Label {
				return label.New(m.group("part"), "", m.group("section"))
			})),
		newRule("intro_text", introText+`\b`, paragraphToken(emptyLabel, tokens.TextField)),
	}
}
