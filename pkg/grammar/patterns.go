package grammar

// Regular expression fragments shared by the rules. Fragments that carry
// named groups take a capture flag: list rules embed items without captures
// in the pattern that finds the whole list, then re-match each item with
// captures to build its label.

func group(name, pattern string, capture bool) string {
	if capture {
		return "(?P<" + name + ">" + pattern + ")"
	}
	return "(?:" + pattern + ")"
}

const (
	// certainty is the optional "in"/"under" marker before a context.
	certainty = `(?:(?P<certain>(?i:in|under(?:\s+subheading)?))\s+)?`

	sectionMarker = `(?:§|(?i:section))\s*`

	sectionsMarker = `(?:§§|(?i:sections))\s*`

	paragraphMarker = `(?i:paragraph)\s+`

	paragraphsMarker = `(?i:paragraphs)\s+`

	commentsMarker = `(?i:comments)\s+`

	introText = `(?i:introductory\s+text)`

	// conjunction separates list items. The through group marks a range.
	conjunction = `(?:\s*,\s*(?:(?i:and|or)\s+)?|\s+(?:(?P<through>(?i:through))|(?i:and|or))\s+)`
)

// partSection matches "1005.36".
func partSection(capture bool) string {
	return group("part", `\d+`, capture) + `\.` + group("section", `\d+`, capture)
}

// depth1Paragraph matches paragraph markers starting at the first level:
// (a), (a)(2), (a)(2)(iii), (a)(2)(iii)(B), (a)(2)(iii)(B)(4).
func depth1Paragraph(capture bool) string {
	return `\(` + group("p1", `[a-z]{1,2}`, capture) + `\)` + depth2Optional(capture)
}

// depth2Paragraph matches paragraph markers starting at the second level:
// (2), (2)(iii), ...
func depth2Paragraph(capture bool) string {
	return `\(` + group("p2", `\d{1,2}`, capture) + `\)` + depth3Optional(capture)
}

func depth2Optional(capture bool) string {
	return `(?:` + depth2Paragraph(capture) + `)?`
}

func depth3Optional(capture bool) string {
	return `(?:\(` + group("p3", `[ivxlcdm]+`, capture) + `\)` +
		`(?:\(` + group("p4", `[A-Z]{1,2}`, capture) + `\)` +
		`(?:\(` + group("p5", `\d{1,2}`, capture) + `\))?)?)?`
}

// commentParagraph matches interpretation comment numbers: 4, 2.xi, 2.xi.B
func commentParagraph(capture bool) string {
	return group("level2", `\d+`, capture) +
		`(?:\.` + group("level3", `[ivxlcdm]+`, capture) +
		`(?:\.` + group("level4", `[A-Z]+`, capture) + `)?)?`
}

// appendixItem matches "A-30" and "A-30(a)".
func appendixItem(capture bool) string {
	return group("appendix", `[A-Z]`, capture) + `-` + group("appendix_section", `\d+`, capture) +
		`(?:` + depth1Paragraph(capture) + `)?`
}

// commentItem matches "31(b)" and "31(b)(2)".
func commentItem(capture bool) string {
	return group("section", `\d+`, capture) + depth1Paragraph(capture)
}

// optionalIntroText matches a trailing "introductory text" qualifier.
func optionalIntroText(capture bool) string {
	return `(?:\s+` + group("intro", introText, capture) + `)?`
}
