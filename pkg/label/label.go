// Package label models addresses into a regulation: part, an optional
// subpart/appendix/interpretations division, section, and up to five levels
// of paragraph markers. Labels are positional; an empty component means the
// value is unknown and should be inherited from the surrounding context.
package label

import (
	"strings"
)

// Component positions within a Label.
const (
	PartIndex      = 0
	DivisionIndex  = 1
	SectionIndex   = 2
	ParagraphIndex = 3

	// MaxDepth is the number of addressable components: part, division,
	// section and five paragraph levels.
	MaxDepth = 8
)

// Interpretations is the division value marking the official interpretations
// (Supplement I) namespace.
const Interpretations = "Interpretations"

// Division prefixes for subparts and appendices, e.g. "Subpart:B".
const (
	SubpartPrefix  = "Subpart:"
	AppendixPrefix = "Appendix:"
)

// Label is an ordered list of address components. Labels built through New
// or Compress never end with an empty component, so Len reports the depth
// of the deepest known component.
type Label []string

// New builds a canonical label, trimming trailing empty components.
func New(components ...string) Label {
	label := make(Label, len(components))
	copy(label, components)
	return label.trim()
}

// Subpart returns the division value for the given subpart letter.
func Subpart(letter string) string {
	return SubpartPrefix + letter
}

// Appendix returns the division value for the given appendix letter.
func Appendix(letter string) string {
	return AppendixPrefix + letter
}

func (l Label) trim() Label {
	end := len(l)
	for end > 0 && l[end-1] == "" {
		end--
	}
	return l[:end]
}

// Len returns the number of components, including interior empty ones.
func (l Label) Len() int {
	return len(l)
}

// Get returns the component at index i, or "" when i is out of range.
func (l Label) Get(i int) string {
	if i < 0 || i >= len(l) {
		return ""
	}
	return l[i]
}

// Part returns the CFR part number.
func (l Label) Part() string { return l.Get(PartIndex) }

// Division returns the subpart, appendix or interpretations marker.
func (l Label) Division() string { return l.Get(DivisionIndex) }

// Section returns the section number.
func (l Label) Section() string { return l.Get(SectionIndex) }

// Paragraphs returns the paragraph components (p1..p5), possibly empty.
func (l Label) Paragraphs() []string {
	if len(l) <= ParagraphIndex {
		return nil
	}
	return l[ParagraphIndex:]
}

// IsInterpretation reports whether the label sits in the interpretations
// namespace.
func (l Label) IsInterpretation() bool {
	return l.Division() == Interpretations
}

// IsAppendix reports whether the label addresses an appendix.
func (l Label) IsAppendix() bool {
	return strings.HasPrefix(l.Division(), AppendixPrefix)
}

// IsSubpart reports whether the label carries a subpart division.
func (l Label) IsSubpart() bool {
	return strings.HasPrefix(l.Division(), SubpartPrefix)
}

// Clone returns a copy that shares no storage with l.
func (l Label) Clone() Label {
	if l == nil {
		return nil
	}
	cloned := make(Label, len(l))
	copy(cloned, l)
	return cloned
}

// Equal compares two labels component by component. Trailing empty
// components are ignored, so a nil label equals an empty one.
func (l Label) Equal(other Label) bool {
	left, right := l.trim(), other.trim()
	if len(left) != len(right) {
		return false
	}
	for i := range left {
		if left[i] != right[i] {
			return false
		}
	}
	return true
}

// Compress merges rhs into lhs. When rhs is empty the result equals lhs.
// Otherwise the result has rhs's length: each set component of rhs wins and
// unset components fall back to lhs. Components of lhs deeper than rhs are
// dropped, since a new, shallower address invalidates them.
func Compress(lhs, rhs Label) Label {
	if len(rhs) == 0 {
		return lhs.Clone()
	}

	merged := make(Label, len(rhs))
	for i := range rhs {
		if rhs[i] != "" {
			merged[i] = rhs[i]
		} else {
			merged[i] = lhs.Get(i)
		}
	}
	return merged.trim()
}

// Text renders the label in its canonical external form:
//
//	1005.36(a)(2)        regulation text
//	(c)(2)(iii)          paragraph with no known section
//	1005-Subpart:B       subpart
//	1234-A-15(a)         appendix
//	6363.36(a)-Interp-4  interpretation comment paragraph
func (l Label) Text() string {
	switch {
	case l.IsInterpretation():
		return l.interpretationText()
	case l.IsAppendix():
		return l.appendixText()
	case l.IsSubpart() && l.Section() == "" && len(l.Paragraphs()) == 0:
		return joinNonEmpty("-", l.Part(), l.Division())
	default:
		return joinNonEmpty(".", l.Part(), l.Section()) + parenthesize(l.Paragraphs())
	}
}

// String implements fmt.Stringer with a positional debug form such as
// [1005 _ 36 a].
func (l Label) String() string {
	rendered := make([]string, len(l))
	for i, component := range l {
		if component == "" {
			component = "_"
		}
		rendered[i] = component
	}
	return "[" + strings.Join(rendered, " ") + "]"
}

func (l Label) appendixText() string {
	letter := strings.TrimPrefix(l.Division(), AppendixPrefix)
	return joinNonEmpty("-", l.Part(), letter, l.Section()) + parenthesize(l.Paragraphs())
}

// interpretationText renders interpretation labels. The first paragraph slot
// holds the already parenthesized regulation paragraph being interpreted
// (e.g. "(b)(2)"); deeper slots hold comment paragraph numbers.
func (l Label) interpretationText() string {
	section := l.Section()
	if strings.HasPrefix(section, AppendixPrefix) {
		section = strings.TrimPrefix(section, AppendixPrefix)
	}

	var builder strings.Builder
	if section == "" {
		builder.WriteString(l.Part())
	} else {
		builder.WriteString(joinNonEmpty(".", l.Part(), section))
	}
	builder.WriteString(l.Get(ParagraphIndex))
	if builder.Len() > 0 {
		builder.WriteString("-")
	}
	builder.WriteString("Interp")

	if paragraphs := l.Paragraphs(); len(paragraphs) > 1 {
		if comment := joinNonEmpty(".", paragraphs[1:]...); comment != "" {
			builder.WriteString("-" + comment)
		}
	}
	return builder.String()
}

func parenthesize(components []string) string {
	var builder strings.Builder
	for _, component := range components {
		if component == "" {
			continue
		}
		builder.WriteString("(" + component + ")")
	}
	return builder.String()
}

func joinNonEmpty(separator string, components ...string) string {
	kept := make([]string, 0, len(components))
	for _, component := range components {
		if component != "" {
			kept = append(kept, component)
		}
	}
	return strings.Join(kept, separator)
}
