package regtext

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/coolbeans/regparser/pkg/label"
)

// ErrNotRegText is returned for SECTION elements whose number does not
// belong to the regulation part, such as appendix material mixed into the
// regulation text.
var ErrNotRegText = errors.New("section is not regulation text")

// Node is one addressable unit of a regulation: a part, a section or a
// paragraph.
type Node struct {
	Label    label.Label `json:"label"`
	Title    string      `json:"title,omitempty"`
	Text     string      `json:"text"`
	Children []*Node     `json:"children,omitempty"`
}

// LabelText renders the node's label, e.g. 1005.36(a)(2).
func (n *Node) LabelText() string {
	return n.Label.Text()
}

// Walk visits n and its descendants depth first.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// Find returns the descendant (or n itself) with the given label, or nil.
func (n *Node) Find(target label.Label) *Node {
	var found *Node
	n.Walk(func(node *Node) {
		if found == nil && node.Label.Equal(target) {
			found = node
		}
	})
	return found
}

// leadingMarkers matches the run of paragraph markers that opens a
// paragraph: "(a)", "(a)(1)", "(b)(2)(iii)".
var leadingMarkers = regexp.MustCompile(`^\s*((?:\([a-zA-Z0-9]{1,5}\)\s*)+)`)

var singleMarker = regexp.MustCompile(`\(([a-zA-Z0-9]{1,5})\)`)

// editorialMarks matches bracketed editorial notes and the insertion
// arrows Federal Register notices wrap around changed text.
var editorialMarks = regexp.MustCompile(`\[[^\]]*\]|[▸◂]`)

// SectionOption configures BuildSection.
type SectionOption func(*sectionBuilder)

// WithoutEditorialMarks removes bracketed editorial notes and insertion
// arrows from paragraph text, as found in amended sections of notices.
func WithoutEditorialMarks() SectionOption {
	return func(builder *sectionBuilder) {
		builder.stripEditorialMarks = true
	}
}

type sectionBuilder struct {
	stripEditorialMarks bool
}

func (b *sectionBuilder) clean(text string) string {
	if b.stripEditorialMarks {
		text = editorialMarks.ReplaceAllString(text, "")
	}
	return strings.Join(strings.Fields(text), " ")
}

// paragraphPiece is a paragraph of text that begins with one marker.
type paragraphPiece struct {
	marker string
	text   string
}

// stackEntry pairs a node with its paragraph depth.
type stackEntry struct {
	level int
	node  *Node
}

// BuildSection builds the tree of one SECTION element of the given part.
// P elements opening with paragraph markers become nested paragraph nodes;
// P elements without markers contribute to the section's own text.
func BuildSection(part string, section *Element, options ...SectionOption) (*Node, error) {
	builder := &sectionBuilder{}
	for _, option := range options {
		option(builder)
	}

	sectionNumber := ""
	sectionTitle := ""
	if sectno := section.Child("SECTNO"); sectno != nil {
		sectionTitle = sectno.Text()
	}
	if subject := section.Child("SUBJECT"); subject != nil && subject.Text() != "" {
		sectionTitle = strings.TrimSpace(sectionTitle + " " + subject.Text())
	}
	numberPattern := regexp.MustCompile(regexp.QuoteMeta(part) + `\.(\d+)`)
	if match := numberPattern.FindStringSubmatch(sectionTitle); match != nil {
		sectionNumber = match[1]
	}
	if sectionNumber == "" {
		return nil, fmt.Errorf("%w: %q in part %s", ErrNotRegText, sectionTitle, part)
	}

	var pieces []paragraphPiece
	sectionTexts := []string{section.OwnText()}
	for _, paragraph := range section.ChildrenNamed("P") {
		text := builder.clean(paragraph.Text())
		split := splitMarkers(text)
		if len(split) == 0 {
			sectionTexts = append(sectionTexts, text)
			continue
		}
		pieces = append(pieces, split...)
	}

	root := &Node{
		Label: label.New(part, "", sectionNumber),
		Title: sectionTitle,
		Text:  strings.TrimSpace(strings.Join(sectionTexts, " ")),
	}
	nestParagraphs(root, pieces)
	return root, nil
}

// splitMarkers splits text at each of its leading paragraph markers, so
// "(a)(1) Text" yields "(a)" and "(1) Text".
func splitMarkers(text string) []paragraphPiece {
	loc := leadingMarkers.FindStringSubmatchIndex(text)
	if loc == nil {
		return nil
	}

	markerRun := text[loc[2]:loc[3]]
	markerLocs := singleMarker.FindAllStringSubmatchIndex(markerRun, -1)
	pieces := make([]paragraphPiece, len(markerLocs))
	for i, markerLoc := range markerLocs {
		start := loc[2] + markerLoc[0]
		end := len(text)
		if i+1 < len(markerLocs) {
			end = loc[2] + markerLocs[i+1][0]
		}
		pieces[i] = paragraphPiece{
			marker: markerRun[markerLoc[2]:markerLoc[3]],
			text:   strings.TrimSpace(text[start:end]),
		}
	}
	return pieces
}

// nestParagraphs attaches pieces below root using a stack of open nodes:
// a paragraph closes every open paragraph at its depth or deeper and
// becomes a child of the nearest shallower one.
func nestParagraphs(root *Node, pieces []paragraphPiece) {
	stack := []stackEntry{{level: LevelUnknown, node: root}}
	lastDigitLevel := LevelDigit
	currentLevel := LevelLower

	for i, piece := range pieces {
		nextMarker := ""
		if i+1 < len(pieces) {
			nextMarker = pieces[i+1].marker
		}

		level := DetermineLevel(piece.marker, currentLevel, nextMarker)
		if level == LevelDigit {
			level = digitLevel(piece.marker, currentLevel, lastDigitLevel)
			lastDigitLevel = level
		}
		if level == LevelUnknown {
			level = currentLevel
		}

		for len(stack) > 1 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].node

		node := &Node{Label: childLabel(parent.Label, piece.marker), Text: piece.text}
		parent.Children = append(parent.Children, node)
		stack = append(stack, stackEntry{level: level, node: node})
		currentLevel = level
	}
}

// digitLevel separates second-level digits, (a)(1), from fifth-level
// digits, (a)(1)(i)(A)(1). A (1) directly below an upper case paragraph
// opens the fifth level; later digits continue whichever digit level is
// open.
func digitLevel(marker string, currentLevel, lastDigitLevel int) int {
	switch {
	case currentLevel == LevelUpper && marker == "1":
		return LevelDeep
	case currentLevel == LevelDeep && lastDigitLevel == LevelDeep:
		return LevelDeep
	default:
		return LevelDigit
	}
}

func childLabel(parent label.Label, marker string) label.Label {
	child := make(label.Label, len(parent), len(parent)+1)
	copy(child, parent)
	return append(child, marker)
}

// BuildTree builds the tree of a REGTEXT document: a part node whose
// children are its sections. Sections that are not regulation text are
// skipped.
func BuildTree(reader io.Reader) (*Node, error) {
	document, err := Decode(reader)
	if err != nil {
		return nil, err
	}

	regText := document.Find("REGTEXT")
	if regText == nil {
		return nil, fmt.Errorf("building tree: no REGTEXT element")
	}
	partNumber := regText.Attr("PART")
	if partNumber == "" {
		return nil, fmt.Errorf("building tree: REGTEXT has no PART attribute")
	}

	tree := &Node{Label: label.New(partNumber)}
	partElement := regText.Child("PART")
	if partElement == nil {
		return tree, nil
	}
	if heading := partElement.Child("HD"); heading != nil {
		tree.Title = heading.Text()
	}

	for _, sectionElement := range partElement.FindAll("SECTION") {
		section, err := BuildSection(partNumber, sectionElement)
		if errors.Is(err, ErrNotRegText) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("building section: %w", err)
		}
		tree.Children = append(tree.Children, section)
	}
	return tree, nil
}
