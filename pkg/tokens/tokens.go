// Package tokens defines the typed tokens produced by the amendment
// instruction grammar. Token is a closed set: Verb, Context, Paragraph and
// TokenList are its only implementations.
package tokens

import (
	"fmt"
	"iter"
	"strings"

	"github.com/coolbeans/regparser/pkg/label"
)

// Token is one lexical unit of an amendment instruction.
type Token interface {
	fmt.Stringer
	isToken()
}

// VerbKind is the edit operation named by a verb.
type VerbKind string

const (
	PUT       VerbKind = "PUT"
	POST      VerbKind = "POST"
	DELETE    VerbKind = "DELETE"
	MOVE      VerbKind = "MOVE"
	DESIGNATE VerbKind = "DESIGNATE"
)

// Field narrows a paragraph edit to part of the paragraph.
type Field string

const (
	// WholeParagraph targets the full paragraph.
	WholeParagraph Field = ""
	// HeadingField targets the section or paragraph heading.
	HeadingField Field = "heading"
	// TextField targets the introductory text only.
	TextField Field = "text"
)

// Verb is an edit operation. Passive verbs ("is revised") act on the phrase
// before them; active verbs ("revise") act on the phrase after them.
type Verb struct {
	Kind   VerbKind
	Active bool
}

// Context is an address mentioned for orientation. Certain is true when an
// explicit marker ("in", "under") introduced it.
type Context struct {
	Label   label.Label
	Certain bool
}

// Paragraph is the target of an edit.
type Paragraph struct {
	Label label.Label
	Field Field
}

// TokenList is an ordered list of paragraphs from text such as
// "paragraphs (a), (b), and (c)".
type TokenList struct {
	Paragraphs []Paragraph
}

func (Verb) isToken()      {}
func (Context) isToken()   {}
func (Paragraph) isToken() {}
func (TokenList) isToken() {}

func (v Verb) String() string {
	voice := "passive"
	if v.Active {
		voice = "active"
	}
	return fmt.Sprintf("Verb(%s, %s)", v.Kind, voice)
}

func (c Context) String() string {
	return fmt.Sprintf("Context(%v, certain=%t)", c.Label, c.Certain)
}

func (p Paragraph) String() string {
	if p.Field != WholeParagraph {
		return fmt.Sprintf("Paragraph(%v, field=%s)", p.Label, p.Field)
	}
	return fmt.Sprintf("Paragraph(%v)", p.Label)
}

func (l TokenList) String() string {
	rendered := make([]string, len(l.Paragraphs))
	for i, paragraph := range l.Paragraphs {
		rendered[i] = paragraph.String()
	}
	return "TokenList(" + strings.Join(rendered, ", ") + ")"
}

// Len returns the number of paragraphs in the list.
func (l TokenList) Len() int {
	return len(l.Paragraphs)
}

// At returns the i-th paragraph.
func (l TokenList) At(i int) Paragraph {
	return l.Paragraphs[i]
}

// All iterates over the paragraphs in document order.
func (l TokenList) All() iter.Seq[Paragraph] {
	return func(yield func(Paragraph) bool) {
		for _, paragraph := range l.Paragraphs {
			if !yield(paragraph) {
				return
			}
		}
	}
}

// Equal reports whether two tokens are the same variant with equal payloads.
func Equal(a, b Token) bool {
	switch left := a.(type) {
	case Verb:
		right, ok := b.(Verb)
		return ok && left == right
	case Context:
		right, ok := b.(Context)
		return ok && left.Certain == right.Certain && left.Label.Equal(right.Label)
	case Paragraph:
		right, ok := b.(Paragraph)
		return ok && left.Field == right.Field && left.Label.Equal(right.Label)
	case TokenList:
		right, ok := b.(TokenList)
		if !ok || left.Len() != right.Len() {
			return false
		}
		for i := range left.Paragraphs {
			if !Equal(left.Paragraphs[i], right.Paragraphs[i]) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	default:
		panic(fmt.Sprintf("tokens: unknown token type %T", a))
	}
}

// EqualSlices compares two token sequences element by element.
func EqualSlices(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
