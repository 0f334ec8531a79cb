// Package grammar tokenizes amendment instructions ("AMDPAR" paragraphs)
// into verbs, contexts, paragraphs and paragraph lists.
//
// The scanner walks the text left to right. At every position where a word
// begins it tries each rule in priority order; the first rule that
// matches produces a token and scanning resumes after the match. Text no
// rule recognizes is skipped. Rules are RE2 expressions, so scanning time is
// linear in the input length.
package grammar

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/coolbeans/regparser/pkg/markup"
	"github.com/coolbeans/regparser/pkg/tokens"
)

// DefaultMaxInputLength bounds the instruction text accepted by Scan.
// Amendment paragraphs are a few hundred bytes; anything far larger is
// not an instruction.
const DefaultMaxInputLength = 64 * 1024

// ErrInputTooLong is returned when the instruction text exceeds the
// grammar's maximum input length.
var ErrInputTooLong = errors.New("instruction text too long")

// Match is one recognized token and the byte span of text it came from.
type Match struct {
	Token tokens.Token
	Start int
	End   int
	Rule  string
}

// Span is a run of text no rule recognized.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// ListError reports a paragraph list whose range could not be expanded.
// The list produces no token; scanning continues after it.
type ListError struct {
	Rule  string
	Start int
	End   int
	Text  string
	Err   error
}

func (e *ListError) Error() string {
	return fmt.Sprintf("%s %q at %d-%d: %v", e.Rule, e.Text, e.Start, e.End, e.Err)
}

func (e *ListError) Unwrap() error {
	return e.Err
}

// ScanResult holds everything Scan learned about an instruction. Offsets
// refer to Text, the instruction with inline markup removed.
type ScanResult struct {
	Text       string
	Matches    []Match
	Skipped    []Span
	ListErrors []error
}

// Tokens returns the matched tokens in document order.
func (r *ScanResult) Tokens() []tokens.Token {
	result := make([]tokens.Token, len(r.Matches))
	for i, match := range r.Matches {
		result[i] = match.Token
	}
	return result
}

// Grammar is a compiled, immutable rule set. It is safe for concurrent use.
type Grammar struct {
	rules          []rule
	maxInputLength int
}

// Option configures a Grammar.
type Option func(*Grammar)

// WithMaxInputLength sets the longest instruction Scan accepts. Zero or a
// negative value disables the check.
func WithMaxInputLength(maxInputLength int) Option {
	return func(grammar *Grammar) {
		grammar.maxInputLength = maxInputLength
	}
}

// New compiles the amendment grammar.
func New(options ...Option) *Grammar {
	grammar := &Grammar{
		rules:          defaultRules(),
		maxInputLength: DefaultMaxInputLength,
	}
	for _, option := range options {
		option(grammar)
	}
	return grammar
}

var defaultGrammar = sync.OnceValue(func() *Grammar {
	return New()
})

// Default returns a shared grammar with default options.
func Default() *Grammar {
	return defaultGrammar()
}

// RuleNames lists the rules in the order they are tried.
func (g *Grammar) RuleNames() []string {
	names := make([]string, len(g.rules))
	for i, rule := range g.rules {
		names[i] = rule.name
	}
	return names
}

// Tokenize returns the tokens of an instruction in document order.
func (g *Grammar) Tokenize(text string) ([]tokens.Token, error) {
	result, err := g.Scan(text)
	if err != nil {
		return nil, err
	}
	return result.Tokens(), nil
}

// Scan tokenizes an instruction and reports matches, skipped text and
// lists whose ranges could not be expanded. Inline markup is removed first.
func (g *Grammar) Scan(text string) (*ScanResult, error) {
	if g.maxInputLength > 0 && len(text) > g.maxInputLength {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInputTooLong, len(text), g.maxInputLength)
	}

	text = markup.StripTags(text)
	result := &ScanResult{Text: text}

	skippedFrom := 0
	position := 0
	for position < len(text) {
		if !tokenMayStart(text, position) {
			position += runeWidth(text, position)
			continue
		}

		match, found, err := g.matchAt(text, position)
		if !found {
			position += runeWidth(text, position)
			continue
		}

		result.addSkipped(text, skippedFrom, position)
		if err != nil {
			result.ListErrors = append(result.ListErrors, err)
		} else {
			result.Matches = append(result.Matches, match)
		}
		position = match.End
		skippedFrom = position
	}
	result.addSkipped(text, skippedFrom, len(text))

	return result, nil
}

// matchAt tries every rule at position. found reports whether any rule
// matched; err is set when the matching rule could not build its token.
func (g *Grammar) matchAt(text string, position int) (Match, bool, error) {
	remaining := text[position:]
	for _, rule := range g.rules {
		indices := rule.pattern.FindStringSubmatchIndex(remaining)
		if indices == nil || indices[1] == 0 {
			continue
		}

		match := Match{
			Start: position,
			End:   position + indices[1],
			Rule:  rule.name,
		}
		token, err := rule.build(submatch{text: remaining, indices: indices, pattern: rule.pattern})
		if err != nil {
			return match, true, &ListError{
				Rule:  rule.name,
				Start: match.Start,
				End:   match.End,
				Text:  text[match.Start:match.End],
				Err:   err,
			}
		}
		match.Token = token
		return match, true, nil
	}
	return Match{}, false, nil
}

func (r *ScanResult) addSkipped(text string, start, end int) {
	if start >= end {
		return
	}
	skipped := strings.TrimSpace(text[start:end])
	if skipped == "" {
		return
	}
	r.Skipped = append(r.Skipped, Span{Start: start, End: end, Text: skipped})
}

// tokenMayStart reports whether a token may begin at position. Every rule
// starts with a letter or a section sign, and letters must begin a word.
func tokenMayStart(text string, position int) bool {
	current, _ := utf8.DecodeRuneInString(text[position:])
	if current == '§' {
		return true
	}
	if !unicode.IsLetter(current) {
		return false
	}
	if position == 0 {
		return true
	}
	previous, _ := utf8.DecodeLastRuneInString(text[:position])
	return !isAlphanumeric(previous)
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func runeWidth(text string, position int) int {
	_, width := utf8.DecodeRuneInString(text[position:])
	return width
}
