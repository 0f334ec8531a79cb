package amendment

import (
	"fmt"
	"log/slog"

	"github.com/coolbeans/regparser/pkg/grammar"
	"github.com/coolbeans/regparser/pkg/label"
	"github.com/coolbeans/regparser/pkg/tokens"
)

// Parser runs the full instruction pipeline: tokenize, normalize, compress
// context, reduce. It holds no per-document state and is safe for
// concurrent use; the running context is passed in and returned explicitly.
type Parser struct {
	grammar *grammar.Grammar
	log     *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithGrammar replaces the default grammar.
func WithGrammar(g *grammar.Grammar) Option {
	return func(parser *Parser) {
		parser.grammar = g
	}
}

// WithLogger sets the logger used for dropped lists and parse summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(parser *Parser) {
		parser.log = logger
	}
}

// NewParser creates a parser using the shared default grammar.
func NewParser(options ...Option) *Parser {
	parser := &Parser{
		grammar: grammar.Default(),
		log:     slog.Default(),
	}
	for _, option := range options {
		option(parser)
	}
	return parser
}

// Analysis records every stage of parsing one instruction.
type Analysis struct {
	Text         string
	PriorContext label.Label
	Tokens       []tokens.Token
	Active       []tokens.Token
	Designated   []tokens.Token
	Subpart      bool
	Promoted     []tokens.Token
	Flattened    []tokens.Token
	Compressed   []tokens.Token
	Amendments   []Amendment
	Context      label.Label
	Skipped      []grammar.Span
	ListErrors   []error
}

// Analyze parses one instruction against the running context and keeps the
// output of each stage for inspection.
func (p *Parser) Analyze(text string, running label.Label) (*Analysis, error) {
	scan, err := p.grammar.Scan(text)
	if err != nil {
		return nil, fmt.Errorf("tokenizing instruction: %w", err)
	}

	analysis := &Analysis{
		Text:         scan.Text,
		Tokens:       scan.Tokens(),
		Skipped:      scan.Skipped,
		ListErrors:   scan.ListErrors,
		PriorContext: running.Clone(),
	}
	for _, listError := range scan.ListErrors {
		p.log.Warn("dropped paragraph list", "error", listError)
	}

	analysis.Active = SwitchPassive(analysis.Tokens)
	analysis.Designated, analysis.Subpart = DetectSubpartDesignation(analysis.Active)
	analysis.Promoted = PromoteContexts(analysis.Designated)
	analysis.Flattened = analysis.Promoted
	if !analysis.Subpart {
		analysis.Flattened = FlattenLists(analysis.Promoted)
	}
	analysis.Compressed, analysis.Context = CompressContext(analysis.Flattened, running)

	analysis.Amendments, err = MakeAmendments(analysis.Compressed, analysis.Subpart)
	if err != nil {
		return nil, fmt.Errorf("reducing instruction: %w", err)
	}

	p.log.Debug("parsed instruction",
		"tokens", len(analysis.Tokens),
		"amendments", len(analysis.Amendments),
		"skipped", len(analysis.Skipped),
		"context", analysis.Context.String())
	return analysis, nil
}

// ParseInstruction returns the amendments of one instruction and the
// running context for the next. On error the running context is returned
// unchanged so a caller can move on to the next instruction.
func (p *Parser) ParseInstruction(text string, running label.Label) ([]Amendment, label.Label, error) {
	analysis, err := p.Analyze(text, running)
	if err != nil {
		return nil, running, err
	}
	return analysis.Amendments, analysis.Context, nil
}
