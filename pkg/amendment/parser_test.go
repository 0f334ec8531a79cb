package amendment

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/coolbeans/regparser/pkg/grammar"
	"github.com/coolbeans/regparser/pkg/label"
	"github.com/coolbeans/regparser/pkg/tokens"
)

func quietParser(options ...Option) *Parser {
	options = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, options...)
	return NewParser(options...)
}

func amendmentStrings(amendments []Amendment) []string {
	rendered := make([]string, len(amendments))
	for i, amendment := range amendments {
		rendered[i] = amendment.String()
	}
	return rendered
}

func TestParseInstruction(t *testing.T) {
	parser := quietParser()

	testCases := []struct {
		name    string
		text    string
		running label.Label
		want    []string
	}{
		{
			name: "revise paragraph in section",
			text: "In § 9876.1, revise paragraph (b) to read as follows",
			want: []string{"(PUT, 9876.1(b))"},
		},
		{
			name: "add subpart",
			text: "6. Add subpart B to read as follows:",
			want: []string{"(POST, Subpart:B)"},
		},
		{
			name:    "add subpart with known part",
			text:    "6. Add subpart B to read as follows:",
			running: label.New("1005"),
			want:    []string{"(POST, 1005-Subpart:B)"},
		},
		{
			name:    "appendix model forms",
			text:    "b. Add Model Forms E-11 through E-15.",
			running: label.New("1005"),
			want: []string{
				"(POST, 1005-E-11)", "(POST, 1005-E-12)", "(POST, 1005-E-13)",
				"(POST, 1005-E-14)", "(POST, 1005-E-15)",
			},
		},
		{
			name: "redesignation after an unverbed list",
			text: `paragraphs (a)(1)(iii), (a)(1)(iv)(B), (c)(2) introductory text and (c)(2)(ii)(A)(<E T="03">2</E>) redesignating paragraph (c)(2)(iii) as paragraph (c)(2)(iv),`,
			want: []string{"(MOVE, ((c)(2)(iii), (c)(2)(iv)))"},
		},
		{
			name: "heading and paragraphs",
			text: "Amend § 1005.36 to revise the section heading and paragraphs (a) and (b), and to add paragraph (d) to read as follows:",
			want: []string{"(PUT, 1005.36)", "(PUT, 1005.36(a))", "(PUT, 1005.36(b))", "(POST, 1005.36(d))"},
		},
		{
			name: "passive correction",
			text: "1. On page 1234, in the second column, in Subpart A, § 4444.3(a) is corrected to read as follows:",
			want: []string{"(PUT, 4444.3(a))"},
		},
		{
			name: "revise a section",
			text: "3. Section 1005.2 is revised to read as follows:",
			want: []string{"(PUT, 1005.2)"},
		},
		{
			name: "designate sections into a subpart",
			text: "Designate §§ 1005.1 through 1005.3 as subpart B",
			want: []string{"(DESIGNATE, [1005.1, 1005.2, 1005.3], 1005-Subpart:B)"},
		},
		{
			name: "comment paragraphs",
			text: "comment 31(b), amend paragraph 31(b)(2) by adding paragraphs 4 through 6;",
			want: []string{
				"(POST, 31(b)(2)-Interp-4)",
				"(POST, 31(b)(2)-Interp-5)",
				"(POST, 31(b)(2)-Interp-6)",
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			amendments, _, err := parser.ParseInstruction(testCase.text, testCase.running)
			if err != nil {
				t.Fatalf("ParseInstruction: %v", err)
			}
			got := amendmentStrings(amendments)
			if strings.Join(got, "|") != strings.Join(testCase.want, "|") {
				t.Errorf("amendments:\n got  %v\n want %v", got, testCase.want)
			}
		})
	}
}

func TestParseInstructionField(t *testing.T) {
	amendments, context, err := quietParser().ParseInstruction("In § 7654.2, revise the introductory text to read as follows", nil)
	if err != nil {
		t.Fatalf("ParseInstruction: %v", err)
	}
	if len(amendments) != 1 {
		t.Fatalf("got %d amendments, want 1", len(amendments))
	}
	if amendments[0].Label != "7654.2" || amendments[0].Field != tokens.TextField {
		t.Errorf("got %+v, want text of 7654.2", amendments[0])
	}
	if !context.Equal(label.New("7654", "", "2")) {
		t.Errorf("context: got %v", context)
	}
}

func TestRunningContextAcrossInstructions(t *testing.T) {
	parser := quietParser()

	_, context, err := parser.ParseInstruction("In § 7654.2, revise the introductory text to read as follows", nil)
	if err != nil {
		t.Fatalf("first instruction: %v", err)
	}

	analysis, err := parser.Analyze("paragraph (b)", context)
	if err != nil {
		t.Fatalf("second instruction: %v", err)
	}
	if len(analysis.Compressed) != 1 {
		t.Fatalf("compressed tokens: got %v", analysis.Compressed)
	}
	if got := analysis.Compressed[0].(tokens.Paragraph).Label.Text(); got != "7654.2(b)" {
		t.Errorf("compressed label: got %q, want 7654.2(b)", got)
	}
	if len(analysis.Amendments) != 0 {
		t.Errorf("no verb, yet got amendments %v", analysis.Amendments)
	}

	amendments, _, err := parser.ParseInstruction("revise paragraph (b)", context)
	if err != nil {
		t.Fatalf("ParseInstruction: %v", err)
	}
	if got := amendmentStrings(amendments); len(got) != 1 || got[0] != "(PUT, 7654.2(b))" {
		t.Errorf("got %v, want [(PUT, 7654.2(b))]", got)
	}
}

func TestAnalyzeStages(t *testing.T) {
	analysis, err := quietParser().Analyze(" A-30(a), A-30(b) are added", label.New("1234"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(analysis.Tokens) != 2 {
		t.Fatalf("raw tokens: got %v", analysis.Tokens)
	}
	if _, ok := analysis.Active[0].(tokens.Verb); !ok {
		t.Errorf("passive verb not moved to the front: %v", analysis.Active)
	}
	if analysis.Subpart {
		t.Error("unexpected subpart amendment")
	}
	if len(analysis.Flattened) != 3 {
		t.Errorf("flattened: got %v", analysis.Flattened)
	}
	if got := amendmentStrings(analysis.Amendments); strings.Join(got, "|") != "(POST, 1234-A-30(a))|(POST, 1234-A-30(b))" {
		t.Errorf("amendments: got %v", got)
	}
	if !analysis.PriorContext.Equal(label.New("1234")) {
		t.Errorf("prior context: got %v", analysis.PriorContext)
	}
}

func TestContextThreadingIsDeterministic(t *testing.T) {
	instructions := []string{
		"In § 9876.1, revise paragraph (b) to read as follows",
		"and removing paragraph (c)(5) to read as follows:",
		"7. In Supplement I to part 6363:",
		"h. Under Section 6363.36, add comments 36(a), 36(b) and 36(d).",
	}

	run := func() ([]string, label.Label) {
		document := quietParser().NewDocument(nil)
		for _, instruction := range instructions {
			document.Parse(instruction)
		}
		return amendmentStrings(document.Amendments()), document.Context()
	}

	firstAmendments, firstContext := run()
	secondAmendments, secondContext := run()
	if strings.Join(firstAmendments, "|") != strings.Join(secondAmendments, "|") {
		t.Errorf("amendments differ:\n %v\n %v", firstAmendments, secondAmendments)
	}
	if !firstContext.Equal(secondContext) {
		t.Errorf("contexts differ: %v and %v", firstContext, secondContext)
	}
	want := "(PUT, 9876.1(b))|(DELETE, 9876.1(c)(5))|(POST, 6363.36(a)-Interp)|(POST, 6363.36(b)-Interp)|(POST, 6363.36(d)-Interp)"
	if got := strings.Join(firstAmendments, "|"); got != want {
		t.Errorf("amendments:\n got  %s\n want %s", got, want)
	}
	if !firstContext.Equal(label.New("6363", label.Interpretations, "36", "(d)")) {
		t.Errorf("final context: got %v", firstContext)
	}
}

func TestDocumentSkipsFailedInstructions(t *testing.T) {
	var logs bytes.Buffer
	parser := NewParser(
		WithGrammar(grammar.New(grammar.WithMaxInputLength(60))),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)
	document := parser.NewDocument(nil)

	document.Parse("In § 9876.1, revise paragraph (b)")
	failed := document.Parse("Amend § 1005.36 to revise the section heading and paragraphs (a) and (b)")
	document.Parse("revise paragraph (c)")

	if !errors.Is(failed.Err, grammar.ErrInputTooLong) {
		t.Errorf("failed instruction error: got %v", failed.Err)
	}
	if len(document.Failures()) != 1 {
		t.Errorf("failures: got %d, want 1", len(document.Failures()))
	}
	if len(document.Instructions()) != 3 {
		t.Errorf("instructions: got %d, want 3", len(document.Instructions()))
	}
	if got := amendmentStrings(document.Amendments()); strings.Join(got, "|") != "(PUT, 9876.1(b))|(PUT, 9876.1(c))" {
		t.Errorf("amendments: got %v", got)
	}
	if !strings.Contains(logs.String(), "skipping instruction") {
		t.Errorf("expected a log line for the skipped instruction, got %q", logs.String())
	}
}

func TestParseInstructionErrorKeepsContext(t *testing.T) {
	parser := quietParser(WithGrammar(grammar.New(grammar.WithMaxInputLength(5))))
	running := label.New("1005", "", "36")

	_, context, err := parser.ParseInstruction("revise paragraph (b)", running)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !context.Equal(running) {
		t.Errorf("context: got %v, want %v", context, running)
	}
}
