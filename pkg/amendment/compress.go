package amendment

import (
	"strings"

	"github.com/coolbeans/regparser/pkg/label"
	"github.com/coolbeans/regparser/pkg/tokens"
)

// CompressContext folds contexts into the running label and completes every
// paragraph's label from it. Contexts are consumed. Paragraphs are emitted
// as new values carrying their full label, and each becomes the running
// context for the tokens after it. Under an interpretations context, a
// regulation paragraph names the comment being edited rather than a target,
// so it is folded into the context and not emitted. The returned label is
// the running context to hand to the next instruction.
func CompressContext(stream []tokens.Token, running label.Label) ([]tokens.Token, label.Label) {
	context := running.Clone()
	compressed := make([]tokens.Token, 0, len(stream))

	for _, token := range stream {
		switch token := token.(type) {
		case tokens.Context:
			incoming := token.Label
			if context.IsInterpretation() && incoming.IsAppendix() {
				incoming = appendixInterpretation(incoming)
			}
			context = label.Compress(context, incoming)

		case tokens.Paragraph:
			if context.IsInterpretation() && token.Label.Len() > label.ParagraphIndex && !token.Label.IsInterpretation() {
				context = label.Compress(context, interpretedParagraph(token.Label))
				continue
			}
			context = propagate(context, token.Label)
			compressed = append(compressed, tokens.Paragraph{Label: context.Clone(), Field: token.Field})

		default:
			compressed = append(compressed, token)
		}
	}
	return compressed, context
}

// propagate completes a paragraph label from the context. The context's
// division is not inherited: a subpart or appendix named for orientation
// does not belong to the paragraph's address.
func propagate(context, paragraph label.Label) label.Label {
	inherited := context.Clone()
	if len(inherited) > label.DivisionIndex {
		inherited[label.DivisionIndex] = ""
	}
	return label.Compress(inherited, paragraph)
}

// appendixInterpretation moves an appendix division into the section slot,
// leaving the interpretations division of the context in place:
// [1005 Appendix:A] becomes [1005 _ Appendix:A].
func appendixInterpretation(appendix label.Label) label.Label {
	components := []string{appendix.Part(), "", appendix.Division()}
	if appendix.Len() > label.SectionIndex {
		components = append(components, appendix[label.SectionIndex:]...)
	}
	return label.New(components...)
}

// interpretedParagraph rewrites a regulation paragraph such as 1005.36(a)(2)
// into the comment reference [1005 _ 36 (a)(2)].
func interpretedParagraph(paragraph label.Label) label.Label {
	var markers []string
	for _, marker := range paragraph.Paragraphs() {
		if marker != "" {
			markers = append(markers, marker)
		}
	}
	reference := "(" + strings.Join(markers, ")(") + ")"
	return label.New(paragraph.Part(), "", paragraph.Section(), reference)
}
