// Package amendment turns tokenized amendment instructions into amendments:
// normalizer passes rewrite the token stream into a uniform shape, the
// context compressor fills each paragraph's label from the running context,
// and the reducer emits one amendment per edited paragraph.
package amendment

import (
	"slices"

	"github.com/coolbeans/regparser/pkg/tokens"
)

// SwitchPassive moves every passive verb to the front of the run of tokens
// it ends and makes it active, so "paragraph (b) is added" reads like
// "add paragraph (b)". Streams whose verbs are all active are returned
// unchanged, which makes the pass idempotent.
func SwitchPassive(stream []tokens.Token) []tokens.Token {
	if !hasPassiveVerb(stream) {
		return slices.Clone(stream)
	}

	converted := make([]tokens.Token, 0, len(stream))
	runStart := 0
	for i, token := range stream {
		verb, isVerb := token.(tokens.Verb)
		if !isVerb {
			continue
		}
		if verb.Active {
			converted = append(converted, stream[runStart:i+1]...)
		} else {
			converted = append(converted, tokens.Verb{Kind: verb.Kind, Active: true})
			converted = append(converted, stream[runStart:i]...)
		}
		runStart = i + 1
	}
	return append(converted, stream[runStart:]...)
}

func hasPassiveVerb(stream []tokens.Token) bool {
	for _, token := range stream {
		if verb, ok := token.(tokens.Verb); ok && !verb.Active {
			return true
		}
	}
	return false
}

// DetectSubpartDesignation recognizes "designate sections X through Y as
// subpart B": exactly one DESIGNATE verb, one token list and one context.
// The context becomes the designation's destination paragraph and the
// stream is reported as a subpart amendment.
func DetectSubpartDesignation(stream []tokens.Token) ([]tokens.Token, bool) {
	var designateCount, listCount, contextCount int
	for _, token := range stream {
		switch token := token.(type) {
		case tokens.Verb:
			if token.Kind == tokens.DESIGNATE {
				designateCount++
			}
		case tokens.TokenList:
			listCount++
		case tokens.Context:
			contextCount++
		}
	}
	if designateCount != 1 || listCount != 1 || contextCount != 1 {
		return slices.Clone(stream), false
	}

	converted := make([]tokens.Token, len(stream))
	for i, token := range stream {
		if context, ok := token.(tokens.Context); ok {
			converted[i] = tokens.Paragraph{Label: context.Label.Clone()}
			continue
		}
		converted[i] = token
	}
	return converted, true
}

// PromoteContexts turns uncertain contexts that follow a verb into
// paragraphs when the stream has no paragraph of its own: in "revise
// § 1005.36" the section is the object of the edit, not its surroundings.
func PromoteContexts(stream []tokens.Token) []tokens.Token {
	for _, token := range stream {
		switch token := token.(type) {
		case tokens.Paragraph:
			return slices.Clone(stream)
		case tokens.TokenList:
			if token.Len() > 0 {
				return slices.Clone(stream)
			}
		}
	}

	converted := make([]tokens.Token, len(stream))
	verbSeen := false
	for i, token := range stream {
		converted[i] = token
		switch token := token.(type) {
		case tokens.Verb:
			verbSeen = true
		case tokens.Context:
			if verbSeen && !token.Certain {
				converted[i] = tokens.Paragraph{Label: token.Label.Clone()}
			}
		}
	}
	return converted
}

// FlattenLists splices the paragraphs of every token list into the stream.
func FlattenLists(stream []tokens.Token) []tokens.Token {
	converted := make([]tokens.Token, 0, len(stream))
	for _, token := range stream {
		list, ok := token.(tokens.TokenList)
		if !ok {
			converted = append(converted, token)
			continue
		}
		for paragraph := range list.All() {
			converted = append(converted, paragraph)
		}
	}
	return converted
}

// Normalize applies the four passes in order. Lists are kept intact for
// subpart amendments, whose reducer needs them whole.
func Normalize(stream []tokens.Token) ([]tokens.Token, bool) {
	normalized := SwitchPassive(stream)
	normalized, subpart := DetectSubpartDesignation(normalized)
	normalized = PromoteContexts(normalized)
	if !subpart {
		normalized = FlattenLists(normalized)
	}
	return normalized, subpart
}
