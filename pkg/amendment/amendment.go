package amendment

import (
	"fmt"
	"strings"

	"github.com/coolbeans/regparser/pkg/label"
	"github.com/coolbeans/regparser/pkg/tokens"
)

// Amendment is one atomic edit extracted from an instruction. Which fields
// are set depends on the action:
//
//	PUT, POST, DELETE, DESIGNATE   Label (and Field when narrowed)
//	MOVE                           Source and Destination
//	DESIGNATE of a subpart         Labels and Destination
type Amendment struct {
	Action      tokens.VerbKind `json:"action" yaml:"action"`
	Label       string          `json:"label,omitempty" yaml:"label,omitempty"`
	Field       tokens.Field    `json:"field,omitempty" yaml:"field,omitempty"`
	Source      string          `json:"source,omitempty" yaml:"source,omitempty"`
	Destination string          `json:"destination,omitempty" yaml:"destination,omitempty"`
	Labels      []string        `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// IsSubpartDesignation reports whether the amendment moves a list of
// sections into a subpart.
func (a Amendment) IsSubpartDesignation() bool {
	return a.Action == tokens.DESIGNATE && a.Labels != nil
}

// String renders the tuple form: (PUT, 1005.36(a)), (MOVE, (src, dst)) or
// (DESIGNATE, [1005.1, 1005.2], 1005-Subpart:B).
func (a Amendment) String() string {
	switch {
	case a.Action == tokens.MOVE:
		return fmt.Sprintf("(%s, (%s, %s))", a.Action, a.Source, a.Destination)
	case a.IsSubpartDesignation():
		return fmt.Sprintf("(%s, [%s], %s)", a.Action, strings.Join(a.Labels, ", "), a.Destination)
	default:
		return fmt.Sprintf("(%s, %s)", a.Action, a.Label)
	}
}

// InvariantError reports a token stream the reducer cannot accept because
// an earlier pass did not run. It indicates a programming error, not text
// the grammar failed to understand.
type InvariantError struct {
	Position int
	Token    tokens.Token
	Reason   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invalid token %v at position %d: %s", e.Token, e.Position, e.Reason)
}

// MakeAmendments reduces a normalized, compressed token stream to
// amendments. For subpart amendments the stream's single token list is
// designated into its first paragraph. Otherwise each paragraph is edited by
// the most recent verb; paragraphs before any verb are ignored, and a MOVE
// pairs the paragraph with the one immediately before it, dropping the move
// when there is none.
func MakeAmendments(stream []tokens.Token, subpart bool) ([]Amendment, error) {
	if subpart {
		designation, err := subpartDesignation(stream)
		if err != nil {
			return nil, err
		}
		return []Amendment{designation}, nil
	}

	var amendments []Amendment
	var current tokens.VerbKind
	for i, token := range stream {
		switch token := token.(type) {
		case tokens.Verb:
			if !token.Active {
				return nil, &InvariantError{Position: i, Token: token, Reason: "passive verb reached the reducer"}
			}
			current = token.Kind

		case tokens.Paragraph:
			switch {
			case current == "":
				// no verb yet
			case current == tokens.MOVE:
				if i == 0 {
					continue
				}
				source, ok := stream[i-1].(tokens.Paragraph)
				if !ok {
					continue
				}
				amendments = append(amendments, Amendment{
					Action:      tokens.MOVE,
					Source:      source.Label.Text(),
					Destination: token.Label.Text(),
				})
			default:
				amendments = append(amendments, Amendment{
					Action: current,
					Label:  token.Label.Text(),
					Field:  token.Field,
				})
			}

		case tokens.TokenList:
			return nil, &InvariantError{Position: i, Token: token, Reason: "token list was not flattened"}
		}
	}
	return amendments, nil
}

func subpartDesignation(stream []tokens.Token) (Amendment, error) {
	var list *tokens.TokenList
	var destination *tokens.Paragraph
	for _, token := range stream {
		switch token := token.(type) {
		case tokens.TokenList:
			if list == nil {
				list = &token
			}
		case tokens.Paragraph:
			if destination == nil {
				destination = &token
			}
		}
	}
	if list == nil || list.Len() == 0 {
		return Amendment{}, &InvariantError{Reason: "subpart amendment without a token list"}
	}
	if destination == nil {
		return Amendment{}, &InvariantError{Reason: "subpart amendment without a destination"}
	}

	labels := make([]string, 0, list.Len())
	for paragraph := range list.All() {
		labels = append(labels, paragraph.Label.Text())
	}

	destinationLabel := destination.Label.Clone()
	if destinationLabel.Part() == "" {
		if len(destinationLabel) == 0 {
			destinationLabel = label.Label{""}
		}
		destinationLabel[label.PartIndex] = list.At(0).Label.Part()
	}

	return Amendment{
		Action:      tokens.DESIGNATE,
		Labels:      labels,
		Destination: destinationLabel.Text(),
	}, nil
}
