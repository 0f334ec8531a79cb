package label

import (
	"fmt"
	"strconv"
)

// RangeError reports a "through" range whose endpoints cannot be expanded.
type RangeError struct {
	First  Label
	Last   Label
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("cannot expand range %s through %s: %s", e.First.Text(), e.Last.Text(), e.Reason)
}

// ExpandRange returns the labels strictly between first and last. Both
// endpoints must have the same depth and differ only in their final
// component. Section-depth labels count by integer; paragraph-depth labels
// step through the marker alphabet of that depth. The endpoints themselves
// are never part of the result.
func ExpandRange(first, last Label) ([]Label, error) {
	depth := first.Len()
	if depth != last.Len() {
		return nil, &RangeError{First: first, Last: last, Reason: "endpoints differ in depth"}
	}
	if depth <= SectionIndex {
		return nil, &RangeError{First: first, Last: last, Reason: "endpoints have no section or paragraph"}
	}
	if depth > MaxDepth {
		return nil, &RangeError{First: first, Last: last, Reason: "endpoints are deeper than any paragraph level"}
	}
	if !first[:depth-1].Equal(last[:depth-1]) {
		return nil, &RangeError{First: first, Last: last, Reason: "endpoints differ above their final component"}
	}

	prefix := first[:depth-1]
	if depth == SectionIndex+1 {
		return expandSections(first, last, prefix)
	}
	return expandParagraphs(first, last, prefix, RegulationLevels[depth-ParagraphIndex-1])
}

func expandSections(first, last, prefix Label) ([]Label, error) {
	start, err := strconv.Atoi(first[SectionIndex])
	if err != nil {
		return nil, &RangeError{First: first, Last: last, Reason: "first section is not numeric"}
	}
	end, err := strconv.Atoi(last[SectionIndex])
	if err != nil {
		return nil, &RangeError{First: first, Last: last, Reason: "last section is not numeric"}
	}

	var expanded []Label
	for number := start + 1; number < end; number++ {
		expanded = append(expanded, extend(prefix, strconv.Itoa(number)))
	}
	return expanded, nil
}

func expandParagraphs(first, last, prefix Label, alphabet []string) ([]Label, error) {
	depth := first.Len()
	start := MarkerIndex(alphabet, first[depth-1])
	if start < 0 {
		return nil, &RangeError{First: first, Last: last, Reason: fmt.Sprintf("marker %q not valid at depth %d", first[depth-1], depth-ParagraphIndex)}
	}
	end := MarkerIndex(alphabet, last[depth-1])
	if end < 0 {
		return nil, &RangeError{First: first, Last: last, Reason: fmt.Sprintf("marker %q not valid at depth %d", last[depth-1], depth-ParagraphIndex)}
	}

	var expanded []Label
	for i := start + 1; i < end; i++ {
		expanded = append(expanded, extend(prefix, alphabet[i]))
	}
	return expanded, nil
}

func extend(prefix Label, component string) Label {
	extended := make(Label, len(prefix), len(prefix)+1)
	copy(extended, prefix)
	return append(extended, component)
}
