package label

import (
	"slices"
	"strconv"
	"strings"
)

// Marker alphabets. Each paragraph depth numbers its children with one of
// these sequences.
var (
	LowerLetters = letterSequence("abcdefghijklmnopqrstuvwxyz")
	UpperLetters = letterSequence("ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	Digits       = digitSequence(50)
	RomanNumbers = romanSequence(50)
)

// RegulationLevels lists the marker alphabet of each paragraph depth in
// regulation text: (a)(1)(i)(A)(1). Comment paragraphs in interpretations
// share depths 2-4 of this table, which is why range expansion uses it for
// both namespaces.
var RegulationLevels = [][]string{
	LowerLetters,
	Digits,
	RomanNumbers,
	UpperLetters,
	Digits,
}

// InterpretationLevels lists the marker alphabets of interpretation
// paragraphs: the interpreted regulation paragraph, then 1., i., A.
var InterpretationLevels = [][]string{
	UpperLetters,
	Digits,
	RomanNumbers,
	UpperLetters,
}

// AppendixLevels lists the marker alphabets used inside appendices.
var AppendixLevels = [][]string{
	UpperLetters,
	Digits,
	LowerLetters,
	Digits,
	RomanNumbers,
}

// MarkerIndex returns the position of marker within alphabet, or -1.
func MarkerIndex(alphabet []string, marker string) int {
	return slices.Index(alphabet, marker)
}

// letterSequence returns single letters followed by doubled letters
// (a..z, aa..zz).
func letterSequence(letters string) []string {
	sequence := make([]string, 0, 2*len(letters))
	for _, letter := range letters {
		sequence = append(sequence, string(letter))
	}
	for _, letter := range letters {
		sequence = append(sequence, strings.Repeat(string(letter), 2))
	}
	return sequence
}

func digitSequence(count int) []string {
	sequence := make([]string, count)
	for i := range sequence {
		sequence[i] = strconv.Itoa(i + 1)
	}
	return sequence
}

func romanSequence(count int) []string {
	sequence := make([]string, count)
	for i := range sequence {
		sequence[i] = Roman(i + 1)
	}
	return sequence
}

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
	{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
	{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
}

// Roman renders n as a lowercase roman numeral. Non-positive values render
// as the empty string.
func Roman(n int) string {
	var builder strings.Builder
	for _, numeral := range romanNumerals {
		for n >= numeral.value {
			builder.WriteString(numeral.symbol)
			n -= numeral.value
		}
	}
	return builder.String()
}
