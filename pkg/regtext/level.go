package regtext

import (
	"github.com/coolbeans/regparser/pkg/label"
)

// Paragraph depths within a section.
const (
	LevelUnknown = 0
	LevelLower   = 1 // (a)
	LevelDigit   = 2 // (1)
	LevelRoman   = 3 // (i)
	LevelUpper   = 4 // (A)
	LevelDeep    = 5 // (1) below (A)
)

// DetermineLevel returns the paragraph depth of marker given the depth of
// the previous paragraph.
//
// Markers such as (i), (v) and (x) are both lower case letters and roman
// numerals. When the next sibling marker is known it decides: (i) followed
// by (j) is a letter, (i) followed by (ii) is a numeral. This lookahead is
// a heuristic. Without it, the marker is a numeral when the previous
// paragraph was deeper than the first level or the marker is not a letter
// at all, and a letter otherwise.
func DetermineLevel(marker string, currentLevel int, nextMarker string) int {
	lowerIndex := label.MarkerIndex(label.LowerLetters, marker)
	romanIndex := label.MarkerIndex(label.RomanNumbers, marker)

	if lowerIndex >= 0 && romanIndex >= 0 && nextMarker != "" {
		if successor(label.LowerLetters, lowerIndex) == nextMarker {
			return LevelLower
		}
		if successor(label.RomanNumbers, romanIndex) == nextMarker {
			return LevelRoman
		}
	}

	switch {
	case romanIndex >= 0 && (currentLevel > LevelLower || lowerIndex < 0):
		return LevelRoman
	case lowerIndex >= 0:
		return LevelLower
	case label.MarkerIndex(label.Digits, marker) >= 0:
		return LevelDigit
	case label.MarkerIndex(label.UpperLetters, marker) >= 0:
		return LevelUpper
	default:
		return LevelUnknown
	}
}

func successor(alphabet []string, index int) string {
	if index+1 < len(alphabet) {
		return alphabet[index+1]
	}
	return ""
}
