package label

import (
	"errors"
	"testing"
)

func TestNewTrimsTrailingEmptyComponents(t *testing.T) {
	built := New("1005", "", "36", "", "")
	if built.Len() != 3 {
		t.Fatalf("Len: got %d, want 3", built.Len())
	}
	if !built.Equal(Label{"1005", "", "36"}) {
		t.Errorf("got %v, want [1005 _ 36]", built)
	}

	if New().Len() != 0 {
		t.Errorf("empty label should have length 0")
	}
	if !New("", "").Equal(nil) {
		t.Errorf("label of empty components should equal nil label")
	}
}

func TestAccessors(t *testing.T) {
	built := New("1005", Subpart("B"), "36", "a", "2")

	if built.Part() != "1005" {
		t.Errorf("Part: got %q", built.Part())
	}
	if built.Division() != "Subpart:B" {
		t.Errorf("Division: got %q", built.Division())
	}
	if built.Section() != "36" {
		t.Errorf("Section: got %q", built.Section())
	}
	if got := built.Paragraphs(); len(got) != 2 || got[0] != "a" || got[1] != "2" {
		t.Errorf("Paragraphs: got %v", got)
	}
	if !built.IsSubpart() || built.IsAppendix() || built.IsInterpretation() {
		t.Errorf("division predicates wrong for %v", built)
	}
	if built.Get(12) != "" || built.Get(-1) != "" {
		t.Errorf("Get out of range should be empty")
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	original := New("1005", "", "36")
	cloned := original.Clone()
	cloned[0] = "9999"
	if original[0] != "1005" {
		t.Errorf("mutating clone changed original: %v", original)
	}
}

func TestCompress(t *testing.T) {
	testCases := []struct {
		name string
		lhs  Label
		rhs  Label
		want Label
	}{
		{
			name: "empty rhs keeps lhs",
			lhs:  New("1005", "", "36"),
			rhs:  nil,
			want: New("1005", "", "36"),
		},
		{
			name: "rhs paragraph inherits part and section",
			lhs:  New("9876", "", "1"),
			rhs:  New("", "", "", "b"),
			want: New("9876", "", "1", "b"),
		},
		{
			name: "rhs overrides set components",
			lhs:  New("1005", "", "36", "a"),
			rhs:  New("", "", "37", "b"),
			want: New("1005", "", "37", "b"),
		},
		{
			name: "shorter rhs drops deeper lhs components",
			lhs:  New("7654", "", "2", "b", "1"),
			rhs:  New("7654", "", "3"),
			want: New("7654", "", "3"),
		},
		{
			name: "division kept when rhs leaves it unset",
			lhs:  New("6363", Interpretations),
			rhs:  New("6363", "", "36"),
			want: New("6363", Interpretations, "36"),
		},
		{
			name: "longer rhs pads lhs",
			lhs:  New("1005"),
			rhs:  New("", "", "", "c", "2"),
			want: New("1005", "", "", "c", "2"),
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := Compress(testCase.lhs, testCase.rhs)
			if !got.Equal(testCase.want) {
				t.Errorf("Compress(%v, %v): got %v, want %v", testCase.lhs, testCase.rhs, got, testCase.want)
			}
		})
	}
}

func TestCompressIsRightBiased(t *testing.T) {
	labels := []Label{
		nil,
		New("1005"),
		New("1005", "", "36"),
		New("", Interpretations, "31", "(b)"),
		New("", "", "", "c", "2", "iii"),
		New("1234", Appendix("A"), "15", "a"),
	}

	for _, lhs := range labels {
		for _, rhs := range labels {
			merged := Compress(lhs, rhs)
			if len(rhs) == 0 {
				if !merged.Equal(lhs) {
					t.Errorf("Compress(%v, nil): got %v, want lhs", lhs, merged)
				}
				continue
			}
			for i := range rhs {
				want := rhs[i]
				if want == "" {
					want = lhs.Get(i)
				}
				if merged.Get(i) != want {
					t.Errorf("Compress(%v, %v)[%d]: got %q, want %q", lhs, rhs, i, merged.Get(i), want)
				}
			}
		}
	}
}

func TestCompressDoesNotMutateInputs(t *testing.T) {
	lhs := New("1005", "", "36")
	rhs := New("", "", "", "a")
	merged := Compress(lhs, rhs)
	merged[0] = "changed"
	if lhs[0] != "1005" || rhs[0] != "" {
		t.Errorf("Compress result aliases inputs: lhs=%v rhs=%v", lhs, rhs)
	}
}

func TestText(t *testing.T) {
	testCases := []struct {
		name  string
		label Label
		want  string
	}{
		{"section", New("1005", "", "36"), "1005.36"},
		{"paragraph", New("9876", "", "1", "b"), "9876.1(b)"},
		{"deep paragraph", New("1005", "", "36", "a", "2"), "1005.36(a)(2)"},
		{"bare paragraph", New("", "", "", "c", "2", "iii"), "(c)(2)(iii)"},
		{"subpart", New("1005", Subpart("B")), "1005-Subpart:B"},
		{"section inside subpart", New("4444", Subpart("A"), "3", "a"), "4444.3(a)"},
		{"appendix section", New("1234", Appendix("A"), "15"), "1234-A-15"},
		{"appendix without part", New("", Appendix("A"), "30", "a"), "A-30(a)"},
		{"supplement", New("6363", Interpretations), "6363-Interp"},
		{"interpretation of paragraph", New("6363", Interpretations, "36", "(a)"), "6363.36(a)-Interp"},
		{"comment paragraph", New("6363", Interpretations, "31", "(c)(4)", "2", "xi"), "6363.31(c)(4)-Interp-2.xi"},
		{"empty", New(), ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.label.Text(); got != testCase.want {
				t.Errorf("Text(%v): got %q, want %q", testCase.label, got, testCase.want)
			}
		})
	}
}

func TestRoman(t *testing.T) {
	testCases := map[int]string{1: "i", 4: "iv", 9: "ix", 14: "xiv", 40: "xl", 49: "xlix", 0: ""}
	for number, want := range testCases {
		if got := Roman(number); got != want {
			t.Errorf("Roman(%d): got %q, want %q", number, got, want)
		}
	}
}

func TestLevelAlphabets(t *testing.T) {
	if LowerLetters[0] != "a" || LowerLetters[26] != "aa" {
		t.Errorf("LowerLetters starts %v", LowerLetters[:3])
	}
	if MarkerIndex(Digits, "50") != 49 {
		t.Errorf("Digits should run to 50")
	}
	if MarkerIndex(RomanNumbers, "iv") != 3 {
		t.Errorf("iv should be the fourth roman numeral")
	}
	if MarkerIndex(UpperLetters, "a") != -1 {
		t.Errorf("lowercase marker should not be found among upper letters")
	}
}

func TestExpandRange(t *testing.T) {
	testCases := []struct {
		name  string
		first Label
		last  Label
		want  []Label
	}{
		{
			name:  "appendix sections",
			first: New("", Appendix("E"), "11"),
			last:  New("", Appendix("E"), "15"),
			want: []Label{
				New("", Appendix("E"), "12"),
				New("", Appendix("E"), "13"),
				New("", Appendix("E"), "14"),
			},
		},
		{
			name:  "lowercase paragraphs exclude endpoints",
			first: New("", "", "", "a"),
			last:  New("", "", "", "d"),
			want:  []Label{New("", "", "", "b"), New("", "", "", "c")},
		},
		{
			name:  "comment paragraphs count by digit",
			first: New("", Interpretations, "", "", "4"),
			last:  New("", Interpretations, "", "", "6"),
			want:  []Label{New("", Interpretations, "", "", "5")},
		},
		{
			name:  "roman paragraphs",
			first: New("", "", "", "c", "2", "i"),
			last:  New("", "", "", "c", "2", "iv"),
			want:  []Label{New("", "", "", "c", "2", "ii"), New("", "", "", "c", "2", "iii")},
		},
		{
			name:  "adjacent endpoints",
			first: New("1005", "", "30"),
			last:  New("1005", "", "31"),
			want:  nil,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := ExpandRange(testCase.first, testCase.last)
			if err != nil {
				t.Fatalf("ExpandRange: %v", err)
			}
			if len(got) != len(testCase.want) {
				t.Fatalf("got %d labels %v, want %d", len(got), got, len(testCase.want))
			}
			for i := range got {
				if !got[i].Equal(testCase.want[i]) {
					t.Errorf("label %d: got %v, want %v", i, got[i], testCase.want[i])
				}
			}
		})
	}
}

func TestExpandRangeErrors(t *testing.T) {
	testCases := []struct {
		name  string
		first Label
		last  Label
	}{
		{"different depths", New("", "", "", "a"), New("", "", "", "a", "2")},
		{"different parents", New("", "", "", "a", "1"), New("", "", "", "b", "3")},
		{"marker outside alphabet", New("", "", "", "a", "x"), New("", "", "", "a", "3")},
		{"non numeric section", New("1005", "", "3a"), New("1005", "", "5")},
		{"no section", New("1005"), New("1006")},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := ExpandRange(testCase.first, testCase.last)
			var rangeErr *RangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("expected *RangeError, got %v", err)
			}
		})
	}
}
