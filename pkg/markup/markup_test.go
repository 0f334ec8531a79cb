package markup

import "testing"

func TestStripTags(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "revise paragraph (b)", "revise paragraph (b)"},
		{"italic marker", `(c)(2)(ii)(A)(<E T="03">2</E>) redesignating`, "(c)(2)(ii)(A)(2) redesignating"},
		{"wrapping element", "<AMDPAR>3. Amend § 1005.36</AMDPAR>", "3. Amend § 1005.36"},
		{"entities decoded", "Part 1005 &amp; Part 1026", "Part 1005 & Part 1026"},
		{"nested elements", "<P>See <E T=\"04\">paragraph</E> (a)</P>", "See paragraph (a)"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := StripTags(testCase.input); got != testCase.want {
				t.Errorf("StripTags(%q): got %q, want %q", testCase.input, got, testCase.want)
			}
		})
	}
}

func TestCollapseSpace(t *testing.T) {
	if got := CollapseSpace("  In § 1005.36,\n\trevise  paragraph (b) "); got != "In § 1005.36, revise paragraph (b)" {
		t.Errorf("CollapseSpace: got %q", got)
	}
}
