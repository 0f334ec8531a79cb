// Package markup strips inline XML/HTML markup from Federal Register text.
package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// StripTags returns the text content of s with every tag removed and
// character entities decoded. Emphasis such as (<E T="03">2</E>) becomes
// (2). Tags are removed without inserting whitespace.
func StripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	var builder strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; either way keep what was read.
			return builder.String()
		case html.TextToken:
			builder.Write(tokenizer.Text())
		}
	}
}

// CollapseSpace replaces every run of whitespace with a single space and
// trims the ends.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
