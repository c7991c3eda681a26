// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package marc

import (
	"strings"
	"unicode"
)

// Clean strips trailing periods, slashes and whitespace, then surrounding
// whitespace. Catalog text often ends in ISBD punctuation ("Vector
// calculus /", "6th ed.") that is noise once the field is split out.
// Clean is idempotent.
func Clean(text string) string {
	if text == "" {
		return text
	}
	text = strings.TrimRightFunc(text, func(r rune) bool {
		return r == '.' || r == '/' || unicode.IsSpace(r)
	})
	return strings.TrimSpace(text)
}

// titleDelimiters are tried in order. The last one is searched from the
// right because "by" phrases can also occur inside titles.
var titleDelimiters = []struct {
	sep       string
	rightmost bool
}{
	{" / ", false},
	{" [by] ", false},
	{", by", true},
}

// SplitTitleAuthor separates a 245$a title statement that also carries the
// author names, e.g. "Essays / John Smith" or "Poems, by Jane Doe". When no
// delimiter is found the whole text is the title and author is empty.
func SplitTitleAuthor(text string) (title, author string) {
	title = strings.TrimSpace(text)
	for _, d := range titleDelimiters {
		var idx int
		if d.rightmost {
			idx = strings.LastIndex(title, d.sep)
		} else {
			idx = strings.Index(title, d.sep)
		}
		if idx <= 0 {
			continue
		}
		author = strings.TrimSpace(title[idx+len(d.sep):])
		title = strings.TrimSpace(title[:idx])
		break
	}
	if strings.HasSuffix(title, ":") {
		title = strings.TrimSpace(strings.TrimSuffix(title, ":"))
	}
	return title, author
}

// authorPrefixes are statement-of-responsibility lead-ins dropped from the
// author text. Longer prefixes come first.
var authorPrefixes = []string{"edited by", "by"}

// StripAuthorPrefix removes a leading "by" or "edited by" word and the
// whitespace after it. "Byron" is left alone.
func StripAuthorPrefix(author string) string {
	for _, p := range authorPrefixes {
		if !strings.HasPrefix(author, p) {
			continue
		}
		rest := author[len(p):]
		if rest == "" || startsWithSpace(rest) {
			return strings.TrimSpace(rest)
		}
	}
	return author
}

func startsWithSpace(s string) bool {
	for _, r := range s {
		return unicode.IsSpace(r)
	}
	return false
}

// ISBNToken returns the first whitespace-delimited token of an 020
// subfield when it is made of digits only. Qualifiers such as
// "1429224045 (hbk.)" are dropped.
func ISBNToken(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	if !isDigits(fields[0]) {
		return "", false
	}
	return fields[0], true
}

// isDigits reports whether s is non-empty and made only of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsDigits reports whether s is a non-empty ASCII digit string, the form
// of catalog ids and barcodes.
func IsDigits(s string) bool { return isDigits(s) }
