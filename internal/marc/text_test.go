// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package marc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"no punctuation", "Vector calculus", "Vector calculus"},
		{"trailing slash", "Vector calculus /", "Vector calculus"},
		{"trailing period", "6th ed.", "6th ed"},
		{"mixed run", "Title ./. ", "Title"},
		{"period after space", "abc . ", "abc"},
		{"surrounding whitespace", "  spaced out  ", "spaced out"},
		{"inner punctuation kept", "A. B. Smith", "A. B. Smith"},
		{"only punctuation", "./ .", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestClean_Idempotent(t *testing.T) {
	bases := []string{"", "x", "Title", " lead", "A. B", "ends/in:"}
	tails := []string{"", ".", "/", " ", "./", "/.", ". /", " . ", "\t/\n.", "..//  ", " ./ ./"}
	for _, b := range bases {
		for _, tail := range tails {
			in := b + tail
			once := Clean(in)
			assert.Equal(t, once, Clean(once), "Clean(%q) is not idempotent", in)
		}
	}
}

func TestSplitTitleAuthor(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantTitle  string
		wantAuthor string
	}{
		{"no delimiter", "The diamond age", "The diamond age", ""},
		{"slash", "Essays / John Smith", "Essays", "John Smith"},
		{"first slash wins", "A / B / C", "A", "B / C"},
		{"bracketed by", "Poems [by] Jane Doe", "Poems", "Jane Doe"},
		{"comma by uses rightmost", "Stand by me, and more, by Ann Lee", "Stand by me, and more", "Ann Lee"},
		{"slash beats comma by", "Songs, by night / Al Green", "Songs, by night", "Al Green"},
		{"trailing colon removed", "Pack my bag :", "Pack my bag", ""},
		{"colon before slash", "Subtitles : / Atom Egoyan", "Subtitles", "Atom Egoyan"},
		{"slash without spaces stays in title", "Vector calculus /", "Vector calculus /", ""},
		{"delimiter at start ignored", " / nobody", "/ nobody", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, author := SplitTitleAuthor(tt.in)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantAuthor, author)
		})
	}
}

func TestSplitTitleAuthor_SlashPartition(t *testing.T) {
	inputs := []string{
		"Lasers and electro-optics / Christopher C. Davis",
		"x / y",
		"Title with / two / slashes",
		"Long title, by someone / Real Author",
	}
	for _, in := range inputs {
		title, author := SplitTitleAuthor(in)
		assert.NotContains(t, title, " / ", in)
		assert.Contains(t, in, title+" / "+author, in)
	}
}

func TestStripAuthorPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"by Neal Stephenson", "Neal Stephenson"},
		{"edited by Dawn J. Wright", "Dawn J. Wright"},
		{"by\tTab Person", "Tab Person"},
		{"Byron Smith", "Byron Smith"},
		{"bystander", "bystander"},
		{"played by Mark Laubach", "played by Mark Laubach"},
		{"by", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripAuthorPrefix(tt.in))
		})
	}
}

func TestISBNToken(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"1429224045 (hbk.)", "1429224045", true},
		{"9781429215084", "9781429215084", true},
		{"  0672329786  ", "0672329786", true},
		{"abc123", "", false},
		{"080442957X", "", false},
		{"", "", false},
		{"   ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ISBNToken(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsDigits(t *testing.T) {
	assert.True(t, IsDigits("735973"))
	assert.True(t, IsDigits("0"))
	assert.False(t, IsDigits(""))
	assert.False(t, IsDigits("12a"))
	assert.False(t, IsDigits("-12"))
	assert.False(t, IsDigits("١٢٣"))
}
