// Package csl converts catalog records to CSL (Citation Style Language)
// items so lookups can be fed to Pandoc and reference managers.
package csl

import (
	"encoding/json"
	"io"
	"regexp"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/tind-client/pkg/types"
)

// Item represents a bibliographic entry in CSL format. The field names and
// structure follow the CSL-JSON/CSL-YAML schema.
type Item struct {
	ID         string `json:"id" yaml:"id"`
	Type       string `json:"type" yaml:"type"`
	Title      string `json:"title" yaml:"title"`
	Author     []Name `json:"author,omitempty" yaml:"author,omitempty"`
	Edition    string `json:"edition,omitempty" yaml:"edition,omitempty"`
	Issued     *Date  `json:"issued,omitempty" yaml:"issued,omitempty"`
	ISBN       string `json:"ISBN,omitempty" yaml:"ISBN,omitempty"`
	CallNumber string `json:"call-number,omitempty" yaml:"call-number,omitempty"`
	Note       string `json:"note,omitempty" yaml:"note,omitempty"`
	URL        string `json:"URL,omitempty" yaml:"URL,omitempty"`
	Dimensions string `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
}

// Name represents a person's name in CSL format.
type Name struct {
	Family  string `json:"family,omitempty" yaml:"family,omitempty"`
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// Date represents a date in CSL format using date-parts.
type Date struct {
	DateParts [][]int `json:"date-parts" yaml:"date-parts"`
}

// roleWords are trailing designations in a statement of responsibility
// that are not names.
var roleWords = map[string]bool{
	"editor": true, "editors": true, "ed": true, "eds": true,
	"translator": true, "compiler": true, "et al": true, "and others": true,
}

var nameSeparators = regexp.MustCompile(`\s*(?:,|;|\band\b|&)\s*`)

// FromRecord converts a record to a CSL item of type "book".
func FromRecord(rec *types.Record) Item {
	item := Item{
		ID:         rec.CatalogID,
		Type:       "book",
		Title:      rec.FullTitle(),
		Edition:    rec.Edition,
		CallNumber: rec.CallNumber,
		Note:       rec.Note,
		URL:        rec.RecordURL,
		Dimensions: rec.Description,
	}
	if len(rec.ISBNISSN) > 0 {
		item.ISBN = rec.ISBNISSN[0]
	}
	item.Author = parseAuthors(rec.Author)
	if year, err := strconv.Atoi(rec.Year); err == nil {
		item.Issued = &Date{DateParts: [][]int{{year}}}
	}
	return item
}

// WriteYAML writes records as a CSL-YAML list to w.
func WriteYAML(w io.Writer, records []*types.Record) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items(records))
}

// WriteJSON writes records as a CSL-JSON array to w.
func WriteJSON(w io.Writer, records []*types.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items(records))
}

func items(records []*types.Record) []Item {
	out := make([]Item, len(records))
	for i, r := range records {
		out[i] = FromRecord(r)
	}
	return out
}

// parseAuthors converts an author statement to CSL names. A heading in the
// inverted "Family, Given" form that catalogs use in 100$a is one name, not
// two.
func parseAuthors(statement string) []Name {
	if family, given, ok := invertedName(statement); ok {
		return []Name{{Family: family, Given: given}}
	}
	var names []Name
	for _, a := range splitAuthors(statement) {
		names = append(names, parseName(a))
	}
	return names
}

// invertedName reports whether statement is a single "Family, Given"
// heading: one comma, a one-word family name, and no role word or name
// separator after the comma.
func invertedName(statement string) (family, given string, ok bool) {
	s := strings.TrimRight(strings.TrimSpace(statement), ", ")
	family, given, found := strings.Cut(s, ",")
	if !found || strings.Contains(given, ",") {
		return "", "", false
	}
	family, given = strings.TrimSpace(family), strings.TrimSpace(given)
	if family == "" || given == "" || strings.ContainsAny(family, " \t") {
		return "", "", false
	}
	if roleWords[strings.ToLower(strings.TrimSuffix(given, "."))] || nameSeparators.MatchString(given) {
		return "", "", false
	}
	return family, given, true
}

// splitAuthors breaks a free-text author statement such as
// "Dawn J. Wright and Christian Harder, editors" into individual names.
func splitAuthors(statement string) []string {
	var names []string
	for _, part := range nameSeparators.Split(statement, -1) {
		part = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), "."))
		if part == "" || roleWords[strings.ToLower(part)] {
			continue
		}
		names = append(names, part)
	}
	return names
}

// parseName splits a full name into CSL family/given parts on the last
// space. Single-token names use the literal field.
func parseName(name string) Name {
	name = strings.TrimSpace(name)
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return Name{Literal: name}
	}
	return Name{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
