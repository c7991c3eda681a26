// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package marc turns MARC21 XML as exported by a TIND server into a
// types.Record. It reads a fixed set of control and data fields and applies
// the cleanup heuristics needed for catalog data whose title, author and
// subtitle are often run together.
package marc

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"

	"gopkg.in/xmlpath.v2"

	"github.com/pdiddy/tind-client/pkg/types"
)

// Namespace is the MARC21 slim XML namespace. The parser matches element
// names without it, so documents with or without the declaration both work.
const Namespace = "http://www.loc.gov/MARC21/slim"

// errNoRecord is wrapped when the document has content but no record element.
var errNoRecord = errors.New("no record element")

var (
	recordPath       = xmlpath.MustCompile("//record")
	controlFieldPath = xmlpath.MustCompile("controlfield")
	dataFieldPath    = xmlpath.MustCompile("datafield")
	subfieldPath     = xmlpath.MustCompile("subfield")
	tagPath          = xmlpath.MustCompile("@tag")
	codePath         = xmlpath.MustCompile("@code")
)

// subfield is one coded value inside a data field.
type subfield struct {
	code  string
	value string
}

// fields accumulates raw values while the data fields are scanned. Final
// decisions (author fallback, call number precedence, cleanup) are made
// once every field has been seen.
type fields struct {
	title         string
	splitAuthor   string
	statementAuth string
	mainAuthor    string
	subtitle      string
	callNo050     string
	callNo090     string
}

// Extract parses a MARC XML payload into a record for serverURL.
//
// A document whose root element has no children yields a blank record: this
// is how the server answers a search that matched nothing. Input with no
// recognizable record container fails with a *types.ParseError.
func Extract(data []byte, serverURL string) (*types.Record, error) {
	rec := types.NewRecord(serverURL)

	fixed, err := repair(data)
	if err != nil {
		return nil, &types.ParseError{Format: "MARC XML", Err: err}
	}
	slog.Debug("parsing MARC XML", "bytes", len(data))
	if fixed.rootChildren == 0 {
		slog.Debug("blank record, no values parsed")
		return rec, nil
	}

	root, err := xmlpath.Parse(bytes.NewReader(fixed.doc))
	if err != nil {
		return nil, &types.ParseError{Format: "MARC XML", Err: err}
	}
	iter := recordPath.Iter(root)
	if !iter.Next() {
		return nil, &types.ParseError{Format: "MARC XML", Err: errNoRecord}
	}
	node := iter.Node()

	readControlFields(node, rec)

	var f fields
	readDataFields(node, rec, &f)

	resolve(rec, &f)
	return rec, nil
}

func readControlFields(record *xmlpath.Node, rec *types.Record) {
	iter := controlFieldPath.Iter(record)
	for iter.Next() {
		n := iter.Node()
		tag, _ := tagPath.String(n)
		switch strings.TrimSpace(tag) {
		case "001":
			id := strings.TrimSpace(n.String())
			if isDigits(id) {
				rec.CatalogID = id
			} else if id != "" {
				slog.Debug("ignoring non-numeric control number", "value", id)
			}
		case "008":
			rec.Year = yearFrom008(n.String())
		}
	}
}

// yearFrom008 returns Date 1 from a 008 control field (positions 7-10)
// when it is a full four-digit year.
func yearFrom008(value string) string {
	runes := []rune(value)
	if len(runes) < 11 {
		return ""
	}
	year := strings.TrimSpace(string(runes[7:11]))
	if len(year) != 4 || !isDigits(year) {
		return ""
	}
	return year
}

func readDataFields(record *xmlpath.Node, rec *types.Record, f *fields) {
	iter := dataFieldPath.Iter(record)
	for iter.Next() {
		n := iter.Node()
		tag, _ := tagPath.String(n)
		subs := readSubfields(n)

		switch strings.TrimSpace(tag) {
		case "250":
			if len(subs) > 0 {
				rec.Edition = subs[0].value
			}
		case "050":
			f.callNo050 = joinValues(subs)
		case "090":
			f.callNo090 = joinValues(subs)
		case "100":
			for _, s := range subs {
				if s.code == "a" {
					f.mainAuthor = s.value
				}
			}
		case "245":
			for _, s := range subs {
				switch s.code {
				case "a":
					f.title, f.splitAuthor = SplitTitleAuthor(s.value)
				case "b":
					f.subtitle = s.value
				case "c":
					f.statementAuth = s.value
				}
			}
		case "020":
			for _, s := range subs {
				if token, ok := ISBNToken(s.value); ok {
					rec.ISBNISSN = append(rec.ISBNISSN, token)
				}
			}
		case "300":
			rec.Description = joinValues(subs)
		case "504":
			for _, s := range subs {
				if s.code == "a" {
					rec.Note = s.value
				}
			}
		}
	}
}

func readSubfields(field *xmlpath.Node) []subfield {
	var subs []subfield
	iter := subfieldPath.Iter(field)
	for iter.Next() {
		n := iter.Node()
		code, _ := codePath.String(n)
		subs = append(subs, subfield{
			code:  strings.TrimSpace(code),
			value: strings.TrimSpace(n.String()),
		})
	}
	return subs
}

// joinValues joins the non-empty subfield values with single spaces.
func joinValues(subs []subfield) string {
	parts := make([]string, 0, len(subs))
	for _, s := range subs {
		if s.value != "" {
			parts = append(parts, s.value)
		}
	}
	return strings.Join(parts, " ")
}

// resolve applies the decisions that need every field: author fallback,
// the plausibility filter, text cleanup and the record URL.
func resolve(rec *types.Record, f *fields) {
	rec.Title = f.title
	rec.Subtitle = f.subtitle

	// 090 is the local call number and takes precedence over LC's 050.
	rec.CallNumber = f.callNo090
	if rec.CallNumber == "" {
		rec.CallNumber = f.callNo050
	}

	// 245$c is the full statement of responsibility; 100$a only names the
	// first author, so it is the last resort.
	author := f.statementAuth
	if author == "" {
		author = f.splitAuthor
	}
	if author != "" {
		rec.Author = StripAuthorPrefix(author)
	} else {
		rec.Author = f.mainAuthor
	}

	// Some catalog entries are not reading material (equipment, room keys).
	// They lack at least two of author, year and title.
	if !plausible(rec) {
		slog.Debug("record does not look bibliographic", "catalog_id", rec.CatalogID)
		rec.Title = ""
		rec.Author = ""
		rec.Year = ""
		rec.CallNumber = ""
		rec.Edition = ""
		return
	}

	rec.Author = Clean(rec.Author)
	rec.Title = Clean(rec.Title)
	rec.Edition = Clean(rec.Edition)
	rec.Subtitle = Clean(rec.Subtitle)
	rec.Description = Clean(rec.Description)

	if rec.CatalogID != "" {
		rec.RecordURL = RecordURL(rec.ServerURL, rec.CatalogID)
	}
}

// plausible reports whether fewer than two of author, year and title are
// missing.
func plausible(rec *types.Record) bool {
	missing := 0
	for _, v := range []string{rec.Author, rec.Year, rec.Title} {
		if v == "" {
			missing++
		}
	}
	return missing < 2
}

// RecordURL returns the display page of a record on serverURL.
func RecordURL(serverURL, catalogID string) string {
	return strings.TrimRight(serverURL, "/") + "/record/" + catalogID
}
