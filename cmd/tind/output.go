package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/tind-client/pkg/types"
)

// render writes v in the requested format. For "text" it calls text.
func render(w io.Writer, format string, v any, text func(io.Writer) error) error {
	switch format {
	case "text", "":
		return text(w)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		return writeYAML(w, v)
	default:
		return fmt.Errorf("%w: unsupported format %q: use text, json, or yaml", types.ErrInvalidArgument, format)
	}
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// writeRecordText prints a record as aligned "label: value" lines followed
// by a table of its items. Empty values are skipped.
func writeRecordText(w io.Writer, rec *types.Record) error {
	if rec.IsBlank() && !rec.HasData() {
		_, err := fmt.Fprintln(w, "No record.")
		return err
	}

	fields := []struct{ label, value string }{
		{"Catalog ID", rec.CatalogID},
		{"Title", rec.Title},
		{"Subtitle", rec.Subtitle},
		{"Author", rec.Author},
		{"Edition", rec.Edition},
		{"Year", rec.Year},
		{"ISBN/ISSN", strings.Join(rec.ISBNISSN, ", ")},
		{"Description", rec.Description},
		{"Note", rec.Note},
		{"Call number", rec.CallNumber},
		{"Thumbnail", rec.ThumbnailURL},
		{"URL", rec.RecordURL},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "%-12s %s\n", f.label+":", f.value); err != nil {
			return err
		}
	}

	if len(rec.Items) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\n%-16s  %-6s  %-20s  %-24s  %s\n", "Barcode", "Type", "Call number", "Location", "Status")
	fmt.Fprintln(w, strings.Repeat("-", 86))
	for _, it := range rec.Items {
		fmt.Fprintf(w, "%-16s  %-6s  %-20s  %-24s  %s\n",
			it.Barcode, it.Type, truncate(it.CallNumber, 20), truncate(it.Location, 24), it.Status)
	}
	_, err := fmt.Fprintf(w, "\n%d items\n", len(rec.Items))
	return err
}

// writeItemText prints one item and a short summary of its parent record.
func writeItemText(w io.Writer, it *types.Item) error {
	if it.Barcode == "" {
		_, err := fmt.Fprintln(w, "No item.")
		return err
	}
	fields := []struct{ label, value string }{
		{"Barcode", it.Barcode},
		{"Type", it.Type},
		{"Volume", it.Volume},
		{"Call number", it.CallNumber},
		{"Description", it.Description},
		{"Library", it.Library},
		{"Location", it.Location},
		{"Status", it.Status},
	}
	if it.Parent != nil {
		fields = append(fields,
			struct{ label, value string }{"Record", it.Parent.CatalogID},
			struct{ label, value string }{"Title", it.Parent.FullTitle()},
			struct{ label, value string }{"Author", it.Parent.Author},
		)
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "%-12s %s\n", f.label+":", f.value); err != nil {
			return err
		}
	}
	return nil
}

// itemView is the serialized form of an item. Item.Parent is excluded from
// encoding, so the parent's id and title are carried here instead.
type itemView struct {
	types.Item  `yaml:",inline"`
	RecordID    string `json:"record_id,omitempty" yaml:"record_id,omitempty"`
	RecordTitle string `json:"record_title,omitempty" yaml:"record_title,omitempty"`
}

func newItemView(it *types.Item) itemView {
	v := itemView{Item: *it}
	if it.Parent != nil {
		v.RecordID = it.Parent.CatalogID
		v.RecordTitle = it.Parent.FullTitle()
	}
	return v
}

// truncate shortens s to at most n characters, ending in "...". It counts
// runes so a multi-byte character is never split.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
