// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the catalog data model shared by the extractor,
// the holdings decoder, the catalog client, and the CLI.
//
// A Record is one bibliographic entry from a TIND server. An Item is one
// physical copy (holding) of a Record. Records are built from MARC XML; their
// Items are attached afterwards from the server's holdings endpoint.
package types

import (
	"cmp"
	"slices"
)

// Record is a bibliographic catalog entry.
type Record struct {
	// CatalogID is the server-assigned numeric identifier (MARC 001).
	// Empty for a blank record.
	CatalogID string `json:"catalog_id" yaml:"catalog_id"`

	// ServerURL is the base URL of the server the record came from.
	ServerURL string `json:"server_url" yaml:"server_url"`

	// RecordURL is the display page for the record on the server.
	RecordURL string `json:"record_url" yaml:"record_url"`

	// Title is the title proper (MARC 245$a).
	Title string `json:"title" yaml:"title"`

	// Subtitle is the remainder of title (MARC 245$b).
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`

	// Author is free text and may list several names (245$c, 245$a or 100$a).
	Author string `json:"author" yaml:"author"`

	// Edition is the edition statement (MARC 250).
	Edition string `json:"edition,omitempty" yaml:"edition,omitempty"`

	// Year is the four-digit publication year from control field 008.
	Year string `json:"year,omitempty" yaml:"year,omitempty"`

	// ISBNISSN lists digit-only identifiers from MARC 020 in source order.
	ISBNISSN []string `json:"isbn_issn" yaml:"isbn_issn"`

	// Description is the physical description (MARC 300).
	Description string `json:"description" yaml:"description"`

	// Note is the bibliography note (MARC 504$a).
	Note string `json:"note,omitempty" yaml:"note,omitempty"`

	// CallNumber is the classification number (MARC 090 or 050).
	CallNumber string `json:"call_number,omitempty" yaml:"call_number,omitempty"`

	// ThumbnailURL is the cover image URL. It is resolved on request by the
	// catalog client, never during the lookup itself.
	ThumbnailURL string `json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`

	// Items lists the holdings in the order the server returned them.
	Items []*Item `json:"items" yaml:"items"`

	thumbnailResolved bool
}

// NewRecord returns a blank record for serverURL.
func NewRecord(serverURL string) *Record {
	return &Record{
		ServerURL: serverURL,
		ISBNISSN:  []string{},
		Items:     []*Item{},
	}
}

// IsBlank reports whether the record carries no catalog id.
func (r *Record) IsBlank() bool {
	return r == nil || r.CatalogID == ""
}

// HasData reports whether any bibliographic value was extracted. A record
// without a catalog id can still carry data.
func (r *Record) HasData() bool {
	if r == nil {
		return false
	}
	return r.CatalogID != "" || r.Title != "" || r.Subtitle != "" ||
		r.Author != "" || r.Edition != "" || r.Year != "" ||
		r.Description != "" || r.Note != "" || r.CallNumber != "" ||
		len(r.ISBNISSN) > 0
}

// FullTitle returns the title with the subtitle appended after a colon.
func (r *Record) FullTitle() string {
	if r.Subtitle == "" {
		return r.Title
	}
	if r.Title == "" {
		return r.Subtitle
	}
	return r.Title + ": " + r.Subtitle
}

// AttachItems replaces the record's items and points each one back at r.
func (r *Record) AttachItems(items []*Item) {
	if items == nil {
		items = []*Item{}
	}
	for _, it := range items {
		it.Parent = r
	}
	r.Items = items
}

// FindItem returns the first item whose barcode equals barcode, or nil.
func (r *Record) FindItem(barcode string) *Item {
	for _, it := range r.Items {
		if it.Barcode == barcode {
			return it
		}
	}
	return nil
}

// SetThumbnail records a resolved thumbnail URL. An empty url still marks
// the thumbnail as resolved so the server is not asked again.
func (r *Record) SetThumbnail(url string) {
	r.ThumbnailURL = url
	r.thumbnailResolved = true
}

// ThumbnailResolved reports whether SetThumbnail has been called.
func (r *Record) ThumbnailResolved() bool {
	return r.thumbnailResolved
}

// Equal reports whether r and other hold the same values, including their
// items in order.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.CatalogID != other.CatalogID ||
		r.ServerURL != other.ServerURL ||
		r.RecordURL != other.RecordURL ||
		r.Title != other.Title ||
		r.Subtitle != other.Subtitle ||
		r.Author != other.Author ||
		r.Edition != other.Edition ||
		r.Year != other.Year ||
		r.Description != other.Description ||
		r.Note != other.Note ||
		r.CallNumber != other.CallNumber ||
		r.ThumbnailURL != other.ThumbnailURL {
		return false
	}
	if !slices.Equal(r.ISBNISSN, other.ISBNISSN) {
		return false
	}
	return slices.EqualFunc(r.Items, other.Items, (*Item).Equal)
}

// String returns "Record <url>", or "Record" for a record without a URL.
func (r *Record) String() string {
	if r.RecordURL == "" {
		return "Record"
	}
	return "Record " + r.RecordURL
}

// CompareRecords orders records by catalog id. It is suitable for
// slices.SortFunc.
func CompareRecords(a, b *Record) int {
	return cmp.Compare(a.CatalogID, b.CatalogID)
}

// Item is a single physical holding of a Record.
type Item struct {
	Barcode     string `json:"barcode" yaml:"barcode"`
	Type        string `json:"type" yaml:"type"`
	Volume      string `json:"volume,omitempty" yaml:"volume,omitempty"`
	CallNumber  string `json:"call_number" yaml:"call_number"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Library     string `json:"library" yaml:"library"`
	Location    string `json:"location" yaml:"location"`
	Status      string `json:"status" yaml:"status"`

	// Parent is the record this item belongs to. It is a back-reference and
	// is not serialized.
	Parent *Record `json:"-" yaml:"-"`
}

// Equal reports whether i and other hold the same values. Parents are
// compared by catalog id.
func (i *Item) Equal(other *Item) bool {
	if i == nil || other == nil {
		return i == other
	}
	return i.Barcode == other.Barcode &&
		i.Type == other.Type &&
		i.Volume == other.Volume &&
		i.CallNumber == other.CallNumber &&
		i.Description == other.Description &&
		i.Library == other.Library &&
		i.Location == other.Location &&
		i.Status == other.Status &&
		parentID(i) == parentID(other)
}

func parentID(i *Item) string {
	if i.Parent == nil {
		return ""
	}
	return i.Parent.CatalogID
}

// String returns "Item <barcode>", or "Item" when the barcode is empty.
func (i *Item) String() string {
	if i.Barcode == "" {
		return "Item"
	}
	return "Item " + i.Barcode
}

// CompareItems orders items by barcode. It is suitable for slices.SortFunc.
func CompareItems(a, b *Item) int {
	return cmp.Compare(a.Barcode, b.Barcode)
}
