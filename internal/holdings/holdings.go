// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package holdings decodes the circulation JSON returned by a TIND server's
// bibcirc endpoint into types.Item values, and the small thumbnail document
// served next to it.
package holdings

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/pdiddy/tind-client/pkg/types"
)

var errMissingItems = errors.New(`missing "items" key`)

// payload is the holdings document: {"items": [...]}. A pointer tells an
// absent key apart from an empty list.
type payload struct {
	Items *[]entry `json:"items"`
}

// entry is one holding as the server reports it.
type entry struct {
	Barcode     string `json:"barcode"`
	ItemType    string `json:"item_type"`
	ItemVolume  string `json:"item_volume"`
	CallNumber  string `json:"call_number"`
	Description string `json:"description"`
	Library     string `json:"library"`
	Location    string `json:"location"`
	Status      string `json:"status"`
}

// Decode maps a holdings payload to items in array order. An empty payload
// means the record has no holdings. The returned items have no parent yet.
func Decode(data []byte) ([]*types.Item, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []*types.Item{}, nil
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &types.ParseError{Format: "holdings JSON", Err: err}
	}
	if p.Items == nil {
		return nil, &types.ParseError{Format: "holdings JSON", Err: errMissingItems}
	}

	items := make([]*types.Item, 0, len(*p.Items))
	for _, e := range *p.Items {
		items = append(items, &types.Item{
			Barcode:     e.Barcode,
			Type:        e.ItemType,
			Volume:      e.ItemVolume,
			CallNumber:  e.CallNumber,
			Description: e.Description,
			Library:     e.Library,
			Location:    e.Location,
			Status:      e.Status,
		})
	}
	return items, nil
}

// thumbnail is the document served by the thumbnail endpoint.
type thumbnail struct {
	Big   string `json:"big"`
	Small string `json:"small"`
}

// DecodeThumbnail returns the cover image URL from a thumbnail payload,
// preferring the large image. An empty payload or one naming no image
// yields "".
func DecodeThumbnail(data []byte) (string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return "", nil
	}
	var th thumbnail
	if err := json.Unmarshal(data, &th); err != nil {
		return "", &types.ParseError{Format: "thumbnail JSON", Err: err}
	}
	if th.Big != "" {
		return th.Big, nil
	}
	return th.Small, nil
}
