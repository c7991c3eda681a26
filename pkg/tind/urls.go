// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tind

import (
	"fmt"
	"strings"
)

// Endpoint templates. The first placeholder is the server base URL, the
// second an identifier.
const (
	marcForIDTemplate      = "%s/search?recid=%s&of=xm"
	marcForBarcodeTemplate = "%s/search?p=barcode%%3A+%s&of=xm"
	holdingsTemplate       = "%s/nanna/bibcirc/%s/details"
	thumbnailTemplate      = "%s/nanna/thumbnail/%s"
)

func endpoint(template, server, id string) string {
	return fmt.Sprintf(template, strings.TrimRight(server, "/"), id)
}
