// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package marc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// errNoRoot is returned when the input holds no element at all.
var errNoRoot = errors.New("no root element")

// repaired is the normalized form of a MARC XML payload.
type repaired struct {
	doc []byte
	// rootChildren counts element children of the root element.
	rootChildren int
}

// repair reads data with a lenient decoder and re-serializes it as a
// balanced document without namespaces. It tolerates unknown entities,
// unquoted attributes, stray or mismatched end tags, and a truncated tail;
// whatever was read before the damage is kept. Only input with no element
// at all is rejected.
func repair(data []byte) (repaired, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.Strict = false
	d.Entity = xml.HTMLEntity

	var (
		out     bytes.Buffer
		open    []string
		rootEls int
		seen    bool
	)

loop:
	for {
		tok, err := d.RawToken()
		if err != nil {
			if errors.Is(err, io.EOF) || seen {
				break
			}
			return repaired{}, fmt.Errorf("reading XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(open) == 1 {
				rootEls++
			}
			seen = true
			open = append(open, t.Name.Local)
			writeStart(&out, t)

		case xml.EndElement:
			idx := lastIndex(open, t.Name.Local)
			if idx < 0 {
				continue // stray end tag
			}
			for len(open) > idx {
				writeEnd(&out, open[len(open)-1])
				open = open[:len(open)-1]
			}
			if len(open) == 0 {
				break loop
			}

		case xml.CharData:
			if len(open) > 0 {
				if err := xml.EscapeText(&out, t); err != nil {
					return repaired{}, err
				}
			}
		}
	}

	if !seen {
		return repaired{}, errNoRoot
	}
	for i := len(open) - 1; i >= 0; i-- {
		writeEnd(&out, open[i])
	}
	return repaired{doc: out.Bytes(), rootChildren: rootEls}, nil
}

// writeStart writes t with namespace prefixes and declarations removed.
func writeStart(w *bytes.Buffer, t xml.StartElement) {
	w.WriteByte('<')
	w.WriteString(t.Name.Local)
	for _, a := range t.Attr {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		w.WriteByte(' ')
		w.WriteString(a.Name.Local)
		w.WriteString(`="`)
		xml.EscapeText(w, []byte(a.Value))
		w.WriteByte('"')
	}
	w.WriteByte('>')
}

func writeEnd(w *bytes.Buffer, name string) {
	w.WriteString("</")
	w.WriteString(name)
	w.WriteByte('>')
}

func lastIndex(stack []string, name string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == name {
			return i
		}
	}
	return -1
}
