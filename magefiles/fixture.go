//go:build mage

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/tind-client/internal/httputil"
)

const fixtureDir = "pkg/tind/testdata"

// Fixture downloads the MARC XML and holdings JSON of record id from server
// into pkg/tind/testdata, for use as test fixtures.
func Fixture(server, id string) error {
	server = strings.TrimRight(server, "/")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client := &http.Client{Timeout: 30 * time.Second}
	targets := []struct{ url, file string }{
		{fmt.Sprintf("%s/search?recid=%s&of=xm", server, id), id + ".xml"},
		{fmt.Sprintf("%s/nanna/bibcirc/%s/details", server, id), id + "-items.json"},
	}
	for _, t := range targets {
		body, err := httputil.Get(ctx, client, t.url, httputil.Options{UserAgent: "tind-client/mage"})
		if err != nil {
			return fmt.Errorf("fetching %s: %w", t.url, err)
		}
		out := filepath.Join(fixtureDir, t.file)
		if err := os.WriteFile(out, body, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Printf("Wrote %s (%d bytes)\n", out, len(body))
	}
	return nil
}
