package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/tind-client/pkg/types"
)

func sampleRecord() *types.Record {
	rec := types.NewRecord("https://caltech.tind.io")
	rec.CatalogID = "466498"
	rec.RecordURL = "https://caltech.tind.io/record/466498"
	rec.Title = "Pack my bag"
	rec.Subtitle = "a self-portrait"
	rec.Author = "Henry Green"
	rec.Year = "1940"
	rec.CallNumber = "PR6013.R416 Z465"
	rec.AttachItems([]*types.Item{{
		Barcode:    "350470000611207",
		Type:       "Book",
		CallNumber: "PR6013.R416 Z465",
		Location:   "SFL basement books",
		Status:     "on shelf",
	}})
	return rec
}

func TestRender_Formats(t *testing.T) {
	rec := sampleRecord()
	text := func(w io.Writer) error { return writeRecordText(w, rec) }

	var buf bytes.Buffer
	require.NoError(t, render(&buf, "text", rec, text))
	out := buf.String()
	assert.Contains(t, out, "Title:       Pack my bag\n")
	assert.Contains(t, out, "Subtitle:    a self-portrait\n")
	assert.Contains(t, out, "350470000611207")
	assert.Contains(t, out, "1 items")
	assert.NotContains(t, out, "Edition:")

	buf.Reset()
	require.NoError(t, render(&buf, "json", rec, text))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "466498", decoded["catalog_id"])
	assert.Len(t, decoded["items"], 1)

	buf.Reset()
	require.NoError(t, render(&buf, "yaml", rec, text))
	var y map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &y))
	assert.Equal(t, "Henry Green", y["author"])

	err := render(&buf, "xml", rec, text)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestWriteRecordText_Blank(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRecordText(&buf, types.NewRecord("https://caltech.tind.io")))
	assert.Equal(t, "No record.\n", buf.String())
}

func TestItemView(t *testing.T) {
	rec := sampleRecord()
	view := newItemView(rec.Items[0])

	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"barcode":"350470000611207"`)
	assert.Contains(t, string(data), `"record_id":"466498"`)
	assert.Contains(t, string(data), `"record_title":"Pack my bag: a self-portrait"`)

	var buf bytes.Buffer
	require.NoError(t, writeYAML(&buf, view))
	assert.Contains(t, buf.String(), "barcode: \"350470000611207\"")
	assert.Contains(t, buf.String(), "record_id: \"466498\"")

	buf.Reset()
	require.NoError(t, writeItemText(&buf, rec.Items[0]))
	assert.Contains(t, buf.String(), "Record:      466498\n")
	assert.Contains(t, buf.String(), "Title:       Pack my bag: a self-portrait\n")
}

func TestLoadConfig(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("client.server_url", "https://caltech.tind.io")
	v.Set("client.retry_delay", "2s")
	v.Set("no_cache", true)

	apiToken = "from-secrets"
	t.Cleanup(func() { apiToken = "" })

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "https://caltech.tind.io", cfg.Client.ServerURL)
	assert.Equal(t, 2*time.Second, cfg.Client.RetryDelay)
	assert.Equal(t, types.DefaultMaxRetries, cfg.Client.MaxRetries)
	assert.Equal(t, types.DefaultTimeout, cfg.Client.Timeout)
	assert.Equal(t, "tind-client/dev", cfg.Client.UserAgent)
	assert.Equal(t, "from-secrets", cfg.Client.APIToken)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, types.DefaultCacheTTL, cfg.Cache.TTL)
}

func TestLoadConfig_ExplicitTokenWins(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("client.api_token", "from-config")

	apiToken = "from-secrets"
	t.Cleanup(func() { apiToken = "" })

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "from-config", cfg.Client.APIToken)
	assert.True(t, cfg.Cache.Enabled)
}

func TestConfigYAML(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.Client.ServerURL = "https://caltech.tind.io"

	var buf bytes.Buffer
	require.NoError(t, writeYAML(&buf, cfg))
	out := buf.String()
	assert.Contains(t, out, "server_url: https://caltech.tind.io")
	assert.Contains(t, out, "retry_delay: 15s")
	// The HTTP settings are inlined into the client section.
	assert.Contains(t, out, "  timeout: 30s")
	assert.NotContains(t, out, "httpconfig")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"QA303 .M338 2012", 20, "QA303 .M338 2012"},
		{"SFL basement books and periodicals", 24, "SFL basement books an..."},
		{"Bibliothèque Sainte-Geneviève", 15, "Bibliothèque..."},
		{"日本語の本棚にある資料", 8, "日本語の本..."},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		assert.Equal(t, tt.want, got, tt.in)
		assert.True(t, utf8.ValidString(got), tt.in)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), tt.n)
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(fmt.Errorf("x: %w", types.ErrInvalidArgument)))
	assert.Equal(t, 3, exitCode(types.ErrNotFound))
	assert.Equal(t, 1, exitCode(&types.ServerError{Endpoint: "u", Err: errors.New("down")}))
}

func TestPrintRecords_CSL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRecords(&buf, "csl", []*types.Record{sampleRecord()}))
	assert.Contains(t, buf.String(), "type: book")
	assert.Contains(t, buf.String(), "Pack my bag: a self-portrait")

	buf.Reset()
	require.NoError(t, printRecords(&buf, "csl-json", []*types.Record{sampleRecord()}))
	var items []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "466498", items[0]["id"])
}
