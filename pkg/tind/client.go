// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tind is a client for the catalog of a TIND library server. It
// looks up bibliographic records by catalog id or item barcode, parses
// MARC XML exported from TIND, and attaches the circulation holdings of
// each record.
package tind

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/pdiddy/tind-client/internal/holdings"
	"github.com/pdiddy/tind-client/internal/httputil"
	"github.com/pdiddy/tind-client/internal/marc"
	"github.com/pdiddy/tind-client/pkg/types"
)

// Cache stores response bodies keyed by URL. *cache.Store satisfies it.
type Cache interface {
	Get(ctx context.Context, url string) ([]byte, bool, error)
	Put(ctx context.Context, url string, body []byte) error
}

// Limiter paces outgoing requests. *ratelimit.Limiter satisfies it.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Client talks to one TIND server. It holds no per-call state and is safe
// for concurrent use.
type Client struct {
	cfg     types.ClientConfig
	http    httputil.Doer
	cache   Cache
	limiter Limiter
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(d httputil.Doer) Option {
	return func(c *Client) { c.http = d }
}

// WithCache enables the response cache.
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithLimiter paces requests through l.
func WithLimiter(l Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a client for cfg.ServerURL.
func New(cfg types.ClientConfig, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = types.DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = types.DefaultUserAgent
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = types.DefaultMaxRetries
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}

	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ServerURL returns the base URL of the server.
func (c *Client) ServerURL() string { return c.cfg.ServerURL }

// LookupByID fetches the record with the given catalog id and attaches its
// items. An empty id returns a blank record without contacting the server.
func (c *Client) LookupByID(ctx context.Context, id string) (*types.Record, error) {
	if id == "" {
		return types.NewRecord(c.cfg.ServerURL), nil
	}
	if !marc.IsDigits(id) {
		return nil, fmt.Errorf("%w: %q is not a number", types.ErrInvalidArgument, id)
	}

	rec, err := c.recordFromServer(ctx, marcForIDTemplate, id)
	if err != nil {
		return nil, err
	}
	if !rec.HasData() {
		return nil, fmt.Errorf("%w: no record for %s in %s", types.ErrNotFound, id, c.cfg.ServerURL)
	}

	key := rec.CatalogID
	if key == "" {
		key = id
	}
	if err := c.attachItems(ctx, rec, key); err != nil {
		return nil, err
	}
	return rec, nil
}

// LookupByBarcode finds the record holding the item with barcode and
// returns that item, with its parent record attached. An empty barcode
// returns a blank item without contacting the server.
//
// If the record is found but none of its items carry the barcode the
// server has contradicted itself, and the error matches
// types.ErrDataIntegrity.
func (c *Client) LookupByBarcode(ctx context.Context, barcode string) (*types.Item, error) {
	if barcode == "" {
		return &types.Item{}, nil
	}
	if !marc.IsDigits(barcode) {
		return nil, fmt.Errorf("%w: %q is not a number", types.ErrInvalidArgument, barcode)
	}

	rec, err := c.recordFromServer(ctx, marcForBarcodeTemplate, barcode)
	if err != nil {
		return nil, err
	}
	if !rec.HasData() {
		return nil, fmt.Errorf("%w: no record for %s in %s", types.ErrNotFound, barcode, c.cfg.ServerURL)
	}
	if rec.IsBlank() {
		return nil, fmt.Errorf("%w: record for barcode %s has no catalog id", types.ErrDataIntegrity, barcode)
	}
	if err := c.attachItems(ctx, rec, rec.CatalogID); err != nil {
		return nil, err
	}

	item := rec.FindItem(barcode)
	if item == nil {
		return nil, fmt.Errorf("%w: record %s has no item with barcode %s",
			types.ErrDataIntegrity, rec.CatalogID, barcode)
	}
	return item, nil
}

// ParseXML builds a record from MARC XML exported from TIND and attaches
// its items from the server. Empty input returns a blank record.
func (c *Client) ParseXML(ctx context.Context, data []byte) (*types.Record, error) {
	if len(data) == 0 {
		return types.NewRecord(c.cfg.ServerURL), nil
	}
	rec, err := marc.Extract(data, c.cfg.ServerURL)
	if err != nil {
		return nil, err
	}
	if rec.IsBlank() {
		c.log.Debug("parsed XML has no catalog id, skipping items")
		return rec, nil
	}
	if err := c.attachItems(ctx, rec, rec.CatalogID); err != nil {
		return nil, err
	}
	return rec, nil
}

// RecordQuery selects a record either by catalog id or by MARC XML. The two
// fields are mutually exclusive.
type RecordQuery struct {
	ID  string
	XML []byte
}

// Record dispatches q to LookupByID or ParseXML. Setting both fields fails
// with types.ErrInvalidArgument; setting neither returns a blank record.
func (c *Client) Record(ctx context.Context, q RecordQuery) (*types.Record, error) {
	switch {
	case q.ID != "" && len(q.XML) > 0:
		return nil, fmt.Errorf("%w: id and XML are mutually exclusive", types.ErrInvalidArgument)
	case q.ID != "":
		return c.LookupByID(ctx, q.ID)
	case len(q.XML) > 0:
		return c.ParseXML(ctx, q.XML)
	default:
		return types.NewRecord(c.cfg.ServerURL), nil
	}
}

// Result is the outcome of one lookup in a batch.
type Result struct {
	ID     string
	Record *types.Record
	Err    error
}

// LookupRecords looks up every id concurrently, at most Concurrency at a
// time, and returns one Result per id in input order. A failed lookup does
// not stop the others.
func (c *Client) LookupRecords(ctx context.Context, ids []string) []Result {
	results := make([]Result, len(ids))
	sem := make(chan struct{}, c.cfg.Concurrency)

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = Result{ID: id, Err: ctx.Err()}
				return
			}
			rec, err := c.LookupByID(ctx, id)
			results[i] = Result{ID: id, Record: rec, Err: err}
		}()
	}
	wg.Wait()
	return results
}

// Items returns the holdings of the record with catalog id, in server
// order. The items have no parent set. Holdings carry circulation status,
// so they always come from the server and are never cached.
func (c *Client) Items(ctx context.Context, id string) ([]*types.Item, error) {
	if !marc.IsDigits(id) {
		return nil, fmt.Errorf("%w: %q is not a number", types.ErrInvalidArgument, id)
	}
	url := endpoint(holdingsTemplate, c.cfg.ServerURL, id)
	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	items, err := holdings.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("items for %s: %w", id, err)
	}
	return items, nil
}

// Thumbnail returns the cover image URL the server shows for rec, or "" if
// it has none. The answer is stored on rec so the server is asked at most
// once per record. A blank record has no thumbnail.
func (c *Client) Thumbnail(ctx context.Context, rec *types.Record) (string, error) {
	if rec == nil || rec.IsBlank() {
		return "", nil
	}
	if rec.ThumbnailResolved() {
		return rec.ThumbnailURL, nil
	}

	url := endpoint(thumbnailTemplate, c.cfg.ServerURL, rec.CatalogID)
	body, hit := c.cached(ctx, url)
	if !hit {
		var err error
		if body, err = c.fetch(ctx, url); err != nil {
			return "", err
		}
	}
	thumb, err := holdings.DecodeThumbnail(body)
	if err != nil {
		return "", fmt.Errorf("thumbnail for %s: %w", rec.CatalogID, err)
	}
	if thumb == "" {
		c.log.Debug("no thumbnail", "id", rec.CatalogID)
	} else if !hit {
		c.remember(ctx, url, body)
	}
	rec.SetThumbnail(thumb)
	return thumb, nil
}

// recordFromServer extracts the record at the search endpoint. Only a
// response that extracted to a record with data is cached, so a "not
// found" answer is asked again next time.
func (c *Client) recordFromServer(ctx context.Context, template, id string) (*types.Record, error) {
	url := endpoint(template, c.cfg.ServerURL, id)
	if body, ok := c.cached(ctx, url); ok {
		return marc.Extract(body, c.cfg.ServerURL)
	}
	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		c.log.Debug("no record data", "url", url)
		return types.NewRecord(c.cfg.ServerURL), nil
	}
	rec, err := marc.Extract(body, c.cfg.ServerURL)
	if err != nil {
		return nil, err
	}
	if rec.HasData() {
		c.remember(ctx, url, body)
	}
	return rec, nil
}

func (c *Client) attachItems(ctx context.Context, rec *types.Record, id string) error {
	items, err := c.Items(ctx, id)
	if err != nil {
		return err
	}
	rec.AttachItems(items)
	c.log.Debug("attached items", "id", id, "count", len(items))
	return nil
}

// cached returns the cached body for url. A cache read failure is logged
// and treated as a miss.
func (c *Client) cached(ctx context.Context, url string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, ok, err := c.cache.Get(ctx, url)
	if err != nil {
		c.log.Warn("cache read failed", "url", url, "error", err)
		return nil, false
	}
	if ok {
		c.log.Debug("cache hit", "url", url)
	}
	return body, ok
}

func (c *Client) remember(ctx context.Context, url string, body []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Put(ctx, url, body); err != nil {
		c.log.Warn("cache write failed", "url", url, "error", err)
	}
}

// fetch asks the server for url. It never reads or writes the cache. An
// empty response yields a nil body and no error. Every other failure is a
// *types.ServerError naming url.
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &types.ServerError{Endpoint: url, Err: err}
		}
	}

	c.log.Debug("fetching", "url", url)
	body, err := httputil.Get(ctx, c.http, url, httputil.Options{
		UserAgent:  c.cfg.UserAgent,
		Token:      c.cfg.APIToken,
		MaxRetries: c.cfg.MaxRetries,
		RetryDelay: c.cfg.RetryDelay,
	})
	if errors.Is(err, httputil.ErrNoContent) {
		c.log.Debug("empty response", "url", url)
		return nil, nil
	}
	if err != nil {
		return nil, &types.ServerError{Endpoint: url, Err: err}
	}
	return body, nil
}
