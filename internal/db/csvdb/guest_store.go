// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package csvdb

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/quixsi/seating/internal/model"
)

// LoadError is returned when the seating chart could not be fetched or parsed.
type LoadError struct {
	Reason model.ErrorReason
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("csvdb: %s: %v", e.Reason, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

type Option func(*GuestStore)

// WithCacheBust appends a timestamp query parameter to http sources.
func WithCacheBust(enabled bool) Option {
	return func(g *GuestStore) {
		g.cacheBust = enabled
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(g *GuestStore) {
		g.client = c
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *GuestStore) {
		g.now = now
	}
}

// GuestStore reads the guest list from a CSV file or URL on every call.
type GuestStore struct {
	source    *url.URL
	schema    model.Schema
	cacheBust bool
	client    *http.Client
	now       func() time.Time
}

// NewGuestStore accepts a bare path, a file:// URL or an http(s):// URL.
func NewGuestStore(source string, schema model.Schema, opts ...Option) (*GuestStore, error) {
	if source == "" {
		return nil, errors.New("csvdb: source is required")
	}
	if schema == model.SchemaUnknown {
		return nil, errors.New("csvdb: schema is required")
	}
	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("csvdb: invalid source %q: %w", source, err)
	}
	switch u.Scheme {
	case "":
		u = &url.URL{Scheme: "file", Path: source}
	case "file":
		// file://relative/path keeps the first segment in Host.
		u = &url.URL{Scheme: "file", Path: u.Host + u.Path}
	case "http", "https":
	default:
		return nil, fmt.Errorf("csvdb: unsupported source scheme %q", u.Scheme)
	}

	g := &GuestStore{
		source: u,
		schema: schema,
		client: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport), Timeout: 30 * time.Second},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *GuestStore) ListGuests(ctx context.Context) ([]*model.Guest, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "ListGuests")
	defer span.End()
	span.SetAttributes(
		attribute.String("source.scheme", g.source.Scheme),
		attribute.String("schema", g.schema.String()),
	)

	span.AddEvent("open source")
	rc, err := g.open(ctx)
	if err != nil {
		err = &LoadError{Reason: model.ErrorReasonFetch, Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer rc.Close()

	span.AddEvent("parse rows")
	guests, err := Parse(rc, g.schema)
	if err != nil {
		err = &LoadError{Reason: model.ErrorReasonParse, Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("guests", len(guests)))
	return guests, nil
}

func (g *GuestStore) open(ctx context.Context) (io.ReadCloser, error) {
	if g.source.Scheme == "file" {
		return os.Open(g.source.Path)
	}

	u := *g.source
	if g.cacheBust {
		q := u.Query()
		q.Set("t", strconv.FormatInt(g.now().UnixMilli(), 10))
		u.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

// Parse reads a header-first CSV and keeps only seatable guests, in row order.
func Parse(r io.Reader, schema model.Schema) ([]*model.Guest, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, err
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range schema.RequiredColumns() {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	cell := func(record []string, column string) string {
		i, ok := columns[column]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var guests []*model.Guest
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		guest := &model.Guest{Table: cell(record, model.ColumnTableNumber)}
		switch schema {
		case model.SchemaGuestName:
			guest.Name = cell(record, model.ColumnGuestName)
		case model.SchemaSplitName:
			guest.FirstName = cell(record, model.ColumnFirstName)
			guest.LastName = cell(record, model.ColumnLastName)
			guest.Nickname = cell(record, model.ColumnNickname)
		}
		if !Seatable(guest) {
			continue
		}
		guests = append(guests, guest)
	}
	return guests, nil
}

// Seatable reports whether a row belongs in the guest list.
func Seatable(g *model.Guest) bool {
	if g.DisplayName() == "" || g.Table == "" {
		return false
	}
	return !strings.EqualFold(g.FirstName, model.NotAttending)
}
