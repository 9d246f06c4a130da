// Package csvhttp reads a sheet exported as CSV over HTTP, e.g. the Google
// Sheets gviz CSV export or any published-to-web CSV link.
package csvhttp

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kailas-cloud/schemedex/internal/domain"
	"github.com/kailas-cloud/schemedex/internal/redact"
)

// DefaultURLTemplate is the Google Sheets CSV export for a named tab.
const DefaultURLTemplate = "https://docs.google.com/spreadsheets/d/{source}/gviz/tq?tqx=out:csv&sheet={sheet}"

// DefaultMaxBytes caps a CSV export; larger bodies are rejected, never truncated.
const DefaultMaxBytes = 32 << 20

// Config holds the CSV source settings.
type Config struct {
	// URLTemplate is expanded per request: {source} is path-escaped,
	// {sheet} is query-escaped.
	URLTemplate string
	// Token, when set, is sent as a Bearer authorization header.
	Token      string
	Timeout    time.Duration
	MaxBytes   int64
	HTTPClient *http.Client
}

// Source implements catalog.Source over HTTP CSV downloads.
type Source struct {
	template string
	token    string
	maxBytes int64
	http     *http.Client
}

// New creates a CSV-over-HTTP source.
func New(cfg Config) *Source {
	tmpl := strings.TrimSpace(cfg.URLTemplate)
	if tmpl == "" {
		tmpl = DefaultURLTemplate
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Source{template: tmpl, token: strings.TrimSpace(cfg.Token), maxBytes: maxBytes, http: hc}
}

// URL expands the template for sourceID and sheet.
func (s *Source) URL(sourceID, sheet string) string {
	r := strings.NewReplacer(
		"{source}", url.PathEscape(strings.TrimSpace(sourceID)),
		"{sheet}", url.QueryEscape(strings.TrimSpace(sheet)),
	)
	return r.Replace(s.template)
}

// Rows downloads the sheet and returns its CSV records, header first.
func (s *Source) Rows(ctx context.Context, sourceID, sheet string) ([][]string, error) {
	resp, err := s.get(ctx, sourceID, sheet)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %s", domain.ErrSourceUnavailable, redact.Error(err))
	}
	if int64(len(body)) > s.maxBytes {
		return nil, fmt.Errorf("%w: csv export over %d bytes", domain.ErrMalformedSource, s.maxBytes)
	}

	return parseCSV(bytes.NewReader(body))
}

// Ping requests the export and checks the status only; the body is closed
// unread.
func (s *Source) Ping(ctx context.Context, sourceID, sheet string) error {
	resp, err := s.get(ctx, sourceID, sheet)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// get issues the export request. A non-nil response always has a 2xx status.
func (s *Source) get(ctx context.Context, sourceID, sheet string) (*http.Response, error) {
	if strings.TrimSpace(sourceID) == "" {
		return nil, fmt.Errorf("%w: source id is required", domain.ErrSourceUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(sourceID, sheet), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %s", domain.ErrSourceUnavailable, redact.Error(err))
	}
	req.Header.Set("Accept", "text/csv")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceUnavailable, redact.Error(err))
	}

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, newHTTPError(resp, b))
	}
	return resp, nil
}

func parseCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read csv: %w", domain.ErrMalformedSource, err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// HTTPError is a sanitized summary of a non-2xx CSV download.
// Raw bodies are never included whole: they can echo tokens back.
type HTTPError struct {
	StatusCode int
	Status     string
	Snippet    string
}

func (e *HTTPError) Error() string {
	msg := "csv download failed: status=" + strings.TrimSpace(e.Status)
	if e.Snippet != "" {
		msg += " body=" + e.Snippet
	}
	return msg
}

func newHTTPError(resp *http.Response, body []byte) *HTTPError {
	const maxSnippet = 256
	b := body
	if len(b) > maxSnippet {
		b = b[:maxSnippet]
	}
	snippet := redact.Secrets(strings.NewReplacer("\n", " ", "\r", " ").Replace(string(b)))
	return &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Snippet: snippet}
}
