// Package gsheets reads a worksheet through the Google Sheets v4 API.
package gsheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/kailas-cloud/schemedex/internal/domain"
	"github.com/kailas-cloud/schemedex/internal/redact"
)

// Config holds the service account settings. CredentialsJSON wins over
// CredentialsFile when both are set.
type Config struct {
	CredentialsFile string
	CredentialsJSON string
	// Options are appended last; tests use them to point at a fake endpoint.
	Options []option.ClientOption
}

// Source implements catalog.Source over the Sheets API.
type Source struct {
	spreadsheets *sheets.SpreadsheetsService
	values       *sheets.SpreadsheetsValuesService
}

// New builds the Sheets client. It does not contact the API.
func New(ctx context.Context, cfg Config) (*Source, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	opts = append(opts, cfg.Options...)

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: sheets client: %s", domain.ErrSourceUnavailable, redact.Error(err))
	}
	return &Source{
		spreadsheets: sheets.NewSpreadsheetsService(svc),
		values:       sheets.NewSpreadsheetsValuesService(svc),
	}, nil
}

// Rows reads every populated cell of the worksheet, header first.
// Cells are rendered by the API as formatted strings.
func (s *Source) Rows(ctx context.Context, spreadsheetID, sheet string) ([][]string, error) {
	id := strings.TrimSpace(spreadsheetID)
	if id == "" {
		return nil, fmt.Errorf("%w: spreadsheet id is required", domain.ErrSourceUnavailable)
	}

	resp, err := s.values.Get(id, sheetRange(sheet)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, apiError(err)
	}

	rows := make([][]string, len(resp.Values))
	for i, vals := range resp.Values {
		row := make([]string, len(vals))
		for j, v := range vals {
			row[j] = cellString(v)
		}
		rows[i] = row
	}
	return rows, nil
}

// Ping fetches only the tab titles of the spreadsheet and checks that sheet
// is among them. No cell data is transferred.
func (s *Source) Ping(ctx context.Context, spreadsheetID, sheet string) error {
	id := strings.TrimSpace(spreadsheetID)
	if id == "" {
		return fmt.Errorf("%w: spreadsheet id is required", domain.ErrSourceUnavailable)
	}

	resp, err := s.spreadsheets.Get(id).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return apiError(err)
	}

	name := strings.TrimSpace(sheet)
	if name == "" {
		name = "Sheet1"
	}
	for _, sh := range resp.Sheets {
		if sh.Properties != nil && sh.Properties.Title == name {
			return nil
		}
	}
	return fmt.Errorf("%w: sheet %q not found", domain.ErrSourceUnavailable, name)
}

func apiError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return fmt.Errorf("%w: sheets api status %d: %s",
			domain.ErrSourceUnavailable, gerr.Code, redact.Secrets(gerr.Message))
	}
	return fmt.Errorf("%w: %s", domain.ErrSourceUnavailable, redact.Error(err))
}

// sheetRange quotes the tab name so names with spaces or punctuation
// address the whole sheet.
func sheetRange(sheet string) string {
	name := strings.TrimSpace(sheet)
	if name == "" {
		name = "Sheet1"
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
