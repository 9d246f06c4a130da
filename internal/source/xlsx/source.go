// Package xlsx reads a worksheet from a local .xlsx workbook. It serves
// offline deployments and fixtures exported from the live spreadsheet.
package xlsx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kailas-cloud/schemedex/internal/domain"
)

// Source implements catalog.Source over workbook files. The source id is
// the file path, resolved against Dir when relative.
type Source struct {
	dir string
}

// New creates a workbook source rooted at dir.
func New(dir string) *Source {
	return &Source{dir: dir}
}

// Rows returns the populated rows of sheet, header first. A blank sheet
// name selects the first worksheet.
func (s *Source) Rows(ctx context.Context, path, sheet string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	p, err := s.stat(path)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(p)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %w", domain.ErrMalformedSource, err)
	}
	defer func() {
		_ = f.Close()
	}()

	name := strings.TrimSpace(sheet)
	if name == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", domain.ErrMalformedSource)
		}
		name = list[0]
	}
	if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: sheet %q not found in %s", domain.ErrSourceUnavailable, name, filepath.Base(p))
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %w", domain.ErrMalformedSource, name, err)
	}
	return rows, nil
}

// Ping checks that the workbook file exists without opening it.
func (s *Source) Ping(ctx context.Context, path, _ string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	_, err := s.stat(path)
	return err
}

func (s *Source) stat(path string) (string, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return "", fmt.Errorf("%w: workbook path is required", domain.ErrSourceUnavailable)
	}
	if s.dir != "" && !filepath.IsAbs(p) {
		p = filepath.Join(s.dir, p)
	}
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	return p, nil
}
