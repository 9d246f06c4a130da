// Package source opens the spreadsheet reader selected by configuration.
package source

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/schemedex/internal/config"
	"github.com/kailas-cloud/schemedex/internal/source/csvhttp"
	"github.com/kailas-cloud/schemedex/internal/source/gsheets"
	"github.com/kailas-cloud/schemedex/internal/source/static"
	"github.com/kailas-cloud/schemedex/internal/source/xlsx"
	cataloguc "github.com/kailas-cloud/schemedex/internal/usecase/catalog"
)

// Open builds the source for cfg.Driver. The static driver serves the
// built-in demo sheet and rewrites cfg so the catalog addresses it.
func Open(ctx context.Context, cfg *config.SourceConfig) (cataloguc.Source, error) {
	switch cfg.Driver {
	case config.DriverSheets:
		src, err := gsheets.New(ctx, gsheets.Config{
			CredentialsFile: cfg.CredentialsFile,
			CredentialsJSON: cfg.CredentialsJSON,
		})
		if err != nil {
			return nil, fmt.Errorf("open sheets source: %w", err)
		}
		return src, nil
	case config.DriverCSV:
		return csvhttp.New(csvhttp.Config{
			URLTemplate: cfg.CSVURLTemplate,
			Token:       cfg.CSVToken,
			Timeout:     cfg.Timeout(),
		}), nil
	case config.DriverXLSX:
		return xlsx.New(""), nil
	case config.DriverStatic:
		if cfg.ID == "" {
			cfg.ID = "demo"
		}
		if cfg.Sheet == "" {
			cfg.Sheet = static.DemoSheet
		}
		return static.NewDemo(), nil
	default:
		return nil, fmt.Errorf("unknown source driver %q", cfg.Driver)
	}
}
