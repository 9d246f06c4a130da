package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/schemedex/internal/source/static"
	"github.com/kailas-cloud/schemedex/pkg/schemes"
)

// Source drivers accepted by --driver.
const (
	driverSheets = "sheets"
	driverCSV    = "csv"
	driverXLSX   = "xlsx"
	driverStatic = "static"
)

type globalFlags struct {
	driver          string
	source          string
	sheet           string
	credentialsFile string
	csvURLTemplate  string
	timeout         time.Duration
	verbose         bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "schemectl",
		Short: "Browse government schemes from the catalog spreadsheet",
		Long: `schemectl loads the scheme spreadsheet once, keeps the Live rows and
answers category filters and name lookups against them.

Example:
  schemectl --driver csv --source SPREADSHEET_ID list --company-type Startup
  schemectl --driver static search "Startup Seed Fund" --pamphlet-out seed.png`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.driver, "driver", envOr("SCHEMEDEX_SOURCE_DRIVER", driverCSV),
		"source driver: sheets, csv, xlsx or static")
	pf.StringVar(&g.source, "source", os.Getenv("SCHEMEDEX_SOURCE_ID"),
		"spreadsheet id, or workbook path for xlsx")
	pf.StringVar(&g.sheet, "sheet", envOr("SCHEMEDEX_SOURCE_SHEET", "Sheet1"), "worksheet name")
	pf.StringVar(&g.credentialsFile, "credentials-file", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		"service account key for the sheets driver")
	pf.StringVar(&g.csvURLTemplate, "csv-url-template", "",
		"CSV export URL with {source} and {sheet} placeholders")
	pf.DurationVar(&g.timeout, "timeout", 30*time.Second, "catalog load timeout")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "log catalog operations to stderr")

	root.AddCommand(
		newOptionsCmd(g),
		newListCmd(g),
		newSearchCmd(g),
		newVersionCmd(),
	)
	return root
}

// clientOptions maps the global flags onto library options.
func (g *globalFlags) clientOptions() ([]schemes.Option, error) {
	opts := []schemes.Option{schemes.WithLoadTimeout(g.timeout)}
	if g.verbose {
		opts = append(opts, schemes.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))))
	}

	switch g.driver {
	case driverSheets:
		opts = append(opts, schemes.WithSheets(g.source, g.sheet, g.credentialsFile))
	case driverCSV:
		opts = append(opts, schemes.WithCSV(g.source, g.sheet, g.csvURLTemplate))
	case driverXLSX:
		opts = append(opts, schemes.WithXLSX(g.source, g.sheet))
	case driverStatic:
		opts = append(opts, schemes.WithRows(static.DemoRows()))
	default:
		return nil, fmt.Errorf("unknown driver %q", g.driver)
	}
	if g.driver != driverStatic && g.source == "" {
		return nil, fmt.Errorf("--source is required for the %s driver", g.driver)
	}
	return opts, nil
}

func (g *globalFlags) open(ctx context.Context) (*schemes.Client, error) {
	opts, err := g.clientOptions()
	if err != nil {
		return nil, err
	}
	return schemes.New(ctx, opts...)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
