package schemes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/schemedex/internal/domain"
	"github.com/kailas-cloud/schemedex/internal/domain/scheme"
	"github.com/kailas-cloud/schemedex/internal/source/csvhttp"
	"github.com/kailas-cloud/schemedex/internal/source/gsheets"
	"github.com/kailas-cloud/schemedex/internal/source/static"
	"github.com/kailas-cloud/schemedex/internal/source/xlsx"
	"github.com/kailas-cloud/schemedex/internal/transport/pamphlet"
	cataloguc "github.com/kailas-cloud/schemedex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/schemedex/internal/usecase/health"
)

const (
	rowsSourceID = "rows"
	rowsSheet    = "Sheet1"
)

// Внутренний интерфейс для подмены в тестах.
type catalogUseCase interface {
	Reload(ctx context.Context) (cataloguc.Snapshot, error)
	Filter(ctx context.Context, companyType, sector string) (cataloguc.FilterResult, error)
	Search(ctx context.Context, name string) (cataloguc.Match, error)
	Options(ctx context.Context) (scheme.Options, error)
	Pamphlet(ctx context.Context, name string) (domain.Pamphlet, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the schemes catalog entry point.
type Client struct {
	catalog catalogUseCase
	health  healthUseCase
	obs     *observer
}

// New creates a Client and loads the catalog once. The provided context
// bounds the initial load.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("schemes: source required (use WithSheets, WithCSV, WithXLSX or WithRows)")
	}

	src, err := createSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	fetcher := pamphlet.NewFetcher(pamphlet.Config{
		Timeout:      cfg.pamphletTimeout,
		MaxBytes:     cfg.pamphletMaxBytes,
		RateLimitRPS: cfg.rateLimitRPS,
		Burst:        cfg.rateLimitBurst,
		HTTPClient:   cfg.httpClient,
	})

	svc := cataloguc.New(src, fetcher, obs, cataloguc.Config{
		SourceID: cfg.sourceID,
		Sheet:    cfg.sheet,
		Timeout:  cfg.loadTimeout,
	}, zap.NewNop())

	start := time.Now()
	_, err = svc.Load(ctx)
	obs.observe("load", start, err)
	if err != nil {
		return nil, fmt.Errorf("schemes: load catalog: %w", err)
	}

	return &Client{
		catalog: svc,
		health:  healthuc.New(svc, svc),
		obs:     obs,
	}, nil
}

func createSource(ctx context.Context, cfg *clientConfig) (cataloguc.Source, error) {
	switch cfg.driver {
	case driverSheets:
		src, err := gsheets.New(ctx, gsheets.Config{
			CredentialsFile: cfg.credentialsFile,
			CredentialsJSON: string(cfg.credentialsJSON),
		})
		if err != nil {
			return nil, fmt.Errorf("schemes: create sheets source: %w", err)
		}
		return src, nil
	case driverCSV:
		return csvhttp.New(csvhttp.Config{
			URLTemplate: cfg.csvURLTemplate,
			Token:       cfg.csvToken,
			Timeout:     cfg.loadTimeout,
			HTTPClient:  cfg.httpClient,
		}), nil
	case driverXLSX:
		return xlsx.New(""), nil
	case driverRows:
		src := static.New()
		src.Put(rowsSourceID, rowsSheet, cfg.rows)
		cfg.sourceID = rowsSourceID
		cfg.sheet = rowsSheet
		return src, nil
	default:
		return nil, fmt.Errorf("schemes: unknown driver %q", cfg.driver)
	}
}

// Reload re-reads the source. On failure the previous catalog stays in use.
func (c *Client) Reload(ctx context.Context) (info SnapshotInfo, err error) {
	start := time.Now()
	defer func() { c.obs.observe("reload", start, err) }()

	snap, err := c.catalog.Reload(ctx)
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("reload: %w", err)
	}
	return SnapshotInfo{ID: snap.ID, LoadedAt: snap.LoadedAt, Schemes: snap.Table.Len()}, nil
}

// Filter lists the schemes open to companyType in sector, soonest deadline
// first. Blank selections mean any.
func (c *Client) Filter(ctx context.Context, companyType, sector string) (list []Listing, err error) {
	start := time.Now()
	defer func() { c.obs.observe("filter", start, err) }()

	res, err := c.catalog.Filter(ctx, companyType, sector)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	list = make([]Listing, len(res.Items))
	for i, l := range res.Items {
		list[i] = listingFromDomain(l)
	}
	return list, nil
}

// Search finds a scheme by exact name. A miss is not an error.
func (c *Client) Search(ctx context.Context, name string) (m Match, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	res, err := c.catalog.Search(ctx, name)
	if err != nil {
		return Match{}, fmt.Errorf("search: %w", err)
	}
	if !res.Found {
		return Match{}, nil
	}
	return Match{
		Found:       true,
		Scheme:      schemeFromDomain(res.Scheme),
		PamphletURL: res.PamphletURL,
		PamphletErr: res.PamphletErr,
	}, nil
}

// Options returns the selectable company types, sectors and names.
func (c *Client) Options(ctx context.Context) (opts Options, err error) {
	start := time.Now()
	defer func() { c.obs.observe("options", start, err) }()

	o, err := c.catalog.Options(ctx)
	if err != nil {
		return Options{}, fmt.Errorf("options: %w", err)
	}
	return Options{
		CompanyTypes: o.CompanyTypes,
		Sectors:      o.Sectors,
		Names:        o.Names,
	}, nil
}

// Pamphlet downloads the pamphlet image of the scheme called name.
func (c *Client) Pamphlet(ctx context.Context, name string) (p Pamphlet, err error) {
	start := time.Now()
	defer func() { c.obs.observe("pamphlet", start, err) }()

	dp, err := c.catalog.Pamphlet(ctx, name)
	if err != nil {
		return Pamphlet{}, fmt.Errorf("pamphlet: %w", err)
	}
	return Pamphlet{URL: dp.URL, ContentType: dp.ContentType, Data: dp.Data}, nil
}

// Health reports whether a catalog is loaded and the last load succeeded.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.health.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
