package schemes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Source drivers.
const (
	driverSheets = "sheets"
	driverCSV    = "csv"
	driverXLSX   = "xlsx"
	driverRows   = "rows"
)

// Option configures a Client.
type Option interface {
	apply(*clientConfig)
}

type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string
	sourceID string
	sheet    string

	credentialsFile string
	credentialsJSON []byte
	csvURLTemplate  string
	csvToken        string
	rows            [][]string

	loadTimeout      time.Duration
	pamphletTimeout  time.Duration
	pamphletMaxBytes int64
	rateLimitRPS     float64
	rateLimitBurst   int
	httpClient       *http.Client

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithSheets reads the catalog through the Google Sheets API.
// An empty credentialsFile falls back to application default credentials.
func WithSheets(spreadsheetID, sheet, credentialsFile string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverSheets
		c.sourceID = spreadsheetID
		c.sheet = sheet
		c.credentialsFile = credentialsFile
	})
}

// WithSheetsCredentialsJSON sets inline service account credentials for WithSheets.
func WithSheetsCredentialsJSON(data []byte) Option {
	return optionFunc(func(c *clientConfig) {
		c.credentialsJSON = append([]byte(nil), data...)
	})
}

// WithCSV reads the catalog as a CSV export. An empty urlTemplate uses the
// public Google Sheets export of sourceID.
func WithCSV(sourceID, sheet, urlTemplate string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverCSV
		c.sourceID = sourceID
		c.sheet = sheet
		c.csvURLTemplate = urlTemplate
	})
}

// WithCSVToken sends token as a Bearer header on CSV downloads.
func WithCSVToken(token string) Option {
	return optionFunc(func(c *clientConfig) { c.csvToken = token })
}

// WithXLSX reads the catalog from a local workbook. An empty sheet uses the
// first worksheet.
func WithXLSX(path, sheet string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverXLSX
		c.sourceID = path
		c.sheet = sheet
	})
}

// WithRows serves the catalog from in-memory cells, header row first.
func WithRows(rows [][]string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRows
		c.rows = rows
	})
}

// WithLoadTimeout bounds each catalog load.
func WithLoadTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) { c.loadTimeout = d })
}

// WithPamphletTimeout bounds each pamphlet download.
func WithPamphletTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) { c.pamphletTimeout = d })
}

// WithPamphletMaxBytes caps the size of a downloaded pamphlet.
func WithPamphletMaxBytes(n int64) Option {
	return optionFunc(func(c *clientConfig) { c.pamphletMaxBytes = n })
}

// WithRateLimit caps pamphlet downloads per second.
func WithRateLimit(rps float64, burst int) Option {
	return optionFunc(func(c *clientConfig) {
		c.rateLimitRPS = rps
		c.rateLimitBurst = burst
	})
}

// WithHTTPClient sets the HTTP client for CSV and pamphlet downloads.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) { c.httpClient = hc })
}

// WithLogger sets a structured logger for client operations.
// If not set, no logging is performed.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) { c.logger = l })
}

// WithPrometheus enables Prometheus metrics on the given registerer.
// If not set, no metrics are collected.
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) { c.metricsReg = reg })
}
