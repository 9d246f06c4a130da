package chi

import (
	"time"

	"github.com/kailas-cloud/schemedex/internal/domain/scheme"
	cataloguc "github.com/kailas-cloud/schemedex/internal/usecase/catalog"
)

// ErrorCode is the machine-readable error code in ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeUnauthorized        ErrorCode = "unauthorized"
	ErrorCodeNotFound            ErrorCode = "not_found"
	ErrorCodeCatalogUnavailable  ErrorCode = "catalog_unavailable"
	ErrorCodeSourceUnavailable   ErrorCode = "source_unavailable"
	ErrorCodeMalformedSource     ErrorCode = "malformed_source"
	ErrorCodeSchemaMismatch      ErrorCode = "schema_mismatch"
	ErrorCodeMalformedLink       ErrorCode = "malformed_link"
	ErrorCodeFetchTimeout        ErrorCode = "fetch_timeout"
	ErrorCodePamphletUnavailable ErrorCode = "pamphlet_unavailable"
	ErrorCodeNotImage            ErrorCode = "not_image"
	ErrorCodePamphletTooLarge    ErrorCode = "pamphlet_too_large"
	ErrorCodeRateLimited         ErrorCode = "rate_limited"
	ErrorCodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// OptionsResponse lists the selectable values.
type OptionsResponse struct {
	CompanyTypes []string `json:"company_types"`
	Sectors      []string `json:"sectors"`
	Schemes      []string `json:"schemes"`
}

// SchemeItem is one row of a filtered listing.
type SchemeItem struct {
	SerialNumber string   `json:"serial_number"`
	Name         string   `json:"name"`
	Benefits     string   `json:"benefits"`
	Sector       []string `json:"sector"`
	CompanyType  []string `json:"company_type"`
	Deadline     string   `json:"deadline"`
	DaysLeft     *float64 `json:"days_left"`
}

// FilterResponse is the body of GET /api/v1/schemes.
type FilterResponse struct {
	Items      []SchemeItem `json:"items"`
	Count      int          `json:"count"`
	SnapshotID string       `json:"snapshot_id"`
}

// SchemeDetail is a matched scheme with every source column.
type SchemeDetail struct {
	SchemeItem
	Status       string            `json:"status"`
	PamphletLink string            `json:"pamphlet_link"`
	Fields       map[string]string `json:"fields"`
}

// SearchResponse is the body of GET /api/v1/search.
type SearchResponse struct {
	Found         bool          `json:"found"`
	Scheme        *SchemeDetail `json:"scheme,omitempty"`
	PamphletURL   string        `json:"pamphlet_url,omitempty"`
	PamphletError string        `json:"pamphlet_error,omitempty"`
	Message       string        `json:"message,omitempty"`
}

// SnapshotResponse summarizes a published catalog snapshot.
type SnapshotResponse struct {
	SnapshotID  string    `json:"snapshot_id"`
	LoadedAt    time.Time `json:"loaded_at"`
	LiveSchemes int       `json:"live_schemes"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func listingToItem(l scheme.Listing) SchemeItem {
	item := SchemeItem{
		SerialNumber: l.SerialNumber,
		Name:         l.Name,
		Benefits:     l.Benefits,
		Sector:       l.Sector.Tags(),
		CompanyType:  l.CompanyType.Tags(),
		Deadline:     l.Deadline,
	}
	if v, ok := l.DaysLeft.Value(); ok {
		item.DaysLeft = &v
	}
	return item
}

func schemeToDetail(s scheme.Scheme) *SchemeDetail {
	return &SchemeDetail{
		SchemeItem:   listingToItem(scheme.ListingOf(s)),
		Status:       s.Status(),
		PamphletLink: s.PamphletLink(),
		Fields:       s.Fields(),
	}
}

func snapshotToResponse(s cataloguc.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		SnapshotID:  s.ID,
		LoadedAt:    s.LoadedAt,
		LiveSchemes: s.Table.Len(),
	}
}
