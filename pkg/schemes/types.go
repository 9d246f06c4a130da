package schemes

import (
	"time"

	"github.com/kailas-cloud/schemedex/internal/domain/scheme"
)

// Selections that match every scheme.
const (
	AllCompanyTypes = scheme.AllCompanyTypes
	AllSectors      = scheme.AllSectors
)

// Listing is one row of a filtered scheme list.
type Listing struct {
	SerialNumber string
	Name         string
	Benefits     string
	Sector       []string
	CompanyType  []string
	Deadline     string
	// DaysLeft is nil when the sheet has no number for the scheme.
	DaysLeft *float64
}

// Scheme is a full catalog row.
type Scheme struct {
	Listing
	Status       string
	PamphletLink string
	// Fields holds every source column by header, including unknown ones.
	Fields map[string]string
}

// Options are the selectable values derived from the catalog.
type Options struct {
	CompanyTypes []string
	Sectors      []string
	Names        []string
}

// Match is the outcome of a name search. A miss has Found false.
type Match struct {
	Found  bool
	Scheme Scheme
	// PamphletURL is the direct download URL, empty if the scheme has none.
	PamphletURL string
	// PamphletErr is set when the sharing link has no recoverable file id.
	PamphletErr error
}

// Pamphlet is a downloaded pamphlet image.
type Pamphlet struct {
	URL         string
	ContentType string
	Data        []byte
}

// SnapshotInfo describes the loaded catalog.
type SnapshotInfo struct {
	ID       string
	LoadedAt time.Time
	Schemes  int
}

// HealthStatus represents the aggregated catalog health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

func listingFromDomain(l scheme.Listing) Listing {
	out := Listing{
		SerialNumber: l.SerialNumber,
		Name:         l.Name,
		Benefits:     l.Benefits,
		Sector:       l.Sector.Tags(),
		CompanyType:  l.CompanyType.Tags(),
		Deadline:     l.Deadline,
	}
	if v, ok := l.DaysLeft.Value(); ok {
		out.DaysLeft = &v
	}
	return out
}

func schemeFromDomain(s scheme.Scheme) Scheme {
	return Scheme{
		Listing:      listingFromDomain(scheme.ListingOf(s)),
		Status:       s.Status(),
		PamphletLink: s.PamphletLink(),
		Fields:       s.Fields(),
	}
}
