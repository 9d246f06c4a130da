package scheme

import (
	"slices"
	"strings"
)

// Sentinel selections that disable a filter dimension. Rows tagged with the
// sentinel match every selection on that dimension.
const (
	AllCompanyTypes = "ALL"
	AllSectors      = "All Sector"
)

// Criteria is the pair of category selections driving Filter.
type Criteria struct {
	companyType string
	sector      string
}

// NewCriteria creates Criteria; blank selections fall back to the sentinels.
func NewCriteria(companyType, sector string) Criteria {
	companyType = strings.TrimSpace(companyType)
	sector = strings.TrimSpace(sector)
	if companyType == "" {
		companyType = AllCompanyTypes
	}
	if sector == "" {
		sector = AllSectors
	}
	return Criteria{companyType: companyType, sector: sector}
}

// CompanyType returns the selected company type.
func (c Criteria) CompanyType() string { return c.companyType }

// Sector returns the selected sector.
func (c Criteria) Sector() string { return c.sector }

// IsEmpty reports whether neither dimension filters anything.
func (c Criteria) IsEmpty() bool {
	return c.companyType == AllCompanyTypes && c.sector == AllSectors
}

// Matches reports whether s passes both active dimensions.
func (c Criteria) Matches(s Scheme) bool {
	if c.companyType != AllCompanyTypes &&
		!s.companyType.Contains(c.companyType) && !s.companyType.Contains(AllCompanyTypes) {
		return false
	}
	if c.sector != AllSectors &&
		!s.sector.Contains(c.sector) && !s.sector.Contains(AllSectors) {
		return false
	}
	return true
}

// Listing is the fixed projection Filter returns for display.
type Listing struct {
	SerialNumber string
	Name         string
	Benefits     string
	Sector       TagSet
	CompanyType  TagSet
	Deadline     string
	DaysLeft     DaysLeft
}

// ListingOf projects a scheme onto the display columns.
func ListingOf(s Scheme) Listing {
	return Listing{
		SerialNumber: s.serialNumber,
		Name:         s.name,
		Benefits:     s.benefits,
		Sector:       s.sector,
		CompanyType:  s.companyType,
		Deadline:     s.deadline,
		DaysLeft:     s.daysLeft,
	}
}

// Filter returns the rows matching c, sorted ascending by days left.
// Missing days left sort last; ties keep source order. t is never modified.
func Filter(t Table, c Criteria) []Listing {
	out := make([]Listing, 0, len(t.schemes))
	for _, s := range t.schemes {
		if c.Matches(s) {
			out = append(out, ListingOf(s))
		}
	}

	slices.SortStableFunc(out, func(a, b Listing) int {
		switch {
		case a.DaysLeft.less(b.DaysLeft):
			return -1
		case b.DaysLeft.less(a.DaysLeft):
			return 1
		default:
			return 0
		}
	})
	return out
}
