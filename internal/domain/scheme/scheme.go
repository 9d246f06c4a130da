// Package scheme holds the typed scheme table and the pure operations over it:
// normalization, category filtering, exact-name lookup and option lists.
package scheme

import (
	"math"
	"strconv"
	"strings"
)

// Sheet column names.
const (
	ColSerialNumber = "SR. NO."
	ColName         = "Scheme"
	ColBenefits     = "Benefits"
	ColSector       = "SECTOR"
	ColCompanyType  = "COMPANY TYPE"
	ColDeadline     = "Deadline"
	ColDaysLeft     = "Days left"
	ColStatus       = "Status"
	ColPamphletLink = "Pamphlet link"
)

// RequiredColumns lists every column Normalize validates before touching rows.
var RequiredColumns = []string{
	ColSerialNumber,
	ColName,
	ColBenefits,
	ColSector,
	ColCompanyType,
	ColDeadline,
	ColDaysLeft,
	ColStatus,
	ColPamphletLink,
}

// StatusLive is the only status that survives normalization.
const StatusLive = "Live"

// DaysLeft is the numeric urgency of a scheme; non-numeric source values are missing.
type DaysLeft struct {
	value float64
	valid bool
}

// ParseDaysLeft coerces a cell to a number. Blank, non-numeric and
// non-finite values produce a missing DaysLeft.
func ParseDaysLeft(raw string) DaysLeft {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return DaysLeft{}
	}
	return DaysLeft{value: v, valid: true}
}

// Days returns a present DaysLeft.
func Days(v float64) DaysLeft { return DaysLeft{value: v, valid: true} }

// Value returns the number and whether it is present.
func (d DaysLeft) Value() (float64, bool) { return d.value, d.valid }

// IsMissing reports whether the source value was not numeric.
func (d DaysLeft) IsMissing() bool { return !d.valid }

// String formats the value without a trailing ".0"; missing is "".
func (d DaysLeft) String() string {
	if !d.valid {
		return ""
	}
	return strconv.FormatFloat(d.value, 'f', -1, 64)
}

// less orders present values ascending and places missing values last.
func (d DaysLeft) less(o DaysLeft) bool {
	switch {
	case !d.valid:
		return false
	case !o.valid:
		return true
	default:
		return d.value < o.value
	}
}

// Scheme is one normalized row (immutable value object).
type Scheme struct {
	serialNumber string
	name         string
	benefits     string
	sector       TagSet
	companyType  TagSet
	deadline     string
	daysLeft     DaysLeft
	status       string
	pamphletLink string
	fields       map[string]string
}

// Reconstruct creates a Scheme without validation (tests and fixtures).
func Reconstruct(
	serialNumber, name, benefits string,
	sector, companyType TagSet,
	deadline string, daysLeft DaysLeft,
	status, pamphletLink string,
) Scheme {
	return Scheme{
		serialNumber: serialNumber,
		name:         name,
		benefits:     benefits,
		sector:       sector,
		companyType:  companyType,
		deadline:     deadline,
		daysLeft:     daysLeft,
		status:       status,
		pamphletLink: pamphletLink,
	}
}

// SerialNumber returns the opaque row identifier.
func (s Scheme) SerialNumber() string { return s.serialNumber }

// Name returns the trimmed scheme name.
func (s Scheme) Name() string { return s.name }

// Benefits returns the free-text description.
func (s Scheme) Benefits() string { return s.benefits }

// Sector returns the sector tags.
func (s Scheme) Sector() TagSet { return s.sector }

// CompanyType returns the company type tags.
func (s Scheme) CompanyType() TagSet { return s.companyType }

// Deadline returns the deadline as written in the sheet.
func (s Scheme) Deadline() string { return s.deadline }

// DaysLeft returns the coerced urgency.
func (s Scheme) DaysLeft() DaysLeft { return s.daysLeft }

// Status returns the row status.
func (s Scheme) Status() string { return s.status }

// PamphletLink returns the raw pamphlet link.
func (s Scheme) PamphletLink() string { return s.pamphletLink }

// Field returns the raw cell of any source column, including ones the
// typed accessors do not cover.
func (s Scheme) Field(column string) (string, bool) {
	v, ok := s.fields[column]
	return v, ok
}

// Fields returns a copy of every raw cell keyed by column.
func (s Scheme) Fields() map[string]string {
	out := make(map[string]string, len(s.fields))
	for k, v := range s.fields {
		out[k] = v
	}
	return out
}

// Table is the normalized, read-only scheme table.
type Table struct {
	columns []string
	schemes []Scheme
}

// NewTable wraps already normalized schemes (tests and fixtures).
func NewTable(columns []string, schemes []Scheme) Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	rows := make([]Scheme, len(schemes))
	copy(rows, schemes)
	return Table{columns: cols, schemes: rows}
}

// Columns returns a copy of the source column names.
func (t Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.schemes) }

// Schemes returns a copy of the rows in source order.
func (t Table) Schemes() []Scheme {
	out := make([]Scheme, len(t.schemes))
	copy(out, t.schemes)
	return out
}
