package scheme

import (
	"strings"

	"github.com/kailas-cloud/schemedex/internal/domain"
	"github.com/kailas-cloud/schemedex/internal/domain/table"
)

// Normalize validates the header and turns a raw sheet into the scheme Table:
// days left coerced to numbers, non-Live rows dropped, category fields split
// into tag sets and names trimmed. Relative row order is preserved.
func Normalize(raw table.Raw) (Table, error) {
	if err := ValidateColumns(raw); err != nil {
		return Table{}, err
	}

	schemes := make([]Scheme, 0, raw.Len())
	for i := 0; i < raw.Len(); i++ {
		daysLeft := ParseDaysLeft(raw.Value(i, ColDaysLeft))

		status := raw.Value(i, ColStatus)
		if status != StatusLive {
			continue
		}

		companyType := ParseTagSet(raw.Value(i, ColCompanyType))
		if companyType.IsEmpty() {
			return Table{}, &domain.RowError{Row: i + 1, Column: ColCompanyType, Reason: "no tags"}
		}
		sector := ParseTagSet(raw.Value(i, ColSector))
		if sector.IsEmpty() {
			return Table{}, &domain.RowError{Row: i + 1, Column: ColSector, Reason: "no tags"}
		}

		schemes = append(schemes, Scheme{
			serialNumber: raw.Value(i, ColSerialNumber),
			name:         strings.TrimSpace(raw.Value(i, ColName)),
			benefits:     raw.Value(i, ColBenefits),
			sector:       sector,
			companyType:  companyType,
			deadline:     raw.Value(i, ColDeadline),
			daysLeft:     daysLeft,
			status:       status,
			pamphletLink: raw.Value(i, ColPamphletLink),
			fields:       raw.Record(i),
		})
	}

	return Table{columns: raw.Header(), schemes: schemes}, nil
}

// ValidateColumns fails with *domain.SchemaError on the first missing required column.
func ValidateColumns(raw table.Raw) error {
	for _, col := range RequiredColumns {
		if !raw.HasColumn(col) {
			return domain.NewSchemaError(col)
		}
	}
	return nil
}
