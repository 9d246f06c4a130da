// Package table holds the untyped header+records shape produced by a tabular source.
package table

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/schemedex/internal/domain"
)

// Raw is a loaded sheet: the header row plus records keyed by header name.
// Raw is immutable after NewRaw returns.
type Raw struct {
	header  []string
	index   map[string]int
	records [][]string
}

// NewRaw builds a Raw table from rows whose first row is the header.
// Header names are trimmed. Short rows are padded with empty cells.
// Columns without a usable name (blank, a repeat of an earlier name, or
// data past the header width) are kept under positional keys "#<n>",
// n being the 1-based column number. Only an empty sheet is rejected.
func NewRaw(rows [][]string) (Raw, error) {
	if len(rows) == 0 {
		return Raw{}, fmt.Errorf("%w: no header row", domain.ErrMalformedSource)
	}

	width := len(rows[0])
	for _, row := range rows[1:] {
		if w := usedWidth(row); w > width {
			width = w
		}
	}

	header := make([]string, width)
	index := make(map[string]int, width)
	for i := 0; i < len(rows[0]); i++ {
		name := strings.TrimSpace(rows[0][i])
		if name == "" {
			continue
		}
		if _, dup := index[name]; dup {
			continue
		}
		header[i] = name
		index[name] = i
	}
	for i := range header {
		if header[i] != "" {
			continue
		}
		name := positionalName(i)
		for {
			if _, taken := index[name]; !taken {
				break
			}
			name += "_"
		}
		header[i] = name
		index[name] = i
	}

	records := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make([]string, width)
		copy(rec, row)
		records = append(records, rec)
	}

	return Raw{header: header, index: index, records: records}, nil
}

// usedWidth is the row length without trailing blank cells.
func usedWidth(row []string) int {
	n := len(row)
	for n > 0 && strings.TrimSpace(row[n-1]) == "" {
		n--
	}
	return n
}

func positionalName(col int) string {
	return fmt.Sprintf("#%d", col+1)
}

// Header returns a copy of the column names in sheet order.
func (r Raw) Header() []string {
	out := make([]string, len(r.header))
	copy(out, r.header)
	return out
}

// HasColumn reports whether the header contains name.
func (r Raw) HasColumn(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Len returns the number of data rows.
func (r Raw) Len() int { return len(r.records) }

// Value returns the cell for data row i (0-based) and column name.
func (r Raw) Value(i int, column string) string {
	c, ok := r.index[column]
	if !ok {
		return ""
	}
	return r.records[i][c]
}

// Record returns data row i as a map keyed by column name.
func (r Raw) Record(i int) map[string]string {
	out := make(map[string]string, len(r.header))
	for c, name := range r.header {
		out[name] = r.records[i][c]
	}
	return out
}
