package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable signals that the remote tabular source could not be read.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMalformedSource signals an empty or badly shaped sheet.
	ErrMalformedSource = errors.New("malformed source")
	// ErrSchema signals a missing expected column or an unusable table.
	ErrSchema = errors.New("schema error")
	// ErrNotLoaded signals a query against a catalog that has no snapshot yet.
	ErrNotLoaded = fmt.Errorf("%w: catalog not loaded", ErrSchema)
	// ErrMalformedLink signals a sharing link without a recoverable file id.
	ErrMalformedLink = errors.New("malformed link")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")

	// ErrFetchTimeout signals that the pamphlet fetch exceeded its deadline.
	ErrFetchTimeout = errors.New("fetch timeout")
	// ErrPamphletUnavailable signals a failed pamphlet fetch.
	ErrPamphletUnavailable = errors.New("pamphlet unavailable")
	// ErrNotImage signals a pamphlet body that is not an image.
	ErrNotImage = errors.New("pamphlet is not an image")
	// ErrPamphletTooLarge signals a pamphlet body over the configured limit.
	ErrPamphletTooLarge = errors.New("pamphlet too large")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)

// SchemaError wraps ErrSchema with the missing column name.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing column %q", ErrSchema.Error(), e.Column)
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// NewSchemaError creates a schema error for a missing column.
func NewSchemaError(column string) error {
	return &SchemaError{Column: column}
}

// RowError wraps ErrMalformedSource with the offending data row and column.
// Row is 1-based and counts data rows only (the header is row 0).
type RowError struct {
	Row    int
	Column string
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: row %d, column %q: %s", ErrMalformedSource.Error(), e.Row, e.Column, e.Reason)
}

func (e *RowError) Unwrap() error { return ErrMalformedSource }

// MalformedLinkError wraps ErrMalformedLink with the rejected link.
type MalformedLinkError struct {
	Link string
}

func (e *MalformedLinkError) Error() string {
	return fmt.Sprintf("%s: %q", ErrMalformedLink.Error(), e.Link)
}

func (e *MalformedLinkError) Unwrap() error { return ErrMalformedLink }
