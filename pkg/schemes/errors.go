package schemes

import "github.com/kailas-cloud/schemedex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrSourceUnavailable   = domain.ErrSourceUnavailable
	ErrMalformedSource     = domain.ErrMalformedSource
	ErrSchema              = domain.ErrSchema
	ErrNotLoaded           = domain.ErrNotLoaded
	ErrMalformedLink       = domain.ErrMalformedLink
	ErrNotFound            = domain.ErrNotFound
	ErrFetchTimeout        = domain.ErrFetchTimeout
	ErrPamphletUnavailable = domain.ErrPamphletUnavailable
	ErrNotImage            = domain.ErrNotImage
	ErrPamphletTooLarge    = domain.ErrPamphletTooLarge
	ErrRateLimited         = domain.ErrRateLimited
)
