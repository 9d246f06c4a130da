package catalog

import (
	"context"
	"time"

	"github.com/kailas-cloud/schemedex/internal/domain"
)

// Source returns the raw cells of one worksheet, header row first.
type Source interface {
	Rows(ctx context.Context, sourceID, sheet string) ([][]string, error)
}

// SourcePinger is implemented by sources that can check reachability
// without transferring the sheet.
type SourcePinger interface {
	Ping(ctx context.Context, sourceID, sheet string) error
}

// PamphletFetcher downloads a pamphlet image by its direct URL.
type PamphletFetcher interface {
	Fetch(ctx context.Context, url string) (domain.Pamphlet, error)
}

// Recorder receives catalog measurements. Implementations must be safe
// for concurrent use.
type Recorder interface {
	LoadFinished(ok bool, duration time.Duration, live int)
	Query(op, outcome string)
}
