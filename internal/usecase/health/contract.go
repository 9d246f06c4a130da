package health

import "context"

// CatalogState reports whether the catalog has a snapshot and how the last
// load attempt went.
type CatalogState interface {
	Loaded() bool
	LastError() error
}

// SourcePinger checks source reachability. Optional.
type SourcePinger interface {
	Ping(ctx context.Context) error
}
