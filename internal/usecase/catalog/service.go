package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/schemedex/internal/domain"
	"github.com/kailas-cloud/schemedex/internal/domain/link"
	"github.com/kailas-cloud/schemedex/internal/domain/scheme"
	"github.com/kailas-cloud/schemedex/internal/domain/table"
	"github.com/kailas-cloud/schemedex/internal/redact"
)

// Query operation and outcome labels passed to Recorder.
const (
	OpFilter   = "filter"
	OpSearch   = "search"
	OpOptions  = "options"
	OpPamphlet = "pamphlet"

	OutcomeOK    = "ok"
	OutcomeMiss  = "miss"
	OutcomeError = "error"
)

// Config identifies the worksheet to load.
type Config struct {
	SourceID string
	Sheet    string
	// Timeout bounds one fetch-and-normalize cycle; zero means no bound.
	Timeout time.Duration
}

// Snapshot is one immutable, normalized load of the sheet.
type Snapshot struct {
	ID       string
	LoadedAt time.Time
	Table    scheme.Table
	Options  scheme.Options
}

// FilterResult is a filtered listing bound to the snapshot it came from.
type FilterResult struct {
	Items      []scheme.Listing
	SnapshotID string
}

// Match is the outcome of a name search. PamphletErr is set when the row
// carries a sharing link without a recoverable file id.
type Match struct {
	Found       bool
	Scheme      scheme.Scheme
	PamphletURL string
	PamphletErr error
}

type loadState struct {
	at  time.Time
	err error
}

// Service owns the published catalog snapshot. Queries read the current
// snapshot without locking; loads are serialized and swap it atomically.
type Service struct {
	src      Source
	fetcher  PamphletFetcher
	recorder Recorder
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time

	loadMu  sync.Mutex
	current atomic.Pointer[Snapshot]
	last    atomic.Pointer[loadState]
}

// New creates a catalog service. fetcher and recorder can be nil.
func New(src Source, fetcher PamphletFetcher, recorder Recorder, cfg Config, logger *zap.Logger) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		src:      src,
		fetcher:  fetcher,
		recorder: recorder,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Load fetches, normalizes and publishes a new snapshot. On failure the
// previously published snapshot, if any, stays in place.
func (s *Service) Load(ctx context.Context) (Snapshot, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	start := s.now()
	snap, err := s.build(ctx)
	duration := s.now().Sub(start)

	if err != nil {
		s.last.Store(&loadState{at: start, err: err})
		s.recorder.LoadFinished(false, duration, 0)
		s.logger.Error("Catalog load failed",
			zap.String("source_id", s.cfg.SourceID),
			zap.String("sheet", s.cfg.Sheet),
			zap.Duration("duration", duration),
			zap.String("error", redact.Error(err)),
		)
		return Snapshot{}, err
	}

	s.current.Store(snap)
	s.last.Store(&loadState{at: start})
	s.recorder.LoadFinished(true, duration, snap.Table.Len())
	s.logger.Info("Catalog loaded",
		zap.String("snapshot_id", snap.ID),
		zap.Int("live_schemes", snap.Table.Len()),
		zap.Duration("duration", duration),
	)
	return *snap, nil
}

// Reload is Load under the name used by the reload endpoint.
func (s *Service) Reload(ctx context.Context) (Snapshot, error) {
	return s.Load(ctx)
}

func (s *Service) build(ctx context.Context) (*Snapshot, error) {
	rows, err := s.src.Rows(ctx, s.cfg.SourceID, s.cfg.Sheet)
	if err != nil {
		if !errors.Is(err, domain.ErrSourceUnavailable) && !errors.Is(err, domain.ErrMalformedSource) {
			err = fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
		}
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}

	raw, err := table.NewRaw(rows)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}

	tbl, err := scheme.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize sheet: %w", err)
	}

	return &Snapshot{
		ID:       uuid.NewString(),
		LoadedAt: s.now().UTC(),
		Table:    tbl,
		Options:  scheme.OptionsOf(tbl),
	}, nil
}

// Snapshot returns the published snapshot and whether one exists.
func (s *Service) Snapshot() (Snapshot, bool) {
	snap := s.current.Load()
	if snap == nil {
		return Snapshot{}, false
	}
	return *snap, true
}

// Loaded reports whether a snapshot has been published.
func (s *Service) Loaded() bool {
	return s.current.Load() != nil
}

// LastError returns the error of the most recent load attempt, nil when it
// succeeded or none has run.
func (s *Service) LastError() error {
	st := s.last.Load()
	if st == nil {
		return nil
	}
	return st.err
}

// Ping checks the configured sheet is reachable when the source supports
// it, then reports the outcome of the last load: a reachable sheet that no
// longer loads is still a failing source.
func (s *Service) Ping(ctx context.Context) error {
	if p, ok := s.src.(SourcePinger); ok {
		if err := p.Ping(ctx, s.cfg.SourceID, s.cfg.Sheet); err != nil {
			return err
		}
	}
	return s.LastError()
}

// Filter returns the schemes matching both category selections, sorted by
// days left. Blank selections mean "any".
func (s *Service) Filter(_ context.Context, companyType, sector string) (FilterResult, error) {
	snap, err := s.snapshot(OpFilter)
	if err != nil {
		return FilterResult{}, err
	}
	items := scheme.Filter(snap.Table, scheme.NewCriteria(companyType, sector))
	s.recorder.Query(OpFilter, outcome(len(items) > 0))
	return FilterResult{Items: items, SnapshotID: snap.ID}, nil
}

// Search looks a scheme up by exact name and resolves its pamphlet URL.
// A miss is not an error.
func (s *Service) Search(_ context.Context, name string) (Match, error) {
	snap, err := s.snapshot(OpSearch)
	if err != nil {
		return Match{}, err
	}

	m := s.match(snap, name)
	s.recorder.Query(OpSearch, outcome(m.Found))
	return m, nil
}

// match resolves name against snap without recording a query.
func (s *Service) match(snap *Snapshot, name string) Match {
	sc, ok := scheme.Find(snap.Table, name)
	if !ok {
		return Match{}
	}

	m := Match{Found: true, Scheme: sc}
	m.PamphletURL, m.PamphletErr = link.Normalize(sc.PamphletLink())
	if m.PamphletErr != nil {
		s.logger.Warn("Scheme has a malformed pamphlet link",
			zap.String("scheme", sc.Name()),
			zap.Error(m.PamphletErr),
		)
	}
	return m
}

// Options returns the selectable company types, sectors and scheme names.
func (s *Service) Options(_ context.Context) (scheme.Options, error) {
	snap, err := s.snapshot(OpOptions)
	if err != nil {
		return scheme.Options{}, err
	}
	s.recorder.Query(OpOptions, OutcomeOK)
	return snap.Options, nil
}

// Pamphlet searches name and downloads its pamphlet image.
func (s *Service) Pamphlet(ctx context.Context, name string) (domain.Pamphlet, error) {
	snap, err := s.snapshot(OpPamphlet)
	if err != nil {
		return domain.Pamphlet{}, err
	}

	m := s.match(snap, name)
	if !m.Found {
		s.recorder.Query(OpPamphlet, OutcomeMiss)
		return domain.Pamphlet{}, fmt.Errorf("scheme %q: %w", strings.TrimSpace(name), domain.ErrNotFound)
	}
	if m.PamphletErr != nil {
		s.recorder.Query(OpPamphlet, OutcomeError)
		return domain.Pamphlet{}, fmt.Errorf("pamphlet of %q: %w", m.Scheme.Name(), m.PamphletErr)
	}
	if m.PamphletURL == "" {
		s.recorder.Query(OpPamphlet, OutcomeMiss)
		return domain.Pamphlet{}, fmt.Errorf("scheme %q has no pamphlet: %w", m.Scheme.Name(), domain.ErrNotFound)
	}
	if s.fetcher == nil {
		s.recorder.Query(OpPamphlet, OutcomeError)
		return domain.Pamphlet{}, fmt.Errorf("%w: no fetcher configured", domain.ErrPamphletUnavailable)
	}

	p, err := s.fetcher.Fetch(ctx, m.PamphletURL)
	if err != nil {
		s.recorder.Query(OpPamphlet, OutcomeError)
		return domain.Pamphlet{}, fmt.Errorf("fetch pamphlet of %q: %w", m.Scheme.Name(), err)
	}
	s.recorder.Query(OpPamphlet, OutcomeOK)
	return p, nil
}

func (s *Service) snapshot(op string) (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		s.recorder.Query(op, OutcomeError)
		return nil, domain.ErrNotLoaded
	}
	return snap, nil
}

func outcome(hit bool) string {
	if hit {
		return OutcomeOK
	}
	return OutcomeMiss
}

type nopRecorder struct{}

func (nopRecorder) LoadFinished(bool, time.Duration, int) {}
func (nopRecorder) Query(string, string)                  {}
