package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/schemedex/internal/domain"
	"github.com/kailas-cloud/schemedex/internal/domain/scheme"
)

// --- Mocks ---

type mockSource struct {
	mu    sync.Mutex
	rows  [][]string
	err   error
	calls int
	gotID string
	gotSh string
}

func (m *mockSource) Rows(_ context.Context, sourceID, sheet string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.gotID, m.gotSh = sourceID, sheet
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}

type mockPingSource struct {
	mockSource
	pingErr error
	pinged  string
}

func (m *mockPingSource) Ping(_ context.Context, sourceID, sheet string) error {
	m.pinged = sourceID + "/" + sheet
	return m.pingErr
}

func (m *mockSource) set(rows [][]string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows, m.err = rows, err
}

type mockFetcher struct {
	gotURL string
	out    domain.Pamphlet
	err    error
}

func (m *mockFetcher) Fetch(_ context.Context, url string) (domain.Pamphlet, error) {
	m.gotURL = url
	if m.err != nil {
		return domain.Pamphlet{}, m.err
	}
	return m.out, nil
}

type mockRecorder struct {
	mu      sync.Mutex
	loads   []bool
	live    int
	queries map[string]int
}

func (m *mockRecorder) LoadFinished(ok bool, _ time.Duration, live int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads = append(m.loads, ok)
	if ok {
		m.live = live
	}
}

func (m *mockRecorder) Query(op, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queries == nil {
		m.queries = make(map[string]int)
	}
	m.queries[op+"/"+outcome]++
}

// --- Fixtures ---

var header = []string{
	"SR. NO.", "Scheme", "Benefits", "SECTOR", "COMPANY TYPE",
	"Deadline", "Days left", "Status", "Pamphlet link",
}

func row(sn, name, sector, companyType, days, status, pamphlet string) []string {
	return []string{sn, name, "benefits of " + name, sector, companyType, "31/12/2026", days, status, pamphlet}
}

func sheetRows() [][]string {
	return [][]string{
		header,
		row("1", "Seed Fund", "Tech", "Startup", "30", "Live", "https://drive.google.com/file/d/SEED/view"),
		row("2", "Old Loan", "Agri", "MSME", "3", "Closed", ""),
		row("3", "Credit Line", "Manufacturing", "MSME, Startup", "7", "Live", ""),
		row("4", "Broken", "All Sector", "ALL", "", "Live", "https://drive.google.com/view"),
		row("5", "Export Push", "Agri", "Exporter", "1", "Live", "https://example.org/p.png"),
	}
}

func newService(t *testing.T, src Source, f PamphletFetcher, rec Recorder) *Service {
	t.Helper()
	return New(src, f, rec, Config{SourceID: "sheet-id", Sheet: "Sheet1"}, zap.NewNop())
}

func loaded(t *testing.T) (*Service, *mockSource, *mockFetcher, *mockRecorder) {
	t.Helper()
	src := &mockSource{rows: sheetRows()}
	f := &mockFetcher{out: domain.Pamphlet{ContentType: "image/png", Data: []byte{1}}}
	rec := &mockRecorder{}
	svc := newService(t, src, f, rec)
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return svc, src, f, rec
}

func listingNames(ls []scheme.Listing) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Name
	}
	return out
}

// --- Tests ---

func TestLoad_PublishesSnapshot(t *testing.T) {
	svc, src, _, rec := loaded(t)

	if src.gotID != "sheet-id" || src.gotSh != "Sheet1" {
		t.Errorf("source called with %q/%q", src.gotID, src.gotSh)
	}
	snap, ok := svc.Snapshot()
	if !ok {
		t.Fatal("no snapshot after Load")
	}
	if snap.ID == "" || snap.LoadedAt.IsZero() {
		t.Errorf("snapshot metadata not set: %+v", snap)
	}
	if snap.Table.Len() != 4 {
		t.Errorf("live schemes = %d, want 4", snap.Table.Len())
	}
	if !svc.Loaded() || svc.LastError() != nil {
		t.Errorf("Loaded() = %v, LastError() = %v", svc.Loaded(), svc.LastError())
	}
	if diff := cmp.Diff([]bool{true}, rec.loads); diff != "" {
		t.Errorf("recorded loads (-want +got):\n%s", diff)
	}
	if rec.live != 4 {
		t.Errorf("recorded live = %d", rec.live)
	}
}

func TestLoad_SourceUnavailable(t *testing.T) {
	src := &mockSource{err: errors.New("dial tcp: connection refused")}
	svc := newService(t, src, nil, nil)

	_, err := svc.Load(context.Background())
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if svc.Loaded() {
		t.Error("snapshot published after failed load")
	}
	if !errors.Is(svc.LastError(), domain.ErrSourceUnavailable) {
		t.Errorf("LastError() = %v", svc.LastError())
	}
}

func TestLoad_EmptySheet(t *testing.T) {
	svc := newService(t, &mockSource{rows: nil}, nil, nil)
	_, err := svc.Load(context.Background())
	if !errors.Is(err, domain.ErrMalformedSource) {
		t.Fatalf("expected ErrMalformedSource, got %v", err)
	}
}

func TestLoad_MissingColumn(t *testing.T) {
	rows := [][]string{{"Scheme", "Status"}, {"A", "Live"}}
	svc := newService(t, &mockSource{rows: rows}, nil, nil)

	_, err := svc.Load(context.Background())
	if !errors.Is(err, domain.ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}

func TestReload_FailureKeepsPreviousSnapshot(t *testing.T) {
	svc, src, _, rec := loaded(t)
	before, _ := svc.Snapshot()

	src.set(nil, domain.ErrSourceUnavailable)
	if _, err := svc.Reload(context.Background()); err == nil {
		t.Fatal("expected reload error")
	}

	after, ok := svc.Snapshot()
	if !ok || after.ID != before.ID {
		t.Errorf("snapshot replaced by failed reload: %q -> %q", before.ID, after.ID)
	}
	if svc.LastError() == nil {
		t.Error("LastError() = nil after failed reload")
	}
	res, err := svc.Filter(context.Background(), "", "")
	if err != nil || len(res.Items) != 4 {
		t.Errorf("queries broken after failed reload: %v, %d items", err, len(res.Items))
	}
	if diff := cmp.Diff([]bool{true, false}, rec.loads); diff != "" {
		t.Errorf("recorded loads (-want +got):\n%s", diff)
	}
}

func TestReload_SwapsSnapshot(t *testing.T) {
	svc, src, _, _ := loaded(t)
	before, _ := svc.Snapshot()

	src.set([][]string{header, row("9", "Fresh", "Tech", "Startup", "2", "Live", "")}, nil)
	snap, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if snap.ID == before.ID {
		t.Error("reload kept the snapshot id")
	}
	if svc.LastError() != nil {
		t.Errorf("LastError() = %v after successful reload", svc.LastError())
	}
	opts, _ := svc.Options(context.Background())
	if diff := cmp.Diff([]string{"Fresh"}, opts.Names); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
}

func TestQueries_NotLoaded(t *testing.T) {
	rec := &mockRecorder{}
	svc := newService(t, &mockSource{}, nil, rec)
	ctx := context.Background()

	if _, err := svc.Filter(ctx, "", ""); !errors.Is(err, domain.ErrNotLoaded) || !errors.Is(err, domain.ErrSchema) {
		t.Errorf("Filter: expected ErrNotLoaded wrapping ErrSchema, got %v", err)
	}
	if _, err := svc.Search(ctx, "x"); !errors.Is(err, domain.ErrSchema) {
		t.Errorf("Search: expected ErrSchema, got %v", err)
	}
	if _, err := svc.Options(ctx); !errors.Is(err, domain.ErrSchema) {
		t.Errorf("Options: expected ErrSchema, got %v", err)
	}
	if _, err := svc.Pamphlet(ctx, "x"); !errors.Is(err, domain.ErrSchema) {
		t.Errorf("Pamphlet: expected ErrSchema, got %v", err)
	}
	if rec.queries["filter/error"] != 1 {
		t.Errorf("queries = %v", rec.queries)
	}
}

func TestFilter(t *testing.T) {
	svc, _, _, rec := loaded(t)

	res, err := svc.Filter(context.Background(), "Startup", "")
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	want := []string{"Credit Line", "Seed Fund", "Broken"}
	if diff := cmp.Diff(want, listingNames(res.Items)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	snap, _ := svc.Snapshot()
	if res.SnapshotID != snap.ID {
		t.Errorf("SnapshotID = %q, want %q", res.SnapshotID, snap.ID)
	}

	if _, err := svc.Filter(context.Background(), "Nobody", "Mining"); err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if rec.queries["filter/ok"] != 2 {
		t.Errorf("queries = %v", rec.queries)
	}
}

func TestSearch_Found(t *testing.T) {
	svc, _, _, _ := loaded(t)

	m, err := svc.Search(context.Background(), " Seed Fund ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !m.Found || m.Scheme.Name() != "Seed Fund" {
		t.Fatalf("unexpected match: %+v", m)
	}
	if m.PamphletURL != "https://drive.google.com/uc?id=SEED" {
		t.Errorf("PamphletURL = %q", m.PamphletURL)
	}
	if m.PamphletErr != nil {
		t.Errorf("PamphletErr = %v", m.PamphletErr)
	}
}

func TestSearch_NonDriveLinkUnchanged(t *testing.T) {
	svc, _, _, _ := loaded(t)
	m, _ := svc.Search(context.Background(), "Export Push")
	if m.PamphletURL != "https://example.org/p.png" {
		t.Errorf("PamphletURL = %q", m.PamphletURL)
	}
}

func TestSearch_MalformedLinkKeepsRow(t *testing.T) {
	svc, _, _, _ := loaded(t)

	m, err := svc.Search(context.Background(), "Broken")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !m.Found || m.PamphletURL != "" {
		t.Errorf("unexpected match: %+v", m)
	}
	if !errors.Is(m.PamphletErr, domain.ErrMalformedLink) {
		t.Errorf("PamphletErr = %v", m.PamphletErr)
	}
}

func TestSearch_Miss(t *testing.T) {
	svc, _, _, rec := loaded(t)

	for _, name := range []string{"Nope", "Old Loan", "seed fund"} {
		m, err := svc.Search(context.Background(), name)
		if err != nil {
			t.Fatalf("Search(%q): %v", name, err)
		}
		if m.Found {
			t.Errorf("Search(%q) found %q", name, m.Scheme.Name())
		}
	}
	if rec.queries["search/miss"] != 3 {
		t.Errorf("queries = %v", rec.queries)
	}
}

func TestOptions(t *testing.T) {
	svc, _, _, _ := loaded(t)

	got, err := svc.Options(context.Background())
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	want := scheme.Options{
		CompanyTypes: []string{"ALL", "Startup", "MSME", "Exporter"},
		Sectors:      []string{"All Sector", "Tech", "Manufacturing", "Agri"},
		Names:        []string{"Seed Fund", "Credit Line", "Broken", "Export Push"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestPamphlet(t *testing.T) {
	svc, _, f, _ := loaded(t)

	p, err := svc.Pamphlet(context.Background(), "Seed Fund")
	if err != nil {
		t.Fatalf("Pamphlet: %v", err)
	}
	if f.gotURL != "https://drive.google.com/uc?id=SEED" {
		t.Errorf("fetched %q", f.gotURL)
	}
	if p.ContentType != "image/png" {
		t.Errorf("ContentType = %q", p.ContentType)
	}
}

func TestPamphlet_RecordsOnlyPamphletQueries(t *testing.T) {
	svc, _, _, rec := loaded(t)
	ctx := context.Background()

	if _, err := svc.Pamphlet(ctx, "Seed Fund"); err != nil {
		t.Fatalf("Pamphlet: %v", err)
	}
	if _, err := svc.Pamphlet(ctx, "Nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	want := map[string]int{"pamphlet/ok": 1, "pamphlet/miss": 1}
	if diff := cmp.Diff(want, rec.queries); diff != "" {
		t.Errorf("queries (-want +got):\n%s", diff)
	}
}

func TestPamphlet_Errors(t *testing.T) {
	svc, _, f, _ := loaded(t)
	ctx := context.Background()

	if _, err := svc.Pamphlet(ctx, "Nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown scheme: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Pamphlet(ctx, "Credit Line"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("no link: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Pamphlet(ctx, "Broken"); !errors.Is(err, domain.ErrMalformedLink) {
		t.Errorf("malformed link: expected ErrMalformedLink, got %v", err)
	}

	f.err = domain.ErrNotImage
	if _, err := svc.Pamphlet(ctx, "Seed Fund"); !errors.Is(err, domain.ErrNotImage) {
		t.Errorf("fetch failure: expected ErrNotImage, got %v", err)
	}
}

func TestPamphlet_NoFetcher(t *testing.T) {
	svc := newService(t, &mockSource{rows: sheetRows()}, nil, nil)
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := svc.Pamphlet(context.Background(), "Seed Fund"); !errors.Is(err, domain.ErrPamphletUnavailable) {
		t.Errorf("expected ErrPamphletUnavailable, got %v", err)
	}
}

func TestPing(t *testing.T) {
	ctx := context.Background()

	t.Run("source without ping falls back to last load", func(t *testing.T) {
		src := &mockSource{err: errors.New("boom")}
		svc := newService(t, src, nil, nil)
		if err := svc.Ping(ctx); err != nil {
			t.Fatalf("before any load: %v", err)
		}
		_, _ = svc.Load(ctx)
		if err := svc.Ping(ctx); !errors.Is(err, domain.ErrSourceUnavailable) {
			t.Errorf("expected ErrSourceUnavailable, got %v", err)
		}
	})

	t.Run("pinger consulted with configured sheet", func(t *testing.T) {
		src := &mockPingSource{mockSource: mockSource{rows: sheetRows()}}
		svc := newService(t, src, nil, nil)
		if _, err := svc.Load(ctx); err != nil {
			t.Fatalf("Load: %v", err)
		}
		if err := svc.Ping(ctx); err != nil {
			t.Fatalf("Ping: %v", err)
		}
		if src.pinged != "sheet-id/Sheet1" {
			t.Errorf("pinged %q", src.pinged)
		}

		src.pingErr = domain.ErrSourceUnavailable
		if err := svc.Ping(ctx); !errors.Is(err, domain.ErrSourceUnavailable) {
			t.Errorf("expected ErrSourceUnavailable, got %v", err)
		}
	})

	t.Run("reachable sheet with failed load", func(t *testing.T) {
		src := &mockPingSource{mockSource: mockSource{rows: [][]string{{"Scheme"}, {"A"}}}}
		svc := newService(t, src, nil, nil)
		_, _ = svc.Load(ctx)
		if err := svc.Ping(ctx); !errors.Is(err, domain.ErrSchema) {
			t.Errorf("expected ErrSchema, got %v", err)
		}
	})
}

func TestConcurrentQueriesDuringReload(t *testing.T) {
	svc, _, _, _ := loaded(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := svc.Reload(ctx); err != nil {
				t.Errorf("Reload: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			res, err := svc.Filter(ctx, "", "")
			if err != nil || len(res.Items) != 4 {
				t.Errorf("Filter during reload: %v, %d items", err, len(res.Items))
			}
		}()
	}
	wg.Wait()
}
