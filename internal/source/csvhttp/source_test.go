package csvhttp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/schemedex/internal/domain"
)

func TestRows_ReadsCSV(t *testing.T) {
	var gotPath, gotSheet, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSheet = r.URL.Query().Get("sheet")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("Scheme,Status\n\"Seed, Fund\",Live\nB\n"))
	}))
	defer srv.Close()

	src := New(Config{URLTemplate: srv.URL + "/d/{source}/export?sheet={sheet}", Token: "tok"})
	rows, err := src.Rows(context.Background(), "abc 1", "Sheet 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]string{{"Scheme", "Status"}, {"Seed, Fund", "Live"}, {"B"}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}
	if gotPath != "/d/abc 1/export" {
		t.Errorf("path = %q", gotPath)
	}
	if gotSheet != "Sheet 1" {
		t.Errorf("sheet = %q", gotSheet)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("authorization = %q", gotAuth)
	}
}

func TestRows_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such sheet; access_token=leaked"))
	}))
	defer srv.Close()

	src := New(Config{URLTemplate: srv.URL + "/{source}?sheet={sheet}"})
	_, err := src.Rows(context.Background(), "id", "Missing")
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	var he *HTTPError
	if !errors.As(err, &he) || he.StatusCode != http.StatusNotFound {
		t.Fatalf("expected HTTPError 404, got %v", err)
	}
	if strings.Contains(err.Error(), "leaked") {
		t.Errorf("token leaked into error: %v", err)
	}
}

func TestRows_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	src := New(Config{URLTemplate: url + "/{source}"})
	_, err := src.Rows(context.Background(), "id", "Sheet1")
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestRows_BadCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("a,b\n\"unterminated,c\n"))
	}))
	defer srv.Close()

	src := New(Config{URLTemplate: srv.URL + "/{source}"})
	_, err := src.Rows(context.Background(), "id", "Sheet1")
	if !errors.Is(err, domain.ErrMalformedSource) {
		t.Fatalf("expected ErrMalformedSource, got %v", err)
	}
}

func TestRows_OversizedBodyRejected(t *testing.T) {
	var body strings.Builder
	body.WriteString("Scheme,Notes\n")
	for i := 0; i < 40; i++ {
		body.WriteString("S,")
		body.WriteString(strings.Repeat("n", 100))
		body.WriteString("\n")
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body.String()))
	}))
	defer srv.Close()

	src := New(Config{URLTemplate: srv.URL + "/{source}", MaxBytes: 1024})
	rows, err := src.Rows(context.Background(), "id", "Sheet1")
	if !errors.Is(err, domain.ErrMalformedSource) {
		t.Fatalf("expected ErrMalformedSource, got %v (%d rows)", err, len(rows))
	}
	if rows != nil {
		t.Errorf("partial rows returned: %d", len(rows))
	}
}

func TestRows_BodyAtLimitAccepted(t *testing.T) {
	const body = "Scheme\nA\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	src := New(Config{URLTemplate: srv.URL + "/{source}", MaxBytes: int64(len(body))})
	rows, err := src.Rows(context.Background(), "id", "Sheet1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([][]string{{"Scheme"}, {"A"}}, rows); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}
}

func TestRows_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	rows, err := New(Config{URLTemplate: srv.URL + "/{source}"}).Rows(context.Background(), "id", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %v", rows)
	}
}

func TestRows_SourceIDRequired(t *testing.T) {
	_, err := New(Config{}).Rows(context.Background(), " ", "Sheet1")
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestPing(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "reachable", status: http.StatusOK},
		{name: "forbidden", status: http.StatusForbidden, wantErr: true},
		{name: "not found", status: http.StatusNotFound, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("Scheme,Status\nSeed,Live\n"))
			}))
			defer srv.Close()

			src := New(Config{URLTemplate: srv.URL + "/d/{source}?sheet={sheet}", Token: "tok"})
			err := src.Ping(context.Background(), "abc", "Sheet1")
			if tt.wantErr {
				if !errors.Is(err, domain.ErrSourceUnavailable) {
					t.Fatalf("expected ErrSourceUnavailable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotAuth != "Bearer tok" {
				t.Errorf("auth = %q", gotAuth)
			}
		})
	}
}

func TestURL_DefaultTemplate(t *testing.T) {
	got := New(Config{}).URL("SHEET_ID", "Sheet1")
	want := "https://docs.google.com/spreadsheets/d/SHEET_ID/gviz/tq?tqx=out:csv&sheet=Sheet1"
	if got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}
