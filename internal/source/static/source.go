// Package static serves sheet rows held in memory. It backs the demo mode
// and tests that do not need a network source.
package static

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/schemedex/internal/domain"
)

// Source implements catalog.Source over an in-memory map keyed by
// source id and sheet name.
type Source struct {
	mu     sync.RWMutex
	sheets map[string][][]string
}

// New creates an empty static source.
func New() *Source {
	return &Source{sheets: make(map[string][][]string)}
}

// Put stores rows under sourceID and sheet, replacing any previous value.
func (s *Source) Put(sourceID, sheet string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[key(sourceID, sheet)] = cloneRows(rows)
}

// Rows returns a copy of the stored rows.
func (s *Source) Rows(ctx context.Context, sourceID, sheet string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.sheets[key(sourceID, sheet)]
	if !ok {
		return nil, fmt.Errorf("%w: sheet %q of %q not found", domain.ErrSourceUnavailable, sheet, sourceID)
	}
	return cloneRows(rows), nil
}

// Ping reports whether rows are stored under sourceID and sheet.
func (s *Source) Ping(ctx context.Context, sourceID, sheet string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.sheets[key(sourceID, sheet)]; !ok {
		return fmt.Errorf("%w: sheet %q of %q not found", domain.ErrSourceUnavailable, sheet, sourceID)
	}
	return nil
}

func key(sourceID, sheet string) string { return sourceID + "\x00" + sheet }

func cloneRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
