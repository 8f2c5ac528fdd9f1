package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/warfroggy/clashlens/internal/domain/model"
)

// Accepted snapshot timestamp layouts, mirrored from the timeline engine's
// date handling so since-filtering agrees with what the engine will parse.
var storedDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type storedRow struct {
	row model.RawSnapshot
	// at is the row's observation time when parseable, else the receipt
	// time. Used only for since-filtering; the engine re-parses dates.
	at time.Time
}

// MemoryStore is the default Store: per-player row slices guarded by one
// RWMutex, insertion order preserved. Suited to single-clan deployments
// where history fits comfortably in memory.
type MemoryStore struct {
	mu     sync.RWMutex
	rows   map[string][]storedRow
	byID   map[string]struct{}
	nowFn  func() time.Time
	total  int
}

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the receipt-time source, used by tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.nowFn = now
		}
	}
}

// NewMemoryStore creates an empty in-memory snapshot store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		rows:  make(map[string][]storedRow),
		byID:  make(map[string]struct{}),
		nowFn: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save persists a row, ignoring IDs that were already saved.
func (s *MemoryStore) Save(_ context.Context, playerTag string, row model.RawSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row.ID != "" {
		if _, ok := s.byID[row.ID]; ok {
			return nil
		}
		s.byID[row.ID] = struct{}{}
	}

	at := s.nowFn().UTC()
	if ts, ok := parseStoredDate(row.Date); ok {
		at = ts
	}
	s.rows[playerTag] = append(s.rows[playerTag], storedRow{row: row, at: at})
	s.total++
	return nil
}

// History returns a player's rows at or after since, in insertion order.
func (s *MemoryStore) History(_ context.Context, playerTag string, since time.Time) ([]model.RawSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.rows[playerTag]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]model.RawSnapshot, 0, len(stored))
	for _, sr := range stored {
		if !since.IsZero() && sr.at.Before(since) {
			continue
		}
		out = append(out, sr.row)
	}
	return out, nil
}

// Players lists known player tags in sorted order.
func (s *MemoryStore) Players(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tags := make([]string, 0, len(s.rows))
	for tag := range s.rows {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

// Count returns the total number of stored rows.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

func parseStoredDate(v any) (time.Time, bool) {
	str, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	str = strings.TrimSpace(str)
	for _, layout := range storedDateLayouts {
		if ts, err := time.Parse(layout, str); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
