package memorystore

import (
	"context"
	"sync"
	"time"

	"stockdash/internal/stock"
)

// MemorySnapshotStore keeps snapshots in process memory. It is used with
// storage.driver=memory and in tests.
type MemorySnapshotStore struct {
	mu     sync.RWMutex
	nextID uint
	rows   []stock.Snapshot
}

var _ stock.Store = (*MemorySnapshotStore)(nil)

func NewSnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{
		nextID: 1,
		rows:   make([]stock.Snapshot, 0),
	}
}

// InsertStock appends a copy of s and assigns its ID and RecordedAt.
func (m *MemorySnapshotStore) InsertStock(ctx context.Context, s *stock.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s.ID = m.nextID
	m.nextID++
	if s.RecordedAt.IsZero() {
		s.RecordedAt = time.Now().UTC()
	}
	m.rows = append(m.rows, *s)
	return nil
}

// ListStocks returns the rows matching f in insertion order.
func (m *MemorySnapshotStore) ListStocks(ctx context.Context, f stock.Filter) ([]stock.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	// Copy to avoid race
	if f.IsEmpty() {
		return append([]stock.Snapshot(nil), m.rows...), nil
	}
	out := make([]stock.Snapshot, 0, len(m.rows))
	for _, row := range m.rows {
		if f.Match(row) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *MemorySnapshotStore) CountStocks(ctx context.Context, symbol string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if symbol == "" {
		return int64(len(m.rows)), nil
	}
	var n int64
	for _, row := range m.rows {
		if row.Symbol == symbol {
			n++
		}
	}
	return n, nil
}

func (m *MemorySnapshotStore) IsHealthy(context.Context) bool { return true }

func (m *MemorySnapshotStore) Close() error { return nil }
