package memorystore

import (
	"context"
	"sync"
	"testing"

	"stockdash/internal/stock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// go test -v --run ^TestInsertAndList$
func TestInsertAndList(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	for _, dy := range []float64{0.5, 2.0, 1.0} {
		require.NoError(t, store.InsertStock(ctx, &stock.Snapshot{Symbol: "X", DividendYield: dy}))
	}

	all, err := store.ListStocks(ctx, stock.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uint{1, 2, 3}, []uint{all[0].ID, all[1].ID, all[2].ID})
	assert.False(t, all[0].RecordedAt.IsZero())

	threshold := 1.0
	got, err := store.ListStocks(ctx, stock.Filter{DividendYield: &threshold})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].DividendYield)
}

// go test -v --run ^TestConcurrentInsertSameSymbol$
func TestConcurrentInsertSameSymbol(t *testing.T) {
	store := NewSnapshotStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.InsertStock(context.Background(), &stock.Snapshot{Symbol: "AAPL"})
		}()
	}
	wg.Wait()

	// no dedup by symbol
	n, err := store.CountStocks(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(20), n)
}

// go test -v --run ^TestCancelledContext$
func TestCancelledContext(t *testing.T) {
	store := NewSnapshotStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, store.InsertStock(ctx, &stock.Snapshot{Symbol: "X"}))
	_, err := store.CountStocks(ctx, "")
	assert.Error(t, err)

	n, err := store.CountStocks(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, n)
}

// go test -v --run ^TestCountStocks$
func TestCountStocks(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()
	for _, sym := range []string{"X", "Y", "X"} {
		require.NoError(t, store.InsertStock(ctx, &stock.Snapshot{Symbol: sym}))
	}

	for symbol, want := range map[string]int64{"": 3, "X": 2, "Y": 1, "Z": 0} {
		n, err := store.CountStocks(ctx, symbol)
		require.NoError(t, err)
		assert.Equal(t, want, n, symbol)
	}
}

// go test -v --run ^TestListStocksReturnsCopy$
func TestListStocksReturnsCopy(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()
	require.NoError(t, store.InsertStock(ctx, &stock.Snapshot{Symbol: "X"}))

	rows, err := store.ListStocks(ctx, stock.Filter{})
	require.NoError(t, err)
	rows[0].Symbol = "CHANGED"

	again, err := store.ListStocks(ctx, stock.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "X", again[0].Symbol)
}
