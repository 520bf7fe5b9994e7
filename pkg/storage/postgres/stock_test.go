package postgres_test

import (
	"context"
	"path/filepath"
	"testing"

	"stockdash/internal/stock"
	"stockdash/pkg/storage/postgres"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSQLiteClient runs the gorm store on a throwaway SQLite file.
func newSQLiteClient(t *testing.T) *postgres.PostgresClient {
	t.Helper()

	client, err := postgres.NewClientWithDialector(sqlite.Open(filepath.Join(t.TempDir(), "stocks.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.AutoMigrateStockRecord())
	return client
}

func seed(t *testing.T, client *postgres.PostgresClient, rows ...stock.Snapshot) {
	t.Helper()
	for i := range rows {
		require.NoError(t, client.InsertStock(context.Background(), &rows[i]))
	}
}

func symbols(rows []stock.Snapshot) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Symbol
	}
	return out
}

func ptr(v float64) *float64 { return &v }

// go test -v --run ^TestInsertStock$
func TestInsertStock(t *testing.T) {
	client := newSQLiteClient(t)
	ctx := context.Background()

	s := &stock.Snapshot{
		Symbol:        "X",
		DividendYield: 2.0,
		DividendRate:  150.0,
		ForwardEPS:    3.0,
		ForwardPE:     20.0,
		Price:         150.0,
		MA50:          140.0,
		MA200:         130.0,
		PEGRatio:      1.2,
		PayoutRatio:   0.3,
	}
	require.NoError(t, client.InsertStock(ctx, s))
	assert.NotZero(t, s.ID)
	assert.False(t, s.RecordedAt.IsZero())

	// same symbol again appends another row
	again := *s
	again.ID = 0
	require.NoError(t, client.InsertStock(ctx, &again))

	n, err := client.CountStocks(ctx, "X")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	rows, err := client.ListStocks(ctx, stock.Filter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	got := rows[0]
	assert.Equal(t, "X", got.Symbol)
	assert.Equal(t, 2.0, got.DividendYield)
	assert.Equal(t, 150.0, got.DividendRate)
	assert.Equal(t, 1.2, got.PEGRatio)
	assert.Equal(t, 0.3, got.PayoutRatio)
}

// go test -v --run ^TestListStocksFilters$
func TestListStocksFilters(t *testing.T) {
	client := newSQLiteClient(t)
	seed(t, client,
		stock.Snapshot{Symbol: "LOW", DividendYield: 0.5, ForwardPE: 10, Price: 100, MA50: 110, MA200: 90},
		stock.Snapshot{Symbol: "HIGH", DividendYield: 2.0, ForwardPE: 25, Price: 100, MA50: 90, MA200: 95},
		stock.Snapshot{Symbol: "EDGE", DividendYield: 1.0, ForwardPE: 15, Price: 100, MA50: 100, MA200: 120},
	)

	tests := []struct {
		name   string
		filter stock.Filter
		want   []string
	}{
		{"no filters", stock.Filter{}, []string{"LOW", "HIGH", "EDGE"}},
		{"dividend yield strict", stock.Filter{DividendYield: ptr(1.0)}, []string{"HIGH"}},
		{"forward pe strict", stock.Filter{ForwardPE: ptr(15)}, []string{"LOW"}},
		{"ma50", stock.Filter{MA50: true}, []string{"HIGH"}},
		{"ma200", stock.Filter{MA200: true}, []string{"LOW", "HIGH"}},
		{"combined", stock.Filter{DividendYield: ptr(0.1), MA200: true, ForwardPE: ptr(20)}, []string{"LOW"}},
		{"nothing matches", stock.Filter{DividendYield: ptr(5)}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := client.ListStocks(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, symbols(rows))

			// the SQL translation agrees with the in-memory predicate
			for _, r := range rows {
				assert.True(t, tt.filter.Match(r), r.Symbol)
			}
		})
	}
}

// go test -v --run ^TestIsHealthy$
func TestIsHealthy(t *testing.T) {
	client := newSQLiteClient(t)
	assert.True(t, client.IsHealthy(context.Background()))

	require.NoError(t, client.Close())
	assert.False(t, client.IsHealthy(context.Background()))
}
