package app

import (
	"context"
	"testing"
	"time"

	"stockdash/config"
	"stockdash/internal/stock/memorystore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0, Mode: "test", ShutdownTimeout: time.Second},
		Yahoo:  config.YahooConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second},
		Ingest: config.IngestConfig{Timeout: time.Second},
		Log:    config.LogConfig{Level: "info", Environment: "dev"},
		Storage: config.StorageConfig{
			Driver: config.DriverMemory,
		},
	}
}

// go test -v --run ^TestOpenStoreMemory$
func TestOpenStoreMemory(t *testing.T) {
	store, err := OpenStore(memoryConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &memorystore.MemorySnapshotStore{}, store)
}

// go test -v --run ^TestOpenStoreUnknownDriver$
func TestOpenStoreUnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.Driver = "redis"

	_, err := OpenStore(cfg, zap.NewNop())
	assert.Error(t, err)
}

// go test -v --run ^TestServeStopsOnCancel$
func TestServeStopsOnCancel(t *testing.T) {
	a, err := New(memoryConfig(), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
