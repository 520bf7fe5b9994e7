package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"stockdash/internal/stock"
	"stockdash/pkg/yahoo"

	"go.uber.org/zap"
)

// Gateway is the market data lookup the ingestion needs.
type Gateway interface {
	Lookup(ctx context.Context, symbol string) (yahoo.FieldSet, error)
}

// Store is the write side of the snapshot store.
type Store interface {
	InsertStock(ctx context.Context, s *stock.Snapshot) error
}

// ErrDraining is returned by Schedule once Wait has been called.
var ErrDraining = errors.New("ingestion is draining")

// Service validates symbols on the request path and fetches and stores
// snapshots in the background.
type Service struct {
	gateway Gateway
	store   Store
	logger  *zap.Logger
	timeout time.Duration

	mu       sync.Mutex
	draining bool
	pending  int
	idle     chan struct{} // closed once draining with nothing pending
}

func NewService(gateway Gateway, store Store, logger *zap.Logger, timeout time.Duration) *Service {
	return &Service{
		gateway: gateway,
		store:   store,
		logger:  logger,
		timeout: timeout,
		idle:    make(chan struct{}),
	}
}

// Validate checks that the provider knows symbol. It returns an error
// matching yahoo.ErrSymbolNotFound for unknown tickers; any other error is an
// upstream failure.
func (s *Service) Validate(ctx context.Context, symbol string) error {
	if _, err := s.gateway.Lookup(ctx, symbol); err != nil {
		return fmt.Errorf("validate %s: %w", symbol, err)
	}
	return nil
}

// Schedule runs FetchAndStore for symbol on its own goroutine and returns
// immediately. Failures are logged and never reported to the caller. After
// Wait has been called it refuses new work with ErrDraining.
func (s *Service) Schedule(symbol string) error {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		s.logger.Warn("snapshot rejected: shutting down", zap.String("symbol", symbol))
		return ErrDraining
	}
	s.pending++
	s.mu.Unlock()

	go func() {
		defer s.finish()

		// the request context is gone by the time this runs
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		snap, err := s.FetchAndStore(ctx, symbol)
		switch {
		case errors.Is(err, yahoo.ErrMissingField):
			s.logger.Warn("snapshot dropped: incomplete quote", zap.String("symbol", symbol), zap.Error(err))
		case err != nil:
			s.logger.Error("snapshot fetch failed", zap.String("symbol", symbol), zap.Error(err))
		default:
			s.logger.Info("snapshot stored", zap.String("symbol", symbol), zap.Uint("id", snap.ID))
		}
	}()
	return nil
}

func (s *Service) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	if s.draining && s.pending == 0 {
		close(s.idle)
	}
}

// FetchAndStore looks up the full field set for symbol and appends one snapshot.
func (s *Service) FetchAndStore(ctx context.Context, symbol string) (*stock.Snapshot, error) {
	fields, err := s.gateway.Lookup(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	fields.Symbol = symbol

	snap, err := stock.FromFields(fields)
	if err != nil {
		return nil, err
	}

	if err := s.store.InsertStock(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// Wait stops Schedule from accepting new symbols, then blocks until every
// scheduled task has finished or ctx is done. It may be called again after a
// timeout; tasks are bounded by the ingest timeout.
func (s *Service) Wait(ctx context.Context) error {
	s.mu.Lock()
	if !s.draining {
		s.draining = true
		if s.pending == 0 {
			close(s.idle)
		}
	}
	s.mu.Unlock()

	select {
	case <-s.idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
