package dashboard

import (
	"context"
	"net/url"

	"stockdash/internal/stock"
)

// Store is the read side of the snapshot store.
type Store interface {
	ListStocks(ctx context.Context, f stock.Filter) ([]stock.Snapshot, error)
}

// Page is the view model rendered by the dashboard template. The filter
// fields echo the raw query values so the form keeps its state.
type Page struct {
	Stocks        []stock.Snapshot
	DividendYield string
	ForwardPE     string
	MA50          string
	MA200         string
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Page parses the dashboard filters from q and loads the matching rows.
// Parse failures are returned as *stock.FilterError.
func (s *Service) Page(ctx context.Context, q url.Values) (*Page, error) {
	f, err := stock.ParseFilter(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.ListStocks(ctx, f)
	if err != nil {
		return nil, err
	}

	return &Page{
		Stocks:        rows,
		DividendYield: q.Get(stock.ParamDividendYield),
		ForwardPE:     q.Get(stock.ParamForwardPE),
		MA50:          q.Get(stock.ParamMA50),
		MA200:         q.Get(stock.ParamMA200),
	}, nil
}
