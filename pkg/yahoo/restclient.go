package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	quoteSummaryPath = "/v10/finance/quoteSummary/{symbol}"
	crumbPath        = "/v1/test/getcrumb"
)

// DefaultModules are the quoteSummary modules that together carry every
// snapshot field.
var DefaultModules = []string{"summaryDetail", "defaultKeyStatistics", "financialData"}

// RESTClient talks to the quoteSummary API. Yahoo only answers requests that
// carry a session cookie and the crumb issued for it, so the client keeps a
// cookie jar and caches the crumb until the upstream rejects it.
type RESTClient struct {
	client    *resty.Client
	modules   []string
	cookieURL string

	mu    sync.Mutex
	crumb string
}

// NewRESTClient builds a client for baseURL. cookieURL is any Yahoo page that
// sets the session cookie (fc.yahoo.com in production); when empty the cookie
// step is skipped and only the crumb is requested.
func NewRESTClient(baseURL, cookieURL string, timeout time.Duration, userAgent string) *RESTClient {
	// resty.New installs a cookie jar, so the session cookie is replayed on
	// the crumb and quoteSummary requests.
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}

	return &RESTClient{
		client:    client,
		modules:   DefaultModules,
		cookieURL: cookieURL,
	}
}

// Lookup fetches the quote summary for symbol and flattens it into a FieldSet.
// Every call is a fresh upstream request. A 401 refreshes the session once.
func (c *RESTClient) Lookup(ctx context.Context, symbol string) (FieldSet, error) {
	crumb, err := c.session(ctx, false)
	if err != nil {
		return FieldSet{}, err
	}

	resp, err := c.quoteSummary(ctx, symbol, crumb)
	if err != nil {
		return FieldSet{}, err
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		if crumb, err = c.session(ctx, true); err != nil {
			return FieldSet{}, err
		}
		if resp, err = c.quoteSummary(ctx, symbol, crumb); err != nil {
			return FieldSet{}, err
		}
	}

	return c.parse(symbol, resp)
}

func (c *RESTClient) quoteSummary(ctx context.Context, symbol, crumb string) (*resty.Response, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParam("modules", strings.Join(c.modules, ",")).
		SetQueryParam("crumb", crumb).
		Get(quoteSummaryPath)
	if err != nil {
		return nil, fmt.Errorf("quote summary request for %s: %w", symbol, err)
	}
	return resp, nil
}

// session returns the cached crumb, or obtains a new cookie and crumb when
// there is none or refresh is set.
func (c *RESTClient) session(ctx context.Context, refresh bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.crumb != "" && !refresh {
		return c.crumb, nil
	}
	c.crumb = ""

	if c.cookieURL != "" {
		// the cookie page answers 404; only the Set-Cookie header matters
		if _, err := c.client.R().SetContext(ctx).Get(c.cookieURL); err != nil {
			return "", fmt.Errorf("yahoo session cookie: %w", err)
		}
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/plain").
		Get(crumbPath)
	if err != nil {
		return "", fmt.Errorf("yahoo crumb: %w", err)
	}
	crumb := strings.TrimSpace(resp.String())
	if resp.StatusCode() != http.StatusOK || crumb == "" {
		return "", fmt.Errorf("yahoo crumb: status %d: %s", resp.StatusCode(), resp.Body())
	}

	c.crumb = crumb
	return crumb, nil
}

func (c *RESTClient) parse(symbol string, resp *resty.Response) (FieldSet, error) {
	var body QuoteSummaryResponse
	decodeErr := json.Unmarshal(resp.Body(), &body)

	// Yahoo answers unknown tickers with 404 and an error envelope
	if resp.StatusCode() == http.StatusNotFound {
		return FieldSet{}, fmt.Errorf("%s: %w", symbol, ErrSymbolNotFound)
	}
	if resp.StatusCode() != http.StatusOK {
		return FieldSet{}, fmt.Errorf("yahoo error: status %d: %s", resp.StatusCode(), resp.Body())
	}
	if decodeErr != nil {
		return FieldSet{}, fmt.Errorf("decode response: %w", decodeErr)
	}

	if apiErr := body.QuoteSummary.Error; apiErr != nil {
		if apiErr.notFound() {
			return FieldSet{}, fmt.Errorf("%s: %w", symbol, ErrSymbolNotFound)
		}
		return FieldSet{}, fmt.Errorf("yahoo error: %s: %s", apiErr.Code, apiErr.Description)
	}
	if len(body.QuoteSummary.Result) == 0 {
		return FieldSet{}, fmt.Errorf("%s: %w", symbol, ErrSymbolNotFound)
	}

	return FieldSet{
		Symbol: symbol,
		Values: flatten(body.QuoteSummary.Result[0], c.modules),
	}, nil
}
