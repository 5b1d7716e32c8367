package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"

	pnl "go-oiltrade-pnl"
)

// ApiUrlBase is the HubSpot REST endpoint.
const ApiUrlBase = "https://api.hubapi.com"

const dealsPath = "/crm/v3/objects/deals"

// ErrNotConfigured is returned when no access token was supplied. The
// calculator works without a CRM; export is simply unavailable.
var ErrNotConfigured = errors.New("hubspot: no access token configured")

// Deal is a CRM deal record as HubSpot returns it.
type Deal struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

// Status reports the result of a connection probe.
type Status struct {
	Connected  bool
	TotalDeals int
	Message    string
}

// Exporter pushes finished calculations into the CRM as deals. The engine
// has no dependency on this package; the dependency runs one way only.
type Exporter interface {
	// CreateDeal submits one calculation as a new deal and returns the
	// deal id HubSpot assigned.
	CreateDeal(ctx context.Context, name string, req pnl.CalculationRequest, result pnl.CalculationResult) (string, error)

	// RecentDeals fetches the most recently modified deals.
	RecentDeals(ctx context.Context, limit int) ([]Deal, error)

	// TestConnection probes the API with a one-deal page.
	TestConnection(ctx context.Context) (Status, error)
}

// client HubSpot REST client
type client struct {
	// url base API url
	url string

	// token bearer token, supplied through configuration only
	token string

	httpClient http.Client

	maxTries uint
}

// NewClient constructs an Exporter against the given endpoint. An empty url
// means production HubSpot.
func NewClient(url, token string, timeout time.Duration) Exporter {
	if url == "" {
		url = ApiUrlBase
	}
	return &client{
		url:   url,
		token: token,
		httpClient: http.Client{
			Timeout: timeout,
		},
		maxTries: 3,
	}
}

func (c *client) CreateDeal(ctx context.Context, name string, req pnl.CalculationRequest, result pnl.CalculationResult) (string, error) {
	if c.token == "" {
		return "", ErrNotConfigured
	}

	payload := struct {
		Properties map[string]string `json:"properties"`
	}{
		Properties: dealProperties(name, req, result),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding deal: %w", err)
	}

	var deal Deal
	err = c.do(ctx, http.MethodPost, dealsPath, nil, body, &deal)
	if err != nil {
		return "", fmt.Errorf("creating deal %q: %w", name, err)
	}
	if deal.ID == "" {
		return "", fmt.Errorf("creating deal %q: response carried no id", name)
	}
	return deal.ID, nil
}

func (c *client) RecentDeals(ctx context.Context, limit int) ([]Deal, error) {
	if c.token == "" {
		return nil, ErrNotConfigured
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("properties", "dealname,deal_type,quantity_tons,calculated_profit,calculated_margin")

	var page struct {
		Results []Deal `json:"results"`
	}
	err := c.do(ctx, http.MethodGet, dealsPath, query, nil, &page)
	if err != nil {
		return nil, fmt.Errorf("fetching recent deals: %w", err)
	}
	return page.Results, nil
}

func (c *client) TestConnection(ctx context.Context) (Status, error) {
	if c.token == "" {
		return Status{Message: "no access token configured"}, nil
	}

	query := url.Values{}
	query.Set("limit", "1")

	var page struct {
		Total int `json:"total"`
	}
	err := c.do(ctx, http.MethodGet, dealsPath, query, nil, &page)
	if err != nil {
		return Status{Message: err.Error()}, nil
	}
	return Status{Connected: true, TotalDeals: page.Total, Message: "connected"}, nil
}

// do issues one authenticated JSON request with retries on 429 and 5xx.
func (c *client) do(ctx context.Context, method, path string, query url.Values, body []byte, out interface{}) error {
	url := c.url + path
	if len(query) > 0 {
		url += "?" + query.Encode()
	}

	operation := func() ([]byte, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		request, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("building http request: %w", err))
		}
		request.Header.Set("Authorization", "Bearer "+c.token)
		request.Header.Set("Content-Type", "application/json")

		response, err := c.httpClient.Do(request)
		if err != nil {
			return nil, fmt.Errorf("http %s: %w", method, err)
		}
		defer response.Body.Close()

		responseBody, err := io.ReadAll(response.Body)
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}

		if response.StatusCode/100 != 2 {
			err := fmt.Errorf("unexpected status %v: %s", response.StatusCode, responseBody)
			if response.StatusCode/100 == 4 && response.StatusCode != http.StatusTooManyRequests {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return responseBody, nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond

	responseBody, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(c.maxTries))
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("decoding json: %w", err)
	}
	return nil
}
