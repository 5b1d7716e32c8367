package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	pnl "go-oiltrade-pnl"
)

// ApiUrlBase is the free exchangerate-api endpoint the desk has always used.
const ApiUrlBase = "https://api.exchangerate-api.com/v4"

// Service wraps a live exchange rate source.
type Service interface {
	// Latest returns the current quotes against the given base currency.
	Latest(ctx context.Context, base pnl.Currency) (pnl.Rates, error)
}

// service fetches rates over HTTP
type service struct {
	// url base API url
	url string

	// client for HTTP requests
	client http.Client

	// maxTries bounds the retry loop for transient failures
	maxTries uint
}

// NewService constructs a valid rate Service.
func NewService(url string, timeout time.Duration) Service {
	if url == "" {
		url = ApiUrlBase
	}
	return &service{
		url: url,
		client: http.Client{
			Timeout: timeout,
		},
		maxTries: 3,
	}
}

// Latest loads the current quotes for a base currency.
// The source publishes a full table per base, refreshed daily.
func (s *service) Latest(ctx context.Context, base pnl.Currency) (pnl.Rates, error) {
	type Response struct {
		Base  string
		Rates map[string]float64 // maps currency codes to rates
	}

	url := fmt.Sprintf("%v/latest/%v", s.url, base)

	operation := func() (pnl.Rates, error) {
		request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("building http request: %w", err))
		}
		httpResponse, err := s.client.Do(request)
		if err != nil {
			return nil, fmt.Errorf("http get: %w", err)
		}
		defer httpResponse.Body.Close()

		if httpResponse.StatusCode/100 != 2 {
			err := fmt.Errorf("unexpected status %v", httpResponse.StatusCode)
			if httpResponse.StatusCode/100 == 4 && httpResponse.StatusCode != http.StatusTooManyRequests {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}

		var response Response
		bytes, err := io.ReadAll(httpResponse.Body)
		if err != nil {
			return nil, fmt.Errorf("reading json: %w", err)
		}

		err = json.Unmarshal(bytes, &response)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("decoding json: %w", err))
		}
		if len(response.Rates) == 0 {
			return nil, backoff.Permanent(fmt.Errorf("empty rate table"))
		}

		rates := pnl.Rates{}
		for k, v := range response.Rates {
			rates[pnl.Currency(k)] = pnl.Rate(v)
		}
		return rates, nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond

	rates, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(s.maxTries))
	if err != nil {
		return nil, &pnl.RateFetchError{URL: url, Err: err}
	}

	return rates, nil
}
