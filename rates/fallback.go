package rates

import (
	"context"

	"github.com/go-kit/log"

	pnl "go-oiltrade-pnl"
)

// fallbackService decorates a rates.Service with configured static rates.
// When the live source fails the calculation still proceeds, on the fallback
// quotes, with a visible warning in the log.
type fallbackService struct {
	next Service

	// base the currency the fallback quotes are against
	base pnl.Currency

	// fallback the configured static quotes
	fallback pnl.Rates

	logger log.Logger
}

// NewFallbackService returns a Service that degrades to the given quotes
// (against base) when next fails.
func NewFallbackService(base pnl.Currency, fallback pnl.Rates, logger log.Logger, s Service) Service {
	return &fallbackService{
		next:     s,
		base:     base,
		fallback: fallback,
		logger:   logger,
	}
}

func (s *fallbackService) Latest(ctx context.Context, base pnl.Currency) (pnl.Rates, error) {
	rates, err := s.next.Latest(ctx, base)
	if err == nil {
		return rates, nil
	}
	if base != s.base {
		// fallback quotes are against a different base, nothing we can do
		return nil, err
	}

	s.logger.Log("msg", "live rates unavailable, using fallback rates", "base", base, "error", err)

	rates = pnl.Rates{}
	for c, r := range s.fallback {
		rates[c] = r
	}
	return rates, nil
}
