package exchange

import (
	"context"
	"time"

	"github.com/go-kit/log"

	pnl "go-oiltrade-pnl"
)

// loggingService decorates an exchange.Service with logging
type loggingService struct {
	logger log.Logger
	next   Service
}

// NewLoggingService returns a new instance of a logging Service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) Snapshot(ctx context.Context) (rs pnl.RateSet, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "snapshot",
			"base", rs.Base,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Snapshot(ctx)
}

func (s *loggingService) Convert(ctx context.Context, amount pnl.Amount, from pnl.Currency, to pnl.Currency) (ex pnl.Exchanged, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "convert",
			"amount", amount,
			"from", from,
			"to", to,
			"rate", ex.Rate,
			"converted_amount", ex.Amount,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Convert(ctx, amount, from, to)
}
