package rates

import (
	"context"
	"time"

	"github.com/go-kit/log"

	pnl "go-oiltrade-pnl"
)

// loggingService decorates a rates.Service with logging
type loggingService struct {
	next   Service
	logger log.Logger
}

// NewLoggingService return a new logging service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) Latest(ctx context.Context, base pnl.Currency) (rates pnl.Rates, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "latest",
			"base", base,
			"currencies", len(rates),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Latest(ctx, base)
}
