package engine

import (
	"context"
	"time"

	"github.com/go-kit/log"

	pnl "go-oiltrade-pnl"
)

// loggingService decorates an engine.Service with logging
type loggingService struct {
	logger log.Logger
	next   Service
}

// NewLoggingService returns a new logging Service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) Calculate(ctx context.Context, req pnl.CalculationRequest, snapshot pnl.RateSet) (result pnl.CalculationResult, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "calculate",
			"direction", req.Direction,
			"base_price", req.BasePrice.Amount,
			"currency", req.BasePrice.Currency,
			"target_profit", req.TargetProfitPerTon,
			"quantity_t", req.QuantityTons,
			"margin_pct", result.MarginPercent,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Calculate(ctx, req, snapshot)
}

func (s *loggingService) Sweep(ctx context.Context, req pnl.CalculationRequest, snapshot pnl.RateSet, deltas []pnl.Amount) (points []pnl.SweepPoint, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "sweep",
			"direction", req.Direction,
			"base_price", req.BasePrice.Amount,
			"deltas", len(deltas),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Sweep(ctx, req, snapshot, deltas)
}
