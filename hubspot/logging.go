package hubspot

import (
	"context"
	"time"

	"github.com/go-kit/log"

	pnl "go-oiltrade-pnl"
)

// loggingExporter decorates an Exporter with logging
type loggingExporter struct {
	next   Exporter
	logger log.Logger
}

// NewLoggingExporter returns a new logging Exporter
func NewLoggingExporter(logger log.Logger, e Exporter) Exporter {
	return &loggingExporter{
		next:   e,
		logger: logger,
	}
}

func (e *loggingExporter) CreateDeal(ctx context.Context, name string, req pnl.CalculationRequest, result pnl.CalculationResult) (id string, err error) {
	defer func(begin time.Time) {
		e.logger.Log(
			"method", "create_deal",
			"deal", name,
			"direction", req.Direction,
			"deal_id", id,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.CreateDeal(ctx, name, req, result)
}

func (e *loggingExporter) RecentDeals(ctx context.Context, limit int) (deals []Deal, err error) {
	defer func(begin time.Time) {
		e.logger.Log(
			"method", "recent_deals",
			"limit", limit,
			"returned", len(deals),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.RecentDeals(ctx, limit)
}

func (e *loggingExporter) TestConnection(ctx context.Context) (status Status, err error) {
	defer func(begin time.Time) {
		e.logger.Log(
			"method", "test_connection",
			"connected", status.Connected,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.TestConnection(ctx)
}
