package exchange

import (
	"context"
	"fmt"

	pnl "go-oiltrade-pnl"
	"go-oiltrade-pnl/rates"
)

// Service converts amounts between currencies and hands out the rate
// snapshots the P&L engine computes against. One snapshot is taken per
// calculation so a single result never mixes rate timestamps.
type Service interface {
	// Snapshot captures the current rate table as an immutable set.
	Snapshot(ctx context.Context) (pnl.RateSet, error)

	// Convert computes a conversion from one currency to another with the
	// current exchange rate.
	Convert(ctx context.Context, amount pnl.Amount, from pnl.Currency, to pnl.Currency) (pnl.Exchanged, error)
}

// service exchange API backed by a rate source
type service struct {
	// base the currency all quotes are taken against
	base pnl.Currency

	// ratesService to look up live quotes
	ratesService rates.Service
}

// NewService constructs a valid Service taking quotes against base.
func NewService(base pnl.Currency, s rates.Service) Service {
	return &service{
		base:         base,
		ratesService: s,
	}
}

func (s *service) Snapshot(ctx context.Context) (pnl.RateSet, error) {
	quotes, err := s.ratesService.Latest(ctx, s.base)
	if err != nil {
		return pnl.RateSet{}, fmt.Errorf("snapshot [%v]: %w", s.base, err)
	}
	return pnl.NewRateSet(s.base, quotes), nil
}

func (s *service) Convert(ctx context.Context, amount pnl.Amount, from pnl.Currency, to pnl.Currency) (pnl.Exchanged, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return pnl.Exchanged{}, fmt.Errorf("convert from [%v]: %w", from, err)
	}

	rate, err := snapshot.Rate(from, to)
	if err != nil {
		return pnl.Exchanged{}, err
	}
	converted, err := snapshot.Convert(amount, from, to)
	if err != nil {
		return pnl.Exchanged{}, err
	}

	return pnl.Exchanged{Rate: rate, Amount: converted}, nil
}
