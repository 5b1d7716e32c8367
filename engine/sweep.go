package engine

import (
	"context"
	"fmt"

	pnl "go-oiltrade-pnl"
)

// DefaultDeltas is the symmetric sweep used when the caller supplies none.
var DefaultDeltas = []pnl.Amount{-25, 0, 25}

// Sweep shifts the base price by each delta and recomputes the whole result.
// The committed counter price of the unshifted deal is held fixed: the deal
// was already quoted, so a market move changes the realized profit per ton
// (profit+delta when buying, profit-delta/lossFactor when selling), not the
// quote itself. Margin is therefore strictly monotonic in the delta for a
// fixed direction.
func (s *service) Sweep(ctx context.Context, req pnl.CalculationRequest, snapshot pnl.RateSet, deltas []pnl.Amount) ([]pnl.SweepPoint, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(deltas) == 0 {
		deltas = DefaultDeltas
	}

	lossFactor := req.Costs.LossFactor()
	points := make([]pnl.SweepPoint, 0, len(deltas))
	for _, delta := range deltas {
		shifted := req
		shifted.BasePrice.Amount += delta
		switch req.Direction {
		case pnl.Buying:
			shifted.TargetProfitPerTon = req.TargetProfitPerTon + delta
		case pnl.Selling:
			shifted.TargetProfitPerTon = req.TargetProfitPerTon - pnl.Amount(float64(delta)/lossFactor)
		}

		result, err := s.calculate(shifted, snapshot)
		if err != nil {
			return nil, fmt.Errorf("sweep at delta %v: %w", delta, err)
		}
		points = append(points, pnl.SweepPoint{Delta: delta, Result: result})
	}

	return points, nil
}
