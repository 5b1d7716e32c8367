package engine

import (
	"context"
	"fmt"

	pnl "go-oiltrade-pnl"
)

// Service computes deal economics from a validated request and one rate
// snapshot. Calculations are pure: same request + same snapshot = same
// result, with no shared state between calls.
type Service interface {
	// Calculate computes the counter price, margin, breakeven and cost
	// breakdown for a deal. All-or-nothing: on any error no partial result
	// is returned.
	Calculate(ctx context.Context, req pnl.CalculationRequest, snapshot pnl.RateSet) (pnl.CalculationResult, error)

	// Sweep reruns the calculation across base price deltas, holding costs
	// and quantity fixed. Points are independent and ordered as the deltas
	// are; each call produces a fresh sequence.
	Sweep(ctx context.Context, req pnl.CalculationRequest, snapshot pnl.RateSet, deltas []pnl.Amount) ([]pnl.SweepPoint, error)
}

// service P&L engine
type service struct {
	// truckCapacityTons for the per-truck profit figure, 24t trucks by default
	truckCapacityTons float64
}

// NewService constructs a valid engine Service.
func NewService(truckCapacityTons float64) Service {
	return &service{
		truckCapacityTons: truckCapacityTons,
	}
}

func (s *service) Calculate(ctx context.Context, req pnl.CalculationRequest, snapshot pnl.RateSet) (pnl.CalculationResult, error) {
	if err := req.Validate(); err != nil {
		return pnl.CalculationResult{}, err
	}
	return s.calculate(req, snapshot)
}

// calculate runs the arithmetic on an already validated request. Sweep
// reruns come through here directly: a shifted rerun may carry a negative
// realized profit, which is a reportable loss, not an input error.
func (s *service) calculate(req pnl.CalculationRequest, snapshot pnl.RateSet) (pnl.CalculationResult, error) {
	var (
		lossFactor = req.Costs.LossFactor()
		fees       = req.Costs.Fees()
		base       = req.BasePrice.Amount
		profit     = req.TargetProfitPerTon
	)

	// Landed cost of paying p per ton is (p + fees) / lossFactor: fewer
	// good tons arrive than were paid for, so loss divides, never subtracts.
	var counter, breakeven pnl.Amount
	switch req.Direction {
	case pnl.Buying:
		// Highest purchase price whose landed cost plus target profit
		// still meets the market resale price.
		counter = pnl.Amount((float64(base)-float64(profit))*lossFactor) - fees
		breakeven = pnl.Amount(float64(base)*lossFactor) - fees
	case pnl.Selling:
		landed := pnl.Amount((float64(base) + float64(fees)) / lossFactor)
		counter = landed + profit
		breakeven = landed
	}

	margin := 0.0
	if counter > 0 {
		margin = float64(profit) / float64(counter) * 100
	}

	prices, err := convertAll(counter, req.BasePrice.Currency, snapshot)
	if err != nil {
		return pnl.CalculationResult{}, fmt.Errorf("converting counter price: %w", err)
	}

	return pnl.CalculationResult{
		Direction:             req.Direction,
		Prices:                prices,
		PriceMDLWithVAT:       pnl.Amount(float64(prices[pnl.MDL]) * (1 + req.VATPercent/100)),
		ProfitPerTon:          profit,
		ProfitPerTruck:        pnl.Amount(float64(profit) * s.truckCapacityTons),
		TotalProfit:           pnl.Amount(float64(profit) * req.QuantityTons),
		MarginPercent:         margin,
		BreakevenPrice:        breakeven,
		EffectiveQuantityTons: req.QuantityTons * lossFactor,
		LossFactor:            lossFactor,
		TotalCostsPerTon:      fees,
		CostBreakdown:         req.Costs,
		BaseCurrency:          req.BasePrice.Currency,
		Rates:                 supportedQuotes(snapshot),
		RatesTaken:            snapshot.Taken,
	}, nil
}

// supportedQuotes trims a snapshot down to the quotes the result reports.
func supportedQuotes(snapshot pnl.RateSet) pnl.Rates {
	quotes := pnl.Rates{}
	for _, c := range pnl.Currencies {
		if r, ok := snapshot.Quotes[c]; ok {
			quotes[c] = r
		}
	}
	return quotes
}

// convertAll prices an amount in every supported currency through one
// snapshot. Conversion goes through the raw rate so an infeasible (negative)
// counter price still prices out rather than erroring.
func convertAll(amount pnl.Amount, from pnl.Currency, snapshot pnl.RateSet) (map[pnl.Currency]pnl.Amount, error) {
	prices := map[pnl.Currency]pnl.Amount{}
	for _, to := range pnl.Currencies {
		rate, err := snapshot.Rate(from, to)
		if err != nil {
			return nil, err
		}
		prices[to] = pnl.Amount(float64(rate) * float64(amount))
	}
	return prices, nil
}
