package pnl

import "time"

// Currency a currency code
type Currency string

// The three currencies the desk trades in.
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	MDL Currency = "MDL"
)

// Currencies lists every supported currency, in display order.
var Currencies = []Currency{USD, EUR, MDL}

// Known reports whether c is one of the supported currencies.
func (c Currency) Known() bool {
	for _, k := range Currencies {
		if c == k {
			return true
		}
	}
	return false
}

// Amount a monetary amount... which should be a float...
type Amount float64

// Rate an exchange rate
type Rate float64

// Rates maps currency codes to rates quoted against some base currency.
type Rates map[Currency]Rate

// Exchanged is the outcome of a single currency conversion.
type Exchanged struct {
	Rate   Rate
	Amount Amount
}

// RateSet is an immutable snapshot of exchange rates taken once per
// calculation. All quotes are against Base (Base itself quotes at 1), so
// any pair is derivable and the set is invertible by construction:
// Rate(a, b) == 1 / Rate(b, a).
type RateSet struct {
	Base   Currency
	Quotes Rates
	// Taken records when the snapshot was captured, so results can carry
	// a single consistent timestamp.
	Taken time.Time
}

// NewRateSet builds a snapshot from quotes against base. The base quote is
// forced to 1 so callers only need to supply the other currencies.
func NewRateSet(base Currency, quotes Rates) RateSet {
	all := Rates{base: 1}
	for c, r := range quotes {
		all[c] = r
	}
	return RateSet{Base: base, Quotes: all, Taken: time.Now()}
}

// Rate derives the exchange rate from one currency to another.
// Fails with *InvalidRateError when either quote is missing or non-positive.
func (rs RateSet) Rate(from, to Currency) (Rate, error) {
	f, ok := rs.Quotes[from]
	if !ok || f <= 0 {
		return 0, &InvalidRateError{From: from, To: to, Missing: from}
	}
	t, ok := rs.Quotes[to]
	if !ok || t <= 0 {
		return 0, &InvalidRateError{From: from, To: to, Missing: to}
	}
	return t / f, nil
}

// Convert converts a non-negative amount between two currencies using this
// snapshot only.
func (rs RateSet) Convert(amount Amount, from, to Currency) (Amount, error) {
	if amount < 0 {
		return 0, &InvalidInputError{Field: "amount", Reason: "must not be negative"}
	}
	rate, err := rs.Rate(from, to)
	if err != nil {
		return 0, err
	}
	return Amount(float64(rate) * float64(amount)), nil
}

// Direction of a deal: the side of the trade the counter price is computed for.
type Direction string

const (
	// Buying (backwardation): the desk knows the market resale price and
	// wants the maximum it can pay a supplier.
	Buying Direction = "buying"
	// Selling (forwardation): the desk knows the supplier price and wants
	// the minimum price it can quote a buyer.
	Selling Direction = "selling"
)

// PriceQuote an immutable per-ton price in a given currency.
type PriceQuote struct {
	Amount   Amount   `json:"amount"`
	Currency Currency `json:"currency"`
}

// CostComponents are the per-ton deal costs, in the same currency as the
// base price, plus the transport loss percentage.
type CostComponents struct {
	TransportPerTon Amount `json:"transportPerTon"`
	BrokerPerTon    Amount `json:"brokerPerTon"`
	CustomsPerTon   Amount `json:"customsPerTon"`
	// LossPercent is spillage/shrinkage in transit, in [0, 100).
	LossPercent float64 `json:"lossPercent"`
}

// Fees is the sum of the per-ton cost components, excluding loss.
func (c CostComponents) Fees() Amount {
	return c.TransportPerTon + c.BrokerPerTon + c.CustomsPerTon
}

// LossFactor is the fraction of paid-for tonnage that actually arrives.
func (c CostComponents) LossFactor() float64 {
	return 1 - c.LossPercent/100
}

// CalculationRequest is a fully validated set of deal parameters. Raw-text
// parsing happens at the transport boundary; the engine only ever sees this.
type CalculationRequest struct {
	BasePrice          PriceQuote     `json:"basePrice"`
	TargetProfitPerTon Amount         `json:"targetProfitPerTon"`
	QuantityTons       float64        `json:"quantityTons"`
	Direction          Direction      `json:"direction"`
	Costs              CostComponents `json:"costs"`
	// VATPercent is applied on top of the MDL price only.
	VATPercent float64 `json:"vatPercent"`
}

// Validate checks every input constraint before any arithmetic runs.
// It fails with *InvalidLossError for an impossible loss percentage and
// *InvalidInputError for everything else, naming the offending field.
func (r CalculationRequest) Validate() error {
	if r.Costs.LossPercent >= 100 {
		return &InvalidLossError{Percent: r.Costs.LossPercent}
	}
	switch {
	case !r.BasePrice.Currency.Known():
		return &InvalidInputError{Field: "basePrice.currency", Reason: "unknown currency " + string(r.BasePrice.Currency)}
	case r.BasePrice.Amount < 0:
		return &InvalidInputError{Field: "basePrice.amount", Reason: "must not be negative"}
	case r.TargetProfitPerTon < 0:
		return &InvalidInputError{Field: "targetProfitPerTon", Reason: "must not be negative"}
	case r.QuantityTons <= 0:
		return &InvalidInputError{Field: "quantityTons", Reason: "must be positive"}
	case r.Direction != Buying && r.Direction != Selling:
		return &InvalidInputError{Field: "direction", Reason: `must be "buying" or "selling"`}
	case r.Costs.TransportPerTon < 0:
		return &InvalidInputError{Field: "costs.transportPerTon", Reason: "must not be negative"}
	case r.Costs.BrokerPerTon < 0:
		return &InvalidInputError{Field: "costs.brokerPerTon", Reason: "must not be negative"}
	case r.Costs.CustomsPerTon < 0:
		return &InvalidInputError{Field: "costs.customsPerTon", Reason: "must not be negative"}
	case r.Costs.LossPercent < 0:
		return &InvalidInputError{Field: "costs.lossPercent", Reason: "must not be negative"}
	case r.VATPercent < 0 || r.VATPercent >= 100:
		return &InvalidInputError{Field: "vatPercent", Reason: "must be in [0, 100)"}
	}
	return nil
}

// CalculationResult is derived wholesale from one request and one rate
// snapshot; it is never mutated in place. The shape is stable and
// serializable for the CRM exporter.
type CalculationResult struct {
	Direction Direction `json:"direction"`

	// Prices is the counter price per ton in every supported currency:
	// the max buy price for Buying, the min sell price for Selling.
	Prices map[Currency]Amount `json:"prices"`
	// PriceMDLWithVAT is the MDL counter price including VAT.
	PriceMDLWithVAT Amount `json:"priceMdlWithVat"`

	ProfitPerTon   Amount  `json:"profitPerTon"`
	ProfitPerTruck Amount  `json:"profitPerTruck"`
	TotalProfit    Amount  `json:"totalProfit"`
	MarginPercent  float64 `json:"marginPercent"`

	// BreakevenPrice is the zero-margin counter price, in the base currency.
	BreakevenPrice Amount `json:"breakevenPrice"`

	EffectiveQuantityTons float64 `json:"effectiveQuantityTons"`
	LossFactor            float64 `json:"lossFactor"`
	TotalCostsPerTon      Amount  `json:"totalCostsPerTon"`

	CostBreakdown CostComponents `json:"costBreakdown"`

	// BaseCurrency, Rates and RatesTaken record the snapshot the result
	// was computed against: the quotes for the supported currencies,
	// against the snapshot base, at the time the snapshot was taken.
	BaseCurrency Currency  `json:"baseCurrency"`
	Rates        Rates     `json:"rates"`
	RatesTaken   time.Time `json:"ratesTaken"`
}

// SweepPoint is one entry of a sensitivity sweep: the base price delta and
// the full recomputed result at that delta.
type SweepPoint struct {
	Delta  Amount            `json:"delta"`
	Result CalculationResult `json:"result"`
}
