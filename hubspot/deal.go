package hubspot

import (
	"strconv"
	"time"

	pnl "go-oiltrade-pnl"
)

// dealSource identifies this app in the CRM.
const dealSource = "oiltrade-pnl-calculator"

// dealProperties maps one calculation onto the CRM's deal property schema.
// Property names are fixed: the HubSpot pipeline was set up against them
// long before this service existed.
func dealProperties(name string, req pnl.CalculationRequest, result pnl.CalculationResult) map[string]string {
	props := map[string]string{
		"dealname":              name,
		"quantity_tons":         num(req.QuantityTons),
		"target_profit":         num(float64(req.TargetProfitPerTon)),
		"calculated_margin":     num(result.MarginPercent),
		"calculated_profit":     num(float64(result.TotalProfit)),
		"eur_usd_rate":          num(float64(result.Rates[pnl.USD])),
		"eur_mdl_rate":          num(float64(result.Rates[pnl.MDL])),
		"transport_cost":        num(float64(req.Costs.TransportPerTon)),
		"broker_commission":     num(float64(req.Costs.BrokerPerTon)),
		"customs_cost":          num(float64(req.Costs.CustomsPerTon)),
		"calculation_timestamp": time.Now().Format(time.RFC3339),
		"source":                dealSource,
	}

	switch req.Direction {
	case pnl.Buying:
		props["deal_type"] = "purchase"
		props["market_price_eur"] = num(float64(req.BasePrice.Amount))
		props["max_buy_price_eur"] = num(float64(result.Prices[pnl.EUR]))
		props["max_buy_price_usd"] = num(float64(result.Prices[pnl.USD]))
	case pnl.Selling:
		props["deal_type"] = "sale"
		props["supplier_price_usd"] = num(float64(req.BasePrice.Amount))
		props["min_sell_price_eur"] = num(float64(result.Prices[pnl.EUR]))
		props["min_sell_price_usd"] = num(float64(result.Prices[pnl.USD]))
	}

	return props
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
