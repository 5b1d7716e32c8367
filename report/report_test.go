package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	pnl "go-oiltrade-pnl"
)

func buyingResult() pnl.CalculationResult {
	return pnl.CalculationResult{
		Direction: pnl.Buying,
		Prices: map[pnl.Currency]pnl.Amount{
			pnl.EUR: 1225,
			pnl.USD: 1425.9,
			pnl.MDL: 23887.5,
		},
		PriceMDLWithVAT:       28665,
		ProfitPerTon:          85,
		ProfitPerTruck:        2040,
		TotalProfit:           21250,
		MarginPercent:         6.94,
		BreakevenPrice:        1310,
		EffectiveQuantityTons: 250,
		BaseCurrency:          pnl.EUR,
	}
}

func TestConsole_PrintResult(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsoleWriter(&buf)

	console.PrintResult(buyingResult())

	out := buf.String()
	assert.Contains(t, out, "MAX BUY PRICE")
	assert.Contains(t, out, "EUR")
	assert.Contains(t, out, "1225.00")
	assert.Contains(t, out, "23887.50")
	assert.Contains(t, out, "MDL incl. VAT")
	assert.Contains(t, out, "28665.00")
	assert.Contains(t, out, "margin 6.94%")
	assert.Contains(t, out, "breakeven 1310.00 EUR")
}

func TestConsole_PrintResultSelling(t *testing.T) {
	result := buyingResult()
	result.Direction = pnl.Selling

	var buf bytes.Buffer
	console := NewConsoleWriter(&buf)

	console.PrintResult(result)

	assert.Contains(t, buf.String(), "MIN SELL PRICE")
}

func TestConsole_PrintSweep(t *testing.T) {
	points := []pnl.SweepPoint{
		{Delta: -25, Result: pnl.CalculationResult{
			Prices:        map[pnl.Currency]pnl.Amount{pnl.EUR: 1225},
			ProfitPerTon:  60,
			TotalProfit:   15000,
			MarginPercent: 4.9,
		}},
		{Delta: 0, Result: pnl.CalculationResult{
			Prices:        map[pnl.Currency]pnl.Amount{pnl.EUR: 1225},
			ProfitPerTon:  85,
			TotalProfit:   21250,
			MarginPercent: 6.94,
		}},
		{Delta: 25, Result: pnl.CalculationResult{
			Prices:        map[pnl.Currency]pnl.Amount{pnl.EUR: 1225},
			ProfitPerTon:  110,
			TotalProfit:   27500,
			MarginPercent: 8.98,
		}},
	}

	var buf bytes.Buffer
	console := NewConsoleWriter(&buf)

	console.PrintSweep(points)

	out := buf.String()
	assert.Contains(t, out, "SENSITIVITY (3 points)")
	assert.Contains(t, out, "-25")
	assert.Contains(t, out, "+25")
	assert.Contains(t, out, "60.00")
	assert.Contains(t, out, "110.00")
}

func TestConsole_PrintSweepEmpty(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsoleWriter(&buf)

	console.PrintSweep(nil)

	assert.Contains(t, buf.String(), "no sweep points")
}
