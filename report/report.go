package report

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"

	pnl "go-oiltrade-pnl"
)

// Console renders calculation results and sweeps as tables.
type Console struct {
	out io.Writer
}

// NewConsole creates a renderer that writes to stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter creates a renderer for tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// PrintResult renders one calculation.
func (c *Console) PrintResult(result pnl.CalculationResult) {
	fmt.Fprintf(c.out, "\n=== %s ===\n", directionLabel(result.Direction))

	table := tablewriter.NewWriter(c.out)
	table.Header("Currency", "Price/t")
	for _, currency := range pnl.Currencies {
		table.Append(string(currency), money(result.Prices[currency]))
	}
	table.Append("MDL incl. VAT", money(result.PriceMDLWithVAT))
	table.Render()

	fmt.Fprintf(c.out, "  profit/t %s | profit/truck %s | total %s | margin %.2f%%\n",
		money(result.ProfitPerTon), money(result.ProfitPerTruck),
		money(result.TotalProfit), result.MarginPercent)
	fmt.Fprintf(c.out, "  breakeven %s %s | effective qty %.2ft | costs/t %s\n",
		money(result.BreakevenPrice), result.BaseCurrency,
		result.EffectiveQuantityTons, money(result.TotalCostsPerTon))
}

// PrintSweep renders a sensitivity sweep.
func (c *Console) PrintSweep(points []pnl.SweepPoint) {
	if len(points) == 0 {
		fmt.Fprintln(c.out, "no sweep points")
		return
	}

	fmt.Fprintf(c.out, "\n=== SENSITIVITY (%d points) ===\n", len(points))

	table := tablewriter.NewWriter(c.out)
	table.Header("Delta", "Price EUR/t", "Profit/t", "Total profit", "Margin %")
	for _, p := range points {
		table.Append(
			fmt.Sprintf("%+.0f", float64(p.Delta)),
			money(p.Result.Prices[pnl.EUR]),
			money(p.Result.ProfitPerTon),
			money(p.Result.TotalProfit),
			fmt.Sprintf("%.2f", p.Result.MarginPercent),
		)
	}
	table.Render()
}

func directionLabel(d pnl.Direction) string {
	if d == pnl.Buying {
		return "MAX BUY PRICE"
	}
	return "MIN SELL PRICE"
}

func money(a pnl.Amount) string {
	return fmt.Sprintf("%.2f", float64(a))
}
