package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-kit/log"

	"go-oiltrade-pnl/config"
	"go-oiltrade-pnl/engine"
	"go-oiltrade-pnl/exchange"
	"go-oiltrade-pnl/hubspot"
	"go-oiltrade-pnl/rates"
	"go-oiltrade-pnl/report"
)

func main() {
	var (
		presetName = flag.String("preset", "", "deal preset name from the presets file")
		sweep      = flag.Bool("sweep", false, "run the sensitivity sweep as well")
		export     = flag.Bool("export", false, "push the calculation to HubSpot as a deal")
		dealName   = flag.String("deal", "", "deal name for -export (defaults to a timestamped name)")
		crmStatus  = flag.Bool("crm", false, "probe the HubSpot connection, list recent deals and exit")
	)
	flag.Parse()

	w := log.NewSyncWriter(os.Stderr)
	logger := log.NewLogfmtLogger(w)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log("msg", "loading config failed", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if *crmStatus {
		exporter := hubspot.NewClient(cfg.HubSpot.URL, cfg.HubSpot.AccessToken, cfg.HubSpot.Timeout)
		exporter = hubspot.NewLoggingExporter(log.With(logger, "component", "hubspot"), exporter)

		status, err := exporter.TestConnection(ctx)
		if err != nil {
			logger.Log("msg", "probing hubspot failed", "err", err)
			os.Exit(1)
		}
		fmt.Printf("hubspot: %s (connected=%v, %d deals)\n", status.Message, status.Connected, status.TotalDeals)
		if !status.Connected {
			return
		}

		deals, err := exporter.RecentDeals(ctx, 5)
		if err != nil {
			logger.Log("msg", "fetching recent deals failed", "err", err)
			os.Exit(1)
		}
		for _, deal := range deals {
			fmt.Printf("  %s  %s\n", deal.ID, deal.Properties["dealname"])
		}
		return
	}

	presets, err := config.LoadPresets(cfg.Presets.Path)
	if err != nil {
		logger.Log("msg", "loading presets failed", "err", err)
		os.Exit(1)
	}
	preset, ok := presets.Deals[*presetName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown preset %q, available:\n", *presetName)
		for name := range presets.Deals {
			fmt.Fprintf(os.Stderr, "  %s\n", name)
		}
		os.Exit(1)
	}
	request := preset.Request()

	ratesService := rates.NewService(cfg.Rates.URL, cfg.Rates.Timeout)
	ratesService = rates.NewFallbackService(cfg.Rates.Base, cfg.FallbackRates(), log.With(logger, "component", "rates_fallback"), ratesService)

	exchangeService := exchange.NewService(cfg.Rates.Base, ratesService)
	engineService := engine.NewService(cfg.Trading.TruckCapacityTons)

	snapshot, err := exchangeService.Snapshot(ctx)
	if err != nil {
		logger.Log("msg", "taking rate snapshot failed", "err", err)
		os.Exit(1)
	}

	result, err := engineService.Calculate(ctx, request, snapshot)
	if err != nil {
		logger.Log("msg", "calculation failed", "err", err)
		os.Exit(1)
	}

	console := report.NewConsole()
	console.PrintResult(result)

	if *sweep {
		points, err := engineService.Sweep(ctx, request, snapshot, presets.Deltas())
		if err != nil {
			logger.Log("msg", "sweep failed", "err", err)
			os.Exit(1)
		}
		console.PrintSweep(points)
	}

	if *export {
		name := *dealName
		if name == "" {
			name = fmt.Sprintf("PnL %s %s", request.Direction, time.Now().Format("2006-01-02 15:04"))
		}

		exporter := hubspot.NewClient(cfg.HubSpot.URL, cfg.HubSpot.AccessToken, cfg.HubSpot.Timeout)
		exporter = hubspot.NewLoggingExporter(log.With(logger, "component", "hubspot"), exporter)

		dealID, err := exporter.CreateDeal(ctx, name, request, result)
		if err != nil {
			logger.Log("msg", "export failed", "err", err)
			os.Exit(1)
		}
		fmt.Printf("\ndeal created: %s (id %s)\n", name, dealID)
	}
}
