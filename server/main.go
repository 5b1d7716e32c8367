package main

import (
	"os"

	"github.com/go-kit/log"

	"go-oiltrade-pnl/config"
	"go-oiltrade-pnl/engine"
	"go-oiltrade-pnl/exchange"
	"go-oiltrade-pnl/http"
	"go-oiltrade-pnl/hubspot"
	"go-oiltrade-pnl/rates"

	nhttp "net/http"
)

func main() {
	w := log.NewSyncWriter(os.Stderr)
	logger := log.NewLogfmtLogger(w)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log("msg", "loading config failed", "err", err)
		os.Exit(1)
	}

	ratesService := rates.NewService(cfg.Rates.URL, cfg.Rates.Timeout)
	ratesService = rates.NewLoggingService(log.With(logger, "component", "rates_rest"), ratesService)
	ratesService = rates.NewCachingService(cfg.Rates.RefreshInterval, log.With(logger, "component", "rates_cache"), ratesService)
	ratesService = rates.NewFallbackService(cfg.Rates.Base, cfg.FallbackRates(), log.With(logger, "component", "rates_fallback"), ratesService)
	ratesService = rates.NewLoggingService(log.With(logger, "component", "rates"), ratesService)

	exchangeService := exchange.NewService(cfg.Rates.Base, ratesService)
	exchangeService = exchange.NewLoggingService(log.With(logger, "component", "exchange"), exchangeService)

	engineService := engine.NewService(cfg.Trading.TruckCapacityTons)
	engineService = engine.NewLoggingService(log.With(logger, "component", "engine"), engineService)

	exporter := hubspot.NewClient(cfg.HubSpot.URL, cfg.HubSpot.AccessToken, cfg.HubSpot.Timeout)
	exporter = hubspot.NewLoggingExporter(log.With(logger, "component", "hubspot"), exporter)

	deltas := engine.DefaultDeltas
	if presets, err := config.LoadPresets(cfg.Presets.Path); err == nil && len(presets.SweepDeltas) > 0 {
		deltas = presets.Deltas()
	}

	handler := http.NewServer(engineService, exchangeService, exporter, deltas)
	logger.Log("msg", "listening", "addr", cfg.HTTP.Addr)
	if err := nhttp.ListenAndServe(cfg.HTTP.Addr, handler); err != nil {
		logger.Log("msg", "server stopped", "err", err)
		os.Exit(1)
	}
}
