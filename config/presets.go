package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	pnl "go-oiltrade-pnl"
)

// DealPreset is one named set of deal parameters, as the desk keeps them in
// presets.yaml. It maps one-to-one onto a CalculationRequest.
type DealPreset struct {
	Direction       pnl.Direction `yaml:"direction"`
	Currency        pnl.Currency  `yaml:"currency"`
	BasePrice       float64       `yaml:"base_price"`
	TargetProfit    float64       `yaml:"target_profit"`
	QuantityTons    float64       `yaml:"quantity_tons"`
	TransportPerTon float64       `yaml:"transport_per_ton"`
	BrokerPerTon    float64       `yaml:"broker_per_ton"`
	CustomsPerTon   float64       `yaml:"customs_per_ton"`
	LossPercent     float64       `yaml:"loss_percent"`
	VATPercent      float64       `yaml:"vat_percent"`
}

// Request builds the typed request for this preset.
func (p DealPreset) Request() pnl.CalculationRequest {
	return pnl.CalculationRequest{
		BasePrice: pnl.PriceQuote{
			Amount:   pnl.Amount(p.BasePrice),
			Currency: p.Currency,
		},
		TargetProfitPerTon: pnl.Amount(p.TargetProfit),
		QuantityTons:       p.QuantityTons,
		Direction:          p.Direction,
		Costs: pnl.CostComponents{
			TransportPerTon: pnl.Amount(p.TransportPerTon),
			BrokerPerTon:    pnl.Amount(p.BrokerPerTon),
			CustomsPerTon:   pnl.Amount(p.CustomsPerTon),
			LossPercent:     p.LossPercent,
		},
		VATPercent: p.VATPercent,
	}
}

// Presets is the YAML presets file: named deals plus the sweep delta list.
type Presets struct {
	Deals       map[string]DealPreset `yaml:"deals"`
	SweepDeltas []float64             `yaml:"sweep_deltas"`
}

// LoadPresets reads and parses a presets file.
func LoadPresets(path string) (*Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading presets %q: %w", path, err)
	}

	var p Presets
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing presets %q: %w", path, err)
	}
	return &p, nil
}

// Deltas returns the configured sweep deltas as engine inputs.
func (p *Presets) Deltas() []pnl.Amount {
	deltas := make([]pnl.Amount, len(p.SweepDeltas))
	for i, d := range p.SweepDeltas {
		deltas[i] = pnl.Amount(d)
	}
	return deltas
}
