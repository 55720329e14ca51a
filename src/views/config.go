package views

import "github.com/jiaming2012/txo-chain/src/eventmodels"

type Config struct {
	Multiplier         float64
	FallbackStrikeStep float64
	Rate               float64
	CallSubsetSize     int
	PutSubsetSize      int
}

func NewConfig(cfg *eventmodels.ChainConfigYAML) Config {
	if cfg == nil {
		cfg = eventmodels.NewDefaultChainConfig()
	}

	return Config{
		Multiplier:         cfg.ContractMultiplier,
		FallbackStrikeStep: cfg.FallbackStrikeStep,
		Rate:               cfg.Rate(),
		CallSubsetSize:     cfg.CallSubsetSize,
		PutSubsetSize:      cfg.PutSubsetSize,
	}
}

func DefaultConfig() Config {
	return NewConfig(nil)
}
