package eventmodels

import (
	"fmt"
	"time"
)

const (
	DefaultExchangeLocation   = "Asia/Taipei"
	DefaultRiskFreeRate       = 0.01745
	DefaultContractMultiplier = 50
	DefaultFlashTTL           = 800 * time.Millisecond
	DefaultViewsThrottle      = 60 * time.Millisecond
	DefaultCallSubsetSize     = 15
	DefaultPutSubsetSize      = 25
	DefaultFallbackStrikeStep = 50
)

type ChainConfigYAML struct {
	ExchangeLocation   string        `yaml:"exchangeLocation"`
	RiskFreeRate       *float64      `yaml:"riskFreeRate,omitempty"`
	ContractMultiplier float64       `yaml:"contractMultiplier"`
	FlashTTL           time.Duration `yaml:"flashTTL"`
	ViewsThrottle      time.Duration `yaml:"viewsThrottle"`
	CallSubsetSize     int           `yaml:"callSubsetSize"`
	PutSubsetSize      int           `yaml:"putSubsetSize"`
	FallbackStrikeStep float64       `yaml:"fallbackStrikeStep"`
}

func NewDefaultChainConfig() *ChainConfigYAML {
	cfg := &ChainConfigYAML{}
	cfg.ApplyDefaults()
	return cfg
}

func (c *ChainConfigYAML) ApplyDefaults() {
	if c.ExchangeLocation == "" {
		c.ExchangeLocation = DefaultExchangeLocation
	}

	if c.RiskFreeRate == nil {
		r := DefaultRiskFreeRate
		c.RiskFreeRate = &r
	}

	if c.ContractMultiplier == 0 {
		c.ContractMultiplier = DefaultContractMultiplier
	}

	if c.FlashTTL == 0 {
		c.FlashTTL = DefaultFlashTTL
	}

	if c.ViewsThrottle == 0 {
		c.ViewsThrottle = DefaultViewsThrottle
	}

	if c.CallSubsetSize == 0 {
		c.CallSubsetSize = DefaultCallSubsetSize
	}

	if c.PutSubsetSize == 0 {
		c.PutSubsetSize = DefaultPutSubsetSize
	}

	if c.FallbackStrikeStep == 0 {
		c.FallbackStrikeStep = DefaultFallbackStrikeStep
	}
}

func (c *ChainConfigYAML) Rate() float64 {
	if c.RiskFreeRate == nil {
		return DefaultRiskFreeRate
	}

	return *c.RiskFreeRate
}

func (c *ChainConfigYAML) Validate() error {
	if c.ContractMultiplier <= 0 {
		return fmt.Errorf("ChainConfigYAML: contractMultiplier must be positive, got %v", c.ContractMultiplier)
	}

	if c.FlashTTL < 0 || c.ViewsThrottle < 0 {
		return fmt.Errorf("ChainConfigYAML: durations must not be negative")
	}

	if c.CallSubsetSize < 0 || c.PutSubsetSize < 0 {
		return fmt.Errorf("ChainConfigYAML: subset sizes must not be negative")
	}

	return nil
}
