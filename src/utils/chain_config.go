package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jiaming2012/txo-chain/src/eventmodels"
)

// LoadChainConfig reads the chain config yaml. An empty path returns the
// defaults.
func LoadChainConfig(path string) (*eventmodels.ChainConfigYAML, error) {
	if path == "" {
		return eventmodels.NewDefaultChainConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain config: %w", err)
	}

	var config eventmodels.ChainConfigYAML
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chain config: %w", err)
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chain config: %w", err)
	}

	return &config, nil
}
