package reconciler

import (
	"fmt"

	"github.com/feral-file/ray-indexer/internal/domain"
)

// PriorValueSource selects where deposit and withdraw handlers take the token value before the change
type PriorValueSource string

const (
	// PriorValueFromEvent trusts the tokenValue carried by the event
	PriorValueFromEvent PriorValueSource = "event"
	// PriorValueFromStore uses the value of the stored token
	PriorValueFromStore PriorValueSource = "store"
)

const defaultAssetCacheSize = 256

// Config holds the reconciler configuration
type Config struct {
	// PriorValueSource is either "event" or "store"
	PriorValueSource PriorValueSource `mapstructure:"prior_value_source"`
	// RejectNegativeBalance drops withdrawals that would make a token value negative
	RejectNegativeBalance bool `mapstructure:"reject_negative_balance"`
	// RejectInactiveToken drops deposits, withdrawals and burns against burned tokens
	RejectInactiveToken bool `mapstructure:"reject_inactive_token"`
	// DefaultDecimals is used when an asset does not implement decimals()
	DefaultDecimals int `mapstructure:"default_decimals"`
	// AssetCacheSize bounds the in-process asset cache
	AssetCacheSize int `mapstructure:"asset_cache_size"`
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	return Config{
		PriorValueSource:      PriorValueFromEvent,
		RejectNegativeBalance: true,
		RejectInactiveToken:   true,
		DefaultDecimals:       domain.DEFAULT_DECIMALS,
		AssetCacheSize:        defaultAssetCacheSize,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	switch c.PriorValueSource {
	case PriorValueFromEvent, PriorValueFromStore:
	default:
		return fmt.Errorf("invalid prior value source: %q", c.PriorValueSource)
	}

	if c.DefaultDecimals < 0 {
		return fmt.Errorf("default decimals must not be negative: %d", c.DefaultDecimals)
	}

	return nil
}

// normalize fills unset fields with their defaults
func (c Config) normalize() Config {
	if c.PriorValueSource == "" {
		c.PriorValueSource = PriorValueFromEvent
	}
	if c.AssetCacheSize <= 0 {
		c.AssetCacheSize = defaultAssetCacheSize
	}
	return c
}
