package cleanup

import (
	"time"

	"github.com/AtRiskMedia/fanhub-go/pkg/config"
)

// Config holds cleanup worker configuration, sourced from the central config package.
type Config struct {
	CleanupInterval  time.Duration
	VerboseReporting bool
	CartTTL          time.Duration
}

// NewConfig creates a new cleanup configuration by reading values
// from the already-initialized variables in the centralized /pkg/config package.
func NewConfig() *Config {
	return &Config{
		CleanupInterval:  config.CartCleanupInterval,
		VerboseReporting: config.LogLevel == "debug",
		CartTTL:          config.CartTTL,
	}
}
