// internal/workers/matching/match-all-companies/config.go
package matchallcompanies

import (
	"time"

	"compliance-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

// LoadConfig defaults to a long timeout; the batch walks every company.
func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := 10 * time.Minute
	if wcfg.Timeout > 0 {
		timeout = config.GetDuration(wcfg.Timeout)
	}
	return &Config{
		Timeout: timeout,
	}
}
