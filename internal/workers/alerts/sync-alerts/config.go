// internal/workers/alerts/sync-alerts/config.go
package syncalerts

import (
	"time"

	"compliance-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := 15 * time.Second
	if wcfg.Timeout > 0 {
		timeout = config.GetDuration(wcfg.Timeout)
	}
	return &Config{
		Timeout: timeout,
	}
}
