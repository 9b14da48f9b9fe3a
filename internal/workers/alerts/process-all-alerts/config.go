// internal/workers/alerts/process-all-alerts/config.go
package processallalerts

import (
	"time"

	"compliance-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := 10 * time.Minute
	if wcfg.Timeout > 0 {
		timeout = config.GetDuration(wcfg.Timeout)
	}
	return &Config{
		Timeout: timeout,
	}
}
