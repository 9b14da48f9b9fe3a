// internal/workers/ai/explain-match/config.go
package explainmatch

import (
	"time"

	"compliance-workers/internal/common/config"
)

type Config struct {
	Timeout   time.Duration
	MaxTokens int
	Currency  string
}

func LoadConfig(wcfg config.WorkerConfig, ai config.AIConfig, currency string) *Config {
	timeout := 60 * time.Second
	if ai.Timeout > 0 {
		timeout = config.GetDuration(ai.Timeout)
	}
	if wcfg.Timeout > 0 {
		timeout = config.GetDuration(wcfg.Timeout)
	}

	maxTokens := ai.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 400
	}

	return &Config{
		Timeout:   timeout,
		MaxTokens: maxTokens,
		Currency:  currency,
	}
}
