package mapentitiestolayout

import (
	"time"

	"visual-mapper/internal/common/config"
)

type Config struct {
	Timeout  time.Duration
	MaxTerms int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		MaxTerms: 200,
	}
}

// ConfigFrom applies the worker section of the application config.
func ConfigFrom(wcfg config.WorkerConfig) *Config {
	cfg := LoadConfig()
	if wcfg.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wcfg.Timeout)
	}
	return cfg
}
