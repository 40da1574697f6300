package config

import (
	"visual-mapper/internal/common/database"
	"visual-mapper/internal/mapping/balancer"
	"visual-mapper/internal/mapping/pipeline"
	"visual-mapper/internal/mapping/props"
	"visual-mapper/internal/mapping/scoring"
	"visual-mapper/internal/vocabulary"
)

// Config is the main application configuration struct.
type Config struct {
	App              AppConfig               `mapstructure:"app"`
	Server           ServerConfig            `mapstructure:"server"`
	Logging          LoggingConfig           `mapstructure:"logging"`
	Scoring          scoring.Config          `mapstructure:"scoring"`
	SectionBalancing balancer.Config         `mapstructure:"section_balancing"`
	PropsSynthesis   props.Config            `mapstructure:"props_synthesis"`
	Vocabulary       vocabulary.SourceConfig `mapstructure:"vocabulary"`
	Cache            CacheConfig             `mapstructure:"cache"`
	Camunda          CamundaConfig           `mapstructure:"camunda"`
	Workers          map[string]WorkerConfig `mapstructure:"workers"`
	Tracing          TracingConfig           `mapstructure:"tracing"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
	RequestTimeout  int    `mapstructure:"request_timeout"`  // milliseconds
	MetricsPath     string `mapstructure:"metrics_path"`
	Mode            string `mapstructure:"mode"` // gin mode: debug, release, test
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// CacheConfig controls the redis response cache.
type CacheConfig struct {
	Enabled    bool                 `mapstructure:"enabled"`
	TTLSeconds int                  `mapstructure:"ttl_seconds"`
	KeyPrefix  string               `mapstructure:"key_prefix"`
	Redis      database.RedisConfig `mapstructure:"redis"`
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	UsePlaintext   bool   `mapstructure:"use_plaintext"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// TracingConfig enables span export to a Jaeger collector.
type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

// Default returns the complete built-in configuration. Every loaded file is
// decoded on top of it.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "visual-mapper",
			Version:     "1.0.0",
			Environment: "development",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10000,
			WriteTimeout:    10000,
			ShutdownTimeout: 15000,
			RequestTimeout:  5000,
			MetricsPath:     "/metrics",
			Mode:            "release",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Scoring:          scoring.DefaultConfig(),
		SectionBalancing: balancer.DefaultConfig(),
		PropsSynthesis:   props.DefaultConfig(),
		Vocabulary:       vocabulary.DefaultSourceConfig(),
		Cache: CacheConfig{
			TTLSeconds: 300,
			KeyPrefix:  "mapper:v1:",
			Redis:      database.RedisConfig{Address: "localhost:6379"},
		},
		Camunda: CamundaConfig{
			BrokerAddress:  "localhost:26500",
			UsePlaintext:   true,
			MaxJobsActive:  10,
			Timeout:        30000,
			RequestTimeout: 30000,
		},
		Workers: map[string]WorkerConfig{},
		Tracing: TracingConfig{
			ServiceName: "visual-mapper",
			SampleRatio: 1.0,
		},
	}
}

// Mapping extracts the pipeline settings.
func (c *Config) Mapping() pipeline.Config {
	return pipeline.Config{
		Scoring:   c.Scoring,
		Balancing: c.SectionBalancing,
		Props:     c.PropsSynthesis,
	}
}
