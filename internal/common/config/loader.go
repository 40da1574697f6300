package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MAPPER_SERVER_PORT.
const EnvPrefix = "MAPPER"

// keyDelimiter replaces viper's "." so generator keys like "ui.button" stay
// single map keys.
const keyDelimiter = "::"

// Load reads configs/config.yaml (searched in the usual locations) plus the
// optional config.<APP_ENVIRONMENT>.yaml overlay.
//
// Load always returns a usable config. A non-nil error describes what was
// ignored: an unreadable file yields the defaults, an out-of-range value is
// replaced by its default.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	var problems []error
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Default(), fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName("config." + env)
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			problems = append(problems, fmt.Errorf("ignoring %s overlay: %w", env, err))
		}
	}

	return finish(v, problems)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Default(), fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return finish(v, nil)
}

func newViper() *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_", ".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func finish(v *viper.Viper, problems []error) (*Config, error) {
	expandEnvVars(v)

	cfg := Default()
	if err := decode(v, cfg); err != nil {
		return Default(), errors.Join(append(problems, fmt.Errorf("failed to unmarshal config: %w", err))...)
	}
	applyDefaults(cfg)
	problems = append(problems, sanitize(cfg)...)
	return cfg, errors.Join(problems...)
}

// decode unmarshals v into cfg. Every file key is resolved through v.Get so
// MAPPER_* variables win, and the keys of the defaults are added so env
// variables also reach values the file leaves out.
//
// viper's own Unmarshal treats a defaults key holding a typed map, such as
// props_synthesis::generators, as a single leaf and copies the file's map
// over the env-resolved leaves below it. Such keys are dropped here whenever
// the file has leaves under them.
func decode(v *viper.Viper, cfg *Config) error {
	fileKeys := v.AllKeys()
	keys := append([]string(nil), fileKeys...)

	var defaults map[string]interface{}
	if err := mapstructure.Decode(cfg, &defaults); err != nil {
		return err
	}
	for _, key := range flattenKeys(defaults, "") {
		if !hasKeysUnder(fileKeys, key) {
			keys = append(keys, key)
		}
	}

	settings := make(map[string]interface{})
	for _, key := range keys {
		value := v.Get(key)
		if value == nil {
			continue
		}
		setPath(settings, strings.Split(key, keyDelimiter), value)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       decodeHook(),
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(settings)
}

func flattenKeys(m map[string]interface{}, prefix string) []string {
	var keys []string
	for k, val := range m {
		full := strings.ToLower(prefix + k)
		if nested, ok := val.(map[string]interface{}); ok && len(nested) > 0 {
			keys = append(keys, flattenKeys(nested, full+keyDelimiter)...)
			continue
		}
		keys = append(keys, full)
	}
	return keys
}

func hasKeysUnder(keys []string, parent string) bool {
	for _, k := range keys {
		if k == parent || strings.HasPrefix(k, parent+keyDelimiter) {
			return true
		}
	}
	return false
}

func setPath(m map[string]interface{}, path []string, value interface{}) {
	for _, p := range path[:len(path)-1] {
		next, ok := m[p].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			m[p] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}

// decodeHook keeps viper's duration and comma-list conversions and trims the
// items of comma lists, so MAPPER_..._ACTION_KEYWORDS="buy, order" decodes
// to ["buy" "order"].
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		trimStringSliceHook,
	)
}

func trimStringSliceHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf([]string{}) {
		return data, nil
	}
	items, ok := data.([]string)
	if !ok {
		return data, nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, nil
}

// loadEnvFile loads .env from the first location that has one.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders in string values. Unset
// variables expand to "".
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults fills optional fields a file may have blanked.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
	if cfg.Server.MetricsPath == "" {
		cfg.Server.MetricsPath = "/metrics"
	}
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = cfg.App.Name
	}
	if cfg.Workers == nil {
		cfg.Workers = map[string]WorkerConfig{}
	}
	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

// sanitize replaces values the pipeline cannot work with by their defaults
// and reports each replacement.
func sanitize(cfg *Config) []error {
	var problems []error
	def := Default()
	reset := func(key string, got interface{}, apply func()) {
		apply()
		problems = append(problems, fmt.Errorf("%s: invalid value %v, using default", key, got))
	}

	s := &cfg.Scoring
	if s.Threshold < 0 || s.Threshold > 1 {
		reset("scoring.threshold", s.Threshold, func() { s.Threshold = def.Scoring.Threshold })
	}
	if s.MinConfidence < 0 || s.MaxConfidence > 1 || s.MinConfidence > s.MaxConfidence {
		reset("scoring.min_confidence/max_confidence", fmt.Sprintf("[%v, %v]", s.MinConfidence, s.MaxConfidence), func() {
			s.MinConfidence = def.Scoring.MinConfidence
			s.MaxConfidence = def.Scoring.MaxConfidence
		})
	}
	if s.GenericPenalty < 0 {
		reset("scoring.generic_penalty", s.GenericPenalty, func() { s.GenericPenalty = def.Scoring.GenericPenalty })
	}
	if s.MaxMatches < 1 {
		reset("scoring.max_matches", s.MaxMatches, func() { s.MaxMatches = def.Scoring.MaxMatches })
	}
	w := s.Weights
	if w.Exact < 0 || w.Fuzzy < 0 || w.Context < 0 || w.Position < 0 {
		reset("scoring.weights", fmt.Sprintf("%+v", w), func() { s.Weights = def.Scoring.Weights })
	}

	b := &cfg.SectionBalancing
	if b.MaxComponentsPerSection < 1 {
		reset("section_balancing.max_components_per_section", b.MaxComponentsPerSection, func() {
			b.MaxComponentsPerSection = def.SectionBalancing.MaxComponentsPerSection
		})
	}
	if b.MaxRepeatsPerKey < 1 {
		reset("section_balancing.max_repeats_per_key", b.MaxRepeatsPerKey, func() {
			b.MaxRepeatsPerKey = def.SectionBalancing.MaxRepeatsPerKey
		})
	}
	if b.MinMeaningfulMain < 0 {
		reset("section_balancing.min_meaningful_main", b.MinMeaningfulMain, func() {
			b.MinMeaningfulMain = def.SectionBalancing.MinMeaningfulMain
		})
	}
	if b.Fallback.Component == "" {
		reset("section_balancing.fallback.component", `""`, func() { b.Fallback = def.SectionBalancing.Fallback })
	}

	if cfg.Cache.TTLSeconds < 0 {
		reset("cache.ttl_seconds", cfg.Cache.TTLSeconds, func() { cfg.Cache.TTLSeconds = def.Cache.TTLSeconds })
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		reset("tracing.sample_ratio", cfg.Tracing.SampleRatio, func() { cfg.Tracing.SampleRatio = def.Tracing.SampleRatio })
	}
	return problems
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// Addr is the listen address of the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// TTL is the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
