package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile          = ".env"
	defaultPort             = "8080"
	defaultReadTimeout      = 15 * time.Second
	defaultWriteTimeout     = 60 * time.Second
	defaultIdleTimeout      = 120 * time.Second
	defaultPriceTopic       = "repricer-price-changes"
	defaultEngineWorkers    = 4
	defaultScheduleInterval = 15 * time.Minute
	defaultScheduleSlow     = 4
	defaultBatchLimit       = 500
	defaultVendorsFile      = "vendors.yaml"
	defaultLogLevel         = "info"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	Firestore FirestoreConfig
	PubSub    PubSubConfig
	Engine    EngineConfig
	Schedule  ScheduleConfig
	Vendors   VendorsConfig
	Logging   LoggingConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// FirestoreConfig stores database parameters.
type FirestoreConfig struct {
	ProjectID    string
	EmulatorHost string
}

// PubSubConfig locates the topic price changes are published to. An empty topic disables publishing.
type PubSubConfig struct {
	ProjectID    string
	Topic        string
	EmulatorHost string
}

// EngineConfig tunes the repricing engine and its worker pool.
type EngineConfig struct {
	Workers int
	Strict  bool
}

// ScheduleConfig controls the in-process batch loop. A zero interval disables it.
type ScheduleConfig struct {
	Interval   time.Duration
	SlowEvery  int
	Products   []string
	BatchLimit int
}

// VendorsConfig points at the own-vendor table.
type VendorsConfig struct {
	File string
}

// LoggingConfig sets the zap level.
type LoggingConfig struct {
	Level string
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration from defaults, .env overrides, environment variables and
// the explicit env map, in increasing precedence.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         stringWithDefault(lookup, "REPRICER_SERVER_PORT", defaultPort),
			ReadTimeout:  durationWithDefault(lookup, "REPRICER_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "REPRICER_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "REPRICER_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Firestore: FirestoreConfig{
			ProjectID:    stringWithDefault(lookup, "REPRICER_FIRESTORE_PROJECT_ID", ""),
			EmulatorHost: stringWithDefault(lookup, "REPRICER_FIRESTORE_EMULATOR_HOST", ""),
		},
		PubSub: PubSubConfig{
			ProjectID:    stringWithDefault(lookup, "REPRICER_PUBSUB_PROJECT_ID", ""),
			Topic:        presentStringWithDefault(lookup, "REPRICER_PUBSUB_TOPIC", defaultPriceTopic),
			EmulatorHost: stringWithDefault(lookup, "REPRICER_PUBSUB_EMULATOR_HOST", ""),
		},
		Engine: EngineConfig{
			Workers: intWithDefault(lookup, "REPRICER_ENGINE_WORKERS", defaultEngineWorkers),
			Strict:  boolWithDefault(lookup, "REPRICER_ENGINE_STRICT", false),
		},
		Schedule: ScheduleConfig{
			Interval:   durationWithDefault(lookup, "REPRICER_SCHEDULE_INTERVAL", defaultScheduleInterval),
			SlowEvery:  intWithDefault(lookup, "REPRICER_SCHEDULE_SLOW_EVERY", defaultScheduleSlow),
			Products:   csvWithDefault(lookup, "REPRICER_SCHEDULE_PRODUCTS"),
			BatchLimit: intWithDefault(lookup, "REPRICER_SCHEDULE_BATCH_LIMIT", defaultBatchLimit),
		},
		Vendors: VendorsConfig{
			File: stringWithDefault(lookup, "REPRICER_VENDORS_FILE", defaultVendorsFile),
		},
		Logging: LoggingConfig{
			Level: strings.ToLower(stringWithDefault(lookup, "REPRICER_LOG_LEVEL", defaultLogLevel)),
		},
	}

	// Pub/Sub shares the Firestore project unless told otherwise.
	if cfg.PubSub.ProjectID == "" {
		cfg.PubSub.ProjectID = cfg.Firestore.ProjectID
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	}
	if cfg.Firestore.ProjectID == "" {
		missing = append(missing, "Firestore.ProjectID")
	}
	if cfg.Engine.Workers <= 0 {
		missing = append(missing, "Engine.Workers")
	}
	if cfg.Schedule.Interval < 0 {
		missing = append(missing, "Schedule.Interval")
	}
	if cfg.Schedule.SlowEvery < 0 {
		missing = append(missing, "Schedule.SlowEvery")
	}
	if cfg.Schedule.BatchLimit <= 0 {
		missing = append(missing, "Schedule.BatchLimit")
	}
	if strings.TrimSpace(cfg.Vendors.File) == "" {
		missing = append(missing, "Vendors.File")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

// presentStringWithDefault honours an explicitly empty value.
func presentStringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

func csvWithDefault(lookup func(string) (string, bool), key string) []string {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
