package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "MOTIF_"

// Config is the complete runtime configuration of motif-tracer.
type Config struct {
	LogLevel string        `yaml:"log_level" mapstructure:"log_level"`
	HTTP     HTTPConfig    `yaml:"http" mapstructure:"http"`
	Trace    TraceConfig   `yaml:"trace" mapstructure:"trace"`
	Redis    RedisConfig   `yaml:"redis" mapstructure:"redis"`
	Metrics  MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// HTTPConfig configures the HTTP server started by `serve`.
type HTTPConfig struct {
	Listen         string `yaml:"listen" mapstructure:"listen"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// TraceConfig holds the tracing defaults applied when a request does not
// name a layout or preset.
type TraceConfig struct {
	Layout  string `yaml:"layout" mapstructure:"layout"`
	Preset  string `yaml:"preset" mapstructure:"preset"`
	Ink     string `yaml:"ink" mapstructure:"ink"`
	MaxSide int    `yaml:"max_side" mapstructure:"max_side"`
}

// RedisConfig configures the SVG store. An empty Addr disables storage.
type RedisConfig struct {
	Addr     string        `yaml:"addr" mapstructure:"addr"`
	Password string        `yaml:"password" mapstructure:"password"`
	DB       int           `yaml:"db" mapstructure:"db"`
	Prefix   string        `yaml:"prefix" mapstructure:"prefix"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// Default returns the configuration used when no file or variable overrides it.
func Default() Config {
	return Config{
		LogLevel: "info",
		HTTP: HTTPConfig{
			Listen:         ":8080",
			MaxUploadBytes: 10 << 20,
		},
		Trace: TraceConfig{
			Layout: "badges_banners",
			Preset: "solid",
			Ink:    "#000000",
		},
		Redis: RedisConfig{
			Prefix: "motif:vector:",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// envKeys maps environment variable suffixes to their dotted config path.
var envKeys = map[string]string{
	"LOG_LEVEL":             "log_level",
	"HTTP_LISTEN":           "http.listen",
	"HTTP_MAX_UPLOAD_BYTES": "http.max_upload_bytes",
	"TRACE_LAYOUT":          "trace.layout",
	"TRACE_PRESET":          "trace.preset",
	"TRACE_INK":             "trace.ink",
	"TRACE_MAX_SIDE":        "trace.max_side",
	"REDIS_ADDR":            "redis.addr",
	"REDIS_PASSWORD":        "redis.password",
	"REDIS_DB":              "redis.db",
	"REDIS_PREFIX":          "redis.prefix",
	"REDIS_TTL":             "redis.ttl",
	"METRICS_ENABLED":       "metrics.enabled",
}

// Load builds the configuration from defaults, an optional YAML file and
// MOTIF_* environment variables, in increasing order of precedence.
//
// A missing file is not an error when path is empty; an explicitly named
// file that cannot be read is.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	raw := make(map[string]interface{})

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if raw == nil {
			raw = make(map[string]interface{})
		}
	}

	for suffix, key := range envKeys {
		if v, ok := lookup(EnvPrefix + suffix); ok {
			setPath(raw, key, v)
		}
	}

	cfg := Default()
	if err := decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(raw map[string]interface{}, out *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// setPath stores v under a dotted key, creating nested maps as needed.
func setPath(m map[string]interface{}, key string, v interface{}) {
	parts := strings.Split(key, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = v
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("http.max_upload_bytes: must be positive"))
	}
	if c.Trace.MaxSide < 0 {
		errs = append(errs, errors.New("trace.max_side: must not be negative"))
	}
	if c.Trace.Ink != "" && !strings.EqualFold(c.Trace.Ink, "auto") {
		if _, err := colorful.Hex(c.Trace.Ink); err != nil {
			errs = append(errs, fmt.Errorf("trace.ink: %q is not a hex color", c.Trace.Ink))
		}
	}
	if c.Redis.DB < 0 {
		errs = append(errs, errors.New("redis.db: must not be negative"))
	}
	if c.Redis.TTL < 0 {
		errs = append(errs, errors.New("redis.ttl: must not be negative"))
	}

	return errors.Join(errs...)
}
