package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile = "./cmtr.yaml"
	DefaultBinary     = "mtr"
	DefaultServerHost = "127.0.0.1"
	DefaultServerPort = 8080
)

// Color modes
const (
	ColorAuto   string = "auto"
	ColorAlways string = "always"
	ColorNever  string = "never"
)

// Default threshold values. Loss is in percent, latency in milliseconds.
const (
	DefaultLossWarn    = 0.1
	DefaultLossCrit    = 5.0
	DefaultLatencyWarn = 10.0
	DefaultLatencyCrit = 100.0
)

var (
	DefaultLossLimits    = Limits{Warn: DefaultLossWarn, Crit: DefaultLossCrit}
	DefaultLatencyLimits = Limits{Warn: DefaultLatencyWarn, Crit: DefaultLatencyCrit}
)

// Config holds the entire configuration from the YAML file.
type Config struct {
	Binary         string       `yaml:"binary" json:"binary"`
	Sudo           *bool        `yaml:"sudo" json:"sudo"`
	TimeoutSeconds int          `yaml:"timeout_seconds" json:"timeout_seconds"` // 0 waits forever
	Color          string       `yaml:"color" json:"color"`
	Spinner        *bool        `yaml:"spinner" json:"spinner"`
	Loss           Threshold    `yaml:"loss" json:"loss"`
	Latency        Threshold    `yaml:"latency" json:"latency"`
	Log            LogConfig    `yaml:"log" json:"log"`
	Server         ServerConfig `yaml:"server" json:"server"`
}

// Threshold is a {warn, crit} pair as written in the config file.
// A nil side falls back to the metric default for that side.
type Threshold struct {
	Warn *float64 `yaml:"warn" json:"warn"`
	Crit *float64 `yaml:"crit" json:"crit"`
}

// Limits is a fully resolved threshold pair.
type Limits struct {
	Warn float64 `json:"warn"`
	Crit float64 `json:"crit"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type ServerConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

// Resolve fills unset sides of t from def.
func (t Threshold) Resolve(def Limits) Limits {
	l := def
	if t.Warn != nil {
		l.Warn = *t.Warn
	}
	if t.Crit != nil {
		l.Crit = *t.Crit
	}
	return l
}

// NewThreshold returns a Threshold with both sides set.
func NewThreshold(warn, crit float64) Threshold {
	return Threshold{Warn: &warn, Crit: &crit}
}

func (c *Config) LossLimits() Limits {
	return c.Loss.Resolve(DefaultLossLimits)
}

func (c *Config) LatencyLimits() Limits {
	return c.Latency.Resolve(DefaultLatencyLimits)
}

func (c *Config) UseSudo() bool {
	return c.Sudo == nil || *c.Sudo
}

func (c *Config) SpinnerEnabled() bool {
	return c.Spinner == nil || *c.Spinner
}

func LoadConfig(filePath string) (*Config, error) {
	var cfg Config
	yamlFile, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filePath, err)
	}
	err = yaml.Unmarshal(yamlFile, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML content from '%s': %w", filePath, err)
	}
	return &cfg, nil
}

// LoadOrDefault loads filePath, or returns the default config when the file does not exist.
func LoadOrDefault(filePath string) (*Config, error) {
	cfg, err := LoadConfig(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return NewDefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// SaveConfig writes cfg to filePath as YAML, creating parent directories.
func SaveConfig(filePath string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config dir '%s': %w", dir, err)
		}
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file '%s': %w", filePath, err)
	}
	return nil
}

// EnsureConfigFile writes a default config to filePath unless one is already there.
func EnsureConfigFile(filePath string) error {
	if _, err := os.Stat(filePath); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat config file '%s': %w", filePath, err)
	}
	return SaveConfig(filePath, NewDefaultConfig())
}

// NewDefaultConfig creates a new config with default values
func NewDefaultConfig() *Config {
	sudo := true
	spinner := true
	return &Config{
		Binary:         DefaultBinary,
		Sudo:           &sudo,
		TimeoutSeconds: 0,
		Color:          ColorAuto,
		Spinner:        &spinner,
		Loss:           NewThreshold(DefaultLossWarn, DefaultLossCrit),
		Latency:        NewThreshold(DefaultLatencyWarn, DefaultLatencyCrit),
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Server: ServerConfig{
			Host: DefaultServerHost,
			Port: DefaultServerPort,
		},
	}
}

// ApplyDefaults applies default values to missing fields in the config
func (c *Config) ApplyDefaults() {
	if c.Binary == "" {
		c.Binary = DefaultBinary
	}
	if c.Color == "" {
		c.Color = ColorAuto
	}
	// Threshold sides stay nil; Resolve supplies the defaults
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultServerHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
}

// Validate checks value ranges after defaults and overrides are applied.
func (c *Config) Validate() error {
	loss := c.LossLimits()
	if loss.Warn > loss.Crit {
		return fmt.Errorf("loss threshold warn (%g) is greater than crit (%g)", loss.Warn, loss.Crit)
	}
	latency := c.LatencyLimits()
	if latency.Warn > latency.Crit {
		return fmt.Errorf("latency threshold warn (%g) is greater than crit (%g)", latency.Warn, latency.Crit)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode '%s': must be one of auto, always, never", c.Color)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level '%s'", c.Log.Level)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative, got %d", c.TimeoutSeconds)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// NewViper returns a viper instance reading CMTR_* environment variables.
// Nested keys map to underscores, so "loss.warn" reads CMTR_LOSS_WARN.
// No defaults are registered, so IsSet only reports values the user provided.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("cmtr")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ApplyOverrides copies every key set in v over the loaded config.
// A value that does not convert to the key's type is an error, never a zero value.
func (c *Config) ApplyOverrides(v *viper.Viper) error {
	if v.IsSet("binary") {
		c.Binary = v.GetString("binary")
	}
	if err := overrideBool(v, "sudo", &c.Sudo); err != nil {
		return err
	}
	if err := overrideInt(v, "timeout_seconds", &c.TimeoutSeconds); err != nil {
		return err
	}
	if v.IsSet("color") {
		c.Color = strings.ToLower(v.GetString("color"))
	}
	if err := overrideBool(v, "spinner", &c.Spinner); err != nil {
		return err
	}
	thresholds := []struct {
		key string
		dst **float64
	}{
		{"loss.warn", &c.Loss.Warn},
		{"loss.crit", &c.Loss.Crit},
		{"latency.warn", &c.Latency.Warn},
		{"latency.crit", &c.Latency.Crit},
	}
	for _, th := range thresholds {
		if err := overrideFloat(v, th.key, th.dst); err != nil {
			return err
		}
	}
	if v.IsSet("log.level") {
		c.Log.Level = v.GetString("log.level")
	}
	if v.IsSet("log.format") {
		c.Log.Format = v.GetString("log.format")
	}
	if v.IsSet("server.host") {
		c.Server.Host = v.GetString("server.host")
	}
	return overrideInt(v, "server.port", &c.Server.Port)
}

func overrideErr(key string, raw any, err error) error {
	env := "CMTR_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	return fmt.Errorf("invalid value %q for %s: %w", cast.ToString(raw), env, err)
}

func overrideFloat(v *viper.Viper, key string, dst **float64) error {
	if !v.IsSet(key) {
		return nil
	}
	raw := v.Get(key)
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return overrideErr(key, raw, err)
	}
	*dst = &f
	return nil
}

func overrideBool(v *viper.Viper, key string, dst **bool) error {
	if !v.IsSet(key) {
		return nil
	}
	raw := v.Get(key)
	b, err := cast.ToBoolE(raw)
	if err != nil {
		return overrideErr(key, raw, err)
	}
	*dst = &b
	return nil
}

func overrideInt(v *viper.Viper, key string, dst *int) error {
	if !v.IsSet(key) {
		return nil
	}
	raw := v.Get(key)
	n, err := cast.ToIntE(raw)
	if err != nil {
		return overrideErr(key, raw, err)
	}
	*dst = n
	return nil
}
