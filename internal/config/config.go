// Package config loads the controller's static configuration: the
// switch-side identity for each D-channel, the CC feature toggles, the
// timer table, and the ambient server surfaces (logging, metrics,
// admin API, audit store, telemetry, profiling).
//
// Configuration sources (in order of precedence):
//  1. Environment variables (PRICC_*)
//  2. Configuration file (YAML)
//  3. Default values
//
// When no configuration file is found, Load returns the defaults without
// reading the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for one pricc process. A process
// may run several D-channels; Channels holds one entry per channel.
type Config struct {
	Logging     LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
	Metrics     MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
	API         APIConfig       `mapstructure:"api" yaml:"api"`
	Audit       AuditConfig     `mapstructure:"audit" yaml:"audit"`
	ReloadWatch bool            `mapstructure:"reload_watch" yaml:"reload_watch"`
	Channels    []ChannelConfig `mapstructure:"channels" validate:"required,min=1,dive" yaml:"channels"`
	Timers      TimerConfig     `mapstructure:"timers" yaml:"timers"`
}

// ChannelConfig is the per-D-channel configuration.
type ChannelConfig struct {
	// ID names the D-channel for logging and the admin API.
	ID string `mapstructure:"id" validate:"required" yaml:"id"`

	// SwitchType and LocalType are fixed at process start; changing
	// either requires a restart.
	SwitchType string `mapstructure:"switchtype" validate:"required,oneof=euro_isdn dms100 att5e qsig" yaml:"switchtype"`
	LocalType  string `mapstructure:"localtype" validate:"required,oneof=pri_cpe pri_network bri_cpe bri_network" yaml:"localtype"`

	IsNT      bool `mapstructure:"is_nt" yaml:"is_nt"`
	CCSupport bool `mapstructure:"cc_support" yaml:"cc_support"`

	// RecallMode selects global vs specific recall propagated on
	// outgoing PTMP informational invokes.
	RecallMode string `mapstructure:"recall_mode" validate:"omitempty,oneof=global specific" yaml:"recall_mode"`

	SignalingRetentionReq string `mapstructure:"signaling_retention_req" validate:"omitempty,oneof=release_wanted demand_retain dont_care" yaml:"signaling_retention_req"`
	SignalingRetentionRsp string `mapstructure:"signaling_retention_rsp" validate:"omitempty,oneof=release_wanted demand_retain dont_care" yaml:"signaling_retention_rsp"`

	DeflectionSupport    bool `mapstructure:"deflection_support" yaml:"deflection_support"`
	TransferSupport      bool `mapstructure:"transfer_support" yaml:"transfer_support"`
	MCIDSupport          bool `mapstructure:"mcid_support" yaml:"mcid_support"`
	IncludeCalledPartyIE bool `mapstructure:"include_called_party_ie" yaml:"include_called_party_ie"`
}

// TimerConfig is the full timer table, in human-readable durations.
// WatchTimers reports a changed table, but running controllers keep the
// durations they were built with; a change takes effect on restart.
type TimerConfig struct {
	TRetention time.Duration `mapstructure:"t_retention" validate:"required,gt=0" yaml:"t_retention"`
	TCCBS2     time.Duration `mapstructure:"t_ccbs2" validate:"required,gt=0" yaml:"t_ccbs2"`
	TCCNR2     time.Duration `mapstructure:"t_ccnr2" validate:"required,gt=0" yaml:"t_ccnr2"`
	TCCBS5     time.Duration `mapstructure:"t_ccbs5" validate:"required,gt=0" yaml:"t_ccbs5"`
	TCCBS6     time.Duration `mapstructure:"t_ccbs6" validate:"required,gt=0" yaml:"t_ccbs6"`
	TCCNR5     time.Duration `mapstructure:"t_ccnr5" validate:"required,gt=0" yaml:"t_ccnr5"`
	TCCNR6     time.Duration `mapstructure:"t_ccnr6" validate:"required,gt=0" yaml:"t_ccnr6"`
	TCCBS3     time.Duration `mapstructure:"t_ccbs3" validate:"required,gt=0" yaml:"t_ccbs3"`
	QSIGCCBST2 time.Duration `mapstructure:"qsig_ccbs_t2" validate:"required,gt=0" yaml:"qsig_ccbs_t2"`
	QSIGCCNRT2 time.Duration `mapstructure:"qsig_ccnr_t2" validate:"required,gt=0" yaml:"qsig_ccnr_t2"`
	QSIGCCT1   time.Duration `mapstructure:"qsig_cc_t1" validate:"required,gt=0" yaml:"qsig_cc_t1"`
	QSIGCCT3   time.Duration `mapstructure:"qsig_cc_t3" validate:"required,gt=0" yaml:"qsig_cc_t3"`
	TResponse  time.Duration `mapstructure:"t_response" validate:"required,gt=0" yaml:"t_response"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry distributed tracing.
type TelemetryConfig struct {
	Enabled    bool            `mapstructure:"enabled" yaml:"enabled"`
	Endpoint   string          `mapstructure:"endpoint" yaml:"endpoint"`
	Insecure   bool            `mapstructure:"insecure" yaml:"insecure"`
	SampleRate float64         `mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`
	Profiling  ProfilingConfig `mapstructure:"profiling" yaml:"profiling"`
}

// ProfilingConfig controls Pyroscope continuous profiling of the FSM
// dispatch loop.
type ProfilingConfig struct {
	Enabled      bool     `mapstructure:"enabled" yaml:"enabled"`
	Endpoint     string   `mapstructure:"endpoint" yaml:"endpoint"`
	ProfileTypes []string `mapstructure:"profile_types" yaml:"profile_types"`
}

// MetricsConfig configures the Prometheus metrics HTTP server.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// APIConfig configures the chi admin HTTP surface.
type APIConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Port      int    `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
	JWTSecret string `mapstructure:"jwt_secret" yaml:"jwt_secret,omitempty"`
}

// AuditConfig configures the append-only terminal-outcome log.
// This is never used to restore FSM state on restart; the record pool
// always starts empty regardless of what the audit store holds.
type AuditConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite postgres" yaml:"driver"`
	DSN    string `mapstructure:"dsn" validate:"required" yaml:"dsn"`
}

// Load loads configuration from file, environment, and defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		cfg := DefaultConfig()
		return cfg, nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// SaveConfig writes cfg to path in YAML, used by `pricc init`.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("PRICC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(configDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pricc")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "pricc")
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultConfigExists reports whether a config file exists at the
// default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(DefaultConfigPath())
	return err == nil
}
