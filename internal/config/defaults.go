package config

import (
	"strings"
	"time"
)

// ApplyDefaults fills in any zero-valued field left unset by the config
// file or environment.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyMetricsDefaults(&cfg.Metrics)
	applyAPIDefaults(&cfg.API)
	applyAuditDefaults(&cfg.Audit)
	applyTimerDefaults(&cfg.Timers)
	for i := range cfg.Channels {
		applyChannelDefaults(&cfg.Channels[i])
	}
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
	if cfg.Profiling.Endpoint == "" {
		cfg.Profiling.Endpoint = "http://localhost:4040"
	}
	if len(cfg.Profiling.ProfileTypes) == 0 {
		cfg.Profiling.ProfileTypes = []string{"cpu", "alloc_objects", "alloc_space", "inuse_objects", "inuse_space", "goroutines"}
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = 9090
	}
}

func applyAPIDefaults(cfg *APIConfig) {
	if cfg.Port == 0 {
		cfg.Port = 8443
	}
}

func applyAuditDefaults(cfg *AuditConfig) {
	if cfg.Driver == "" {
		cfg.Driver = "sqlite"
	}
	if cfg.DSN == "" {
		cfg.DSN = "pricc-audit.db"
	}
}

func applyChannelDefaults(cfg *ChannelConfig) {
	if cfg.RecallMode == "" {
		cfg.RecallMode = "global"
	}
	if cfg.SignalingRetentionReq == "" {
		cfg.SignalingRetentionReq = "release_wanted"
	}
	if cfg.SignalingRetentionRsp == "" {
		cfg.SignalingRetentionRsp = "release_wanted"
	}
}

// applyTimerDefaults mirrors the values a PRI switch typically advertises
// for CCBS/CCNR (ETSI EN 300-359-1 annex, libpri's built-in defaults).
func applyTimerDefaults(cfg *TimerConfig) {
	setIfZero(&cfg.TRetention, 2*time.Second)
	setIfZero(&cfg.TCCBS2, 30*time.Second)
	setIfZero(&cfg.TCCNR2, 5*time.Minute)
	setIfZero(&cfg.TCCBS5, 10*time.Second)
	setIfZero(&cfg.TCCBS6, 10*time.Second)
	setIfZero(&cfg.TCCNR5, 10*time.Second)
	setIfZero(&cfg.TCCNR6, 10*time.Second)
	setIfZero(&cfg.TCCBS3, 20*time.Second)
	setIfZero(&cfg.QSIGCCBST2, 30*time.Second)
	setIfZero(&cfg.QSIGCCNRT2, 5*time.Minute)
	setIfZero(&cfg.QSIGCCT1, 20*time.Second)
	setIfZero(&cfg.QSIGCCT3, 10*time.Second)
	setIfZero(&cfg.TResponse, 4*time.Second)
}

func setIfZero(d *time.Duration, def time.Duration) {
	if *d == 0 {
		*d = def
	}
}

// DefaultConfig returns a complete configuration for a single PTMP
// D-channel, used when no config file is found.
func DefaultConfig() *Config {
	cfg := &Config{
		Channels: []ChannelConfig{
			{
				ID:         "default",
				SwitchType: "euro_isdn",
				LocalType:  "bri_network",
				IsNT:       true,
				CCSupport:  true,
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}
