package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// WatchTimers starts a file watch (backed by fsnotify through viper) on
// the config file and invokes onChange with a freshly parsed TimerConfig
// and per-channel feature toggles whenever the file is rewritten.
// SwitchType and LocalType changes are ignored here: the channels list
// requires a process restart to take effect.
func WatchTimers(configPath string, onChange func(TimerConfig, []ChannelConfig)) error {
	v := viper.New()
	setupViper(v, configPath)
	if _, err := readConfigFile(v); err != nil {
		return fmt.Errorf("config: initial read for watch failed: %w", err)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		var cfg Config
		if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(durationDecodeHook()))); err != nil {
			return
		}
		ApplyDefaults(&cfg)
		onChange(cfg.Timers, cfg.Channels)
	})
	v.WatchConfig()
	return nil
}
