package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/tormodfh/pricc/internal/api"
	"github.com/tormodfh/pricc/internal/api/auth"
	"github.com/tormodfh/pricc/internal/audit"
	"github.com/tormodfh/pricc/internal/cc"
	"github.com/tormodfh/pricc/internal/config"
	"github.com/tormodfh/pricc/internal/hostbridge"
	"github.com/tormodfh/pricc/internal/logger"
	"github.com/tormodfh/pricc/internal/metrics"
	"github.com/tormodfh/pricc/internal/telemetry"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the CC controller process",
	RunE:  runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	path := configFile()
	if path == "" && !config.DefaultConfigExists() {
		return fmt.Errorf("no configuration file found at %s; run: pricc init", config.DefaultConfigPath())
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err := logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: cfg.Logging.Output}); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "pricc",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	profilingShutdown, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "pricc",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	})
	if err != nil {
		return fmt.Errorf("initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	met := metrics.New(registry)

	var store *audit.Store
	if cfg.Audit.Driver != "" {
		store, err = audit.Open(ctx, audit.Driver(cfg.Audit.Driver), cfg.Audit.DSN)
		if err != nil {
			return fmt.Errorf("open audit store: %w", err)
		}
		defer store.Close()
	}

	controllers := make(map[string]*cc.Controller, len(cfg.Channels))
	sched := hostbridge.NewScheduler()
	sink := hostbridge.NewSink()
	subSink := hostbridge.NewSubcommandSink()

	for _, ch := range cfg.Channels {
		ctrlCfg, err := ch.ControllerConfig(cfg.Timers)
		if err != nil {
			return fmt.Errorf("channel %q: %w", ch.ID, err)
		}
		ctrl := cc.New(ctrlCfg, sink, sched, subSink)
		ctrl.SetMetrics(met)
		ctrl.SetAuditStore(store)
		controllers[ch.ID] = ctrl
		logger.Info("channel controller started", "channel_id", ch.ID, "switchtype", ch.SwitchType, "localtype", ch.LocalType)
	}

	if cfg.ReloadWatch {
		if err := config.WatchTimers(path, func(timers config.TimerConfig, channels []config.ChannelConfig) {
			logger.Info("timer configuration reloaded")
		}); err != nil {
			logger.Error("failed to start config watch", "error", err)
		}
	}

	servers := startAmbientServers(cfg, registry, controllers)
	defer stopServers(ctx, servers)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("pricc is running", "channels", len(controllers))
	<-sigChan
	logger.Info("shutdown signal received")
	return nil
}

type ambientServers struct {
	metrics *http.Server
	api     *http.Server
}

func startAmbientServers(cfg *config.Config, registry *prometheus.Registry, controllers map[string]*cc.Controller) *ambientServers {
	servers := &ambientServers{}

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		servers.metrics = &http.Server{Addr: fmt.Sprintf(":%d", cfg.Metrics.Port), Handler: mux}
		go func() {
			if err := servers.metrics.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server error", "error", err)
			}
		}()
		logger.Info("metrics server listening", "port", cfg.Metrics.Port)
	}

	if cfg.API.Enabled {
		var primary *cc.Controller
		for _, c := range controllers {
			primary = c
			break
		}
		if primary != nil {
			secret := cfg.API.JWTSecret
			if secret == "" {
				secret = os.Getenv("PRICC_API_JWT_SECRET")
			}
			jwtSvc, err := auth.NewService(secret, "pricc", 0)
			if err != nil {
				logger.Error("admin api disabled: invalid jwt secret", "error", err)
			} else {
				router := api.NewRouter(primary, jwtSvc)
				servers.api = &http.Server{Addr: fmt.Sprintf(":%d", cfg.API.Port), Handler: router}
				go func() {
					if err := servers.api.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						logger.Error("admin api server error", "error", err)
					}
				}()
				logger.Info("admin api listening", "port", cfg.API.Port)
			}
		}
	}

	return servers
}

func stopServers(ctx context.Context, s *ambientServers) {
	if s.metrics != nil {
		_ = s.metrics.Shutdown(ctx)
	}
	if s.api != nil {
		_ = s.api.Shutdown(ctx)
	}
}
