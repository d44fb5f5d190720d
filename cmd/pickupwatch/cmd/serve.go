package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/pickupwatch/pickupwatch/internal/api/handlers"
	"github.com/pickupwatch/pickupwatch/internal/api/middleware"
	"github.com/pickupwatch/pickupwatch/internal/config"
	"github.com/pickupwatch/pickupwatch/internal/engine"
	"github.com/pickupwatch/pickupwatch/internal/fetch"
	"github.com/pickupwatch/pickupwatch/internal/notify"
	"github.com/pickupwatch/pickupwatch/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the monitor and the status API server",
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	fetcher := newFetcher(cfg)
	notifier := buildNotifier(cfg, log)

	mon := engine.NewMonitor(
		fetcher,
		notifier,
		cfg.Target.Part,
		cfg.Target.Store,
		cfg.Schedule.CheckInterval,
		engine.WithLogger(log),
	)

	if err := mon.Start(); err != nil {
		return fmt.Errorf("starting monitor: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	e.GET("/healthz", handlers.NewHealthHandler().Healthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("pickupwatch", Version))
	handlers.RegisterStatusRoutes(api, handlers.NewStatusHandler(mon))
	handlers.RegisterMonitorRoutes(api, handlers.NewMonitorHandler(mon))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	if err := mon.Stop(); err != nil && !errors.Is(err, engine.ErrNotRunning) {
		log.Error("stopping monitor", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func newFetcher(cfg *config.Config) *fetch.PickupClient {
	limiter := rate.NewLimiter(
		rate.Limit(cfg.Fetch.RateLimit.PerMinute/60.0),
		cfg.Fetch.RateLimit.Burst,
	)

	return fetch.NewPickupClient(
		cfg.Target.BaseURL,
		cfg.Target.Part,
		cfg.Target.Store,
		fetch.WithTimeout(cfg.Fetch.Timeout),
		fetch.WithLocation(cfg.Target.Location),
		fetch.WithUserAgents(cfg.Fetch.UserAgents),
		fetch.WithLimiter(limiter),
	)
}

func buildNotifier(cfg *config.Config, log *slog.Logger) notify.Notifier {
	var backends []notify.Notifier

	if cfg.Notifications.Pushover.Enabled {
		backends = append(backends, notify.NewPushoverNotifier(
			cfg.Notifications.Pushover.Token,
			cfg.Notifications.Pushover.UserKey,
		))
	}
	if cfg.Notifications.Discord.Enabled {
		backends = append(backends, notify.NewDiscordNotifier(
			cfg.Notifications.Discord.WebhookURL,
		))
	}

	switch len(backends) {
	case 0:
		return notify.NewNoOpNotifier(log)
	case 1:
		return backends[0]
	default:
		return notify.NewMultiNotifier(backends...)
	}
}
