package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"earn-dashboard/internal/client"
	"earn-dashboard/internal/config"
	"earn-dashboard/internal/controller"
	"earn-dashboard/internal/db"
	"earn-dashboard/internal/handlers"
	"earn-dashboard/internal/models"
	"earn-dashboard/internal/notify"
	"earn-dashboard/internal/rabbitmq"
	"earn-dashboard/internal/render"
	"earn-dashboard/internal/routes"
	"earn-dashboard/internal/state"
	"earn-dashboard/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	setupLogger(cfg.Log)
	log.Info().Str("backend", cfg.Backend.URL).Str("bot", cfg.Earn.BotUsername).Msg("💰 earn dashboard starting")

	store, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("database init failed")
	}
	defer store.Close()

	settings := render.Settings{
		BotUsername:     cfg.Earn.BotUsername,
		SupportUsername: cfg.Earn.SupportUsername,
		MinWithdrawal:   cfg.Earn.MinWithdrawal,
		AdReward:        cfg.Earn.AdReward,
	}
	engine := render.NewEngine()
	hub := notify.NewHub()
	registry := state.NewRegistry()

	ctrl := controller.New(client.New(cfg.Backend.URL, cfg.Backend.Timeout), render.New(engine, settings), hub, controller.Options{
		MinWithdrawal: cfg.Earn.MinWithdrawal,
		AdReward:      cfg.Earn.AdReward,
		AdDelay:       cfg.Earn.AdDelay,
	})
	ctrl.SetJournal(store)

	var broker *rabbitmq.Broker
	if cfg.AMQPURL != "" {
		broker, err = rabbitmq.Connect(cfg.AMQPURL)
		if err != nil {
			log.Fatal().Err(err).Msg("rabbitmq connect failed")
		}
		defer broker.Close()
		ctrl.SetPublisher(broker)
	}

	sessionCfg := session.Config{
		Expiration:     cfg.Session.Expiration,
		CookieSecure:   cfg.Session.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	}
	if cfg.Session.RedisURL != "" {
		rs, err := storage.NewRedis(cfg.Session.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect failed")
		}
		defer rs.Close()
		sessionCfg.Storage = rs
		log.Info().Msg("sessions stored in Redis")
	}

	app := fiber.New(fiber.Config{
		Views:                 engine,
		DisableStartupMessage: true,
	})
	routes.SetupRoutes(app, handlers.New(ctrl, hub, registry, settings), session.New(sessionCfg), registry)

	sweeper := cron.New()
	if _, err := sweeper.AddFunc("@every 10m", func() { sweepSessions(registry, hub, cfg.Session.Expiration) }); err != nil {
		log.Fatal().Err(err).Msg("schedule session sweeper")
	}
	sweeper.Start()
	defer sweeper.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("listen", cfg.Listen).Msg("server running")
		return app.Listen(cfg.Listen)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down...")
		return app.ShutdownWithTimeout(10 * time.Second)
	})
	if broker != nil {
		g.Go(func() error {
			return broker.ConsumeSnapshots(gctx, func(snap *models.UserSnapshot) int {
				return ctrl.ApplySnapshot(registry, snap)
			})
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("stopped with error")
	}
}

func sweepSessions(registry *state.Registry, hub *notify.Hub, maxIdle time.Duration) {
	removed := registry.Sweep(maxIdle)
	for _, sid := range removed {
		hub.Forget(sid)
	}
	if len(removed) > 0 {
		log.Info().Int("removed", len(removed)).Int("active", registry.Len()).Msg("idle sessions swept")
	}
}

func setupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
}
