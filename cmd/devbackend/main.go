// Command devbackend is an in-memory stand-in for the earn API used during local development.
// It serves GET /api/user/:id, GET /api/ads and POST /api/withdraw and, when a broker URL is
// given, credits ad_reward events and pushes the resulting snapshots back to the dashboards.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"earn-dashboard/internal/client"
	"earn-dashboard/internal/models"
	"earn-dashboard/internal/rabbitmq"
)

func main() {
	listen := flag.String("listen", ":8090", "listen address")
	balance := flag.Float64("balance", 150, "starting balance of auto-registered users")
	strict := flag.Bool("strict", false, "answer 404 for unknown users instead of registering them")
	amqpURL := flag.String("amqp", os.Getenv("AMQP_URL"), "RabbitMQ URL; empty disables events")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	store := newMemStore(*balance, *strict)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var broker *rabbitmq.Broker
	if *amqpURL != "" {
		var err error
		broker, err = rabbitmq.Connect(*amqpURL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect broker")
		}
		defer broker.Close()
		go func() {
			err := broker.ConsumeEvents(ctx, func(ev models.Event) { applyEvent(ctx, store, broker, ev) })
			if err != nil {
				log.Error().Err(err).Msg("event consumer stopped")
			}
		}()
	}

	app := newApp(store)
	go func() {
		<-ctx.Done()
		app.Shutdown()
	}()

	log.Info().Str("listen", *listen).Msg("dev backend running")
	if err := app.Listen(*listen); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}

func newApp(store *memStore) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	api := app.Group("/api")
	api.Get("/user/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
		}
		snap, err := store.user(int64(id))
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.JSON(snap)
	})

	api.Get("/ads", func(c *fiber.Ctx) error {
		return c.JSON(models.AdCatalog{Ads: sampleAds})
	})

	api.Post("/withdraw", func(c *fiber.Ctx) error {
		var req models.WithdrawalRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "bad request"})
		}
		requestID := c.Get(client.HeaderRequestID)
		snap, err := store.withdraw(req, requestID)
		switch {
		case errors.Is(err, errUnknownUser):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
		case err != nil:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Withdrawal failed"})
		}
		log.Info().Int64("telegram_id", req.TelegramID).Float64("amount", req.Amount).
			Str("request_id", requestID).Float64("balance", snap.User.Balance).Msg("withdrawal accepted")
		return c.JSON(fiber.Map{"success": true, "message": "Withdrawal request submitted"})
	})

	return app
}

func applyEvent(ctx context.Context, store *memStore, broker *rabbitmq.Broker, ev models.Event) {
	if ev.Type != models.EventAdReward {
		return
	}
	snap, err := store.credit(ev.TelegramID, ev.Amount)
	if err != nil {
		log.Warn().Err(err).Int64("telegram_id", ev.TelegramID).Msg("ad reward for unknown user")
		return
	}
	if err := broker.PublishSnapshot(ctx, snap); err != nil {
		log.Error().Err(err).Int64("telegram_id", ev.TelegramID).Msg("push snapshot")
	}
}
