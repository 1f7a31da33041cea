package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"earn-dashboard/internal/config"
	"earn-dashboard/internal/models"
)

const publishTimeout = 5 * time.Second

// Broker publishes flow events and receives backend snapshot pushes.
type Broker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	mu   sync.Mutex
}

func Connect(url string) (*Broker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	for _, q := range []string{config.EventsQueue, config.SnapshotsQueue} {
		_, err = ch.QueueDeclare(
			q,     // queue name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("declare queue %s: %w", q, err)
		}
	}
	log.Info().Msg("connected to RabbitMQ")
	return &Broker{conn: conn, ch: ch}, nil
}

// Publish sends ev to the events queue.
func (b *Broker) Publish(ctx context.Context, ev models.Event) error {
	return b.publishJSON(ctx, config.EventsQueue, ev.Type, ev.At, ev)
}

// PublishSnapshot pushes an authoritative snapshot to the dashboards. Used by the backend side.
func (b *Broker) PublishSnapshot(ctx context.Context, snap *models.UserSnapshot) error {
	return b.publishJSON(ctx, config.SnapshotsQueue, "snapshot", time.Now(), snap)
}

func (b *Broker) publishJSON(ctx context.Context, queue, typ string, ts time.Time, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ch.PublishWithContext(ctx,
		"",    // exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    ts,
			Type:         typ,
			Body:         body,
		})
}

// ConsumeSnapshots reads snapshots pushed by the backend and hands each to apply until ctx ends
// or the delivery channel closes.
func (b *Broker) ConsumeSnapshots(ctx context.Context, apply func(*models.UserSnapshot) int) error {
	return b.consume(ctx, config.SnapshotsQueue, func(body []byte) {
		var snap models.UserSnapshot
		if err := json.Unmarshal(body, &snap); err != nil {
			log.Warn().Err(err).Msg("bad snapshot message")
			return
		}
		if snap.User.TelegramID == 0 {
			log.Warn().Msg("snapshot message without telegram_id")
			return
		}
		n := apply(&snap)
		log.Debug().Int64("telegram_id", snap.User.TelegramID).Int("sessions", n).Msg("snapshot pushed")
	})
}

// ConsumeEvents reads the events published by dashboards. Used by the backend side.
func (b *Broker) ConsumeEvents(ctx context.Context, handle func(models.Event)) error {
	return b.consume(ctx, config.EventsQueue, func(body []byte) {
		var ev models.Event
		if err := json.Unmarshal(body, &ev); err != nil {
			log.Warn().Err(err).Msg("bad event message")
			return
		}
		handle(ev)
	})
}

func (b *Broker) consume(ctx context.Context, queue string, handle func([]byte)) error {
	b.mu.Lock()
	msgs, err := b.ch.Consume(
		queue, // queue
		"",    // consumer
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	b.mu.Unlock()
	if err != nil {
		return fmt.Errorf("register consumer on %s: %w", queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("%s deliveries closed", queue)
			}
			handle(msg.Body)
		}
	}
}

func (b *Broker) Close() {
	if b.ch != nil {
		b.ch.Close()
	}
	if b.conn != nil {
		b.conn.Close()
	}
}
