package nats

//go:generate go run go.uber.org/mock/mockgen -source=./nats.go -destination=./mocks/nats_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	natsGo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"expohub/config"
	"expohub/shared/timezone"
)

// Envelope is the wire shape pushed to realtime subscribers.
type Envelope struct {
	Event     string    `json:"event"`
	Payload   any       `json:"payload"`
	EmittedAt time.Time `json:"emitted_at"`
}

// Broadcaster publishes events to logical channels (per-user and per-expo
// subjects). Delivery is best-effort and at-most-once: subscribers that are
// disconnected at publish time miss the event and must re-fetch state on
// reconnect.
type Broadcaster interface {
	Publish(ctx context.Context, channel, event string, payload any) error
}

type broadcasterImpl struct {
	conn *natsGo.Conn
}

func New(config *config.Config) Broadcaster {
	conn, err := natsGo.Connect(config.NATS.URL)
	if err != nil {
		log.Fatal().Err(err).Str("url", config.NATS.URL).Msg("Failed to connect to NATS")
	}

	log.Info().Str("url", config.NATS.URL).Msg("Connected to NATS")

	return &broadcasterImpl{
		conn: conn,
	}
}

func (b *broadcasterImpl) Publish(_ context.Context, channel, event string, payload any) error {
	data, err := json.Marshal(Envelope{
		Event:     event,
		Payload:   payload,
		EmittedAt: timezone.Now(),
	})
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Str("event", event).Msg("Failed to marshal realtime envelope")

		return fmt.Errorf("failed to marshal realtime envelope: %w", err)
	}

	if err := b.conn.Publish(channel, data); err != nil {
		log.Error().Err(err).Str("channel", channel).Str("event", event).Msg("Failed to publish realtime event")

		return fmt.Errorf("failed to publish realtime event: %w", err)
	}

	return nil
}
