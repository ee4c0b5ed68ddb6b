package events

//go:generate go run go.uber.org/mock/mockgen -source=./emitter.go -destination=./mocks/emitter_mock.go -package=mocks

import (
	"context"

	"github.com/rs/zerolog/log"

	"expohub/config"
	"expohub/infras/kafka"
	"expohub/infras/nats"
)

// Dispatcher records a notification for a user and optionally emails it.
// Implemented by the notification service; failures never surface here.
type Dispatcher interface {
	Notify(ctx context.Context, userID, title, message string, data map[string]any, sendEmail bool)
}

// Emitter fans a domain event out to the notification dispatcher, the
// realtime broadcaster and the Kafka event stream. Emit returns immediately;
// all deliveries are best-effort and run after the caller's atomic section.
type Emitter interface {
	Emit(ctx context.Context, event Event)
}

type emitterImpl struct {
	dispatcher  Dispatcher
	broadcaster nats.Broadcaster
	kafka       kafka.Client
	cfg         *config.Config
}

func New(dispatcher Dispatcher, broadcaster nats.Broadcaster, kafkaClient kafka.Client, cfg *config.Config) Emitter {
	return &emitterImpl{
		dispatcher:  dispatcher,
		broadcaster: broadcaster,
		kafka:       kafkaClient,
		cfg:         cfg,
	}
}

func (e *emitterImpl) Emit(ctx context.Context, event Event) {
	go e.deliver(context.WithoutCancel(ctx), event)
}

func (e *emitterImpl) deliver(ctx context.Context, event Event) {
	for _, n := range event.Notify {
		e.dispatcher.Notify(ctx, n.UserID, n.Title, n.Message, n.Data, n.SendEmail)

		if err := e.broadcaster.Publish(ctx, UserChannel(n.UserID), event.Name, event.Payload); err != nil {
			log.Error().Err(err).Str("event", event.Name).Str("user_id", n.UserID).Msg("failed to broadcast event to user channel")
		}
	}

	for _, userID := range event.Broadcast {
		if err := e.broadcaster.Publish(ctx, UserChannel(userID), event.Name, event.Payload); err != nil {
			log.Error().Err(err).Str("event", event.Name).Str("user_id", userID).Msg("failed to broadcast event to user channel")
		}
	}

	if event.ExpoID != "" {
		if err := e.broadcaster.Publish(ctx, ExpoChannel(event.ExpoID), event.Name, event.Payload); err != nil {
			log.Error().Err(err).Str("event", event.Name).Str("expo_id", event.ExpoID).Msg("failed to broadcast event to expo channel")
		}
	}

	topic := e.cfg.Kafka.EventTopic
	if topic == "" {
		return
	}

	message := kafka.Message{
		Key:   event.Name,
		Value: map[string]any{"event": event.Name, "expo_id": event.ExpoID, "payload": event.Payload},
	}

	if err := e.kafka.SendMessages(ctx, topic, message); err != nil {
		log.Error().Err(err).Str("event", event.Name).Str("topic", topic).Msg("failed to publish event to kafka")
	}
}
