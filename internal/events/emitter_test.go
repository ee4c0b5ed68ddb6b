package events_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"expohub/config"
	"expohub/infras/kafka"
	kafkaMocks "expohub/infras/kafka/mocks"
	natsMocks "expohub/infras/nats/mocks"
	"expohub/internal/events"
	eventMocks "expohub/internal/events/mocks"
)

func waitDelivery(t *testing.T, done chan struct{}) {
	t.Helper()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event delivery did not complete")
	}
}

func TestEmitter_Emit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dispatcher := eventMocks.NewMockDispatcher(ctrl)
	broadcaster := natsMocks.NewMockBroadcaster(ctrl)
	kafkaClient := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.EventTopic = "expo-events"

	emitter := events.New(dispatcher, broadcaster, kafkaClient, cfg)

	event := events.Event{
		Name:    events.AppointmentCreated,
		ExpoID:  "expo-1",
		Payload: map[string]any{"appointment_id": "appt-1"},
		Notify: []events.Notification{{
			UserID:    "user-1",
			Title:     "New appointment request",
			Message:   "An attendee requested an appointment",
			SendEmail: true,
		}},
	}

	done := make(chan struct{})

	dispatcher.EXPECT().
		Notify(gomock.Any(), "user-1", "New appointment request", "An attendee requested an appointment", gomock.Nil(), true)

	broadcaster.EXPECT().
		Publish(gomock.Any(), events.UserChannel("user-1"), events.AppointmentCreated, gomock.Any()).
		Return(nil)

	broadcaster.EXPECT().
		Publish(gomock.Any(), events.ExpoChannel("expo-1"), events.AppointmentCreated, gomock.Any()).
		Return(nil)

	kafkaClient.EXPECT().
		SendMessages(gomock.Any(), "expo-events", gomock.Any()).
		DoAndReturn(func(context.Context, string, ...kafka.Message) error {
			close(done)

			return nil
		})

	emitter.Emit(context.Background(), event)

	waitDelivery(t, done)
}

func TestEmitter_BroadcastReachesUserChannels(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dispatcher := eventMocks.NewMockDispatcher(ctrl)
	broadcaster := natsMocks.NewMockBroadcaster(ctrl)
	kafkaClient := kafkaMocks.NewMockClient(ctrl)

	emitter := events.New(dispatcher, broadcaster, kafkaClient, &config.Config{})

	done := make(chan struct{})

	dispatcher.EXPECT().
		Notify(gomock.Any(), "exh-user", "New appointment request", gomock.Any(), gomock.Nil(), true)

	broadcaster.EXPECT().
		Publish(gomock.Any(), events.UserChannel("exh-user"), events.AppointmentCreated, gomock.Any()).
		Return(nil)

	// Broadcast recipients get the realtime event without a stored notification.
	broadcaster.EXPECT().
		Publish(gomock.Any(), events.UserChannel("attendee-1"), events.AppointmentCreated, gomock.Any()).
		Return(nil)

	broadcaster.EXPECT().
		Publish(gomock.Any(), events.ExpoChannel("expo-1"), events.AppointmentCreated, gomock.Any()).
		DoAndReturn(func(context.Context, string, string, any) error {
			close(done)

			return nil
		})

	emitter.Emit(context.Background(), events.Event{
		Name:    events.AppointmentCreated,
		ExpoID:  "expo-1",
		Payload: map[string]any{"appointment_id": "appt-1"},
		Notify: []events.Notification{{
			UserID:    "exh-user",
			Title:     "New appointment request",
			Message:   "An attendee requested an appointment",
			SendEmail: true,
		}},
		Broadcast: []string{"attendee-1"},
	})

	waitDelivery(t, done)
}

func TestEmitter_EmitSkipsKafkaWithoutTopic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dispatcher := eventMocks.NewMockDispatcher(ctrl)
	broadcaster := natsMocks.NewMockBroadcaster(ctrl)
	kafkaClient := kafkaMocks.NewMockClient(ctrl)

	emitter := events.New(dispatcher, broadcaster, kafkaClient, &config.Config{})

	done := make(chan struct{})

	broadcaster.EXPECT().
		Publish(gomock.Any(), events.ExpoChannel("expo-1"), events.BoothAssigned, gomock.Any()).
		DoAndReturn(func(context.Context, string, string, any) error {
			close(done)

			return nil
		})

	emitter.Emit(context.Background(), events.Event{
		Name:   events.BoothAssigned,
		ExpoID: "expo-1",
	})

	waitDelivery(t, done)
}

func TestEmitter_DeliveryFailuresAreSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dispatcher := eventMocks.NewMockDispatcher(ctrl)
	broadcaster := natsMocks.NewMockBroadcaster(ctrl)
	kafkaClient := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.EventTopic = "expo-events"

	emitter := events.New(dispatcher, broadcaster, kafkaClient, cfg)

	done := make(chan struct{})

	dispatcher.EXPECT().
		Notify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())

	broadcaster.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("nats is down")).
		Times(2)

	kafkaClient.EXPECT().
		SendMessages(gomock.Any(), "expo-events", gomock.Any()).
		DoAndReturn(func(context.Context, string, ...kafka.Message) error {
			close(done)

			return errors.New("kafka is down")
		})

	emitter.Emit(context.Background(), events.Event{
		Name:    events.AppointmentCancelled,
		ExpoID:  "expo-1",
		Payload: map[string]any{"appointment_id": "appt-1"},
		Notify: []events.Notification{{
			UserID: "user-1",
			Title:  "Appointment cancelled",
		}},
	})

	waitDelivery(t, done)
}

func TestEmitter_EmitDoesNotBlockCaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dispatcher := eventMocks.NewMockDispatcher(ctrl)
	broadcaster := natsMocks.NewMockBroadcaster(ctrl)
	kafkaClient := kafkaMocks.NewMockClient(ctrl)

	emitter := events.New(dispatcher, broadcaster, kafkaClient, &config.Config{})

	release := make(chan struct{})

	var wg sync.WaitGroup

	wg.Add(1)

	broadcaster.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, string, any) error {
			defer wg.Done()

			<-release

			return nil
		})

	start := time.Now()

	emitter.Emit(context.Background(), events.Event{
		Name:   events.BoothUnassigned,
		ExpoID: "expo-1",
	})

	assert.Less(t, time.Since(start), time.Second, "Emit must return before delivery finishes")

	close(release)
	wg.Wait()
}
