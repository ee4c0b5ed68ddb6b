//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"expohub/config"
	"expohub/infras/jwt"
	"expohub/infras/kafka"
	"expohub/infras/mailer"
	"expohub/infras/nats"
	"expohub/infras/otel"
	"expohub/infras/postgres"
	"expohub/infras/redis"
	"expohub/infras/s3"
	"expohub/internal/events"
	"expohub/permissions"
	"expohub/shared/cache"
	"expohub/shared/keylock"
	"expohub/transport/http"
	"expohub/transport/http/middleware"
	"expohub/transport/http/router"

	appointmentRepository "expohub/internal/domains/appointment/repository"
	appointmentService "expohub/internal/domains/appointment/service"
	boothRepository "expohub/internal/domains/booth/repository"
	boothService "expohub/internal/domains/booth/service"
	exhibitorRepository "expohub/internal/domains/exhibitor/repository"
	expoRepository "expohub/internal/domains/expo/repository"
	notificationRepository "expohub/internal/domains/notification/repository"
	notificationService "expohub/internal/domains/notification/service"

	appointmentHandler "expohub/internal/handlers/appointment"
	boothHandler "expohub/internal/handlers/booth"
	healthHandler "expohub/internal/handlers/health"
	notificationHandler "expohub/internal/handlers/notification"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	nats.New,
	kafka.New,
	s3.New,
	mailer.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	keylock.New,
)

var expoDomain = wire.NewSet(
	expoRepository.New,
	exhibitorRepository.New,
)

var notificationDomain = wire.NewSet(
	notificationRepository.New,
	notificationService.New,
	wire.Bind(new(events.Dispatcher), new(notificationService.Notification)),
	events.New,
)

var boothDomain = wire.NewSet(
	boothRepository.New,
	boothService.New,
)

var appointmentDomain = wire.NewSet(
	appointmentRepository.New,
	appointmentService.New,
)

var domains = wire.NewSet(
	expoDomain,
	notificationDomain,
	boothDomain,
	appointmentDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	healthHandler.New,
	boothHandler.New,
	appointmentHandler.New,
	notificationHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
