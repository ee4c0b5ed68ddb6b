package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"expohub/infras/otel"
	"expohub/infras/postgres"
	"expohub/internal/domains/expo/model"
	gDto "expohub/shared/dto"
	gRepo "expohub/shared/repository"
)

type Expo interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Expo, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Expo]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Expo {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Expo](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
