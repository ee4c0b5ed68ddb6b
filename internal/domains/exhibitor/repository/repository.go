package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"expohub/infras/otel"
	"expohub/infras/postgres"
	"expohub/internal/domains/exhibitor/model"
	gDto "expohub/shared/dto"
	gRepo "expohub/shared/repository"
)

// Exhibitor rows are written by the registration service upstream; this
// module reads them for eligibility checks. The booth_ids back-reference is
// maintained by the booth repository's transactional writes.
type Exhibitor interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Exhibitor, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Exhibitor]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Exhibitor {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Exhibitor](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
