package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/rs/zerolog/log"

	"expohub/infras/otel"
	"expohub/infras/postgres"
	"expohub/internal/domains/appointment/model"
	"expohub/shared/constant"
	gDto "expohub/shared/dto"
	"expohub/shared/failure"
	gRepo "expohub/shared/repository"
)

type Appointment interface {
	Insert(ctx context.Context, model model.Appointment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Appointment, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Appointment, error)
	GetActiveByExhibitor(ctx context.Context, exhibitorID string) ([]model.Appointment, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateIfStatus(ctx context.Context, req map[string]any, id, expectedStatus string) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DeleteIfStatus(ctx context.Context, id, expectedStatus string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Appointment]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Appointment {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Appointment](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetActiveByExhibitor returns the appointments that currently hold intervals
// for the exhibitor, the input set for conflict detection.
func (repo *repositoryImpl) GetActiveByExhibitor(ctx context.Context, exhibitorID string) ([]model.Appointment, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldExhibitorID,
				Value:    exhibitorID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "statuses",
				Field:    model.FieldStatus,
				Value:    []string{model.StatusPending, model.StatusConfirmed},
				Operator: gDto.FilterOperatorIn,
				Table:    model.TableName,
			},
		},
	}

	return repo.GetAll(ctx, gDto.QueryParams{}, filter) //nolint:wrapcheck
}

// UpdateIfStatus applies the updates only while the appointment still has the
// expected status. Zero rows affected means the status moved under the caller
// and surfaces as an invalid-state error, so a stale transition can never
// overwrite a terminal one.
func (repo *repositoryImpl) UpdateIfStatus(ctx context.Context, req map[string]any, id, expectedStatus string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".appointment.UpdateIfStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	setClauses := []string{}
	for col := range maps.Keys(req) {
		setClauses = append(setClauses, fmt.Sprintf("%s = :%s", col, col))
	}

	args := map[string]any{
		"guard_id":        id,
		"expected_status": expectedStatus,
	}
	maps.Copy(args, req)

	query := fmt.Sprintf(
		"UPDATE appointments SET %s WHERE id = :guard_id AND status = :expected_status",
		strings.Join(setClauses, ", "))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	res, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		log.Error().Err(err).Msg("failed to update appointment")

		return fmt.Errorf("failed to update appointment: %w", err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return failure.InvalidState(fmt.Sprintf("appointment is no longer %s", expectedStatus)) // nolint:wrapcheck
	}

	return nil
}

// DeleteIfStatus removes the appointment only while it still has the expected
// status, with the same zero-rows semantics as UpdateIfStatus.
func (repo *repositoryImpl) DeleteIfStatus(ctx context.Context, id, expectedStatus string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".appointment.DeleteIfStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := "DELETE FROM appointments WHERE id = :id AND status = :expected_status"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	res, err := repo.db.Write.NamedExecContext(ctx, query, map[string]any{
		"id":              id,
		"expected_status": expectedStatus,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to delete appointment")

		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return failure.InvalidState(fmt.Sprintf("appointment is no longer %s", expectedStatus)) // nolint:wrapcheck
	}

	return nil
}
