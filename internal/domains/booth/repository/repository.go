package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"expohub/infras/otel"
	"expohub/infras/postgres"
	"expohub/internal/domains/booth/model"
	exhibitorModel "expohub/internal/domains/exhibitor/model"
	"expohub/shared"
	"expohub/shared/constant"
	gDto "expohub/shared/dto"
	"expohub/shared/failure"
	gRepo "expohub/shared/repository"
	"expohub/shared/timezone"
)

type Booth interface {
	Insert(ctx context.Context, model model.Booth) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booth, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booth, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	AssignExhibitor(ctx context.Context, boothID string, exhibitor exhibitorModel.Exhibitor, user string) error
	UnassignExhibitor(ctx context.Context, boothID, exhibitorID, user string) error
	DeleteWithDetach(ctx context.Context, boothID, user string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booth]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booth {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booth](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// AssignExhibitor flips the booth to assigned and appends the booth id to the
// exhibitor's booth_ids back-reference in one transaction. The booth row
// update is guarded on status so a booth that lost its availability between
// the caller's check and this write fails with an invalid-state error.
func (repo *repositoryImpl) AssignExhibitor(ctx context.Context, boothID string, exhibitor exhibitorModel.Exhibitor, user string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booth.AssignExhibitor")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer repo.rollbackOnError(tx, &err)

	res, err := tx.NamedExecContext(ctx, `
		UPDATE booths
		SET status = :status, exhibitor_id = :exhibitor_id, company_name = :company_name,
		    contact_email = :contact_email, modified_at = :modified_at, modified_by = :modified_by
		WHERE id = :id AND status = :expected_status`,
		map[string]any{
			"id":              boothID,
			"status":          model.StatusAssigned,
			"expected_status": model.StatusAvailable,
			"exhibitor_id":    exhibitor.ID,
			"company_name":    exhibitor.CompanyName,
			"contact_email":   exhibitor.ContactEmail,
			"modified_at":     timezone.Now(),
			"modified_by":     user,
		})
	if err != nil {
		log.Error().Err(err).Msg("failed to assign booth")

		return fmt.Errorf("failed to assign booth: %w", err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return failure.InvalidState("booth is not available") // nolint:wrapcheck
	}

	// array_append is guarded to keep the back-reference duplicate-free.
	_, err = tx.NamedExecContext(ctx, `
		UPDATE exhibitors
		SET booth_ids = array_append(booth_ids, :booth_id), modified_at = :modified_at, modified_by = :modified_by
		WHERE id = :id AND NOT (:booth_id = ANY(booth_ids))`,
		map[string]any{
			"id":          exhibitor.ID,
			"booth_id":    boothID,
			"modified_at": timezone.Now(),
			"modified_by": user,
		})
	if err != nil {
		log.Error().Err(err).Msg("failed to append booth back-reference")

		return fmt.Errorf("failed to append booth back-reference: %w", err)
	}

	if err = tx.Commit(); err != nil {
		log.Error().Err(err).Msg("failed to commit booth assignment")

		return fmt.Errorf("failed to commit booth assignment: %w", err)
	}

	return nil
}

// UnassignExhibitor clears the booth's custody columns and removes the
// back-reference in one transaction.
func (repo *repositoryImpl) UnassignExhibitor(ctx context.Context, boothID, exhibitorID, user string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booth.UnassignExhibitor")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer repo.rollbackOnError(tx, &err)

	res, err := tx.NamedExecContext(ctx, `
		UPDATE booths
		SET status = :status, exhibitor_id = '', company_name = '', contact_email = '',
		    modified_at = :modified_at, modified_by = :modified_by
		WHERE id = :id AND status = :expected_status`,
		map[string]any{
			"id":              boothID,
			"status":          model.StatusAvailable,
			"expected_status": model.StatusAssigned,
			"modified_at":     timezone.Now(),
			"modified_by":     user,
		})
	if err != nil {
		log.Error().Err(err).Msg("failed to unassign booth")

		return fmt.Errorf("failed to unassign booth: %w", err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return failure.InvalidState("booth is not assigned") // nolint:wrapcheck
	}

	if err = repo.removeBackReferenceTx(ctx, tx, boothID, exhibitorID, user); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Error().Err(err).Msg("failed to commit booth unassignment")

		return fmt.Errorf("failed to commit booth unassignment: %w", err)
	}

	return nil
}

// DeleteWithDetach removes a booth and, when it is assigned, the exhibitor's
// back-reference with it. Custody is re-read under a row lock so a concurrent
// assignment cannot slip between the caller's check and the delete.
func (repo *repositoryImpl) DeleteWithDetach(ctx context.Context, boothID, user string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booth.DeleteWithDetach")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer repo.rollbackOnError(tx, &err)

	booth, err := repo.GetForUpdateTx(ctx, tx, shared.FilterByID(boothID, model.FieldID, model.TableName))
	if err != nil {
		return err
	}

	if booth.ID == constant.Empty {
		return failure.NotFound("booth not found") // nolint:wrapcheck
	}

	if booth.IsAssigned() {
		if err = repo.removeBackReferenceTx(ctx, tx, boothID, booth.ExhibitorID, user); err != nil {
			return err
		}
	}

	if err = repo.DeleteTx(ctx, tx, shared.FilterByID(boothID, model.FieldID, model.TableName)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Error().Err(err).Msg("failed to commit booth deletion")

		return fmt.Errorf("failed to commit booth deletion: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) removeBackReferenceTx(ctx context.Context, tx *sqlx.Tx, boothID, exhibitorID, user string) error {
	_, err := tx.NamedExecContext(ctx, `
		UPDATE exhibitors
		SET booth_ids = array_remove(booth_ids, :booth_id), modified_at = :modified_at, modified_by = :modified_by
		WHERE id = :id`,
		map[string]any{
			"id":          exhibitorID,
			"booth_id":    boothID,
			"modified_at": timezone.Now(),
			"modified_by": user,
		})
	if err != nil {
		log.Error().Err(err).Msg("failed to remove booth back-reference")

		return fmt.Errorf("failed to remove booth back-reference: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) rollbackOnError(tx *sqlx.Tx, err *error) {
	if *err == nil {
		return
	}

	if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
		log.Error().Err(rbErr).Msg("failed to rollback transaction")
	}
}
