package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"expohub/infras/mailer"
	"expohub/infras/otel"
	exhibitorModel "expohub/internal/domains/exhibitor/model"
	exhibitorRepo "expohub/internal/domains/exhibitor/repository"
	"expohub/internal/domains/notification/model"
	"expohub/internal/domains/notification/model/dto"
	"expohub/internal/domains/notification/repository"
	"expohub/shared"
	"expohub/shared/constant"
	gDto "expohub/shared/dto"
	"expohub/shared/failure"
	gModel "expohub/shared/model"
	"expohub/shared/timezone"
)

// Notification maintains the per-user inbox. Notify is the sink for domain
// events and never fails the caller; the read operations serve the inbox API.
type Notification interface {
	Notify(ctx context.Context, userID, title, message string, data map[string]any, sendEmail bool)
	GetMine(ctx context.Context, req gDto.QueryParams) (dto.GetNotificationsResponse, error)
	MarkRead(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo          repository.Notification
	exhibitorRepo exhibitorRepo.Exhibitor
	mailer        mailer.Mailer
	otel          otel.Otel
}

func New(
	repo repository.Notification,
	exhibitorRepo exhibitorRepo.Exhibitor,
	mail mailer.Mailer,
	otel otel.Otel,
) Notification {
	return &serviceImpl{
		repo:          repo,
		exhibitorRepo: exhibitorRepo,
		mailer:        mail,
		otel:          otel,
	}
}

// Notify persists the notification and, when requested, emails the recipient.
// Every failure is logged and swallowed so a broken mailer or database never
// propagates into the reservation flow that raised the event.
func (s *serviceImpl) Notify(ctx context.Context, userID, title, message string, data map[string]any, sendEmail bool) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Notify")
	defer scope.End()

	payload, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to marshal notification data")

		payload = nil
	}

	notification := model.Notification{
		ID:      uuid.NewString(),
		UserID:  userID,
		Title:   title,
		Message: message,
		Data:    payload,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  constant.SystemUser,
			ModifiedBy: constant.SystemUser,
		},
	}

	if sendEmail {
		notification.EmailSent = s.sendEmail(ctx, userID, title, message)
	}

	if err := s.repo.Insert(ctx, notification); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to persist notification")
	}
}

// sendEmail resolves the recipient's address through their exhibitor profile.
// Attendees have no address on record here, so they only get the in-app copy.
func (s *serviceImpl) sendEmail(ctx context.Context, userID, title, message string) bool {
	exhibitor, err := s.exhibitorRepo.Get(ctx, shared.FilterByID(userID, exhibitorModel.FieldUserID, exhibitorModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to resolve notification recipient")

		return false
	}

	if exhibitor.ContactEmail == constant.Empty {
		return false
	}

	if err := s.mailer.Send(ctx, exhibitor.ContactEmail, exhibitor.CompanyName, title, message, constant.Empty); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to send notification email")

		return false
	}

	return true
}

func (s *serviceImpl) GetMine(ctx context.Context, req gDto.QueryParams) (res dto.GetNotificationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(user, model.FieldUserID, model.TableName)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count notifications")

		return res, fmt.Errorf("failed to count notifications: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get notifications")

		return res, fmt.Errorf("failed to get notifications: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) MarkRead(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkRead")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	notification, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get notification")

		return fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.ID == constant.Empty {
		return failure.NotFound("notification not found") // nolint:wrapcheck
	}

	if notification.UserID != user {
		return failure.Forbidden("notifications can only be read by their recipient") // nolint:wrapcheck
	}

	if notification.Read {
		return nil
	}

	err = s.repo.Update(ctx, map[string]any{
		model.FieldRead:          true,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to mark notification as read")

		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	return nil
}
