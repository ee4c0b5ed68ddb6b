package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"expohub/config"
	"expohub/infras/otel"
	"expohub/internal/domains/appointment/model"
	"expohub/internal/domains/appointment/model/dto"
	"expohub/internal/domains/appointment/repository"
	boothModel "expohub/internal/domains/booth/model"
	boothRepo "expohub/internal/domains/booth/repository"
	exhibitorModel "expohub/internal/domains/exhibitor/model"
	exhibitorRepo "expohub/internal/domains/exhibitor/repository"
	"expohub/internal/events"
	"expohub/shared"
	"expohub/shared/cache"
	"expohub/shared/constant"
	gDto "expohub/shared/dto"
	"expohub/shared/failure"
	"expohub/shared/keylock"
	"expohub/shared/timezone"
)

const (
	cacheGetAppointment    = "appointment:get"
	cacheGetAllAppointment = "appointment:gets"
	cacheCountAppointment  = "appointment:count"
)

type Appointment interface {
	Create(ctx context.Context, req dto.CreateAppointmentRequest) (dto.AppointmentResponse, error)
	Reschedule(ctx context.Context, req dto.RescheduleAppointmentRequest, id string) error
	TransitionStatus(ctx context.Context, req dto.TransitionStatusRequest, id string) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (dto.AppointmentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAppointmentsResponse, error)
	GetMine(ctx context.Context, req gDto.QueryParams) (dto.GetAppointmentsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo          repository.Appointment
	exhibitorRepo exhibitorRepo.Exhibitor
	boothRepo     boothRepo.Booth
	cfg           *config.Config
	cache         cache.RedisCache
	otel          otel.Otel
	locks         *keylock.KeyLock
	events        events.Emitter
}

func New(
	repo repository.Appointment,
	exhibitorRepo exhibitorRepo.Exhibitor,
	boothRepo boothRepo.Booth,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	locks *keylock.KeyLock,
	events events.Emitter,
) Appointment {
	return &serviceImpl{
		repo:          repo,
		exhibitorRepo: exhibitorRepo,
		boothRepo:     boothRepo,
		cfg:           cfg,
		cache:         cache,
		otel:          otel,
		locks:         locks,
		events:        events,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateAppointmentRequest) (res dto.AppointmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	appointment, err := req.ToModel(user)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse appointment request")

		return res, failure.BadRequestFromString(fmt.Sprintf("invalid start time format: %v", err)) // nolint:wrapcheck
	}

	exhibitor, err := s.exhibitorRepo.Get(ctx, shared.FilterByID(req.ExhibitorID, exhibitorModel.FieldID, exhibitorModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get exhibitor")

		return res, fmt.Errorf("failed to get exhibitor: %w", err)
	}

	if exhibitor.ID == constant.Empty || !exhibitor.IsApproved() || exhibitor.ExpoID != req.ExpoID {
		return res, failure.NotEligible("exhibitor is not approved for this expo") // nolint:wrapcheck
	}

	if req.BoothID != constant.Empty {
		if err = s.validateBooth(ctx, req.BoothID, req.ExhibitorID); err != nil {
			return res, err
		}
	}

	// The conflict check and the insert must be atomic per exhibitor; two
	// concurrent creates against the same exhibitor serialize here.
	unlock := s.locks.Lock(req.ExhibitorID)
	defer unlock()

	active, err := s.repo.GetActiveByExhibitor(ctx, req.ExhibitorID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get active appointments")

		return res, fmt.Errorf("failed to get active appointments: %w", err)
	}

	if conflict := FindConflict(active, appointment.StartTime, appointment.DurationMinutes, constant.Empty); conflict != nil {
		return res, failure.Conflict("appointment overlaps an existing reservation for this exhibitor") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, appointment); err != nil {
		log.Error().Err(err).Msg("failed to create appointment")

		return res, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.events.Emit(ctx, events.Event{
		Name:      events.AppointmentCreated,
		ExpoID:    appointment.ExpoID,
		Payload:   appointmentPayload(appointment),
		Broadcast: []string{appointment.AttendeeID},
		Notify: []events.Notification{{
			UserID:    exhibitor.UserID,
			Title:     "New appointment request",
			Message:   fmt.Sprintf("An attendee requested an appointment at %s", appointment.StartTime.Format(time.RFC3339)),
			Data:      map[string]any{"appointment_id": appointment.ID, "expo_id": appointment.ExpoID},
			SendEmail: true,
		}},
	})

	s.invalidateAppointmentCaches(ctx, appointment.ID)

	res.FromModel(appointment)

	return res, nil
}

func (s *serviceImpl) validateBooth(ctx context.Context, boothID, exhibitorID string) error {
	booth, err := s.boothRepo.Get(ctx, shared.FilterByID(boothID, boothModel.FieldID, boothModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booth")

		return fmt.Errorf("failed to get booth: %w", err)
	}

	if booth.ID == constant.Empty {
		return failure.InvalidBooth("booth does not exist") // nolint:wrapcheck
	}

	if !booth.IsAssigned() || booth.ExhibitorID != exhibitorID {
		return failure.InvalidBooth("booth is not assigned to this exhibitor") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) Reschedule(ctx context.Context, req dto.RescheduleAppointmentRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reschedule")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	appointment, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	if appointment.AttendeeID != user {
		return failure.Forbidden("only the attendee who created the appointment can reschedule it") // nolint:wrapcheck
	}

	if appointment.Status != model.StatusPending {
		return failure.InvalidState("only pending appointments can be rescheduled") // nolint:wrapcheck
	}

	newStart := appointment.StartTime
	if req.StartTime != constant.Empty {
		newStart, err = time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			return failure.BadRequestFromString(fmt.Sprintf("invalid start time format: %v", err)) // nolint:wrapcheck
		}
	}

	newDuration := appointment.DurationMinutes
	if req.DurationMinutes > 0 {
		newDuration = req.DurationMinutes
	}

	unlock := s.locks.Lock(appointment.ExhibitorID)
	defer unlock()

	active, err := s.repo.GetActiveByExhibitor(ctx, appointment.ExhibitorID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get active appointments")

		return fmt.Errorf("failed to get active appointments: %w", err)
	}

	if conflict := FindConflict(active, newStart, newDuration, appointment.ID); conflict != nil {
		return failure.Conflict("appointment overlaps an existing reservation for this exhibitor") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	updatedFields[model.FieldStartTime] = newStart
	updatedFields[model.FieldDurationMinutes] = newDuration

	// Guarded on pending: a cancel that landed while waiting for the lock
	// leaves zero rows affected instead of moving a dead appointment.
	if err = s.repo.UpdateIfStatus(ctx, updatedFields, id, model.StatusPending); err != nil {
		log.Error().Err(err).Msg("failed to reschedule appointment")

		return err
	}

	appointment.StartTime = newStart
	appointment.DurationMinutes = newDuration

	s.emitToExhibitor(ctx, appointment, events.AppointmentRescheduled, "Appointment rescheduled",
		fmt.Sprintf("An appointment was moved to %s", newStart.Format(time.RFC3339)))

	s.invalidateAppointmentCaches(ctx, id)

	return nil
}

func (s *serviceImpl) TransitionStatus(ctx context.Context, req dto.TransitionStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".TransitionStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	appointment, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	if appointment.IsTerminal() {
		return failure.InvalidState(fmt.Sprintf("appointment is already %s", appointment.Status)) // nolint:wrapcheck
	}

	if err = s.authorizeTransition(ctx, appointment, user, req.Status); err != nil {
		return err
	}

	unlock := s.locks.Lock(appointment.ExhibitorID)
	defer unlock()

	// Guarded on the status the checks above saw: a transition that raced a
	// cancel past the unlocked read cannot resurrect a terminal appointment.
	err = s.repo.UpdateIfStatus(ctx, map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}, id, appointment.Status)
	if err != nil {
		log.Error().Err(err).Msg("failed to transition appointment status")

		return err
	}

	appointment.Status = req.Status

	eventName := events.AppointmentConfirmed
	title := "Appointment confirmed"
	if req.Status == model.StatusCancelled {
		eventName = events.AppointmentCancelled
		title = "Appointment cancelled"
	}

	s.emitTransition(ctx, appointment, user, eventName, title)
	s.invalidateAppointmentCaches(ctx, id)

	return nil
}

// authorizeTransition enforces the role gate: the attendee may cancel a
// pending appointment; the exhibitor who owns the target profile may confirm
// a pending one or cancel an active one.
func (s *serviceImpl) authorizeTransition(ctx context.Context, appointment model.Appointment, user, requested string) error {
	if appointment.AttendeeID == user {
		if requested != model.StatusCancelled {
			return failure.Forbidden("attendees can only cancel appointments") // nolint:wrapcheck
		}

		if appointment.Status != model.StatusPending {
			return failure.Forbidden("only the exhibitor can cancel a confirmed appointment") // nolint:wrapcheck
		}

		return nil
	}

	exhibitor, err := s.exhibitorRepo.Get(ctx, shared.FilterByID(appointment.ExhibitorID, exhibitorModel.FieldID, exhibitorModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get exhibitor")

		return fmt.Errorf("failed to get exhibitor: %w", err)
	}

	if exhibitor.ID == constant.Empty || exhibitor.UserID != user {
		return failure.Forbidden("only the attendee or the exhibitor can change this appointment") // nolint:wrapcheck
	}

	if requested != model.StatusConfirmed && requested != model.StatusCancelled {
		return failure.Forbidden("exhibitors can only confirm or cancel appointments") // nolint:wrapcheck
	}

	if requested == model.StatusConfirmed && appointment.Status != model.StatusPending {
		return failure.InvalidState("only pending appointments can be confirmed") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	appointment, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	if appointment.AttendeeID != user {
		return failure.Forbidden("only the attendee who created the appointment can delete it") // nolint:wrapcheck
	}

	if appointment.Status != model.StatusPending {
		return failure.InvalidState("only pending appointments can be deleted") // nolint:wrapcheck
	}

	unlock := s.locks.Lock(appointment.ExhibitorID)
	defer unlock()

	if err = s.repo.DeleteIfStatus(ctx, id, model.StatusPending); err != nil {
		log.Error().Err(err).Msg("failed to delete appointment")

		return err
	}

	s.invalidateAppointmentCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.AppointmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetAppointment, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for appointment")

		return res, nil
	}

	appointment, err := s.getByID(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(appointment)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save appointment to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAppointmentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllAppointment, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for appointments")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count appointments")

		return res, fmt.Errorf("failed to count appointments: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get appointments")

		return res, fmt.Errorf("failed to get appointments: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save appointments to cache")
		}
	}()

	return res, nil
}

// GetMine lists the caller's own appointments, bypassing the shared cache to
// keep user-scoped listings fresh.
func (s *serviceImpl) GetMine(ctx context.Context, req gDto.QueryParams) (res dto.GetAppointmentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(user, model.FieldAttendeeID, model.TableName)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count appointments")

		return res, fmt.Errorf("failed to count appointments: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get appointments")

		return res, fmt.Errorf("failed to get appointments: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountAppointment, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for appointment count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count appointments")

		return res, fmt.Errorf("failed to count appointments: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save appointment count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) getByID(ctx context.Context, id string) (model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get appointment")

		return appointment, fmt.Errorf("failed to get appointment: %w", err)
	}

	if appointment.ID == constant.Empty {
		return appointment, failure.NotFound("appointment not found") // nolint:wrapcheck
	}

	return appointment, nil
}

func (s *serviceImpl) emitToExhibitor(ctx context.Context, appointment model.Appointment, eventName, title, message string) {
	notify := []events.Notification{}

	exhibitor, err := s.exhibitorRepo.Get(ctx, shared.FilterByID(appointment.ExhibitorID, exhibitorModel.FieldID, exhibitorModel.TableName))
	if err == nil && exhibitor.ID != constant.Empty {
		notify = append(notify, events.Notification{
			UserID:    exhibitor.UserID,
			Title:     title,
			Message:   message,
			Data:      map[string]any{"appointment_id": appointment.ID, "expo_id": appointment.ExpoID},
			SendEmail: false,
		})
	}

	s.events.Emit(ctx, events.Event{
		Name:    eventName,
		ExpoID:  appointment.ExpoID,
		Payload: appointmentPayload(appointment),
		Notify:  notify,
	})
}

// emitTransition notifies the counterparty of whoever performed the
// transition.
func (s *serviceImpl) emitTransition(ctx context.Context, appointment model.Appointment, actor, eventName, title string) {
	message := fmt.Sprintf("Appointment at %s is now %s", appointment.StartTime.Format(time.RFC3339), appointment.Status)

	if appointment.AttendeeID == actor {
		s.emitToExhibitor(ctx, appointment, eventName, title, message)

		return
	}

	s.events.Emit(ctx, events.Event{
		Name:    eventName,
		ExpoID:  appointment.ExpoID,
		Payload: appointmentPayload(appointment),
		Notify: []events.Notification{{
			UserID:    appointment.AttendeeID,
			Title:     title,
			Message:   message,
			Data:      map[string]any{"appointment_id": appointment.ID, "expo_id": appointment.ExpoID},
			SendEmail: true,
		}},
	})
}

func appointmentPayload(appointment model.Appointment) map[string]any {
	return map[string]any{
		"appointment_id": appointment.ID,
		"attendee_id":    appointment.AttendeeID,
		"exhibitor_id":   appointment.ExhibitorID,
		"expo_id":        appointment.ExpoID,
		"start_time":     appointment.StartTime.Format(time.RFC3339),
		"end_time":       appointment.EndTime().Format(time.RFC3339),
		"status":         appointment.Status,
	}
}

func (s *serviceImpl) invalidateAppointmentCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetAppointment, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete appointment from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllAppointment)
		shared.InvalidateCaches(c, s.cache, cacheCountAppointment)
	}()
}
