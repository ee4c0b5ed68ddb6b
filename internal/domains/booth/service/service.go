package service

import (
	"context"
	b64 "encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"expohub/config"
	"expohub/infras/otel"
	"expohub/infras/s3"
	"expohub/internal/domains/booth/model"
	"expohub/internal/domains/booth/model/dto"
	"expohub/internal/domains/booth/repository"
	exhibitorModel "expohub/internal/domains/exhibitor/model"
	exhibitorRepo "expohub/internal/domains/exhibitor/repository"
	expoModel "expohub/internal/domains/expo/model"
	expoRepo "expohub/internal/domains/expo/repository"
	"expohub/internal/events"
	"expohub/shared"
	"expohub/shared/base64"
	"expohub/shared/cache"
	"expohub/shared/constant"
	gDto "expohub/shared/dto"
	"expohub/shared/failure"
	"expohub/shared/keylock"
)

const (
	cacheGetBooth    = "booth:get"
	cacheGetAllBooth = "booth:gets"
	cacheCountBooth  = "booth:count"
)

type Booth interface {
	Create(ctx context.Context, req dto.CreateBoothRequest) (dto.BoothResponse, error)
	Assign(ctx context.Context, id string, req dto.AssignBoothRequest) error
	Unassign(ctx context.Context, id string) error
	Update(ctx context.Context, req dto.UpdateBoothRequest, id string) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (dto.BoothResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBoothsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo          repository.Booth
	exhibitorRepo exhibitorRepo.Exhibitor
	expoRepo      expoRepo.Expo
	cfg           *config.Config
	cache         cache.RedisCache
	otel          otel.Otel
	locks         *keylock.KeyLock
	s3            s3.S3
	events        events.Emitter
}

func New(
	repo repository.Booth,
	exhibitorRepo exhibitorRepo.Exhibitor,
	expoRepo expoRepo.Expo,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	locks *keylock.KeyLock,
	s3 s3.S3,
	events events.Emitter,
) Booth {
	return &serviceImpl{
		repo:          repo,
		exhibitorRepo: exhibitorRepo,
		expoRepo:      expoRepo,
		cfg:           cfg,
		cache:         cache,
		otel:          otel,
		locks:         locks,
		s3:            s3,
		events:        events,
	}
}

// authorize allows admins everywhere and organizers on their own expo.
func (s *serviceImpl) authorize(ctx context.Context, expoID string) error {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if role == constant.RoleAdmin {
		return nil
	}

	if role != constant.RoleOrganizer {
		return failure.Forbidden("only admins and organizers can manage booths") // nolint:wrapcheck
	}

	expo, err := s.expoRepo.Get(ctx, shared.FilterByID(expoID, expoModel.FieldID, expoModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get expo")

		return fmt.Errorf("failed to get expo: %w", err)
	}

	if expo.ID == constant.Empty {
		return failure.NotFound("expo not found") // nolint:wrapcheck
	}

	if expo.OrganizerID != userID {
		return failure.Forbidden("organizer does not own this expo") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) uploadFloorPlan(ctx context.Context, encoded string) (url string, objectName string, err error) {
	contentType := base64.GetContentType(encoded)

	fileData, err := b64.StdEncoding.DecodeString(base64.StripPrefix(encoded))
	if err != nil {
		return constant.Empty, constant.Empty, failure.BadRequestFromString("invalid floor plan encoding") // nolint:wrapcheck
	}

	filename := uuid.NewString()
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		filename = fmt.Sprintf("%s.%s", filename, parts[1])
	}

	url, err = s.s3.UploadFileBytes(ctx, s.cfg.External.S3.BucketName, model.EntityName, filename, contentType, fileData)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload floor plan to S3")

		return constant.Empty, constant.Empty, fmt.Errorf("failed to upload floor plan: %w", err)
	}

	return url, filename, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBoothRequest) (res dto.BoothResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.authorize(ctx, req.ExpoID); err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	taken, err := s.repo.Exist(ctx, filterByBoothNumber(req.ExpoID, req.BoothNumber, constant.Empty))
	if err != nil {
		log.Error().Err(err).Msg("failed to check booth number uniqueness")

		return res, fmt.Errorf("failed to check booth number uniqueness: %w", err)
	}

	if taken {
		return res, failure.Conflict("booth number already exists in this expo") // nolint:wrapcheck
	}

	floorPlanURL := constant.Empty
	var uploadedObjectName string

	if req.FloorPlan != constant.Empty {
		floorPlanURL, uploadedObjectName, err = s.uploadFloorPlan(ctx, req.FloorPlan)
		if err != nil {
			return res, err
		}
	}

	booth := req.ToModel(user, floorPlanURL)

	if err = s.repo.Insert(ctx, booth); err != nil {
		if uploadedObjectName != constant.Empty {
			_ = s.s3.DeleteFile(ctx, s.cfg.External.S3.BucketName, model.EntityName, uploadedObjectName)
		}

		// A concurrent create can slip past the Exist check; the unique
		// constraint on (expo_id, booth_number) catches it.
		if isUniqueViolation(err) {
			return res, failure.Conflict("booth number already exists in this expo") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create booth")

		return res, fmt.Errorf("failed to create booth: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooth)
		shared.InvalidateCaches(c, s.cache, cacheCountBooth)
	}()

	res.FromModel(booth)

	return res, nil
}

func (s *serviceImpl) Assign(ctx context.Context, id string, req dto.AssignBoothRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Assign")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	unlock := s.locks.Lock(id)
	defer unlock()

	booth, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booth")

		return fmt.Errorf("failed to get booth: %w", err)
	}

	if booth.ID == constant.Empty {
		return failure.NotFound("booth not found") // nolint:wrapcheck
	}

	if err = s.authorize(ctx, booth.ExpoID); err != nil {
		return err
	}

	if booth.IsAssigned() {
		return failure.InvalidState("booth is already assigned") // nolint:wrapcheck
	}

	exhibitor, err := s.exhibitorRepo.Get(ctx, shared.FilterByID(req.ExhibitorID, exhibitorModel.FieldID, exhibitorModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get exhibitor")

		return fmt.Errorf("failed to get exhibitor: %w", err)
	}

	if exhibitor.ID == constant.Empty {
		return failure.InvalidExhibitor("exhibitor not found") // nolint:wrapcheck
	}

	if !exhibitor.IsApproved() || exhibitor.ExpoID != booth.ExpoID {
		return failure.InvalidExhibitor("exhibitor is not approved for this expo") // nolint:wrapcheck
	}

	if err = s.repo.AssignExhibitor(ctx, id, exhibitor, user); err != nil {
		return err
	}

	s.events.Emit(ctx, events.Event{
		Name:   events.BoothAssigned,
		ExpoID: booth.ExpoID,
		Payload: map[string]any{
			"booth_id":     booth.ID,
			"booth_number": booth.BoothNumber,
			"exhibitor_id": exhibitor.ID,
			"company_name": exhibitor.CompanyName,
		},
		Notify: []events.Notification{{
			UserID:    exhibitor.UserID,
			Title:     "Booth assigned",
			Message:   fmt.Sprintf("Booth %s has been assigned to %s", booth.BoothNumber, exhibitor.CompanyName),
			Data:      map[string]any{"booth_id": booth.ID, "expo_id": booth.ExpoID},
			SendEmail: true,
		}},
	})

	s.invalidateBoothCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Unassign(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Unassign")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	unlock := s.locks.Lock(id)
	defer unlock()

	booth, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booth")

		return fmt.Errorf("failed to get booth: %w", err)
	}

	if booth.ID == constant.Empty {
		return failure.NotFound("booth not found") // nolint:wrapcheck
	}

	if err = s.authorize(ctx, booth.ExpoID); err != nil {
		return err
	}

	if !booth.IsAssigned() {
		return failure.InvalidState("booth is not assigned") // nolint:wrapcheck
	}

	if err = s.repo.UnassignExhibitor(ctx, id, booth.ExhibitorID, user); err != nil {
		return err
	}

	s.emitUnassigned(ctx, booth)
	s.invalidateBoothCaches(ctx, id)

	return nil
}

func (s *serviceImpl) emitUnassigned(ctx context.Context, booth model.Booth) {
	notify := []events.Notification{}

	exhibitor, err := s.exhibitorRepo.Get(ctx, shared.FilterByID(booth.ExhibitorID, exhibitorModel.FieldID, exhibitorModel.TableName))
	if err == nil && exhibitor.ID != constant.Empty {
		notify = append(notify, events.Notification{
			UserID:    exhibitor.UserID,
			Title:     "Booth unassigned",
			Message:   fmt.Sprintf("Booth %s is no longer assigned to %s", booth.BoothNumber, booth.CompanyName),
			Data:      map[string]any{"booth_id": booth.ID, "expo_id": booth.ExpoID},
			SendEmail: true,
		})
	}

	s.events.Emit(ctx, events.Event{
		Name:   events.BoothUnassigned,
		ExpoID: booth.ExpoID,
		Payload: map[string]any{
			"booth_id":     booth.ID,
			"booth_number": booth.BoothNumber,
			"exhibitor_id": booth.ExhibitorID,
		},
		Notify: notify,
	})
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBoothRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booth, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booth")

		return fmt.Errorf("failed to get booth: %w", err)
	}

	if booth.ID == constant.Empty {
		return failure.NotFound("booth not found") // nolint:wrapcheck
	}

	if err = s.authorize(ctx, booth.ExpoID); err != nil {
		return err
	}

	if req.BoothNumber != constant.Empty && req.BoothNumber != booth.BoothNumber {
		taken, err := s.repo.Exist(ctx, filterByBoothNumber(booth.ExpoID, req.BoothNumber, id))
		if err != nil {
			log.Error().Err(err).Msg("failed to check booth number uniqueness")

			return fmt.Errorf("failed to check booth number uniqueness: %w", err)
		}

		if taken {
			return failure.Conflict("booth number already exists in this expo") // nolint:wrapcheck
		}
	}

	updatedFields := shared.TransformFields(req, user)

	if len(req.Features) > 0 {
		updatedFields[model.FieldFeatures] = pq.StringArray(req.Features)
	}

	if req.FloorPlan != constant.Empty {
		floorPlanURL, _, err := s.uploadFloorPlan(ctx, req.FloorPlan)
		if err != nil {
			return err
		}

		updatedFields[model.FieldFloorPlan] = floorPlanURL
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		if isUniqueViolation(err) {
			return failure.Conflict("booth number already exists in this expo") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to update booth")

		return fmt.Errorf("failed to update booth: %w", err)
	}

	s.invalidateBoothCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	unlock := s.locks.Lock(id)
	defer unlock()

	booth, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booth")

		return fmt.Errorf("failed to get booth: %w", err)
	}

	if booth.ID == constant.Empty {
		return failure.NotFound("booth not found") // nolint:wrapcheck
	}

	if err = s.authorize(ctx, booth.ExpoID); err != nil {
		return err
	}

	if err = s.repo.DeleteWithDetach(ctx, id, user); err != nil {
		return err
	}

	if booth.FloorPlan != constant.Empty {
		go func() {
			c := context.WithoutCancel(ctx)

			bucketName := s.cfg.External.S3.BucketName
			objectName := s.s3.GetObjectNameFromURL(bucketName, booth.FloorPlan)

			if objectName != constant.Empty {
				_ = s.s3.DeleteFile(c, bucketName, constant.Empty, objectName)
			}
		}()
	}

	s.invalidateBoothCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BoothResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooth, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booth")

		return res, nil
	}

	booth, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booth")

		return res, fmt.Errorf("failed to get booth: %w", err)
	}

	if booth.ID == constant.Empty {
		return res, failure.NotFound("booth not found") // nolint:wrapcheck
	}

	res.FromModel(booth)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booth to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBoothsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooth, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booths")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count booths")

		return res, fmt.Errorf("failed to count booths: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booths")

		return res, fmt.Errorf("failed to get booths: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booths to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooth, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booth count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count booths")

		return res, fmt.Errorf("failed to count booths: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booth count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) invalidateBoothCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooth, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booth from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooth)
		shared.InvalidateCaches(c, s.cache, cacheCountBooth)
	}()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation
}

// filterByBoothNumber matches booths by expo and number, optionally excluding
// one booth id (for renames).
func filterByBoothNumber(expoID, boothNumber, excludeID string) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{
			Field:    model.FieldExpoID,
			Value:    expoID,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldBoothNumber,
			Value:    boothNumber,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		},
	}

	if excludeID != constant.Empty {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldID,
			Value:    excludeID,
			Operator: gDto.FilterOperatorNotEq,
			Table:    model.TableName,
		})
	}

	return gDto.FilterGroup{
		Filters:  filters,
		Operator: gDto.FilterGroupOperatorAnd,
	}
}
