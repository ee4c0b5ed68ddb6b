package booth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"expohub/infras/otel"
	"expohub/internal/domains/booth/model"
	"expohub/internal/domains/booth/model/dto"
	"expohub/internal/domains/booth/service"
	"expohub/shared/constant"
	gDto "expohub/shared/dto"
	"expohub/shared/validator"
	"expohub/transport/http/response"
)

type Handler struct {
	service service.Booth
	otel    otel.Otel
}

func New(service service.Booth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/booths", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooth)
		routerGroup.Get("/", handler.GetBooths)
		routerGroup.Get("/{id}", handler.GetBoothByID)
		routerGroup.Patch("/{id}", handler.UpdateBooth)
		routerGroup.Delete("/{id}", handler.DeleteBooth)
		routerGroup.Post("/{id}/assign", handler.AssignBooth)
		routerGroup.Post("/{id}/unassign", handler.UnassignBooth)
	})
}

// CreateBooth registers a new booth in an expo's floor plan.
func (handler *Handler) CreateBooth(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooth")
	defer scope.End()

	req := dto.CreateBoothRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	booth, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booth")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booth created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, booth)
}

// GetBooths lists booths, optionally filtered by expo and status.
func (handler *Handler) GetBooths(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBooths")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	expoID := r.URL.Query().Get(model.FieldExpoID)
	status := r.URL.Query().Get(model.FieldStatus)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if expoID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldExpoID,
			Operator: gDto.FilterOperatorEq,
			Value:    expoID,
			Table:    model.TableName,
		})
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	booths, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booths")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booths retrieved successfully")

	response.WithJSON(w, http.StatusOK, booths)
}

func (handler *Handler) GetBoothByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBoothByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booth, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booth by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booth retrieved successfully")

	response.WithJSON(w, http.StatusOK, booth)
}

func (handler *Handler) UpdateBooth(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooth")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateBoothRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update booth")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booth updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Booth updated successfully")
}

func (handler *Handler) DeleteBooth(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBooth")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete booth")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booth deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Booth deleted successfully")
}

// AssignBooth hands the booth to an approved exhibitor of the same expo.
func (handler *Handler) AssignBooth(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AssignBooth")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.AssignBoothRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Assign(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to assign booth")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booth assigned successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Booth assigned successfully")
}

// UnassignBooth releases the booth back to the available pool.
func (handler *Handler) UnassignBooth(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UnassignBooth")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Unassign(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to unassign booth")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booth unassigned successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Booth unassigned successfully")
}
