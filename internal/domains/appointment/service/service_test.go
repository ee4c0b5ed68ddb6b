package service_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"expohub/config"
	"expohub/infras/otel/mocks"
	apptMocks "expohub/internal/domains/appointment/mocks"
	"expohub/internal/domains/appointment/model"
	"expohub/internal/domains/appointment/model/dto"
	"expohub/internal/domains/appointment/repository"
	"expohub/internal/domains/appointment/service"
	boothMocks "expohub/internal/domains/booth/mocks"
	boothModel "expohub/internal/domains/booth/model"
	exhibitorMocks "expohub/internal/domains/exhibitor/mocks"
	exhibitorModel "expohub/internal/domains/exhibitor/model"
	"expohub/internal/events"
	eventMocks "expohub/internal/events/mocks"
	cacheMocks "expohub/shared/cache/mocks"
	"expohub/shared/constant"
	gDto "expohub/shared/dto"
	"expohub/shared/failure"
	"expohub/shared/keylock"
)

var apptStart = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type apptFixture struct {
	repo      *apptMocks.MockAppointment
	exhibitor *exhibitorMocks.MockExhibitor
	booth     *boothMocks.MockBooth
	cache     *cacheMocks.MockRedisCache
	events    *eventMocks.MockEmitter
	svc       service.Appointment
}

func newApptFixture(ctrl *gomock.Controller) *apptFixture {
	f := &apptFixture{
		repo:      apptMocks.NewMockAppointment(ctrl),
		exhibitor: exhibitorMocks.NewMockExhibitor(ctrl),
		booth:     boothMocks.NewMockBooth(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
		events:    eventMocks.NewMockEmitter(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, f.exhibitor, f.booth, cfg, f.cache, mocks.NewOtel(), keylock.New(), f.events)

	return f
}

func ctxWithUser(userID string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
}

func approvedExhibitor() exhibitorModel.Exhibitor {
	return exhibitorModel.Exhibitor{
		ID:     "exh-1",
		UserID: "exh-user",
		ExpoID: "expo-1",
		Status: exhibitorModel.StatusApproved,
	}
}

func TestAppointmentService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newApptFixture(ctrl)

	req := dto.CreateAppointmentRequest{
		ExhibitorID:     "exh-1",
		ExpoID:          "expo-1",
		StartTime:       apptStart.Format(time.RFC3339),
		DurationMinutes: 30,
	}

	tests := []struct {
		name      string
		req       dto.CreateAppointmentRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "malformed start time is rejected",
			req: dto.CreateAppointmentRequest{
				ExhibitorID:     "exh-1",
				ExpoID:          "expo-1",
				StartTime:       "tomorrow at nine",
				DurationMinutes: 30,
			},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "unknown exhibitor is not eligible",
			req:  req,
			setupMock: func() {
				f.exhibitor.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(exhibitorModel.Exhibitor{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "pending exhibitor is not eligible",
			req:  req,
			setupMock: func() {
				pending := approvedExhibitor()
				pending.Status = exhibitorModel.StatusPending

				f.exhibitor.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)
			},
			wantErr:  true,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "exhibitor approved for another expo is not eligible",
			req:  req,
			setupMock: func() {
				other := approvedExhibitor()
				other.ExpoID = "expo-2"

				f.exhibitor.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(other, nil)
			},
			wantErr:  true,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "booth owned by another exhibitor is invalid",
			req: dto.CreateAppointmentRequest{
				ExhibitorID:     "exh-1",
				ExpoID:          "expo-1",
				BoothID:         "booth-1",
				StartTime:       apptStart.Format(time.RFC3339),
				DurationMinutes: 30,
			},
			setupMock: func() {
				f.exhibitor.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(approvedExhibitor(), nil)

				f.booth.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(boothModel.Booth{
						ID:          "booth-1",
						Status:      boothModel.StatusAssigned,
						ExhibitorID: "exh-2",
					}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "overlapping interval conflicts",
			req:  req,
			setupMock: func() {
				f.exhibitor.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(approvedExhibitor(), nil)

				f.repo.EXPECT().
					GetActiveByExhibitor(gomock.Any(), "exh-1").
					Return([]model.Appointment{{
						ID:              "appt-existing",
						StartTime:       apptStart.Add(15 * time.Minute),
						DurationMinutes: 30,
						Status:          model.StatusPending,
					}}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "successful creation emits event",
			req:  req,
			setupMock: func() {
				f.exhibitor.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(approvedExhibitor(), nil)

				f.repo.EXPECT().
					GetActiveByExhibitor(gomock.Any(), "exh-1").
					Return(nil, nil)

				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, appt model.Appointment) error {
						assert.Equal(t, model.StatusPending, appt.Status)
						assert.Equal(t, "attendee-1", appt.AttendeeID)

						return nil
					})

				// Both parties' realtime channels must see the created event:
				// the exhibitor through the notification, the attendee through
				// the broadcast list.
				f.events.EXPECT().
					Emit(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, event events.Event) {
						assert.Equal(t, events.AppointmentCreated, event.Name)
						assert.Contains(t, event.Broadcast, "attendee-1")
						assert.Len(t, event.Notify, 1)
						assert.Equal(t, "exh-user", event.Notify[0].UserID)
					})
			},
			wantErr: false,
		},
		{
			name: "back-to-back interval is accepted",
			req:  req,
			setupMock: func() {
				f.exhibitor.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(approvedExhibitor(), nil)

				f.repo.EXPECT().
					GetActiveByExhibitor(gomock.Any(), "exh-1").
					Return([]model.Appointment{{
						ID:              "appt-before",
						StartTime:       apptStart.Add(-time.Hour),
						DurationMinutes: 60,
						Status:          model.StatusConfirmed,
					}}, nil)

				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				f.events.EXPECT().
					Emit(gomock.Any(), gomock.Any())
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := f.svc.Create(ctxWithUser("attendee-1"), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, model.StatusPending, res.Status)
			}
		})
	}
}

func TestAppointmentService_Reschedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newApptFixture(ctrl)

	pending := model.Appointment{
		ID:              "appt-1",
		AttendeeID:      "attendee-1",
		ExhibitorID:     "exh-1",
		ExpoID:          "expo-1",
		StartTime:       apptStart,
		DurationMinutes: 30,
		Status:          model.StatusPending,
	}

	t.Run("non-owner is forbidden", func(t *testing.T) {
		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pending, nil)

		err := f.svc.Reschedule(ctxWithUser("someone-else"), dto.RescheduleAppointmentRequest{DurationMinutes: 60}, "appt-1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("confirmed appointment cannot be rescheduled", func(t *testing.T) {
		confirmed := pending
		confirmed.Status = model.StatusConfirmed

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(confirmed, nil)

		err := f.svc.Reschedule(ctxWithUser("attendee-1"), dto.RescheduleAppointmentRequest{DurationMinutes: 60}, "appt-1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})

	t.Run("own interval does not conflict with itself", func(t *testing.T) {
		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pending, nil)

		f.repo.EXPECT().
			GetActiveByExhibitor(gomock.Any(), "exh-1").
			Return([]model.Appointment{pending}, nil)

		f.repo.EXPECT().
			UpdateIfStatus(gomock.Any(), gomock.Any(), "appt-1", model.StatusPending).
			DoAndReturn(func(_ context.Context, fields map[string]any, _, _ string) error {
				assert.Equal(t, 60, fields[model.FieldDurationMinutes])

				return nil
			})

		f.exhibitor.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(approvedExhibitor(), nil)

		f.events.EXPECT().
			Emit(gomock.Any(), gomock.Any())

		err := f.svc.Reschedule(ctxWithUser("attendee-1"), dto.RescheduleAppointmentRequest{DurationMinutes: 60}, "appt-1")

		assert.NoError(t, err)
	})

	t.Run("moving onto another reservation conflicts", func(t *testing.T) {
		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pending, nil)

		f.repo.EXPECT().
			GetActiveByExhibitor(gomock.Any(), "exh-1").
			Return([]model.Appointment{
				pending,
				{
					ID:              "appt-2",
					StartTime:       apptStart.Add(time.Hour),
					DurationMinutes: 30,
					Status:          model.StatusConfirmed,
				},
			}, nil)

		err := f.svc.Reschedule(ctxWithUser("attendee-1"), dto.RescheduleAppointmentRequest{
			StartTime: apptStart.Add(time.Hour).Format(time.RFC3339),
		}, "appt-1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestAppointmentService_TransitionStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newApptFixture(ctrl)

	pending := model.Appointment{
		ID:              "appt-1",
		AttendeeID:      "attendee-1",
		ExhibitorID:     "exh-1",
		ExpoID:          "expo-1",
		StartTime:       apptStart,
		DurationMinutes: 30,
		Status:          model.StatusPending,
	}

	tests := []struct {
		name      string
		user      string
		status    string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name:   "attendee cannot confirm",
			user:   "attendee-1",
			status: model.StatusConfirmed,
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)
			},
			wantErr:  true,
			wantCode: http.StatusForbidden,
		},
		{
			name:   "stranger cannot transition",
			user:   "stranger",
			status: model.StatusCancelled,
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)

				f.exhibitor.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(approvedExhibitor(), nil)
			},
			wantErr:  true,
			wantCode: http.StatusForbidden,
		},
		{
			name:   "terminal state rejects transitions",
			user:   "exh-user",
			status: model.StatusConfirmed,
			setupMock: func() {
				cancelled := pending
				cancelled.Status = model.StatusCancelled

				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(cancelled, nil)
			},
			wantErr:  true,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:   "exhibitor cannot confirm a confirmed appointment",
			user:   "exh-user",
			status: model.StatusConfirmed,
			setupMock: func() {
				confirmed := pending
				confirmed.Status = model.StatusConfirmed

				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(confirmed, nil)

				f.exhibitor.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(approvedExhibitor(), nil)
			},
			wantErr:  true,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:   "attendee cancels a pending appointment",
			user:   "attendee-1",
			status: model.StatusCancelled,
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)

				f.repo.EXPECT().
					UpdateIfStatus(gomock.Any(), gomock.Any(), "appt-1", model.StatusPending).
					Return(nil)

				f.exhibitor.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(approvedExhibitor(), nil)

				f.events.EXPECT().
					Emit(gomock.Any(), gomock.Any())
			},
			wantErr: false,
		},
		{
			name:   "exhibitor confirms a pending appointment",
			user:   "exh-user",
			status: model.StatusConfirmed,
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)

				f.exhibitor.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(approvedExhibitor(), nil)

				f.repo.EXPECT().
					UpdateIfStatus(gomock.Any(), gomock.Any(), "appt-1", model.StatusPending).
					DoAndReturn(func(_ context.Context, fields map[string]any, _, _ string) error {
						assert.Equal(t, model.StatusConfirmed, fields[model.FieldStatus])

						return nil
					})

				f.events.EXPECT().
					Emit(gomock.Any(), gomock.Any())
			},
			wantErr: false,
		},
		{
			name:   "exhibitor cancels a confirmed appointment",
			user:   "exh-user",
			status: model.StatusCancelled,
			setupMock: func() {
				confirmed := pending
				confirmed.Status = model.StatusConfirmed

				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(confirmed, nil)

				f.exhibitor.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(approvedExhibitor(), nil)

				f.repo.EXPECT().
					UpdateIfStatus(gomock.Any(), gomock.Any(), "appt-1", model.StatusConfirmed).
					Return(nil)

				f.events.EXPECT().
					Emit(gomock.Any(), gomock.Any())
			},
			wantErr: false,
		},
		{
			name:   "exhibitor cannot mark an appointment completed",
			user:   "exh-user",
			status: model.StatusCompleted,
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)

				f.exhibitor.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(approvedExhibitor(), nil)
			},
			wantErr:  true,
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := f.svc.TransitionStatus(ctxWithUser(tt.user), dto.TransitionStatusRequest{Status: tt.status}, "appt-1")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAppointmentService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newApptFixture(ctrl)

	pending := model.Appointment{
		ID:          "appt-1",
		AttendeeID:  "attendee-1",
		ExhibitorID: "exh-1",
		Status:      model.StatusPending,
	}

	t.Run("attendee deletes own pending appointment", func(t *testing.T) {
		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pending, nil)

		f.repo.EXPECT().
			DeleteIfStatus(gomock.Any(), "appt-1", model.StatusPending).
			Return(nil)

		err := f.svc.Delete(ctxWithUser("attendee-1"), "appt-1")

		assert.NoError(t, err)
	})

	t.Run("confirmed appointment cannot be deleted", func(t *testing.T) {
		confirmed := pending
		confirmed.Status = model.StatusConfirmed

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(confirmed, nil)

		err := f.svc.Delete(ctxWithUser("attendee-1"), "appt-1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pending, nil)

		err := f.svc.Delete(ctxWithUser("someone-else"), "appt-1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

// fakeAppointmentRepo is an in-memory repository used for the concurrency
// tests below, where mock expectation ordering cannot express interleavings.
// afterGet fires once on the next Get, outside the repo mutex, to let a test
// interleave other service calls behind an already-taken snapshot.
type fakeAppointmentRepo struct {
	mu       sync.Mutex
	items    map[string]model.Appointment
	afterGet func()
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{items: map[string]model.Appointment{}}
}

func (r *fakeAppointmentRepo) Insert(_ context.Context, appt model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[appt.ID] = appt

	return nil
}

func (r *fakeAppointmentRepo) Get(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Appointment, error) {
	r.mu.Lock()

	_, args := filter.GetWhereClause()
	id, _ := args[model.FieldID].(string)
	appt := r.items[id]

	hook := r.afterGet
	r.afterGet = nil
	r.mu.Unlock()

	if hook != nil {
		hook()
	}

	return appt, nil
}

func (r *fakeAppointmentRepo) GetAll(_ context.Context, _ gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Appointment, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeAppointmentRepo) GetActiveByExhibitor(_ context.Context, exhibitorID string) ([]model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var active []model.Appointment

	for _, appt := range r.items {
		if appt.ExhibitorID == exhibitorID && appt.IsActive() {
			active = append(active, appt)
		}
	}

	return active, nil
}

func (r *fakeAppointmentRepo) Exist(_ context.Context, _ gDto.FilterGroup) (bool, error) {
	return false, errors.New("not implemented")
}

func (r *fakeAppointmentRepo) Count(_ context.Context, _ gDto.FilterGroup) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.items), nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, req map[string]any, filter gDto.FilterGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, args := filter.GetWhereClause()
	id, _ := args[model.FieldID].(string)

	appt, ok := r.items[id]
	if !ok {
		return errors.New("not found")
	}

	if status, ok := req[model.FieldStatus].(string); ok {
		appt.Status = status
	}

	if start, ok := req[model.FieldStartTime].(time.Time); ok {
		appt.StartTime = start
	}

	if duration, ok := req[model.FieldDurationMinutes].(int); ok {
		appt.DurationMinutes = duration
	}

	r.items[id] = appt

	return nil
}

func (r *fakeAppointmentRepo) UpdateIfStatus(_ context.Context, req map[string]any, id, expectedStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.items[id]
	if !ok || appt.Status != expectedStatus {
		return failure.InvalidState("appointment is no longer " + expectedStatus)
	}

	if status, ok := req[model.FieldStatus].(string); ok {
		appt.Status = status
	}

	if start, ok := req[model.FieldStartTime].(time.Time); ok {
		appt.StartTime = start
	}

	if duration, ok := req[model.FieldDurationMinutes].(int); ok {
		appt.DurationMinutes = duration
	}

	r.items[id] = appt

	return nil
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, filter gDto.FilterGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, args := filter.GetWhereClause()
	id, _ := args[model.FieldID].(string)

	delete(r.items, id)

	return nil
}

func (r *fakeAppointmentRepo) DeleteIfStatus(_ context.Context, id, expectedStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.items[id]
	if !ok || appt.Status != expectedStatus {
		return failure.InvalidState("appointment is no longer " + expectedStatus)
	}

	delete(r.items, id)

	return nil
}

func (r *fakeAppointmentRepo) activeCount(exhibitorID string) int {
	active, _ := r.GetActiveByExhibitor(context.Background(), exhibitorID)

	return len(active)
}

func newConcurrencyService(ctrl *gomock.Controller, repo repository.Appointment) (service.Appointment, *exhibitorMocks.MockExhibitor) {
	exhibitor := exhibitorMocks.NewMockExhibitor(ctrl)
	exhibitor.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(approvedExhibitor(), nil).
		AnyTimes()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	mockEvents := eventMocks.NewMockEmitter(ctrl)
	mockEvents.EXPECT().Emit(gomock.Any(), gomock.Any()).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(repo, exhibitor, boothMocks.NewMockBooth(ctrl), cfg, mockCache, mocks.NewOtel(), keylock.New(), mockEvents)

	return svc, exhibitor
}

func TestAppointmentService_ConcurrentCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := newFakeAppointmentRepo()
	svc, _ := newConcurrencyService(ctrl, repo)

	const workers = 20

	req := dto.CreateAppointmentRequest{
		ExhibitorID:     "exh-1",
		ExpoID:          "expo-1",
		StartTime:       apptStart.Format(time.RFC3339),
		DurationMinutes: 30,
	}

	var wg sync.WaitGroup

	errs := make([]error, workers)

	for i := range workers {
		wg.Add(1)

		go func(idx int) {
			defer wg.Done()

			_, errs[idx] = svc.Create(ctxWithUser("attendee-1"), req)
		}(i)
	}

	wg.Wait()

	succeeded := 0

	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one of the racing creates may win the interval")
	assert.Equal(t, 1, repo.activeCount("exh-1"))
}

func TestAppointmentService_CancelThenRebook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := newFakeAppointmentRepo()
	svc, _ := newConcurrencyService(ctrl, repo)

	req := dto.CreateAppointmentRequest{
		ExhibitorID:     "exh-1",
		ExpoID:          "expo-1",
		StartTime:       apptStart.Format(time.RFC3339),
		DurationMinutes: 30,
	}

	first, err := svc.Create(ctxWithUser("attendee-1"), req)
	assert.NoError(t, err)

	// Same interval is blocked while the first appointment is active.
	_, err = svc.Create(ctxWithUser("attendee-2"), req)
	assert.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	err = svc.TransitionStatus(ctxWithUser("attendee-1"), dto.TransitionStatusRequest{Status: model.StatusCancelled}, first.ID)
	assert.NoError(t, err)

	// Cancellation frees the interval synchronously.
	_, err = svc.Create(ctxWithUser("attendee-2"), req)
	assert.NoError(t, err)
}

func TestAppointmentService_ConfirmLosesRaceWithCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := newFakeAppointmentRepo()
	svc, _ := newConcurrencyService(ctrl, repo)

	req := dto.CreateAppointmentRequest{
		ExhibitorID:     "exh-1",
		ExpoID:          "expo-1",
		StartTime:       apptStart.Format(time.RFC3339),
		DurationMinutes: 30,
	}

	first, err := svc.Create(ctxWithUser("attendee-1"), req)
	assert.NoError(t, err)

	// While the exhibitor's confirm holds its pending snapshot, the attendee
	// cancels and a second attendee rebooks the freed interval.
	repo.afterGet = func() {
		err := svc.TransitionStatus(ctxWithUser("attendee-1"), dto.TransitionStatusRequest{Status: model.StatusCancelled}, first.ID)
		assert.NoError(t, err)

		_, err = svc.Create(ctxWithUser("attendee-2"), req)
		assert.NoError(t, err)
	}

	err = svc.TransitionStatus(ctxWithUser("exh-user"), dto.TransitionStatusRequest{Status: model.StatusConfirmed}, first.ID)

	assert.Error(t, err, "a cancelled appointment must not come back as confirmed")
	assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	assert.Equal(t, 1, repo.activeCount("exh-1"))
}

func TestAppointmentService_RescheduleLosesRaceWithCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := newFakeAppointmentRepo()
	svc, _ := newConcurrencyService(ctrl, repo)

	req := dto.CreateAppointmentRequest{
		ExhibitorID:     "exh-1",
		ExpoID:          "expo-1",
		StartTime:       apptStart.Format(time.RFC3339),
		DurationMinutes: 30,
	}

	first, err := svc.Create(ctxWithUser("attendee-1"), req)
	assert.NoError(t, err)

	repo.afterGet = func() {
		err := svc.TransitionStatus(ctxWithUser("attendee-1"), dto.TransitionStatusRequest{Status: model.StatusCancelled}, first.ID)
		assert.NoError(t, err)
	}

	err = svc.Reschedule(ctxWithUser("attendee-1"), dto.RescheduleAppointmentRequest{DurationMinutes: 60}, first.ID)

	assert.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	assert.Equal(t, 0, repo.activeCount("exh-1"))
}

func TestAppointmentService_DeleteLosesRaceWithCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := newFakeAppointmentRepo()
	svc, _ := newConcurrencyService(ctrl, repo)

	req := dto.CreateAppointmentRequest{
		ExhibitorID:     "exh-1",
		ExpoID:          "expo-1",
		StartTime:       apptStart.Format(time.RFC3339),
		DurationMinutes: 30,
	}

	first, err := svc.Create(ctxWithUser("attendee-1"), req)
	assert.NoError(t, err)

	repo.afterGet = func() {
		err := svc.TransitionStatus(ctxWithUser("attendee-1"), dto.TransitionStatusRequest{Status: model.StatusCancelled}, first.ID)
		assert.NoError(t, err)
	}

	err = svc.Delete(ctxWithUser("attendee-1"), first.ID)

	assert.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))

	// The cancelled record survives as history rather than vanishing.
	total, err := repo.Count(context.Background(), gDto.FilterGroup{})
	assert.NoError(t, err)
	assert.Equal(t, 1, total)
}
