package service_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"expohub/config"
	"expohub/infras/otel/mocks"
	s3Mocks "expohub/infras/s3/mocks"
	boothMocks "expohub/internal/domains/booth/mocks"
	"expohub/internal/domains/booth/model"
	"expohub/internal/domains/booth/model/dto"
	"expohub/internal/domains/booth/service"
	exhibitorMocks "expohub/internal/domains/exhibitor/mocks"
	exhibitorModel "expohub/internal/domains/exhibitor/model"
	expoMocks "expohub/internal/domains/expo/mocks"
	expoModel "expohub/internal/domains/expo/model"
	eventMocks "expohub/internal/events/mocks"
	cacheMocks "expohub/shared/cache/mocks"
	"expohub/shared/constant"
	"expohub/shared/failure"
	"expohub/shared/keylock"
)

type boothFixture struct {
	repo      *boothMocks.MockBooth
	exhibitor *exhibitorMocks.MockExhibitor
	expo      *expoMocks.MockExpo
	cache     *cacheMocks.MockRedisCache
	s3        *s3Mocks.MockS3
	events    *eventMocks.MockEmitter
	svc       service.Booth
}

func newBoothFixture(ctrl *gomock.Controller) *boothFixture {
	f := &boothFixture{
		repo:      boothMocks.NewMockBooth(ctrl),
		exhibitor: exhibitorMocks.NewMockExhibitor(ctrl),
		expo:      expoMocks.NewMockExpo(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
		s3:        s3Mocks.NewMockS3(ctrl),
		events:    eventMocks.NewMockEmitter(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.S3.BucketName = "expohub"

	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, f.exhibitor, f.expo, cfg, f.cache, mocks.NewOtel(), keylock.New(), f.s3, f.events)

	return f
}

func ctxWithUser(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func TestBoothService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoothFixture(ctrl)

	req := dto.CreateBoothRequest{
		ExpoID:      "expo-1",
		BoothNumber: "A-12",
		Size:        "3x3",
		Price:       1500,
	}

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.CreateBoothRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name:      "attendee is forbidden",
			ctx:       ctxWithUser("user-1", constant.RoleAttendee),
			req:       req,
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusForbidden,
		},
		{
			name: "organizer of another expo is forbidden",
			ctx:  ctxWithUser("user-2", constant.RoleOrganizer),
			req:  req,
			setupMock: func() {
				f.expo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(expoModel.Expo{ID: "expo-1", OrganizerID: "someone-else"}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusForbidden,
		},
		{
			name: "duplicate booth number conflicts",
			ctx:  ctxWithUser("admin-1", constant.RoleAdmin),
			req:  req,
			setupMock: func() {
				f.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "unique violation on insert conflicts",
			ctx:  ctxWithUser("admin-1", constant.RoleAdmin),
			req:  req,
			setupMock: func() {
				f.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				// A concurrent create slipped in between the uniqueness check and the insert.
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(fmt.Errorf("failed to insert data (booth): %w", &pq.Error{Code: "23505"}))
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "successful creation by admin",
			ctx:  ctxWithUser("admin-1", constant.RoleAdmin),
			req:  req,
			setupMock: func() {
				f.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, booth model.Booth) error {
						assert.Equal(t, model.StatusAvailable, booth.Status)
						assert.Empty(t, booth.ExhibitorID)

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "successful creation by owning organizer",
			ctx:  ctxWithUser("org-1", constant.RoleOrganizer),
			req:  req,
			setupMock: func() {
				f.expo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(expoModel.Expo{ID: "expo-1", OrganizerID: "org-1"}, nil)

				f.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := f.svc.Create(tt.ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.req.BoothNumber, res.BoothNumber)
				assert.Equal(t, model.StatusAvailable, res.Status)
			}
		})
	}
}

func TestBoothService_CreateWithFloorPlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoothFixture(ctrl)

	encoded := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
	f.s3.EXPECT().
		UploadFileBytes(gomock.Any(), "expohub", model.EntityName, gomock.Any(), "image/png", []byte("png-bytes")).
		Return("https://cdn.example.com/booth/plan.png", nil)
	f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.svc.Create(ctxWithUser("admin-1", constant.RoleAdmin), dto.CreateBoothRequest{
		ExpoID:      "expo-1",
		BoothNumber: "B-01",
		FloorPlan:   encoded,
	})

	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/booth/plan.png", res.FloorPlan)
}

func TestBoothService_Assign(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoothFixture(ctrl)

	availableBooth := model.Booth{
		ID:          "booth-1",
		ExpoID:      "expo-1",
		BoothNumber: "A-12",
		Status:      model.StatusAvailable,
	}

	approved := exhibitorModel.Exhibitor{
		ID:           "exh-1",
		UserID:       "user-9",
		ExpoID:       "expo-1",
		CompanyName:  "Acme Corp",
		ContactEmail: "acme@example.com",
		Status:       exhibitorModel.StatusApproved,
	}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "booth not found",
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booth{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "already assigned booth rejects assignment",
			setupMock: func() {
				assigned := availableBooth
				assigned.Status = model.StatusAssigned
				assigned.ExhibitorID = "exh-2"

				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(assigned, nil)
			},
			wantErr:  true,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown exhibitor is not eligible",
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableBooth, nil)

				f.exhibitor.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(exhibitorModel.Exhibitor{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "pending exhibitor is not eligible",
			setupMock: func() {
				pending := approved
				pending.Status = exhibitorModel.StatusPending

				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableBooth, nil)

				f.exhibitor.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)
			},
			wantErr:  true,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "exhibitor from another expo is not eligible",
			setupMock: func() {
				other := approved
				other.ExpoID = "expo-2"

				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableBooth, nil)

				f.exhibitor.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(other, nil)
			},
			wantErr:  true,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "successful assignment emits event",
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableBooth, nil)

				f.exhibitor.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(approved, nil)

				f.repo.EXPECT().
					AssignExhibitor(gomock.Any(), "booth-1", approved, "admin-1").
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

			err := f.svc.Assign(ctxWithUser("admin-1", constant.RoleAdmin), "booth-1", dto.AssignBoothRequest{ExhibitorID: "exh-1"})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBoothService_Unassign(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoothFixture(ctrl)

	assigned := model.Booth{
		ID:          "booth-1",
		ExpoID:      "expo-1",
		BoothNumber: "A-12",
		Status:      model.StatusAssigned,
		ExhibitorID: "exh-1",
		CompanyName: "Acme Corp",
	}

	t.Run("available booth rejects unassignment", func(t *testing.T) {
		available := assigned
		available.Status = model.StatusAvailable
		available.ExhibitorID = ""

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(available, nil)

		err := f.svc.Unassign(ctxWithUser("admin-1", constant.RoleAdmin), "booth-1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})

	t.Run("successful unassignment emits event", func(t *testing.T) {
		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(assigned, nil)

		f.repo.EXPECT().
			UnassignExhibitor(gomock.Any(), "booth-1", "exh-1", "admin-1").
			Return(nil)

		f.exhibitor.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(exhibitorModel.Exhibitor{ID: "exh-1", UserID: "user-9"}, nil)

		f.events.EXPECT().
			Emit(gomock.Any(), gomock.Any())

		err := f.svc.Unassign(ctxWithUser("admin-1", constant.RoleAdmin), "booth-1")

		assert.NoError(t, err)
	})
}

func TestBoothService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoothFixture(ctrl)

	booth := model.Booth{
		ID:          "booth-1",
		ExpoID:      "expo-1",
		BoothNumber: "A-12",
		Status:      model.StatusAvailable,
	}

	t.Run("rename to taken number conflicts", func(t *testing.T) {
		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booth, nil)

		f.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		err := f.svc.Update(ctxWithUser("admin-1", constant.RoleAdmin), dto.UpdateBoothRequest{BoothNumber: "A-13"}, "booth-1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("rename to own number skips uniqueness check", func(t *testing.T) {
		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booth, nil)

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		err := f.svc.Update(ctxWithUser("admin-1", constant.RoleAdmin), dto.UpdateBoothRequest{BoothNumber: "A-12", Size: "6x3"}, "booth-1")

		assert.NoError(t, err)
	})

	t.Run("unique violation on rename conflicts", func(t *testing.T) {
		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booth, nil)

		f.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(fmt.Errorf("failed to update data (booth): %w", &pq.Error{Code: "23505"}))

		err := f.svc.Update(ctxWithUser("admin-1", constant.RoleAdmin), dto.UpdateBoothRequest{BoothNumber: "A-13"}, "booth-1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("successful rename", func(t *testing.T) {
		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booth, nil)

		f.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, "A-13", fields[model.FieldBoothNumber])

				return nil
			})

		err := f.svc.Update(ctxWithUser("admin-1", constant.RoleAdmin), dto.UpdateBoothRequest{BoothNumber: "A-13"}, "booth-1")

		assert.NoError(t, err)
	})
}

func TestBoothService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoothFixture(ctrl)

	t.Run("assigned booth detaches back-reference", func(t *testing.T) {
		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booth{
				ID:          "booth-1",
				ExpoID:      "expo-1",
				Status:      model.StatusAssigned,
				ExhibitorID: "exh-1",
			}, nil)

		f.repo.EXPECT().
			DeleteWithDetach(gomock.Any(), "booth-1", "admin-1").
			Return(nil)

		err := f.svc.Delete(ctxWithUser("admin-1", constant.RoleAdmin), "booth-1")

		assert.NoError(t, err)
	})

	t.Run("missing booth is not found", func(t *testing.T) {
		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booth{}, nil)

		err := f.svc.Delete(ctxWithUser("admin-1", constant.RoleAdmin), "booth-1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBoothService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoothFixture(ctrl)
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	t.Run("cache miss falls back to db", func(t *testing.T) {
		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booth{ID: "booth-1", BoothNumber: "A-12"}, nil)

		res, err := f.svc.Get(context.Background(), "booth-1")

		assert.NoError(t, err)
		assert.Equal(t, "A-12", res.BoothNumber)
	})

	t.Run("missing booth is not found", func(t *testing.T) {
		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booth{}, nil)

		_, err := f.svc.Get(context.Background(), "missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
