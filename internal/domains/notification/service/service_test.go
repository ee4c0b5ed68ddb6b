package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	mailerMocks "expohub/infras/mailer/mocks"
	"expohub/infras/otel/mocks"
	exhibitorMocks "expohub/internal/domains/exhibitor/mocks"
	exhibitorModel "expohub/internal/domains/exhibitor/model"
	notificationMocks "expohub/internal/domains/notification/mocks"
	"expohub/internal/domains/notification/model"
	"expohub/internal/domains/notification/service"
	"expohub/shared/constant"
	gDto "expohub/shared/dto"
	"expohub/shared/failure"
)

type notificationFixture struct {
	repo      *notificationMocks.MockNotification
	exhibitor *exhibitorMocks.MockExhibitor
	mailer    *mailerMocks.MockMailer
	svc       service.Notification
}

func newNotificationFixture(ctrl *gomock.Controller) *notificationFixture {
	f := &notificationFixture{
		repo:      notificationMocks.NewMockNotification(ctrl),
		exhibitor: exhibitorMocks.NewMockExhibitor(ctrl),
		mailer:    mailerMocks.NewMockMailer(ctrl),
	}

	f.svc = service.New(f.repo, f.exhibitor, f.mailer, mocks.NewOtel())

	return f
}

func ctxWithUser(userID string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
}

func TestNotificationService_Notify(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("persists the notification without email", func(t *testing.T) {
		f := newNotificationFixture(ctrl)

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n model.Notification) error {
				assert.Equal(t, "user-1", n.UserID)
				assert.Equal(t, "Appointment confirmed", n.Title)
				assert.False(t, n.EmailSent)
				assert.False(t, n.Read)

				return nil
			})

		f.svc.Notify(context.Background(), "user-1", "Appointment confirmed", "See you there", map[string]any{"appointment_id": "appt-1"}, false)
	})

	t.Run("emails through the exhibitor contact address", func(t *testing.T) {
		f := newNotificationFixture(ctrl)

		f.exhibitor.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(exhibitorModel.Exhibitor{
				ID:           "exh-1",
				UserID:       "exh-user",
				CompanyName:  "Acme Corp",
				ContactEmail: "booth@acme.example",
			}, nil)

		f.mailer.EXPECT().
			Send(gomock.Any(), "booth@acme.example", "Acme Corp", "New appointment request", "An attendee requested an appointment", "").
			Return(nil)

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n model.Notification) error {
				assert.True(t, n.EmailSent)

				return nil
			})

		f.svc.Notify(context.Background(), "exh-user", "New appointment request", "An attendee requested an appointment", nil, true)
	})

	t.Run("recipient without a contact address still gets the in-app copy", func(t *testing.T) {
		f := newNotificationFixture(ctrl)

		f.exhibitor.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(exhibitorModel.Exhibitor{}, nil)

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n model.Notification) error {
				assert.False(t, n.EmailSent)

				return nil
			})

		f.svc.Notify(context.Background(), "attendee-1", "Appointment cancelled", "The slot was freed", nil, true)
	})

	t.Run("mailer failure is swallowed", func(t *testing.T) {
		f := newNotificationFixture(ctrl)

		f.exhibitor.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(exhibitorModel.Exhibitor{ID: "exh-1", ContactEmail: "booth@acme.example"}, nil)

		f.mailer.EXPECT().
			Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("smtp is down"))

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n model.Notification) error {
				assert.False(t, n.EmailSent)

				return nil
			})

		f.svc.Notify(context.Background(), "exh-user", "Booth assigned", "Booth A-12 is yours", nil, true)
	})

	t.Run("insert failure does not panic or propagate", func(t *testing.T) {
		f := newNotificationFixture(ctrl)

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(errors.New("db is down"))

		f.svc.Notify(context.Background(), "user-1", "Booth unassigned", "The booth was released", nil, false)
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stored := model.Notification{
		ID:     "notif-1",
		UserID: "user-1",
		Title:  "Appointment confirmed",
	}

	t.Run("recipient marks their notification read", func(t *testing.T) {
		f := newNotificationFixture(ctrl)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(stored, nil)

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, true, fields[model.FieldRead])

				return nil
			})

		err := f.svc.MarkRead(ctxWithUser("user-1"), "notif-1")

		assert.NoError(t, err)
	})

	t.Run("unknown notification is not found", func(t *testing.T) {
		f := newNotificationFixture(ctrl)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Notification{}, nil)

		err := f.svc.MarkRead(ctxWithUser("user-1"), "notif-404")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("another user is forbidden", func(t *testing.T) {
		f := newNotificationFixture(ctrl)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(stored, nil)

		err := f.svc.MarkRead(ctxWithUser("user-2"), "notif-1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("already read is a no-op", func(t *testing.T) {
		f := newNotificationFixture(ctrl)

		read := stored
		read.Read = true

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(read, nil)

		err := f.svc.MarkRead(ctxWithUser("user-1"), "notif-1")

		assert.NoError(t, err)
	})
}

func TestNotificationService_GetMine(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newNotificationFixture(ctrl)

	f.repo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(2, nil)

	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Notification{
			{ID: "notif-1", UserID: "user-1"},
			{ID: "notif-2", UserID: "user-1"},
		}, nil)

	res, err := f.svc.GetMine(ctxWithUser("user-1"), gDto.QueryParams{Page: 1, Limit: 10})

	assert.NoError(t, err)
	assert.Len(t, res.Notifications, 2)
	assert.Equal(t, 2, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)
}
