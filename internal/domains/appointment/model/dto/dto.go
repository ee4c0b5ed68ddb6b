package dto

import (
	"time"

	"github.com/google/uuid"

	"expohub/internal/domains/appointment/model"
	"expohub/shared"
	gDto "expohub/shared/dto"
	gModel "expohub/shared/model"
	"expohub/shared/timezone"
)

type CreateAppointmentRequest struct {
	ExhibitorID     string `json:"exhibitor_id"     validate:"required"`
	ExpoID          string `json:"expo_id"          validate:"required"`
	BoothID         string `json:"booth_id"         validate:"omitempty"`
	StartTime       string `json:"start_time"       validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
	Purpose         string `json:"purpose"          validate:"omitempty,max=200"`
	Notes           string `json:"notes"            validate:"omitempty,max=1000"`
}

func (c *CreateAppointmentRequest) ToModel(user string) (model.Appointment, error) {
	startTime, err := time.Parse(time.RFC3339, c.StartTime)
	if err != nil {
		return model.Appointment{}, err
	}

	return model.Appointment{
		ID:              uuid.NewString(),
		AttendeeID:      user,
		ExhibitorID:     c.ExhibitorID,
		ExpoID:          c.ExpoID,
		BoothID:         c.BoothID,
		StartTime:       startTime,
		DurationMinutes: c.DurationMinutes,
		Status:          model.StatusPending,
		Purpose:         c.Purpose,
		Notes:           c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type RescheduleAppointmentRequest struct {
	StartTime       string `json:"start_time"       validate:"omitempty"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,gt=0"`
	Purpose         string `db:"purpose" json:"purpose" validate:"omitempty,max=200"`
	Notes           string `db:"notes"   json:"notes"  validate:"omitempty,max=1000"`
}

// Status values outside {confirmed, cancelled} pass validation so the role
// gate in the service can answer with Forbidden rather than a 400.
type TransitionStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type AppointmentResponse struct {
	ID              string `json:"id"`
	AttendeeID      string `json:"attendee_id"`
	ExhibitorID     string `json:"exhibitor_id"`
	ExpoID          string `json:"expo_id"`
	BoothID         string `json:"booth_id,omitempty"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Status          string `json:"status"`
	Purpose         string `json:"purpose"`
	Notes           string `json:"notes"`
	gDto.Metadata
}

func (r *AppointmentResponse) FromModel(model model.Appointment) {
	r.ID = model.ID
	r.AttendeeID = model.AttendeeID
	r.ExhibitorID = model.ExhibitorID
	r.ExpoID = model.ExpoID
	r.BoothID = model.BoothID
	r.StartTime = model.StartTime.Format(time.RFC3339)
	r.EndTime = model.EndTime().Format(time.RFC3339)
	r.DurationMinutes = model.DurationMinutes
	r.Status = model.Status
	r.Purpose = model.Purpose
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)
}

type GetAppointmentsResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetAppointmentsResponse) FromModels(models []model.Appointment, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Appointments = make([]AppointmentResponse, len(models))
	for i, mod := range models {
		r.Appointments[i].FromModel(mod)
	}
}
