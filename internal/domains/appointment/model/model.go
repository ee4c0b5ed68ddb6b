package model

import (
	"time"

	"expohub/shared/model"
)

const (
	TableName  = "appointments"
	EntityName = "appointment"

	FieldID              = "id"
	FieldAttendeeID      = "attendee_id"
	FieldExhibitorID     = "exhibitor_id"
	FieldExpoID          = "expo_id"
	FieldBoothID         = "booth_id"
	FieldStartTime       = "start_time"
	FieldDurationMinutes = "duration_minutes"
	FieldStatus          = "status"
	FieldPurpose         = "purpose"
	FieldNotes           = "notes"

	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Appointment is a private attendee-exhibitor meeting slot. Active
// appointments (pending or confirmed) hold their half-open interval
// [StartTime, StartTime+Duration) exclusively per exhibitor.
type Appointment struct {
	ID              string    `db:"id"`
	AttendeeID      string    `db:"attendee_id"`
	ExhibitorID     string    `db:"exhibitor_id"`
	ExpoID          string    `db:"expo_id"`
	BoothID         string    `db:"booth_id"`
	StartTime       time.Time `db:"start_time"`
	DurationMinutes int       `db:"duration_minutes"`
	Status          string    `db:"status"`
	Purpose         string    `db:"purpose"`
	Notes           string    `db:"notes"`
	model.Metadata
}

func (a *Appointment) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// IsActive reports whether the appointment still holds its interval.
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCancelled || a.Status == StatusCompleted
}
