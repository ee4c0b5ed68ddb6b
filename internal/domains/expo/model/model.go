package model

import (
	"time"

	"expohub/shared/model"
)

const (
	TableName  = "expos"
	EntityName = "expo"

	FieldID          = "id"
	FieldTitle       = "title"
	FieldOrganizerID = "organizer_id"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
)

// Expo is managed by an upstream service; this module only reads it to
// authorize organizer actions and to scope booths and appointments.
type Expo struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	OrganizerID string    `db:"organizer_id"`
	StartDate   time.Time `db:"start_date"`
	EndDate     time.Time `db:"end_date"`
	model.Metadata
}
