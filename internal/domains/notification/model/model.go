package model

import (
	"github.com/jmoiron/sqlx/types"

	"expohub/shared/model"
)

const (
	TableName  = "notifications"
	EntityName = "notification"

	FieldID        = "id"
	FieldUserID    = "user_id"
	FieldTitle     = "title"
	FieldMessage   = "message"
	FieldData      = "data"
	FieldRead      = "read"
	FieldEmailSent = "email_sent"
)

// Notification is the durable record behind the in-app inbox. The realtime
// push over NATS is fire-and-forget; this row is what survives it.
type Notification struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	Title     string         `db:"title"`
	Message   string         `db:"message"`
	Data      types.JSONText `db:"data"`
	Read      bool           `db:"read"`
	EmailSent bool           `db:"email_sent"`
	model.Metadata
}
