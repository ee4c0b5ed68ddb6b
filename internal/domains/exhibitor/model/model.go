package model

import (
	"github.com/lib/pq"

	"expohub/shared/model"
)

const (
	TableName  = "exhibitors"
	EntityName = "exhibitor"

	FieldID           = "id"
	FieldUserID       = "user_id"
	FieldExpoID       = "expo_id"
	FieldCompanyName  = "company_name"
	FieldContactEmail = "contact_email"
	FieldStatus       = "status"
	FieldBoothIDs     = "booth_ids"

	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Exhibitor registration is owned by an upstream service. This module reads
// it for eligibility checks and maintains BoothIDs as a back-reference that
// mirrors booths.exhibitor_id.
type Exhibitor struct {
	ID           string         `db:"id"`
	UserID       string         `db:"user_id"`
	ExpoID       string         `db:"expo_id"`
	CompanyName  string         `db:"company_name"`
	ContactEmail string         `db:"contact_email"`
	Status       string         `db:"status"`
	BoothIDs     pq.StringArray `db:"booth_ids"`
	model.Metadata
}

func (e *Exhibitor) IsApproved() bool {
	return e.Status == StatusApproved
}

// HasBooth reports whether boothID already appears in the back-reference.
func (e *Exhibitor) HasBooth(boothID string) bool {
	for _, id := range e.BoothIDs {
		if id == boothID {
			return true
		}
	}

	return false
}
