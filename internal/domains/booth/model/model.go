package model

import (
	"github.com/lib/pq"

	"expohub/shared/model"
)

const (
	TableName  = "booths"
	EntityName = "booth"

	FieldID           = "id"
	FieldExpoID       = "expo_id"
	FieldBoothNumber  = "booth_number"
	FieldSize         = "size"
	FieldPrice        = "price"
	FieldLocation     = "location"
	FieldFeatures     = "features"
	FieldFloorPlan    = "floor_plan"
	FieldStatus       = "status"
	FieldExhibitorID  = "exhibitor_id"
	FieldCompanyName  = "company_name"
	FieldContactEmail = "contact_email"

	StatusAvailable = "available"
	StatusAssigned  = "assigned"
)

// Booth custody is exclusive: ExhibitorID is non-empty exactly when Status is
// assigned, and CompanyName/ContactEmail hold the snapshot taken at
// assignment time. BoothNumber is unique within an expo.
type Booth struct {
	ID           string         `db:"id"`
	ExpoID       string         `db:"expo_id"`
	BoothNumber  string         `db:"booth_number"`
	Size         string         `db:"size"`
	Price        float64        `db:"price"`
	Location     string         `db:"location"`
	Features     pq.StringArray `db:"features"`
	FloorPlan    string         `db:"floor_plan"`
	Status       string         `db:"status"`
	ExhibitorID  string         `db:"exhibitor_id"`
	CompanyName  string         `db:"company_name"`
	ContactEmail string         `db:"contact_email"`
	model.Metadata
}

func (b *Booth) IsAssigned() bool {
	return b.Status == StatusAssigned
}
