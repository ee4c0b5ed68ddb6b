package dto

import (
	"github.com/google/uuid"
	"github.com/lib/pq"

	"expohub/internal/domains/booth/model"
	"expohub/shared"
	gDto "expohub/shared/dto"
	gModel "expohub/shared/model"
	"expohub/shared/timezone"
)

type CreateBoothRequest struct {
	ExpoID      string   `json:"expo_id"      validate:"required"`
	BoothNumber string   `json:"booth_number" validate:"required,max=20"`
	Size        string   `json:"size"         validate:"omitempty,max=50"`
	Price       float64  `json:"price"        validate:"omitempty,min=0"`
	Location    string   `json:"location"     validate:"omitempty,max=100"`
	Features    []string `json:"features"     validate:"omitempty,dive,max=50"`
	FloorPlan   string   `json:"floor_plan"   validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
}

func (c *CreateBoothRequest) ToModel(user string, floorPlanURL string) model.Booth {
	return model.Booth{
		ID:          uuid.NewString(),
		ExpoID:      c.ExpoID,
		BoothNumber: c.BoothNumber,
		Size:        c.Size,
		Price:       c.Price,
		Location:    c.Location,
		Features:    pq.StringArray(c.Features),
		FloorPlan:   floorPlanURL,
		Status:      model.StatusAvailable,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateBoothRequest struct {
	BoothNumber string   `db:"booth_number" json:"booth_number" validate:"omitempty,max=20"`
	Size        string   `db:"size"         json:"size"         validate:"omitempty,max=50"`
	Price       *float64 `db:"price"        json:"price"        validate:"omitempty,min=0"`
	Location    string   `db:"location"     json:"location"     validate:"omitempty,max=100"`
	Features    []string `json:"features"   validate:"omitempty,dive,max=50"`
	FloorPlan   string   `json:"floor_plan" validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
}

type AssignBoothRequest struct {
	ExhibitorID string `json:"exhibitor_id" validate:"required"`
}

type BoothResponse struct {
	ID           string   `json:"id"`
	ExpoID       string   `json:"expo_id"`
	BoothNumber  string   `json:"booth_number"`
	Size         string   `json:"size"`
	Price        float64  `json:"price"`
	Location     string   `json:"location"`
	Features     []string `json:"features"`
	FloorPlan    string   `json:"floor_plan"`
	Status       string   `json:"status"`
	ExhibitorID  string   `json:"exhibitor_id,omitempty"`
	CompanyName  string   `json:"company_name,omitempty"`
	ContactEmail string   `json:"contact_email,omitempty"`
	gDto.Metadata
}

func (r *BoothResponse) FromModel(model model.Booth) {
	r.ID = model.ID
	r.ExpoID = model.ExpoID
	r.BoothNumber = model.BoothNumber
	r.Size = model.Size
	r.Price = model.Price
	r.Location = model.Location
	r.Features = model.Features
	r.FloorPlan = model.FloorPlan
	r.Status = model.Status
	r.ExhibitorID = model.ExhibitorID
	r.CompanyName = model.CompanyName
	r.ContactEmail = model.ContactEmail
	r.Metadata.FromModel(model.Metadata)
}

type GetBoothsResponse struct {
	Booths    []BoothResponse `json:"booths"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetBoothsResponse) FromModels(models []model.Booth, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Booths = make([]BoothResponse, len(models))
	for i, mod := range models {
		r.Booths[i].FromModel(mod)
	}
}
