package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"expohub/shared/validator"
)

type createAppointmentPayload struct {
	ExhibitorID     string `json:"exhibitor_id"     validate:"required,uuid"`
	StartTime       string `json:"start_time"       validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name: "valid payload",
			body: `{"exhibitor_id":"1f1e9a3c-8a3b-4a1e-9d3f-2b1a6c4d5e6f","start_time":"2026-03-01T10:00:00Z","duration_minutes":30}`,
		},
		{
			name:    "missing exhibitor",
			body:    `{"start_time":"2026-03-01T10:00:00Z","duration_minutes":30}`,
			wantErr: "ExhibitorID is required",
		},
		{
			name:    "zero duration",
			body:    `{"exhibitor_id":"1f1e9a3c-8a3b-4a1e-9d3f-2b1a6c4d5e6f","start_time":"2026-03-01T10:00:00Z","duration_minutes":0}`,
			wantErr: "DurationMinutes is required",
		},
		{
			name:    "negative duration",
			body:    `{"exhibitor_id":"1f1e9a3c-8a3b-4a1e-9d3f-2b1a6c4d5e6f","start_time":"2026-03-01T10:00:00Z","duration_minutes":-15}`,
			wantErr: "DurationMinutes must be greater than 0",
		},
		{
			name:    "malformed json",
			body:    `{"exhibitor_id":`,
			wantErr: "failed to decode request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := createAppointmentPayload{}
			err := validator.Validate(strings.NewReader(tt.body), &payload)

			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateStruct_Mimetypes(t *testing.T) {
	type payload struct {
		FloorPlan string `validate:"omitempty,mimetypes=image/png image/jpeg"`
	}

	valid := payload{FloorPlan: "data:image/png;base64,iVBORw0KGgo="}
	assert.NoError(t, validator.ValidateStruct(&valid))

	invalid := payload{FloorPlan: "data:application/zip;base64,UEsDBA=="}
	assert.Error(t, validator.ValidateStruct(&invalid))
}
