package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"expohub/internal/domains/appointment/model"
	"expohub/internal/domains/appointment/service"
)

func TestFindConflict(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	existing := []model.Appointment{
		{
			ID:              "appt-1",
			StartTime:       base,
			DurationMinutes: 60,
			Status:          model.StatusConfirmed,
		},
		{
			ID:              "appt-cancelled",
			StartTime:       base.Add(2 * time.Hour),
			DurationMinutes: 60,
			Status:          model.StatusCancelled,
		},
	}

	tests := []struct {
		name      string
		start     time.Time
		duration  int
		excludeID string
		wantID    string
	}{
		{
			name:     "identical interval conflicts",
			start:    base,
			duration: 60,
			wantID:   "appt-1",
		},
		{
			name:     "partial overlap at the front conflicts",
			start:    base.Add(-30 * time.Minute),
			duration: 60,
			wantID:   "appt-1",
		},
		{
			name:     "partial overlap at the back conflicts",
			start:    base.Add(30 * time.Minute),
			duration: 60,
			wantID:   "appt-1",
		},
		{
			name:     "containing interval conflicts",
			start:    base.Add(-30 * time.Minute),
			duration: 120,
			wantID:   "appt-1",
		},
		{
			name:     "contained interval conflicts",
			start:    base.Add(15 * time.Minute),
			duration: 15,
			wantID:   "appt-1",
		},
		{
			name:     "back-to-back after is free",
			start:    base.Add(time.Hour),
			duration: 60,
			wantID:   "",
		},
		{
			name:     "back-to-back before is free",
			start:    base.Add(-time.Hour),
			duration: 60,
			wantID:   "",
		},
		{
			name:     "cancelled interval does not block",
			start:    base.Add(2 * time.Hour),
			duration: 60,
			wantID:   "",
		},
		{
			name:      "excluded appointment does not block itself",
			start:     base,
			duration:  60,
			excludeID: "appt-1",
			wantID:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.FindConflict(existing, tt.start, tt.duration, tt.excludeID)

			if tt.wantID == "" {
				assert.Nil(t, got)
			} else {
				if assert.NotNil(t, got) {
					assert.Equal(t, tt.wantID, got.ID)
				}
			}
		})
	}
}
