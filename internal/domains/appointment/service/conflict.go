package service

import (
	"time"

	"expohub/internal/domains/appointment/model"
)

// FindConflict returns the first active appointment whose half-open interval
// overlaps [start, start+duration), or nil when the slot is free. Two
// intervals [a0,a1) and [b0,b1) overlap iff a0 < b1 && b0 < a1, so
// back-to-back appointments never conflict. excludeID skips the appointment
// being rescheduled.
func FindConflict(existing []model.Appointment, start time.Time, durationMinutes int, excludeID string) *model.Appointment {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	for i := range existing {
		appt := &existing[i]

		if appt.ID == excludeID || !appt.IsActive() {
			continue
		}

		if start.Before(appt.EndTime()) && appt.StartTime.Before(end) {
			return appt
		}
	}

	return nil
}
