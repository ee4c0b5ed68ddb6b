package events

import "fmt"

const (
	AppointmentCreated     = "appointment.created"
	AppointmentRescheduled = "appointment.rescheduled"
	AppointmentConfirmed   = "appointment.confirmed"
	AppointmentCancelled   = "appointment.cancelled"

	BoothAssigned   = "booth.assigned"
	BoothUnassigned = "booth.unassigned"
)

// Notification describes one in-app notification to dispatch alongside the
// event, addressed to a single user.
type Notification struct {
	UserID    string
	Title     string
	Message   string
	Data      map[string]any
	SendEmail bool
}

// Event is the unit handed to the Emitter after a reservation mutation
// commits. Payload is what realtime subscribers and the event stream see;
// Notify lists the users who get a durable notification for it, and
// Broadcast lists additional users whose realtime channels receive the
// event without one.
type Event struct {
	Name      string
	ExpoID    string
	Payload   any
	Notify    []Notification
	Broadcast []string
}

// UserChannel is the realtime subject scoped to a single user.
func UserChannel(userID string) string {
	return fmt.Sprintf("user.%s", userID)
}

// ExpoChannel is the realtime subject shared by everyone watching an expo.
func ExpoChannel(expoID string) string {
	return fmt.Sprintf("expo.%s", expoID)
}
