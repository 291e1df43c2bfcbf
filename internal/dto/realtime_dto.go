package dto

// EventStatusUpdate names the event pushed whenever a student's status changes
// through the intervention lifecycle.
const EventStatusUpdate = "status_update"

// StatusUpdateEvent is delivered to every session joined to a student's group.
// Task is null when the student returns to on_track.
type StatusUpdateEvent struct {
	Event  string  `json:"event"`
	Status string  `json:"status"`
	Task   *string `json:"task"`
}
