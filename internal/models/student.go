package models

import "time"

// StudentStatus is the gating state driven by the status engine.
type StudentStatus string

const (
	StatusOnTrack           StudentStatus = "on_track"
	StatusNeedsIntervention StudentStatus = "needs_intervention"
	StatusRemedial          StudentStatus = "remedial"
)

// Student represents a learner whose daily focus check-ins are tracked.
// Status is mutated only by the status engine; students are never deleted.
type Student struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Name      string        `gorm:"size:255;not null" json:"name"`
	Email     string        `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Status    StudentStatus `gorm:"size:32;not null;default:on_track" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
