package models

import "time"

// InterventionStatus tracks the lifecycle of a remedial task.
type InterventionStatus string

const (
	InterventionPending   InterventionStatus = "pending"
	InterventionCompleted InterventionStatus = "completed"
)

// Intervention is a mentor-assigned remedial task. Completion transitions all
// pending rows for a student in bulk; rows are never physically deleted.
type Intervention struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	StudentID   uint               `gorm:"index;not null" json:"student_id"`
	Task        string             `gorm:"not null" json:"task"`
	Status      InterventionStatus `gorm:"size:16;not null;default:pending;index" json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	CompletedAt *time.Time         `json:"completed_at"`
}
