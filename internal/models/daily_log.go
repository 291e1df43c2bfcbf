package models

import "time"

// DailyLog is one immutable check-in observation. Rows are append-only.
type DailyLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	StudentID    uint      `gorm:"index;not null" json:"student_id"`
	QuizScore    int       `gorm:"not null" json:"quiz_score"`
	FocusMinutes int       `gorm:"not null" json:"focus_minutes"`
	CreatedAt    time.Time `json:"created_at"`
}
