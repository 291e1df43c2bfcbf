package dto

// CheckinRequest carries one daily focus check-in submission.
type CheckinRequest struct {
	StudentID    uint `json:"student_id" validate:"required"`
	QuizScore    *int `json:"quiz_score" validate:"required,gte=0,lte=10"`
	FocusMinutes *int `json:"focus_minutes" validate:"required,gte=0"`
}

// CheckinResponse carries the display status returned to the submitting client.
type CheckinResponse struct {
	Status string `json:"status"`
}
