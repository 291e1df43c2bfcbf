package dto

// AssignInterventionRequest asks for a remedial task to be assigned to a student.
type AssignInterventionRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Task      string `json:"task" validate:"required,min=3"`
}

// MarkCompleteRequest marks every pending intervention for a student as done.
type MarkCompleteRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
}
