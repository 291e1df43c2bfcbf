package dto

// SeedStudentRequest registers or updates a demo student by email.
type SeedStudentRequest struct {
	Name  string `json:"name" validate:"omitempty,max=255"`
	Email string `json:"email" validate:"omitempty,email"`
}

// SeedStudentResponse returns the identifier of the upserted student.
type SeedStudentResponse struct {
	StudentID uint `json:"student_id"`
}

// StudentStateResponse is the canonical read-side projection of a student:
// current status plus the most recently assigned pending task, if any.
type StudentStateResponse struct {
	ID     uint    `json:"id"`
	Name   string  `json:"name"`
	Status string  `json:"status"`
	Task   *string `json:"task"`
}
