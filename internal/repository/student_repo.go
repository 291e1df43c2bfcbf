package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/focus-mentor-api/internal/models"
)

// StudentRepository provides access to student records.
type StudentRepository interface {
	GetByID(ctx context.Context, id uint) (models.Student, error)
	UpsertByEmail(ctx context.Context, name, email string) (uint, error)
	UpdateStatus(ctx context.Context, id uint, status models.StudentStatus) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

// UpsertByEmail registers a student, or updates the name of the existing row
// when the email is already taken, and returns the row's identifier.
func (r *studentRepository) UpsertByEmail(ctx context.Context, name, email string) (uint, error) {
	student := models.Student{Name: name, Email: email, Status: models.StatusOnTrack}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&student).Error
	if err != nil {
		return 0, err
	}

	// Some drivers do not report the conflicting row's id back on upsert.
	if student.ID == 0 {
		if err := r.db.WithContext(ctx).Where("email = ?", email).First(&student).Error; err != nil {
			return 0, err
		}
	}

	return student.ID, nil
}

func (r *studentRepository) UpdateStatus(ctx context.Context, id uint, status models.StudentStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		Update("status", status).Error
}
