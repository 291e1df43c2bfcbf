package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/focus-mentor-api/internal/models"
)

// CheckinRepository persists a check-in observation together with the status
// it produced. Both writes happen in one transaction so a crash cannot leave
// a daily log without its matching status update.
type CheckinRepository interface {
	Record(ctx context.Context, log *models.DailyLog, status models.StudentStatus) error
}

type checkinRepository struct {
	db *gorm.DB
}

// NewCheckinRepository constructs a check-in repository.
func NewCheckinRepository(db *gorm.DB) CheckinRepository {
	return &checkinRepository{db: db}
}

func (r *checkinRepository) Record(ctx context.Context, log *models.DailyLog, status models.StudentStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(log).Error; err != nil {
			return err
		}

		return tx.Model(&models.Student{}).
			Where("id = ?", log.StudentID).
			Update("status", status).Error
	})
}
