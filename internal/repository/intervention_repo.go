package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/focus-mentor-api/internal/models"
)

// InterventionRepository exposes persistence helpers for remedial tasks.
type InterventionRepository interface {
	Create(ctx context.Context, intervention *models.Intervention) error
	CompletePending(ctx context.Context, studentID uint) (int64, error)
	LatestPendingTask(ctx context.Context, studentID uint) (*string, error)
}

type interventionRepository struct {
	db *gorm.DB
}

// NewInterventionRepository constructs the repository implementation.
func NewInterventionRepository(db *gorm.DB) InterventionRepository {
	return &interventionRepository{db: db}
}

func (r *interventionRepository) Create(ctx context.Context, intervention *models.Intervention) error {
	return r.db.WithContext(ctx).Create(intervention).Error
}

// CompletePending transitions every pending intervention for the student to
// completed, stamping the completion time. Returns the number of rows touched.
func (r *interventionRepository) CompletePending(ctx context.Context, studentID uint) (int64, error) {
	now := time.Now()
	tx := r.db.WithContext(ctx).
		Model(&models.Intervention{}).
		Where("student_id = ? AND status = ?", studentID, models.InterventionPending).
		Updates(map[string]interface{}{
			"status":       models.InterventionCompleted,
			"completed_at": now,
		})

	return tx.RowsAffected, tx.Error
}

// LatestPendingTask resolves the current task projection: the task text of the
// most recently created pending intervention, or nil when none exists. Older
// pending rows become unreachable through this lookup, never erased.
func (r *interventionRepository) LatestPendingTask(ctx context.Context, studentID uint) (*string, error) {
	var intervention models.Intervention
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND status = ?", studentID, models.InterventionPending).
		Order("created_at DESC, id DESC").
		First(&intervention).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	task := intervention.Task
	return &task, nil
}
