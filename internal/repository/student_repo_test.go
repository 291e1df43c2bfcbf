package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/focus-mentor-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// one shared in-memory database per test so the connection pool sees the
	// same schema without leaking rows across tests
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Student{}, &models.DailyLog{}, &models.Intervention{}))
	return db
}

func TestStudentRepositoryUpsertByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	id, err := repo.UpsertByEmail(context.Background(), "Demo Student", "student@example.com")
	require.NoError(t, err)
	require.NotZero(t, id)

	again, err := repo.UpsertByEmail(context.Background(), "Renamed Student", "student@example.com")
	require.NoError(t, err)
	require.Equal(t, id, again, "conflicting email must resolve to the existing row")

	var student models.Student
	require.NoError(t, db.First(&student, id).Error)
	require.Equal(t, "Renamed Student", student.Name)
	require.Equal(t, models.StatusOnTrack, student.Status)
}

func TestStudentRepositoryUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	id, err := repo.UpsertByEmail(context.Background(), "Demo Student", "student@example.com")
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(context.Background(), id, models.StatusRemedial))

	student, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, models.StatusRemedial, student.Status)
}

func TestStudentRepositoryGetByIDMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	_, err := repo.GetByID(context.Background(), 999)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
