package service

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/focus-mentor-api/internal/dto"
	"github.com/noah-isme/focus-mentor-api/internal/models"
	"github.com/noah-isme/focus-mentor-api/internal/observability"
	"github.com/noah-isme/focus-mentor-api/internal/repository"
)

// Display statuses returned to the submitting client on check-in.
const (
	checkinStatusOnTrack = "On Track"
	checkinStatusReview  = "Pending Mentor Review"
)

const (
	defaultSeedName  = "Demo Student"
	defaultSeedEmail = "student@example.com"
)

// ErrStudentNotFound indicates the referenced student does not exist.
var ErrStudentNotFound = errors.New("student not found")

// StatusBroadcaster pushes state-change events to the sessions subscribed to
// a student's realtime group.
type StatusBroadcaster interface {
	Broadcast(studentID uint, event dto.StatusUpdateEvent)
}

// StatusService drives the student status state machine. Every decision reads
// and writes through the repositories; the store is the single source of truth.
type StatusService interface {
	RegisterStudent(ctx context.Context, req dto.SeedStudentRequest) (dto.SeedStudentResponse, error)
	RecordCheckin(ctx context.Context, req dto.CheckinRequest) (dto.CheckinResponse, error)
	AssignIntervention(ctx context.Context, req dto.AssignInterventionRequest) error
	CompleteInterventions(ctx context.Context, req dto.MarkCompleteRequest) error
	GetState(ctx context.Context, studentID uint) (dto.StudentStateResponse, error)
	GetPendingTask(ctx context.Context, studentID uint) (*string, error)
}

type statusService struct {
	students      repository.StudentRepository
	checkins      repository.CheckinRepository
	interventions repository.InterventionRepository
	notifier      ReviewNotifier
	broadcaster   StatusBroadcaster
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
	locks         *studentLocks
}

// studentLocks serializes mutating operations per student id so two racing
// commands for the same student cannot interleave their writes. The map only
// grows; one mutex per student seen is cheap at this scale.
type studentLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newStudentLocks() *studentLocks {
	return &studentLocks{locks: make(map[uint]*sync.Mutex)}
}

func (l *studentLocks) acquire(id uint) *sync.Mutex {
	l.mu.Lock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[id] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock
}

// NewStatusService constructs the status engine.
func NewStatusService(
	students repository.StudentRepository,
	checkins repository.CheckinRepository,
	interventions repository.InterventionRepository,
	notifier ReviewNotifier,
	broadcaster StatusBroadcaster,
	validate *validator.Validate,
	logger zerolog.Logger,
) StatusService {
	return &statusService{
		students:      students,
		checkins:      checkins,
		interventions: interventions,
		notifier:      notifier,
		broadcaster:   broadcaster,
		validator:     validate,
		logger:        logger.With().Str("component", "status_service").Logger(),
		tracer:        otel.Tracer("github.com/noah-isme/focus-mentor-api/internal/service/status"),
		locks:         newStudentLocks(),
	}
}

func (s *statusService) RegisterStudent(ctx context.Context, req dto.SeedStudentRequest) (dto.SeedStudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SeedStudentResponse{}, err
	}

	name := req.Name
	if name == "" {
		name = defaultSeedName
	}
	email := req.Email
	if email == "" {
		email = defaultSeedEmail
	}

	id, err := s.students.UpsertByEmail(ctx, name, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to upsert student")
		return dto.SeedStudentResponse{}, err
	}

	return dto.SeedStudentResponse{StudentID: id}, nil
}

// RecordCheckin appends the daily log and applies the promotion rule: a quiz
// score above 7 with more than 60 focus minutes keeps the student on track,
// anything else flags them for mentor review and notifies the webhook. The
// caller receives the new status synchronously; this path does not broadcast.
func (s *statusService) RecordCheckin(ctx context.Context, req dto.CheckinRequest) (dto.CheckinResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.CheckinResponse{}, err
	}

	lock := s.locks.acquire(req.StudentID)
	defer lock.Unlock()

	score := *req.QuizScore
	focus := *req.FocusMinutes

	ctx, span := s.tracer.Start(ctx, "status.checkin", trace.WithAttributes(
		attribute.Int("student_id", int(req.StudentID)),
		attribute.Int("quiz_score", score),
		attribute.Int("focus_minutes", focus),
	))
	defer span.End()

	status := models.StatusNeedsIntervention
	if score > 7 && focus > 60 {
		status = models.StatusOnTrack
	}

	log := models.DailyLog{StudentID: req.StudentID, QuizScore: score, FocusMinutes: focus}
	if err := s.checkins.Record(ctx, &log, status); err != nil {
		span.RecordError(err)
		s.logger.Error().Err(err).Uint("student_id", req.StudentID).Msg("failed to record check-in")
		return dto.CheckinResponse{}, err
	}

	if status == models.StatusOnTrack {
		observability.CheckinsTotal().WithLabelValues(string(models.StatusOnTrack)).Inc()
		return dto.CheckinResponse{Status: checkinStatusOnTrack}, nil
	}

	s.notifier.Notify(ctx, ReviewNotification{
		StudentID:    req.StudentID,
		QuizScore:    score,
		FocusMinutes: focus,
	})

	observability.CheckinsTotal().WithLabelValues(string(models.StatusNeedsIntervention)).Inc()
	s.logger.Info().
		Uint("student_id", req.StudentID).
		Int("quiz_score", score).
		Int("focus_minutes", focus).
		Msg("check-in flagged for mentor review")

	return dto.CheckinResponse{Status: checkinStatusReview}, nil
}

// AssignIntervention creates a pending task, moves the student to remedial and
// broadcasts the change. An already-pending task is neither rejected nor
// superseded; the current-task lookup resolves to the newest pending row.
func (s *statusService) AssignIntervention(ctx context.Context, req dto.AssignInterventionRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	lock := s.locks.acquire(req.StudentID)
	defer lock.Unlock()

	ctx, span := s.tracer.Start(ctx, "status.assign_intervention", trace.WithAttributes(
		attribute.Int("student_id", int(req.StudentID)),
	))
	defer span.End()

	intervention := models.Intervention{
		StudentID: req.StudentID,
		Task:      req.Task,
		Status:    models.InterventionPending,
	}
	if err := s.interventions.Create(ctx, &intervention); err != nil {
		span.RecordError(err)
		s.logger.Error().Err(err).Uint("student_id", req.StudentID).Msg("failed to create intervention")
		return err
	}

	if err := s.students.UpdateStatus(ctx, req.StudentID, models.StatusRemedial); err != nil {
		span.RecordError(err)
		s.logger.Error().Err(err).Uint("student_id", req.StudentID).Msg("failed to set remedial status")
		return err
	}

	task := req.Task
	s.broadcaster.Broadcast(req.StudentID, dto.StatusUpdateEvent{
		Event:  dto.EventStatusUpdate,
		Status: string(models.StatusRemedial),
		Task:   &task,
	})

	observability.InterventionsTotal().WithLabelValues("assigned").Inc()
	s.logger.Info().Uint("student_id", req.StudentID).Msg("intervention assigned")

	return nil
}

// CompleteInterventions transitions every pending task for the student to
// completed, restores on_track and broadcasts. Idempotent: with nothing
// pending the status write and broadcast still happen.
func (s *statusService) CompleteInterventions(ctx context.Context, req dto.MarkCompleteRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	lock := s.locks.acquire(req.StudentID)
	defer lock.Unlock()

	ctx, span := s.tracer.Start(ctx, "status.complete_interventions", trace.WithAttributes(
		attribute.Int("student_id", int(req.StudentID)),
	))
	defer span.End()

	completed, err := s.interventions.CompletePending(ctx, req.StudentID)
	if err != nil {
		span.RecordError(err)
		s.logger.Error().Err(err).Uint("student_id", req.StudentID).Msg("failed to complete interventions")
		return err
	}

	if err := s.students.UpdateStatus(ctx, req.StudentID, models.StatusOnTrack); err != nil {
		span.RecordError(err)
		s.logger.Error().Err(err).Uint("student_id", req.StudentID).Msg("failed to restore on_track status")
		return err
	}

	s.broadcaster.Broadcast(req.StudentID, dto.StatusUpdateEvent{
		Event:  dto.EventStatusUpdate,
		Status: string(models.StatusOnTrack),
		Task:   nil,
	})

	observability.InterventionsTotal().WithLabelValues("completed").Inc()
	s.logger.Info().Uint("student_id", req.StudentID).Int64("completed", completed).Msg("interventions completed")

	return nil
}

func (s *statusService) GetState(ctx context.Context, studentID uint) (dto.StudentStateResponse, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentStateResponse{}, ErrStudentNotFound
		}
		return dto.StudentStateResponse{}, err
	}

	task, err := s.interventions.LatestPendingTask(ctx, studentID)
	if err != nil {
		return dto.StudentStateResponse{}, err
	}

	return dto.StudentStateResponse{
		ID:     student.ID,
		Name:   student.Name,
		Status: string(student.Status),
		Task:   task,
	}, nil
}

func (s *statusService) GetPendingTask(ctx context.Context, studentID uint) (*string, error) {
	return s.interventions.LatestPendingTask(ctx, studentID)
}
