package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/focus-mentor-api/internal/dto"
	"github.com/noah-isme/focus-mentor-api/internal/handler"
)

type mockStatusService struct {
	seedResp    dto.SeedStudentResponse
	checkinResp dto.CheckinResponse
	stateResp   dto.StudentStateResponse
	err         error

	lastCheckin    dto.CheckinRequest
	lastAssign     dto.AssignInterventionRequest
	lastComplete   dto.MarkCompleteRequest
	stateCalls     int
	assignCalled   bool
	completeCalled bool
}

func (m *mockStatusService) RegisterStudent(_ context.Context, _ dto.SeedStudentRequest) (dto.SeedStudentResponse, error) {
	if m.err != nil {
		return dto.SeedStudentResponse{}, m.err
	}
	return m.seedResp, nil
}

func (m *mockStatusService) RecordCheckin(_ context.Context, req dto.CheckinRequest) (dto.CheckinResponse, error) {
	m.lastCheckin = req
	if m.err != nil {
		return dto.CheckinResponse{}, m.err
	}
	return m.checkinResp, nil
}

func (m *mockStatusService) AssignIntervention(_ context.Context, req dto.AssignInterventionRequest) error {
	m.assignCalled = true
	m.lastAssign = req
	return m.err
}

func (m *mockStatusService) CompleteInterventions(_ context.Context, req dto.MarkCompleteRequest) error {
	m.completeCalled = true
	m.lastComplete = req
	return m.err
}

func (m *mockStatusService) GetState(_ context.Context, _ uint) (dto.StudentStateResponse, error) {
	m.stateCalls++
	if m.err != nil {
		return dto.StudentStateResponse{}, m.err
	}
	return m.stateResp, nil
}

func (m *mockStatusService) GetPendingTask(_ context.Context, _ uint) (*string, error) {
	return nil, m.err
}

// fieldValidationError manufactures a genuine validator error for mocks.
func fieldValidationError(t *testing.T) error {
	t.Helper()
	err := validator.New().Struct(struct {
		Field string `validate:"required"`
	}{})
	require.Error(t, err)
	return err
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out))
}

func TestCheckinHandlerSuccess(t *testing.T) {
	svc := &mockStatusService{checkinResp: dto.CheckinResponse{Status: "On Track"}}
	app := fiber.New()
	handler.NewCheckinHandler(svc, zerolog.Nop()).Register(app)

	score := 8
	focus := 70
	resp := postJSON(t, app, "/daily-checkin", dto.CheckinRequest{StudentID: 1, QuizScore: &score, FocusMinutes: &focus})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool                `json:"success"`
		Data    dto.CheckinResponse `json:"data"`
	}
	decodeEnvelope(t, resp, &envelope)
	require.True(t, envelope.Success)
	require.Equal(t, "On Track", envelope.Data.Status)
	require.Equal(t, uint(1), svc.lastCheckin.StudentID)
}

func TestCheckinHandlerMalformedBody(t *testing.T) {
	svc := &mockStatusService{}
	app := fiber.New()
	handler.NewCheckinHandler(svc, zerolog.Nop()).Register(app)

	req := httptest.NewRequest(http.MethodPost, "/daily-checkin", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Zero(t, svc.lastCheckin.StudentID)
}

func TestCheckinHandlerValidationError(t *testing.T) {
	svc := &mockStatusService{}
	app := fiber.New()
	handler.NewCheckinHandler(svc, zerolog.Nop()).Register(app)
	svc.err = fieldValidationError(t)

	score := 11
	focus := 10
	resp := postJSON(t, app, "/daily-checkin", dto.CheckinRequest{StudentID: 1, QuizScore: &score, FocusMinutes: &focus})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCheckinHandlerStoreError(t *testing.T) {
	svc := &mockStatusService{err: errors.New("connection reset")}
	app := fiber.New()
	handler.NewCheckinHandler(svc, zerolog.Nop()).Register(app)

	score := 5
	focus := 30
	resp := postJSON(t, app, "/daily-checkin", dto.CheckinRequest{StudentID: 1, QuizScore: &score, FocusMinutes: &focus})
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
