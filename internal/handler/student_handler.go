package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/focus-mentor-api/internal/dto"
	"github.com/noah-isme/focus-mentor-api/internal/service"
	"github.com/noah-isme/focus-mentor-api/internal/utils"
)

// StudentHandler exposes student registration and the state read projection.
type StudentHandler struct {
	service service.StatusService
	logger  zerolog.Logger
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(service service.StatusService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register wires student routes.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Post("/seed-student", h.seed)
	router.Get("/student/:id/state", h.state)
}

func (h *StudentHandler) seed(c *fiber.Ctx) error {
	var payload dto.SeedStudentRequest
	// an absent body seeds the default demo student
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		}
	}

	response, err := h.service.RegisterStudent(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("failed to seed student")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to seed student")
	}

	return utils.SendSuccess(c, "student seeded", response)
}

// state validates the id before any store query is issued.
func (h *StudentHandler) state(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	state, err := h.service.GetState(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		h.logger.Error().Err(err).Int("student_id", id).Msg("failed to read student state")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to read student state")
	}

	return utils.SendSuccess(c, "student state", state)
}
