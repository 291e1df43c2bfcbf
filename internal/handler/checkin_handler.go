package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/focus-mentor-api/internal/dto"
	"github.com/noah-isme/focus-mentor-api/internal/service"
	"github.com/noah-isme/focus-mentor-api/internal/utils"
)

// CheckinHandler accepts daily focus check-ins.
type CheckinHandler struct {
	service service.StatusService
	logger  zerolog.Logger
}

// NewCheckinHandler constructs a check-in handler.
func NewCheckinHandler(service service.StatusService, logger zerolog.Logger) *CheckinHandler {
	return &CheckinHandler{
		service: service,
		logger:  logger.With().Str("component", "checkin_handler").Logger(),
	}
}

// Register wires the check-in route.
func (h *CheckinHandler) Register(router fiber.Router) {
	router.Post("/daily-checkin", h.checkin)
}

func (h *CheckinHandler) checkin(c *fiber.Ctx) error {
	var payload dto.CheckinRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.RecordCheckin(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Uint("student_id", payload.StudentID).Msg("failed to record check-in")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to record check-in")
	}

	return utils.SendSuccess(c, "check-in recorded", response)
}
