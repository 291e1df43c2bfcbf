package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/focus-mentor-api/internal/dto"
	"github.com/noah-isme/focus-mentor-api/internal/service"
	"github.com/noah-isme/focus-mentor-api/internal/utils"
)

// InterventionHandler exposes the intervention lifecycle commands.
type InterventionHandler struct {
	service service.StatusService
	logger  zerolog.Logger
}

// NewInterventionHandler constructs an intervention handler.
func NewInterventionHandler(service service.StatusService, logger zerolog.Logger) *InterventionHandler {
	return &InterventionHandler{
		service: service,
		logger:  logger.With().Str("component", "intervention_handler").Logger(),
	}
}

// Register wires intervention routes.
func (h *InterventionHandler) Register(router fiber.Router) {
	router.Post("/assign-intervention", h.assign)
	router.Post("/mark-complete", h.complete)
}

func (h *InterventionHandler) assign(c *fiber.Ctx) error {
	var payload dto.AssignInterventionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.AssignIntervention(c.Context(), payload); err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Uint("student_id", payload.StudentID).Msg("failed to assign intervention")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to assign intervention")
	}

	return utils.SendSuccess(c, "Intervention assigned & Client Notified", nil)
}

func (h *InterventionHandler) complete(c *fiber.Ctx) error {
	var payload dto.MarkCompleteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.CompleteInterventions(c.Context(), payload); err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Uint("student_id", payload.StudentID).Msg("failed to complete interventions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to complete interventions")
	}

	return utils.SendSuccess(c, "Returned to normal", nil)
}
