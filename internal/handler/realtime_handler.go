package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/focus-mentor-api/internal/middleware"
	"github.com/noah-isme/focus-mentor-api/internal/service"
)

// RealtimeHandler wires the websocket upgrade for the status channel.
type RealtimeHandler struct {
	service service.RealtimeService
	logger  zerolog.Logger
}

// NewRealtimeHandler creates a realtime handler instance.
func NewRealtimeHandler(service service.RealtimeService, logger zerolog.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		service: service,
		logger:  logger.With().Str("component", "realtime_handler").Logger(),
	}
}

// Register binds the websocket route under the provided router.
func (h *RealtimeHandler) Register(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("correlation_id", middleware.GetCorrelationID(c))
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/ws", websocket.New(h.handleConnection))
}

// handleConnection joins the session to its declared student's group. A
// session without a student id stays connected but receives nothing; the
// client has to reconnect with the id to subscribe.
func (h *RealtimeHandler) handleConnection(conn *websocket.Conn) {
	studentID, joined := websocketStudentID(conn)

	opts := service.RealtimeConnectionOptions{
		StudentID:     studentID,
		Joined:        joined,
		CorrelationID: connLocalString(conn, "correlation_id"),
		Context:       context.Background(),
	}

	if joined {
		h.logger.Info().Uint("student_id", studentID).Msg("realtime session connected")
	} else {
		h.logger.Debug().Msg("realtime session connected without student id")
	}

	h.service.ServeConnection(conn, opts)

	if joined {
		h.logger.Info().Uint("student_id", studentID).Msg("realtime session disconnected")
	}
}

func websocketStudentID(conn *websocket.Conn) (uint, bool) {
	raw := strings.TrimSpace(conn.Query("student_id"))
	if raw == "" {
		return 0, false
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}

	return uint(id), true
}

func connLocalString(conn *websocket.Conn, key string) string {
	if value := conn.Locals(key); value != nil {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return ""
}
