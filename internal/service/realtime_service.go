package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/focus-mentor-api/internal/dto"
	"github.com/noah-isme/focus-mentor-api/internal/observability"
)

const (
	statusSendBufferSize  = 8
	statusCachePrefix     = "focus:status:last"
	defaultStatusCacheTTL = 30 * time.Minute
)

// RealtimeConnectionOptions wraps metadata extracted during the HTTP upgrade.
// Joined is false when the session declared no student id; such a session
// stays connected but belongs to no group and receives nothing.
type RealtimeConnectionOptions struct {
	StudentID     uint
	Joined        bool
	CorrelationID string
	Context       context.Context
}

// RealtimeService routes status update events to the sessions currently
// joined to a student's group. Delivery is best-effort and at-most-once;
// clients reconcile missed events through a state re-fetch.
type RealtimeService interface {
	ServeConnection(conn *websocket.Conn, opts RealtimeConnectionOptions)
	Broadcast(studentID uint, event dto.StatusUpdateEvent)
}

type realtimeService struct {
	redis    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	hub      *statusHub
}

// statusHub keeps track of active sessions per student id. Its state is
// in-process only; sessions must re-declare their student id after a restart.
type statusHub struct {
	mu     sync.RWMutex
	groups map[uint]map[*statusClient]struct{}
	log    zerolog.Logger
}

type statusClient struct {
	conn      *websocket.Conn
	send      chan dto.StatusUpdateEvent
	studentID uint
	joined    bool
	service   *realtimeService
	closed    chan struct{}
	once      sync.Once
}

// NewRealtimeService constructs the realtime channel. The redis client is
// optional; when present the last broadcast event per student is cached and
// replayed to freshly joined sessions.
func NewRealtimeService(redisClient *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) RealtimeService {
	if cacheTTL <= 0 {
		cacheTTL = defaultStatusCacheTTL
	}

	return &realtimeService{
		redis:    redisClient,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "realtime_service").Logger(),
		hub: &statusHub{
			groups: make(map[uint]map[*statusClient]struct{}),
			log:    logger.With().Str("component", "status_hub").Logger(),
		},
	}
}

func (s *realtimeService) ServeConnection(conn *websocket.Conn, opts RealtimeConnectionOptions) {
	baseCtx := opts.Context
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	client := &statusClient{
		conn:      conn,
		send:      make(chan dto.StatusUpdateEvent, statusSendBufferSize),
		studentID: opts.StudentID,
		joined:    opts.Joined,
		service:   s,
		closed:    make(chan struct{}),
	}

	if client.joined {
		s.hub.join(client)
		observability.RealtimeSessions().Inc()

		if last := s.fetchLastEvent(baseCtx, opts.StudentID); last != nil {
			select {
			case client.send <- *last:
			default:
			}
		}
	}

	go client.writer()
	client.reader()
}

// Broadcast delivers the event to every session currently joined to the
// student's group. Events for one student go out in invocation order; there is
// no acknowledgment, retry, or persistence of missed events.
func (s *realtimeService) Broadcast(studentID uint, event dto.StatusUpdateEvent) {
	s.hub.broadcast(studentID, event)
	s.cacheLastEvent(context.Background(), studentID, event)
	observability.StatusBroadcasts().Inc()
}

func (s *realtimeService) cacheLastEvent(ctx context.Context, studentID uint, event dto.StatusUpdateEvent) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal status event for cache")
		return
	}

	key := fmt.Sprintf("%s:%d", statusCachePrefix, studentID)
	if err := s.redis.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache status event")
	}
}

func (s *realtimeService) fetchLastEvent(ctx context.Context, studentID uint) *dto.StatusUpdateEvent {
	if s.redis == nil {
		return nil
	}

	key := fmt.Sprintf("%s:%d", statusCachePrefix, studentID)
	result, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return nil
	}

	var event dto.StatusUpdateEvent
	if err := json.Unmarshal([]byte(result), &event); err != nil {
		s.logger.Warn().Err(err).Msg("failed to unmarshal cached status event")
		return nil
	}

	return &event
}

func (h *statusHub) join(client *statusClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.groups[client.studentID]; !exists {
		h.groups[client.studentID] = make(map[*statusClient]struct{})
	}
	h.groups[client.studentID][client] = struct{}{}
	h.log.Debug().Uint("student_id", client.studentID).Msg("realtime session joined")
}

// leave is idempotent: a session already removed, or one that never joined,
// is a no-op.
func (h *statusHub) leave(client *statusClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.groups[client.studentID]
	if !ok {
		return
	}
	if _, present := clients[client]; !present {
		return
	}

	delete(clients, client)
	if len(clients) == 0 {
		delete(h.groups, client.studentID)
	}
	h.log.Debug().Uint("student_id", client.studentID).Msg("realtime session left")
}

func (h *statusHub) broadcast(studentID uint, event dto.StatusUpdateEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.groups[studentID] {
		select {
		case client.send <- event:
		default:
			h.log.Warn().Uint("student_id", studentID).Msg("dropping status event for slow session")
		}
	}
}

// reader drains the connection until the client goes away. Clients send
// nothing meaningful over this channel; it exists for server push only.
func (c *statusClient) reader() {
	defer c.close()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *statusClient) writer() {
	defer c.close()

	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				c.service.logger.Debug().Err(err).Msg("status write loop terminated")
				return
			}
		case <-time.After(30 * time.Second):
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				c.service.logger.Debug().Err(err).Msg("status ping failed")
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (c *statusClient) close() {
	c.once.Do(func() {
		close(c.closed)
		if c.joined {
			c.service.hub.leave(c)
			observability.RealtimeSessions().Dec()
		}
		_ = c.conn.Close()
	})
}
