package websocket

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/datanaut/naqo/internal/ports"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// planEventsTopic is the event bus topic carrying plan lifecycle events.
const planEventsTopic = "plan.events"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler streams plan lifecycle events to WebSocket clients.
type Handler struct {
	eventBus ports.EventBus
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler.
func NewHandler(eventBus ports.EventBus, logger *zap.Logger) *Handler {
	return &Handler{
		eventBus: eventBus,
		logger:   logger,
	}
}

// HandlePlanStream streams the events of one plan to the client. The stream
// closes after a terminal plan event or when either side disconnects.
func (h *Handler) HandlePlanStream(c *gin.Context) {
	planID := c.Param("id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	h.logger.Info("WebSocket connection established",
		zap.String("plan_id", planID),
		zap.String("client", c.ClientIP()))

	eventChan := make(chan ports.Event, 10)
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	if err := h.subscribe(ctx, eventChan); err != nil {
		h.logger.Error("failed to subscribe to plan events", zap.Error(err))
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-eventChan:
			if event.PlanID != planID {
				continue
			}

			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to marshal event", zap.Error(err))
				continue
			}

			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Error("failed to write message", zap.Error(err))
				return
			}

			if isTerminal(event.Type) {
				h.logger.Info("plan stream finished",
					zap.String("plan_id", planID),
					zap.String("event_type", string(event.Type)))
				return
			}
		}
	}
}

// subscribe feeds plan events into the channel, dropping events when the
// client cannot keep up.
func (h *Handler) subscribe(ctx context.Context, ch chan<- ports.Event) error {
	return h.eventBus.Subscribe(ctx, planEventsTopic, func(ctx context.Context, event ports.Event) error {
		select {
		case ch <- event:
		case <-ctx.Done():
			return ctx.Err()
		default:
			h.logger.Warn("event channel full, dropping event",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)))
		}
		return nil
	})
}

// isTerminal reports whether the event ends a plan's stream.
func isTerminal(t ports.EventType) bool {
	return t == ports.EventPlanCompleted || t == ports.EventPlanFailed
}
