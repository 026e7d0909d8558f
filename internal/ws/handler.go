package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"comall/internal/observability"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades HTTP requests to chat websocket connections.
type Handler struct {
	presence *Presence
	router   *Router
}

// NewHandler constructs a Handler.
func NewHandler(presence *Presence, router *Router) *Handler {
	return &Handler{presence: presence, router: router}
}

// Handle upgrades the connection and starts the client pumps. Identity
// is bound later by the peer's register frame, so routing to this user
// only works once that frame arrives.
func (h *Handler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("comall/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := &Client{
		connID:   uuid.NewString(),
		conn:     conn,
		send:     make(chan []byte, 256),
		presence: h.presence,
		router:   h.router,
	}

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	_ = observability.PublishEvent(ctx, "ws_events.chats", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_connect",
		Payload: observability.WSEvent{
			ConnID: client.connID,
			Event:  "ws_connect",
			IP:     observability.IPFromRequest(c.Request),
		},
	}, observability.BuildHeaders(observability.RequestIDFromRequest(c.Request), span.SpanContext().TraceID().String()))

	connectedAt := time.Now()
	go client.WritePump()
	go func() {
		client.ReadPump()
		_ = observability.PublishEvent(ctx, "ws_events.chats", observability.EventEnvelope{
			EventType: "ws_events",
			EventName: "ws_disconnect",
			Payload: observability.WSEvent{
				ConnID:     client.connID,
				UserID:     client.userID,
				Event:      "ws_disconnect",
				DurationMS: time.Since(connectedAt).Milliseconds(),
			},
		}, observability.BuildHeaders(observability.RequestIDFromRequest(c.Request), span.SpanContext().TraceID().String()))
	}()
}
