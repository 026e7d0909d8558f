package ws

import (
	"encoding/json"
	"log"

	"comall/internal/observability"
)

// Event is the frame shape exchanged with clients.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// ChatPayload is a client's outbound chat frame.
type ChatPayload struct {
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId"`
	Content    string `json:"content"`
}

// Delivery is what the recipient receives.
type Delivery struct {
	From    string `json:"from"`
	Content string `json:"content"`
}

// Router delivers chat messages to the recipient's current connection.
// Delivery is best-effort: an offline recipient or a stalled connection
// drops the message without surfacing an error to the sender. Callers
// wanting durable delivery would substitute this implementation.
type Router struct {
	presence *Presence
}

// NewRouter builds a Router over the given registry.
func NewRouter(presence *Presence) *Router {
	return &Router{presence: presence}
}

// Route sends content to the recipient if present. Reports whether the
// message was handed to a connection.
func (r *Router) Route(fromUserID, toUserID, content string) bool {
	client := r.presence.Lookup(toUserID)
	if client == nil {
		observability.IncMessageRouted("dropped")
		return false
	}

	payload, err := json.Marshal(Event{Event: "chat", Data: Delivery{From: fromUserID, Content: content}})
	if err != nil {
		observability.IncMessageRouted("dropped")
		return false
	}

	select {
	case client.send <- payload:
		observability.IncMessageRouted("delivered")
		return true
	default:
		// Send buffer full: the connection is stalled. Drop the
		// message rather than block the routing path.
		log.Printf("dropping message for user %s: send buffer full", toUserID)
		observability.IncMessageRouted("dropped")
		return false
	}
}
