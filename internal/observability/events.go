package observability

// EventEnvelope is the outer shape of every published event.
type EventEnvelope struct {
	EventType string      `json:"event_type"`
	EventName string      `json:"event_name"`
	Payload   interface{} `json:"payload"`
}

// WSEvent describes a websocket lifecycle event for the event stream.
type WSEvent struct {
	ConnID     string `json:"conn_id"`
	UserID     string `json:"user_id,omitempty"`
	Event      string `json:"event"`
	DurationMS int64  `json:"duration_ms"`
	Reason     string `json:"reason,omitempty"`
	IP         string `json:"ip,omitempty"`
}

// BuildHeaders assembles AMQP headers from correlation ids, skipping
// empty values.
func BuildHeaders(requestID, traceID string) map[string]string {
	headers := map[string]string{}
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if traceID != "" {
		headers["trace_id"] = traceID
	}
	return headers
}
