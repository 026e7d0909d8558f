package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"comall/internal/mocks"
	"comall/internal/telemetry"
)

func TestAuditEmitterBuildsEnvelope(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := telemetry.NewAuditEmitter(publisher, "audit.comall-api", "comall-api", "test")

	userID := "u1"
	publisher.On("Publish", mock.Anything, "audit.comall-api", mock.MatchedBy(func(event any) bool {
		envelope, ok := event.(telemetry.AuditEnvelope)
		if !ok {
			return false
		}
		return envelope.EventType == "audit_log" &&
			envelope.Service == "comall-api" &&
			envelope.Environment == "test" &&
			envelope.RequestID == "req-1" &&
			envelope.UserID != nil && *envelope.UserID == "u1" &&
			envelope.Payload.Event == "user_signup"
	})).Return(nil).Once()

	emitter.Emit(context.Background(), "user_signup", "user registered: alice", "req-1", &userID)
	publisher.AssertExpectations(t)
}

func TestAuditEmitterNilIsNoop(t *testing.T) {
	var emitter *telemetry.AuditEmitter
	require.NotPanics(t, func() {
		emitter.Emit(context.Background(), "user_signup", "text", "req-1", nil)
	})
}
