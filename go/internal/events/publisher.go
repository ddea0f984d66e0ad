package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Event is one notification about a state change
type Event struct {
	ID        uuid.UUID       `json:"eventId"`
	Type      string          `json:"eventType"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Publisher delivers events to a stream
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Bus builds events and hands them to a Publisher. Publishing is
// best-effort: failures are logged and never reach the caller.
type Bus struct {
	publisher Publisher
	clock     clockwork.Clock
}

// NewBus creates a Bus over publisher
func NewBus(publisher Publisher, clock clockwork.Clock) *Bus {
	return &Bus{
		publisher: publisher,
		clock:     clock,
	}
}

// Emit publishes payload as an event of eventType
func (b *Bus) Emit(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal event payload")
		return
	}

	event := Event{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: b.clock.Now().UTC(),
		Payload:   data,
	}
	if err := b.publisher.Publish(ctx, event); err != nil {
		// Don't fail the operation, just log
		log.Warn().Err(err).
			Str("event_id", event.ID.String()).
			Str("event_type", eventType).
			Msg("failed to publish event")
	}
}

// LogPublisher writes events to the log instead of a stream
type LogPublisher struct{}

// NewLogPublisher creates a LogPublisher
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	log.Debug().
		Str("event_id", event.ID.String()).
		Str("event_type", event.Type).
		RawJSON("payload", event.Payload).
		Msg("event")
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}

// subject returns the stream subject for an event type
func subject(prefix, eventType string) string {
	return fmt.Sprintf("%s.%s", prefix, eventType)
}
