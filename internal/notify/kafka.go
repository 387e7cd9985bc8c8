package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kdrivas1989/tunnel-sessions/internal/sessions/engine"
	"github.com/kdrivas1989/tunnel-sessions/pkg/kafka"
)

const cancellationEventType = "session.booking.cancelled"

// CancellationEvent is the payload published for downstream consumers
// (reporting, CRM sync). Keyed by session id so events for one session
// stay ordered.
type CancellationEvent struct {
	SessionID         string    `json:"session_id"`
	SessionType       string    `json:"session_type,omitempty"`
	Date              string    `json:"date"`
	Time              string    `json:"time"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	SpotsLeft         int       `json:"spots_left"`
	NeedsNotification bool      `json:"needs_notification"`
	NextOnWaitlist    string    `json:"next_on_waitlist,omitempty"`
	CancelledAt       time.Time `json:"cancelled_at"`
}

// KafkaNotifier publishes cancellation events to the cancellation topic.
type KafkaNotifier struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaNotifier(producer *kafka.Producer, source string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, source: source}
}

func (n *KafkaNotifier) CancellationAlert(ctx context.Context, c *engine.Cancellation) error {
	event := CancellationEvent{
		SessionID:         c.Session.ID,
		SessionType:       c.Session.SessionType,
		Date:              c.Session.Date,
		Time:              c.Session.Time,
		FirstName:         c.Booking.FirstName,
		LastName:          c.Booking.LastName,
		SpotsLeft:         c.Session.SpotsLeft(),
		NeedsNotification: c.NeedsNotification,
		CancelledAt:       time.Now().UTC(),
	}
	if c.NextOnWaitlist != nil {
		event.NextOnWaitlist = c.NextOnWaitlist.Email
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode cancellation event: %w", err)
	}

	return n.producer.Publish(ctx, kafka.NewMessage(c.Session.ID, value, cancellationEventType, n.source))
}
