package kafka

import (
	"time"

	"github.com/google/uuid"
)

// Message is the unit handed to the Producer. Value must already be
// encoded; the producer does not serialize.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Header keys stamped on every published event.
const (
	HeaderEventID       = "event-id"
	HeaderEventType     = "event-type"
	HeaderSchemaVersion = "schema-version"
	HeaderSource        = "source"
)

// NewMessage builds a Message with standard headers populated.
func NewMessage(key string, value []byte, eventType, source string) Message {
	return Message{
		Key:   key,
		Value: value,
		Headers: map[string]string{
			HeaderEventID:       uuid.NewString(),
			HeaderEventType:     eventType,
			HeaderSchemaVersion: "1",
			HeaderSource:        source,
		},
		Timestamp: time.Now(),
	}
}
