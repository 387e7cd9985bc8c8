package kafka

import (
	"context"
	"errors"
	"testing"
)

func TestNewProducerValidatesArgs(t *testing.T) {
	if _, err := NewProducer(nil, "topic"); err == nil {
		t.Error("expected error for empty broker list")
	}
	if _, err := NewProducer([]string{"localhost:9092"}, ""); err == nil {
		t.Error("expected error for empty topic")
	}
}

func TestPublishValidatesMessage(t *testing.T) {
	producer, err := NewProducer([]string{"localhost:9092"}, "topic")
	if err != nil {
		t.Fatalf("NewProducer: %v", err)
	}
	defer producer.Close()

	if err := producer.Publish(context.Background(), Message{Value: []byte("x")}); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("empty key: err = %v, want ErrEmptyKey", err)
	}
	if err := producer.Publish(context.Background(), Message{Key: "k"}); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("empty value: err = %v, want ErrEmptyValue", err)
	}
}

func TestCloseStopsPublishing(t *testing.T) {
	producer, err := NewProducer([]string{"localhost:9092"}, "topic")
	if err != nil {
		t.Fatalf("NewProducer: %v", err)
	}

	if err := producer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := producer.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	msg := NewMessage("session-1", []byte(`{}`), "session.booking.cancelled", "test")
	if err := producer.Publish(context.Background(), msg); !errors.Is(err, ErrProducerClosed) {
		t.Errorf("publish after close: err = %v, want ErrProducerClosed", err)
	}
}
