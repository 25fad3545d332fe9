package models

import (
	"log/slog"
	"time"
)

// Subscriber is one row of the subscriber extract joined with the time it
// was last messaged.
type Subscriber struct {
	Phone       string // raw number, never logged
	PhoneHash   string
	Topic       string
	LastMessage *time.Time // nil when never messaged
}

// LogValue keeps the raw phone number out of structured logs.
func (s Subscriber) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("phone_hash", s.PhoneHash),
		slog.String("topic", s.Topic),
	)
}

// Recipient is an eligible subscriber as seen by the dispatcher.
type Recipient struct {
	Phone string
	Topic string
}

func (r Recipient) LogValue() slog.Value {
	return slog.GroupValue(slog.String("topic", r.Topic))
}
