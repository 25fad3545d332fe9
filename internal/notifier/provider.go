package notifier

import (
	"context"
	"time"
)

// Message is an outbound SMS. To is in E.164 form.
type Message struct {
	From string
	To   string
	Body string
}

// Receipt is what the SMS provider reports for an accepted message.
type Receipt struct {
	SID                 string
	Status              string
	AccountSID          string
	APIVersion          string
	Direction           string
	NumSegments         string
	NumMedia            string
	Price               string
	PriceUnit           string
	ErrorCode           int
	ErrorMessage        string
	URI                 string
	MessagingServiceSID string
	DateCreated         time.Time
	DateUpdated         time.Time
	DateSent            *time.Time
}

// Provider is an SMS delivery backend.
type Provider interface {
	// Name returns the provider's identifier (e.g., "twilio").
	Name() string

	// Send submits msg for delivery and returns the provider's receipt.
	Send(ctx context.Context, msg Message) (*Receipt, error)
}
