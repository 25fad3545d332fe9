package models

import "time"

// DispatchRecord is the audit entry for one sent message. To holds the phone
// hash of the recipient, never the raw number.
type DispatchRecord struct {
	SID                 string     `json:"sid"`
	To                  string     `json:"to"`
	From                string     `json:"from"`
	Topic               string     `json:"topic"`
	Level               float64    `json:"level"`
	TopicLevel          Tier       `json:"topic_level"`
	Body                string     `json:"body"`
	Status              string     `json:"status"`
	AccountSID          string     `json:"account_sid,omitempty"`
	APIVersion          string     `json:"api_version,omitempty"`
	Direction           string     `json:"direction,omitempty"`
	NumSegments         string     `json:"num_segments,omitempty"`
	NumMedia            string     `json:"num_media,omitempty"`
	Price               string     `json:"price,omitempty"`
	PriceUnit           string     `json:"price_unit,omitempty"`
	ErrorCode           int        `json:"error_code,omitempty"`
	ErrorMessage        string     `json:"error_message,omitempty"`
	URI                 string     `json:"uri,omitempty"`
	MessagingServiceSID string     `json:"messaging_service_sid,omitempty"`
	DateCreated         time.Time  `json:"date_created"`
	DateUpdated         time.Time  `json:"date_updated"`
	DateSent            *time.Time `json:"date_sent"`
}

// CycleReport summarises one notification cycle.
type CycleReport struct {
	ID            string    `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Level         float64   `json:"level"`
	Tier          string    `json:"tier"`
	Aggregates    int       `json:"aggregates"`
	Subscribers   int       `json:"subscribers"`
	Eligible      int       `json:"eligible"`
	Sent          int       `json:"sent"`
	Failed        int       `json:"failed"`
	Skipped       int       `json:"skipped"`
	Persisted     int       `json:"persisted"`
	PersistFailed int       `json:"persist_failed"`
	Error         string    `json:"error,omitempty"`
}
