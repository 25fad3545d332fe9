package models

import "time"

// Reading is a single air quality sample. Timestamp is truncated to the hour.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	AQI       float64   `json:"air_quality_index"`
	Missing   bool      `json:"missing"` // no index value was reported
}

// HourlyAggregate summarises the valid readings sharing one timestamp.
type HourlyAggregate struct {
	Timestamp time.Time `json:"timestamp"`
	Mean      float64   `json:"mean"`
	Count     int       `json:"count"`
	Max       float64   `json:"max"`
	Min       float64   `json:"min"`
}
