package ingestion

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/mr1hm/go-air-alerts/internal/models"
	"github.com/mr1hm/go-air-alerts/internal/phone"
)

var (
	timeColumns  = []string{"time"}
	aqiColumns   = []string{"air_quality_index", "air_quality_index (aqi)"}
	phoneColumns = []string{"phone"}
	topicColumns = []string{"topic"}
	lastColumns  = []string{"last_message"}
)

var timestampLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000Z",
	time.RFC3339Nano,
	"2006-01-02 15:04",
}

// ParseReadings converts a pollution extract into readings. Empty, NaN and
// null index cells are kept as missing readings.
func ParseReadings(t *Table) ([]models.Reading, error) {
	timeCol, ok := t.Column(timeColumns...)
	if !ok {
		return nil, fmt.Errorf("%w: %s: no time column", ErrMalformed, t.Path)
	}
	aqiCol, ok := t.Column(aqiColumns...)
	if !ok {
		return nil, fmt.Errorf("%w: %s: no air_quality_index column", ErrMalformed, t.Path)
	}

	readings := make([]models.Reading, 0, len(t.Rows))
	for i, row := range t.Rows {
		line := i + 2

		ts, err := parseTimestamp(row[timeCol])
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrMalformed, t.Path, line, err)
		}

		r := models.Reading{Timestamp: ts.Truncate(time.Hour)}
		if isMissing(row[aqiCol]) {
			r.Missing = true
		} else {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[aqiCol]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s line %d: invalid air quality index %q", ErrMalformed, t.Path, line, row[aqiCol])
			}
			r.AQI = v
		}
		readings = append(readings, r)
	}

	return readings, nil
}

// ParseSubscribers converts the subscriber/history extract into subscribers
// with their phone hash derived. The last_message column is optional. Rows
// without a phone are skipped.
func ParseSubscribers(t *Table) ([]models.Subscriber, error) {
	phoneCol, ok := t.Column(phoneColumns...)
	if !ok {
		return nil, fmt.Errorf("%w: %s: no phone column", ErrMalformed, t.Path)
	}
	topicCol, ok := t.Column(topicColumns...)
	if !ok {
		return nil, fmt.Errorf("%w: %s: no topic column", ErrMalformed, t.Path)
	}
	lastCol, hasLast := t.Column(lastColumns...)

	subs := make([]models.Subscriber, 0, len(t.Rows))
	for i, row := range t.Rows {
		line := i + 2

		// The cell is hashed exactly as stored so it joins with the warehouse hash.
		raw := row[phoneCol]
		if strings.TrimSpace(raw) == "" {
			slog.Warn("subscriber row has no phone, skipping", "path", t.Path, "line", line)
			continue
		}

		s := models.Subscriber{
			Phone:     raw,
			PhoneHash: phone.Hash(raw),
			Topic:     strings.ToLower(strings.TrimSpace(row[topicCol])),
		}

		if hasLast && !isMissing(row[lastCol]) {
			ts, err := parseTimestamp(row[lastCol])
			if err != nil {
				return nil, fmt.Errorf("%w: %s line %d: %v", ErrMalformed, t.Path, line, err)
			}
			s.LastMessage = &ts
		}
		subs = append(subs, s)
	}

	return subs, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func isMissing(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "null", "na":
		return true
	}
	return false
}
