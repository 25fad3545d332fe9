// Package eligibility decides which subscribers may be messaged this cycle.
package eligibility

import (
	"time"

	"github.com/mr1hm/go-air-alerts/internal/models"
)

// Filter returns the subscribers that may be notified at now. Nothing is
// returned outside the [startHour, endHour] window. Inside it, anyone already
// messaged on now's UTC calendar day is excluded; subscribers never messaged
// are always eligible. Only phone and topic are carried forward.
func Filter(subs []models.Subscriber, startHour, endHour int, now time.Time) []models.Recipient {
	hour := now.Hour()
	if hour < startHour || hour > endHour {
		return []models.Recipient{}
	}

	today := day(now)

	eligible := make([]models.Recipient, 0, len(subs))
	for _, s := range subs {
		if s.LastMessage != nil && day(*s.LastMessage) == today {
			continue
		}
		eligible = append(eligible, models.Recipient{Phone: s.Phone, Topic: s.Topic})
	}
	return eligible
}

// WithHistory returns a copy of subs whose last message time is the later of
// the extract's value and the one recorded in last, keyed by phone hash.
func WithHistory(subs []models.Subscriber, last map[string]time.Time) []models.Subscriber {
	out := make([]models.Subscriber, len(subs))
	copy(out, subs)

	for i := range out {
		ts, ok := last[out[i].PhoneHash]
		if !ok {
			continue
		}
		if out[i].LastMessage == nil || ts.After(*out[i].LastMessage) {
			out[i].LastMessage = &ts
		}
	}
	return out
}

func day(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
