package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-air-alerts/internal/models"
)

var mockNow = time.Date(2019, 10, 20, 10, 0, 0, 0, time.UTC)

func at(s string) *time.Time {
	ts, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return &ts
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name      string
		subs      []models.Subscriber
		startHour int
		endHour   int
		now       time.Time
		want      []models.Recipient
	}{
		{
			name:      "messaged yesterday is eligible",
			subs:      []models.Subscriber{{Phone: "07719143007", Topic: "yellow", LastMessage: at("2019-10-19 09:12:56")}},
			startHour: 8, endHour: 20, now: mockNow,
			want: []models.Recipient{{Phone: "07719143007", Topic: "yellow"}},
		},
		{
			name: "never messaged is eligible",
			subs: []models.Subscriber{
				{Phone: "07719143007", Topic: "yellow", LastMessage: at("2019-10-19 09:12:56")},
				{Phone: "07719143008", Topic: "amber"},
			},
			startHour: 8, endHour: 20, now: mockNow,
			want: []models.Recipient{{Phone: "07719143007", Topic: "yellow"}, {Phone: "07719143008", Topic: "amber"}},
		},
		{
			name: "messaged today is excluded",
			subs: []models.Subscriber{
				{Phone: "07719143007", Topic: "yellow", LastMessage: at("2019-10-20 09:12:56")},
				{Phone: "07719143008", Topic: "amber"},
			},
			startHour: 8, endHour: 20, now: mockNow,
			want: []models.Recipient{{Phone: "07719143008", Topic: "amber"}},
		},
		{
			name:      "same subscriber next day is included",
			subs:      []models.Subscriber{{Phone: "07719143007", Topic: "yellow", LastMessage: at("2019-10-20 09:12:00")}},
			startHour: 8, endHour: 20, now: time.Date(2019, 10, 21, 10, 0, 0, 0, time.UTC),
			want: []models.Recipient{{Phone: "07719143007", Topic: "yellow"}},
		},
		{
			name: "before window start",
			subs: []models.Subscriber{
				{Phone: "07719143007", Topic: "yellow", LastMessage: at("2019-10-19 09:12:56")},
				{Phone: "07719143008", Topic: "amber"},
			},
			startHour: 11, endHour: 20, now: mockNow,
			want: []models.Recipient{},
		},
		{
			name:      "after window end",
			subs:      []models.Subscriber{{Phone: "07719143008", Topic: "amber"}},
			startHour: 7, endHour: 21, now: time.Date(2019, 10, 20, 22, 0, 0, 0, time.UTC),
			want:      []models.Recipient{},
		},
		{
			name:      "window bounds are inclusive",
			subs:      []models.Subscriber{{Phone: "07719143008", Topic: "amber"}},
			startHour: 7, endHour: 21, now: time.Date(2019, 10, 20, 21, 59, 0, 0, time.UTC),
			want:      []models.Recipient{{Phone: "07719143008", Topic: "amber"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(tt.subs, tt.startHour, tt.endHour, tt.now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_Idempotent(t *testing.T) {
	subs := []models.Subscriber{
		{Phone: "1", Topic: "red", LastMessage: at("2019-10-20 08:00:00")},
		{Phone: "2", Topic: "green"},
		{Phone: "3", Topic: "amber", LastMessage: at("2019-10-18 08:00:00")},
	}

	first := Filter(subs, 8, 20, mockNow)
	second := Filter(subs, 8, 20, mockNow)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestFilter_DayComparedInUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	// 01:30 local on the 21st is still the 20th in UTC
	now := time.Date(2019, 10, 21, 1, 30, 0, 0, loc)
	subs := []models.Subscriber{{Phone: "1", Topic: "red", LastMessage: at("2019-10-20 09:00:00")}}

	assert.Empty(t, Filter(subs, 0, 23, now))
}

func TestWithHistory(t *testing.T) {
	subs := []models.Subscriber{
		{PhoneHash: "a", LastMessage: at("2019-10-19 09:00:00")},
		{PhoneHash: "b"},
		{PhoneHash: "c", LastMessage: at("2019-10-20 09:00:00")},
	}
	last := map[string]time.Time{
		"a": *at("2019-10-20 08:00:00"),
		"b": *at("2019-10-18 08:00:00"),
		"c": *at("2019-10-19 08:00:00"),
	}

	merged := WithHistory(subs, last)
	require.Len(t, merged, 3)
	assert.Equal(t, *at("2019-10-20 08:00:00"), *merged[0].LastMessage)
	assert.Equal(t, *at("2019-10-18 08:00:00"), *merged[1].LastMessage)
	assert.Equal(t, *at("2019-10-20 09:00:00"), *merged[2].LastMessage)

	assert.Nil(t, subs[1].LastMessage, "input is not modified")
}
