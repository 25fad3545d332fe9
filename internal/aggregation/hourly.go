// Package aggregation turns raw air quality readings into hourly statistics
// and derives the current severity tier from them.
package aggregation

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/mr1hm/go-air-alerts/internal/models"
)

// ErrNoData is returned by CurrentTier when there is no aggregate to read.
var ErrNoData = errors.New("no valid readings")

// Aggregate groups valid readings by timestamp and returns one aggregate per
// distinct timestamp, most recent first. Missing readings are dropped before
// grouping, so an hour with only missing readings produces no aggregate.
func Aggregate(readings []models.Reading) []models.HourlyAggregate {
	type bucket struct {
		sum float64
		agg models.HourlyAggregate
	}

	buckets := make(map[time.Time]*bucket)
	for _, r := range readings {
		if r.Missing || math.IsNaN(r.AQI) {
			continue
		}

		b, ok := buckets[r.Timestamp]
		if !ok {
			b = &bucket{agg: models.HourlyAggregate{
				Timestamp: r.Timestamp,
				Max:       r.AQI,
				Min:       r.AQI,
			}}
			buckets[r.Timestamp] = b
		}

		b.sum += r.AQI
		b.agg.Count++
		b.agg.Max = math.Max(b.agg.Max, r.AQI)
		b.agg.Min = math.Min(b.agg.Min, r.AQI)
	}

	aggregates := make([]models.HourlyAggregate, 0, len(buckets))
	for _, b := range buckets {
		b.agg.Mean = b.sum / float64(b.agg.Count)
		aggregates = append(aggregates, b.agg)
	}

	sort.Slice(aggregates, func(i, j int) bool {
		return aggregates[i].Timestamp.After(aggregates[j].Timestamp)
	})

	return aggregates
}

// TierFor bands level into scale: floor(level / bandWidth), clamped to the
// scale's range.
func TierFor(level float64, scale models.Scale, bandWidth float64) models.Tier {
	// Bound in float space; converting an out-of-range float to int is
	// implementation-defined.
	band := math.Floor(level / bandWidth)
	if math.IsNaN(band) || band <= 0 {
		return 0
	}
	if band >= float64(scale.Max()) {
		return scale.Max()
	}
	return models.Tier(band)
}

// CurrentTier returns the mean of the most recent aggregate and its tier.
func CurrentTier(aggregates []models.HourlyAggregate, scale models.Scale, bandWidth float64) (float64, models.Tier, error) {
	if len(aggregates) == 0 {
		return 0, 0, ErrNoData
	}

	level := aggregates[0].Mean
	return level, TierFor(level, scale, bandWidth), nil
}
