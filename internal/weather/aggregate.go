package weather

import (
	"fmt"
	"math"
	"time"
)

// DayKeyFunc derives the grouping key for a forecast point's timestamp.
type DayKeyFunc func(t time.Time) string

// DayKeyDate keys a point by its full UTC calendar date. This is the
// default: two points only share a day if they share year, month and day.
func DayKeyDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DayKeyLabel keys a point by its formatted weekday and day-of-month
// ("Mon 14"). Points in different months or years can collide under this
// key and silently merge; kept only for compatibility with older clients
// that grouped by the display label.
func DayKeyLabel(t time.Time) string {
	return t.UTC().Format("Mon 2")
}

// AggregateOption customizes a daily aggregation pass.
type AggregateOption func(*aggregateConfig)

type aggregateConfig struct {
	keyFn DayKeyFunc
}

// WithDayKey overrides the grouping key function.
func WithDayKey(fn DayKeyFunc) AggregateOption {
	return func(c *aggregateConfig) {
		c.keyFn = fn
	}
}

// WithLabelDayKey groups by the "Mon 14" display label instead of the full
// calendar date.
func WithLabelDayKey() AggregateOption {
	return WithDayKey(DayKeyLabel)
}

// AggregateDaily buckets forecast points by calendar day and reduces each
// bucket to a single DailySummary. The first point seen for a day seeds the
// summary's icon, category and both temperatures; every later point of the
// same day only widens the running max/min. Output order is the
// first-occurrence order of each day key in the input, tracked with an
// explicit key list rather than map iteration.
//
// A point with a non-positive timestamp or a NaN/Inf temperature aborts the
// whole pass; there is no partial result.
func AggregateDaily(points []ForecastPoint, opts ...AggregateOption) ([]DailySummary, error) {
	cfg := aggregateConfig{keyFn: DayKeyDate}
	for _, opt := range opts {
		opt(&cfg)
	}

	summaries := make([]DailySummary, 0, len(points))
	index := make(map[string]int, len(points))

	for i, p := range points {
		if p.Timestamp <= 0 {
			return nil, fmt.Errorf("forecast point %d: invalid timestamp %d", i, p.Timestamp)
		}
		if !finite(p.TempMaxC) || !finite(p.TempMinC) {
			return nil, fmt.Errorf("forecast point %d: non-finite temperature", i)
		}

		ts := p.Time()
		key := cfg.keyFn(ts)

		at, seen := index[key]
		if !seen {
			index[key] = len(summaries)
			summaries = append(summaries, DailySummary{
				Date:     DayKeyLabel(ts),
				Icon:     p.Icon,
				Category: p.Category,
				TempMaxC: p.TempMaxC,
				TempMinC: p.TempMinC,
			})
			continue
		}

		s := &summaries[at]
		if p.TempMaxC > s.TempMaxC {
			s.TempMaxC = p.TempMaxC
		}
		if p.TempMinC < s.TempMinC {
			s.TempMinC = p.TempMinC
		}
	}

	return summaries, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
