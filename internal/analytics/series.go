package analytics

import (
	"time"

	"tradescope/internal/domain"
)

// DailyPoint is one calendar day of realized profit/loss.
type DailyPoint struct {
	Date       time.Time
	ProfitLoss float64
}

// DailyProfitLoss buckets trips by the UTC calendar day of their sell time
// and returns one point for every day in the inclusive range from the
// earliest to the latest sell date. Days without trips carry 0 so consumers
// can render continuous time axes without filling gaps themselves.
func DailyProfitLoss(trips []domain.RoundTrip) []DailyPoint {
	if len(trips) == 0 {
		return nil
	}

	byDay := make(map[time.Time]float64)
	var first, last time.Time
	for i := range trips {
		day := toDay(trips[i].SellTime)
		pl, _ := trips[i].ProfitLoss.Float64()
		byDay[day] += pl

		if first.IsZero() || day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}
	}

	var series []DailyPoint
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		series = append(series, DailyPoint{Date: day, ProfitLoss: byDay[day]})
	}
	return series
}

// CumulativeProfitLoss converts a daily series into a running total in date
// order. The input is expected to be gap-filled and sorted, as produced by
// DailyProfitLoss.
func CumulativeProfitLoss(daily []DailyPoint) []DailyPoint {
	if len(daily) == 0 {
		return nil
	}

	series := make([]DailyPoint, len(daily))
	var running float64
	for i, point := range daily {
		running += point.ProfitLoss
		series[i] = DailyPoint{Date: point.Date, ProfitLoss: running}
	}
	return series
}

func toDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
