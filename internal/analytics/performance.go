package analytics

import (
	"math"

	"tradescope/internal/domain"

	"github.com/montanaflynn/stats"
)

// PerformanceMetrics holds portfolio-level performance derived from a set of
// closed round trips. All fields are pure functions of the input; nothing is
// persisted and everything is recomputed on each new order snapshot.
type PerformanceMetrics struct {
	TotalTrades        int
	Winners            int
	Losers             int
	WinRate            float64 // 0-100
	TotalProfitLoss    float64
	AverageWin         float64 // mean P/L of winning trips, 0 if none
	AverageLoss        float64 // mean absolute P/L of losing trips, 0 if none
	AverageWinPercent  float64
	AverageLossPercent float64
	// ProfitFactor is gross wins over gross losses. It is +Inf when there
	// are wins but no losses, and 0 when there are neither.
	ProfitFactor float64
	LargestWin   *domain.RoundTrip // nil when there are no winners
	LargestLoss  *domain.RoundTrip // nil when there are no losers
	Expectancy   float64
}

// Aggregate computes portfolio metrics over a round-trip set. An empty input
// is not an error; every metric degrades to its zero value.
func Aggregate(trips []domain.RoundTrip) *PerformanceMetrics {
	m := &PerformanceMetrics{TotalTrades: len(trips)}
	if len(trips) == 0 {
		return m
	}

	var (
		winPLs, lossPLs           []float64
		winPercents, lossPercents []float64
		total                     float64
	)

	for i := range trips {
		pl, _ := trips[i].ProfitLoss.Float64()
		percent, _ := trips[i].ProfitLossPercent.Float64()
		total += pl

		if trips[i].IsWin() {
			winPLs = append(winPLs, pl)
			winPercents = append(winPercents, percent)
			if m.LargestWin == nil || pl > mustFloat(m.LargestWin) {
				win := trips[i]
				m.LargestWin = &win
			}
		} else {
			lossPLs = append(lossPLs, pl)
			lossPercents = append(lossPercents, percent)
			if m.LargestLoss == nil || pl < mustFloat(m.LargestLoss) {
				loss := trips[i]
				m.LargestLoss = &loss
			}
		}
	}

	m.Winners = len(winPLs)
	m.Losers = len(lossPLs)
	m.WinRate = float64(m.Winners) / float64(m.TotalTrades) * 100
	m.TotalProfitLoss = total

	m.AverageWin = meanOrZero(winPLs)
	m.AverageLoss = math.Abs(meanOrZero(lossPLs))
	m.AverageWinPercent = meanOrZero(winPercents)
	m.AverageLossPercent = math.Abs(meanOrZero(lossPercents))

	grossWins := sumOrZero(winPLs)
	grossLosses := math.Abs(sumOrZero(lossPLs))
	switch {
	case grossLosses > 0:
		m.ProfitFactor = grossWins / grossLosses
	case grossWins > 0:
		m.ProfitFactor = math.Inf(1)
	default:
		m.ProfitFactor = 0
	}

	winProb := m.WinRate / 100
	m.Expectancy = winProb*m.AverageWin - (1-winProb)*m.AverageLoss

	return m
}

func mustFloat(rt *domain.RoundTrip) float64 {
	pl, _ := rt.ProfitLoss.Float64()
	return pl
}

func meanOrZero(values []float64) float64 {
	mean, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return mean
}

func sumOrZero(values []float64) float64 {
	sum, err := stats.Sum(values)
	if err != nil {
		return 0
	}
	return sum
}
