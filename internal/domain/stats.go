package domain

import "github.com/shopspring/decimal"

// SymbolStats accumulates realized results for a single symbol while round
// trips are emitted.
type SymbolStats struct {
	Symbol             string
	RealizedProfitLoss decimal.Decimal // Sum of ProfitLoss over all trips
	TradeCount         int             // Number of round trips
	WinCount           int             // Trips with ProfitLoss >= 0
	LossCount          int             // Trips with ProfitLoss < 0
}

// WinRate returns the percentage of winning trips, 0 when there are none.
func (s *SymbolStats) WinRate() float64 {
	if s.TradeCount == 0 {
		return 0
	}
	return float64(s.WinCount) / float64(s.TradeCount) * 100
}

// Record folds one round trip into the running totals.
func (s *SymbolStats) Record(rt RoundTrip) {
	s.RealizedProfitLoss = s.RealizedProfitLoss.Add(rt.ProfitLoss)
	s.TradeCount++
	if rt.IsWin() {
		s.WinCount++
	} else {
		s.LossCount++
	}
}
