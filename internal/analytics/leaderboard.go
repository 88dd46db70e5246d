package analytics

import (
	"sort"

	"tradescope/internal/domain"

	"github.com/shopspring/decimal"
)

// SymbolPerformance is one leaderboard row: realized P/L and trip count for
// a single symbol.
type SymbolPerformance struct {
	Symbol     string
	ProfitLoss float64
	Trades     int
}

// Leaderboard ranks symbols by summed realized profit/loss. When fewer
// distinct symbols exist than the requested size, Best and Worst overlap;
// that is expected.
type Leaderboard struct {
	Best  []SymbolPerformance // top n, most profitable first
	Worst []SymbolPerformance // bottom n, least profitable first
}

// SymbolLeaderboard groups trips by symbol and returns the n best and n
// worst performers.
func SymbolLeaderboard(trips []domain.RoundTrip, n int) *Leaderboard {
	totals := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	for i := range trips {
		totals[trips[i].Symbol] = totals[trips[i].Symbol].Add(trips[i].ProfitLoss)
		counts[trips[i].Symbol]++
	}

	ranked := make([]SymbolPerformance, 0, len(totals))
	for symbol, total := range totals {
		pl, _ := total.Float64()
		ranked = append(ranked, SymbolPerformance{Symbol: symbol, ProfitLoss: pl, Trades: counts[symbol]})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].ProfitLoss != ranked[j].ProfitLoss {
			return ranked[i].ProfitLoss > ranked[j].ProfitLoss
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	if n < 0 {
		n = 0
	}

	board := &Leaderboard{
		Best:  make([]SymbolPerformance, n),
		Worst: make([]SymbolPerformance, n),
	}
	copy(board.Best, ranked[:n])

	// Worst is the tail of the same descending sort, reversed so the single
	// worst symbol comes first.
	tail := ranked[len(ranked)-n:]
	for i := 0; i < n; i++ {
		board.Worst[i] = tail[n-1-i]
	}
	return board
}
