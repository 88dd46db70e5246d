package app

import (
	"fmt"
	"math"
	"sort"
	"text/tabwriter"

	"tradescope/internal/analytics"
	"tradescope/internal/roundtrip"
)

// renderReport writes the human-readable summary of one analysis pass.
func (s *ReportService) renderReport(
	result *roundtrip.MatchResult,
	metrics *analytics.PerformanceMetrics,
	board *analytics.Leaderboard,
	cumulative []analytics.DailyPoint,
) error {
	fmt.Fprintln(s.out, "## Performance Summary")

	w := tabwriter.NewWriter(s.out, 0, 0, 3, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "Total trades\t%d\t\n", metrics.TotalTrades)
	fmt.Fprintf(w, "Winners / Losers\t%d / %d\t\n", metrics.Winners, metrics.Losers)
	fmt.Fprintf(w, "Win rate\t%.2f%%\t\n", metrics.WinRate)
	fmt.Fprintf(w, "Total P/L\t%.2f\t\n", metrics.TotalProfitLoss)
	fmt.Fprintf(w, "Average win\t%.2f (%.2f%%)\t\n", metrics.AverageWin, metrics.AverageWinPercent)
	fmt.Fprintf(w, "Average loss\t%.2f (%.2f%%)\t\n", metrics.AverageLoss, metrics.AverageLossPercent)
	fmt.Fprintf(w, "Profit factor\t%s\t\n", formatProfitFactor(metrics.ProfitFactor))
	fmt.Fprintf(w, "Expectancy\t%.2f\t\n", metrics.Expectancy)
	if metrics.LargestWin != nil {
		fmt.Fprintf(w, "Largest win\t%s %s\t\n", metrics.LargestWin.Symbol, metrics.LargestWin.ProfitLoss.StringFixed(2))
	}
	if metrics.LargestLoss != nil {
		fmt.Fprintf(w, "Largest loss\t%s %s\t\n", metrics.LargestLoss.Symbol, metrics.LargestLoss.ProfitLoss.StringFixed(2))
	}
	if result.SkippedOrders > 0 {
		fmt.Fprintf(w, "Skipped orders\t%d\t\n", result.SkippedOrders)
	}
	if result.UnmatchedSells > 0 {
		fmt.Fprintf(w, "Unmatched sells\t%d\t\n", result.UnmatchedSells)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(result.SymbolStats) > 0 {
		fmt.Fprintln(s.out, "\n## Per-Symbol Results")
		w = tabwriter.NewWriter(s.out, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "Symbol\tTrades\tWinRate\tRealized P/L\t")

		symbols := make([]string, 0, len(result.SymbolStats))
		for symbol := range result.SymbolStats {
			symbols = append(symbols, symbol)
		}
		sort.Strings(symbols)
		for _, symbol := range symbols {
			st := result.SymbolStats[symbol]
			fmt.Fprintf(w, "%s\t%d\t%.2f%%\t%s\t\n",
				st.Symbol, st.TradeCount, st.WinRate(), st.RealizedProfitLoss.StringFixed(2))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if len(board.Best) > 0 {
		fmt.Fprintln(s.out, "\n## Leaderboard")
		w = tabwriter.NewWriter(s.out, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "Rank\tBest\tP/L\tWorst\tP/L\t")
		for i := range board.Best {
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%.2f\t\n",
				i+1,
				board.Best[i].Symbol, board.Best[i].ProfitLoss,
				board.Worst[i].Symbol, board.Worst[i].ProfitLoss)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if len(cumulative) > 0 {
		last := cumulative[len(cumulative)-1]
		fmt.Fprintf(s.out, "\nCumulative P/L through %s: %.2f over %d days\n",
			last.Date.Format("2006-01-02"), last.ProfitLoss, len(cumulative))
	}

	return nil
}

func formatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", pf)
}
