package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"text/tabwriter"

	"tradescope/internal/analytics"
	"tradescope/internal/domain"
	"tradescope/internal/utils"

	"github.com/olekukonko/tablewriter"
)

func main() {
	var (
		dataDir = flag.String("dir", "data", "directory to scan for round-trip CSV exports")
		topN    = flag.Int("top", 5, "leaderboard size")
	)
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		var err error
		files, err = filepath.Glob(filepath.Join(*dataDir, "*.csv"))
		if err != nil {
			log.Fatalf("Error scanning %s: %v", *dataDir, err)
		}
	}
	if len(files) == 0 {
		log.Println("No round-trip CSV files found. Run the service with CSV_EXPORT_PATH set first.")
		return
	}

	for _, file := range files {
		trips, err := utils.ReadRoundTripsFromCSV(file)
		if err != nil {
			log.Printf("Error reading round trips from %s: %v", file, err)
			continue
		}

		fmt.Printf("## %s (%d round trips)\n\n", filepath.Base(file), len(trips))
		printMetrics(analytics.Aggregate(trips))
		printLeaderboard(analytics.SymbolLeaderboard(trips, *topN))
		printSeries(trips)
		fmt.Println()
	}
}

func printMetrics(m *analytics.PerformanceMetrics) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "Trades\t%d\t\n", m.TotalTrades)
	fmt.Fprintf(w, "Win rate\t%.2f%%\t\n", m.WinRate)
	fmt.Fprintf(w, "Total P/L\t%.2f\t\n", m.TotalProfitLoss)
	fmt.Fprintf(w, "Avg win / loss\t%.2f / %.2f\t\n", m.AverageWin, m.AverageLoss)
	fmt.Fprintf(w, "Profit factor\t%s\t\n", formatProfitFactor(m.ProfitFactor))
	fmt.Fprintf(w, "Expectancy\t%.2f\t\n", m.Expectancy)
	if m.LargestWin != nil {
		fmt.Fprintf(w, "Largest win\t%s %s\t\n", m.LargestWin.Symbol, m.LargestWin.ProfitLoss.StringFixed(2))
	}
	if m.LargestLoss != nil {
		fmt.Fprintf(w, "Largest loss\t%s %s\t\n", m.LargestLoss.Symbol, m.LargestLoss.ProfitLoss.StringFixed(2))
	}
	w.Flush()
}

func printLeaderboard(board *analytics.Leaderboard) {
	if len(board.Best) == 0 {
		return
	}

	fmt.Println("\nLeaderboard:")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Rank", "Best", "P/L", "Trades", "Worst", "P/L", "Trades"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for i := range board.Best {
		best, worst := board.Best[i], board.Worst[i]
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			best.Symbol, fmt.Sprintf("%.2f", best.ProfitLoss), fmt.Sprintf("%d", best.Trades),
			worst.Symbol, fmt.Sprintf("%.2f", worst.ProfitLoss), fmt.Sprintf("%d", worst.Trades),
		})
	}
	table.Render()
}

func printSeries(trips []domain.RoundTrip) {
	daily := analytics.DailyProfitLoss(trips)
	if len(daily) == 0 {
		return
	}
	cumulative := analytics.CumulativeProfitLoss(daily)

	fmt.Println("\nDaily P/L:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Date\tP/L\tCumulative\t")
	for i := range daily {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t\n",
			daily[i].Date.Format("2006-01-02"), daily[i].ProfitLoss, cumulative[i].ProfitLoss)
	}
	w.Flush()
}

func formatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", pf)
}
