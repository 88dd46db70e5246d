package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"tradescope/internal/domain"

	"github.com/shopspring/decimal"
)

var roundTripHeader = []string{
	"symbol", "quantity", "buy_price", "sell_price", "profit_loss",
	"profit_loss_percent", "cost", "revenue", "buy_time", "sell_time",
}

// WriteRoundTripsToCSV exports round trips for offline analysis (see cmd/analyze).
func WriteRoundTripsToCSV(trips []domain.RoundTrip, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write(roundTripHeader)

	for i := range trips {
		rt := &trips[i]
		writer.Write([]string{
			rt.Symbol,
			rt.Quantity.String(),
			rt.BuyPrice.String(),
			rt.SellPrice.String(),
			rt.ProfitLoss.String(),
			rt.ProfitLossPercent.String(),
			rt.Cost.String(),
			rt.Revenue.String(),
			rt.BuyTime.Format(time.RFC3339),
			rt.SellTime.Format(time.RFC3339),
		})
	}
	return writer.Error()
}

// ReadRoundTripsFromCSV loads a file written by WriteRoundTripsToCSV.
func ReadRoundTripsFromCSV(filename string) ([]domain.RoundTrip, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	var trips []domain.RoundTrip
	for i, rec := range records[1:] { // skip header
		if len(rec) != len(roundTripHeader) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+2, len(roundTripHeader), len(rec))
		}

		rt := domain.RoundTrip{Symbol: rec[0]}
		decimals := []struct {
			dst  *decimal.Decimal
			raw  string
			name string
		}{
			{&rt.Quantity, rec[1], "quantity"},
			{&rt.BuyPrice, rec[2], "buy_price"},
			{&rt.SellPrice, rec[3], "sell_price"},
			{&rt.ProfitLoss, rec[4], "profit_loss"},
			{&rt.ProfitLossPercent, rec[5], "profit_loss_percent"},
			{&rt.Cost, rec[6], "cost"},
			{&rt.Revenue, rec[7], "revenue"},
		}
		for _, d := range decimals {
			value, err := decimal.NewFromString(d.raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: %s %q: %w", i+2, d.name, d.raw, err)
			}
			*d.dst = value
		}

		if rt.BuyTime, err = time.Parse(time.RFC3339, rec[8]); err != nil {
			return nil, fmt.Errorf("row %d: buy_time %q: %w", i+2, rec[8], err)
		}
		if rt.SellTime, err = time.Parse(time.RFC3339, rec[9]); err != nil {
			return nil, fmt.Errorf("row %d: sell_time %q: %w", i+2, rec[9], err)
		}
		trips = append(trips, rt)
	}
	return trips, nil
}
