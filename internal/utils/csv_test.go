package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tradescope/internal/domain"

	"github.com/shopspring/decimal"
)

func TestRoundTripCSVExportImport(t *testing.T) {
	sellTime := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	trips := []domain.RoundTrip{
		{
			Symbol:            "ETHUSDT",
			Quantity:          decimal.RequireFromString("0.125"),
			BuyPrice:          decimal.RequireFromString("2000.5"),
			SellPrice:         decimal.RequireFromString("2100"),
			ProfitLoss:        decimal.RequireFromString("12.4375"),
			ProfitLossPercent: decimal.RequireFromString("4.97"),
			Cost:              decimal.RequireFromString("250.0625"),
			Revenue:           decimal.RequireFromString("262.5"),
			BuyTime:           sellTime.Add(-2 * time.Hour),
			SellTime:          sellTime,
		},
	}

	path := filepath.Join(t.TempDir(), "trips.csv")
	if err := WriteRoundTripsToCSV(trips, path); err != nil {
		t.Fatalf("WriteRoundTripsToCSV failed: %v", err)
	}

	loaded, err := ReadRoundTripsFromCSV(path)
	if err != nil {
		t.Fatalf("ReadRoundTripsFromCSV failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Expected 1 trip, got %d", len(loaded))
	}

	got := loaded[0]
	if got.Symbol != "ETHUSDT" {
		t.Errorf("Expected symbol ETHUSDT, got %s", got.Symbol)
	}
	if !got.Quantity.Equal(trips[0].Quantity) || !got.ProfitLoss.Equal(trips[0].ProfitLoss) {
		t.Errorf("Decimal fields did not survive the round trip: %+v", got)
	}
	if !got.SellTime.Equal(sellTime) {
		t.Errorf("Expected sell time %v, got %v", sellTime, got.SellTime)
	}
}

func TestReadRoundTripsFromCSVMissingFile(t *testing.T) {
	if _, err := ReadRoundTripsFromCSV(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestReadRoundTripsFromCSVMalformedRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	content := "symbol,quantity,buy_price,sell_price,profit_loss,profit_loss_percent,cost,revenue,buy_time,sell_time\n" +
		"ETHUSDT,not-a-number,1,1,0,0,1,1,2025-03-01T10:00:00Z,2025-03-01T11:00:00Z\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	if _, err := ReadRoundTripsFromCSV(path); err == nil {
		t.Error("Expected error for malformed quantity")
	}
}
