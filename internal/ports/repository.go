package ports

import (
	"context"

	"tradescope/internal/domain"

	"github.com/shopspring/decimal"
)

// RoundTripRepository defines the interface for persisting matched round trips.
// Each invocation of the matcher produces a full snapshot; SaveRun stores one
// such snapshot as a run.
type RoundTripRepository interface {
	// SaveRun persists a full set of round trips as one run and returns the
	// assigned run ID. The write is atomic: either the run row and all trips
	// are stored, or nothing is.
	SaveRun(ctx context.Context, trips []domain.RoundTrip) (int64, error)
	// FindByRun retrieves all round trips belonging to a run, ordered by sell time.
	FindByRun(ctx context.Context, runID int64) ([]domain.RoundTrip, error)
	// FindBySymbol retrieves the most recent round trips for a symbol, up to a limit.
	FindBySymbol(ctx context.Context, symbol string, limit int) ([]domain.RoundTrip, error)
	// TotalProfitLoss sums realized profit/loss over every stored round trip.
	TotalProfitLoss(ctx context.Context) (decimal.Decimal, error)
	// Close releases the underlying storage handle.
	Close() error
}
