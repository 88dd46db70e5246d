package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tradescope/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

// setupTestDB creates a temporary database for testing
func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "tradescope-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	repo, err := NewRepository(Config{
		DBPath: dbPath,
		Logger: &mockLogger{},
	})
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		os.RemoveAll(tmpDir)
	}

	return repo, cleanup
}

func testTrip(symbol string, qty, buy, sell string, sellTime time.Time) domain.RoundTrip {
	q := decimal.RequireFromString(qty)
	b := decimal.RequireFromString(buy)
	s := decimal.RequireFromString(sell)
	diff := s.Sub(b)

	percent := decimal.Zero
	if !b.IsZero() {
		percent = diff.Div(b).Mul(decimal.NewFromInt(100))
	}

	return domain.RoundTrip{
		Symbol:            symbol,
		Quantity:          q,
		BuyPrice:          b,
		SellPrice:         s,
		ProfitLoss:        diff.Mul(q),
		ProfitLossPercent: percent,
		Cost:              b.Mul(q),
		Revenue:           s.Mul(q),
		BuyTime:           sellTime.Add(-time.Hour),
		SellTime:          sellTime,
	}
}

func TestRepository_SaveAndFindByRun(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	sellTime := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	trips := []domain.RoundTrip{
		testTrip("ETHUSDT", "10", "100", "120", sellTime),
		testTrip("ETHUSDT", "2", "110", "120", sellTime.Add(time.Minute)),
		testTrip("BTCUSDT", "0.5", "50000", "49000", sellTime.Add(2*time.Minute)),
	}

	runID, err := repo.SaveRun(ctx, trips)
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	found, err := repo.FindByRun(ctx, runID)
	require.NoError(t, err)
	require.Len(t, found, 3)

	// Order by sell time, decimal values preserved exactly.
	assert.Equal(t, "ETHUSDT", found[0].Symbol)
	assert.True(t, found[0].ProfitLoss.Equal(decimal.NewFromInt(200)),
		"expected P/L 200, got %s", found[0].ProfitLoss)
	assert.True(t, found[0].ProfitLossPercent.Equal(decimal.NewFromInt(20)),
		"expected P/L percent 20, got %s", found[0].ProfitLossPercent)
	assert.True(t, found[2].ProfitLoss.Equal(decimal.NewFromInt(-500)),
		"expected P/L -500, got %s", found[2].ProfitLoss)
	assert.True(t, found[0].SellTime.Equal(sellTime))
}

func TestRepository_SaveRunEmpty(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	runID, err := repo.SaveRun(ctx, nil)
	require.NoError(t, err)

	found, err := repo.FindByRun(ctx, runID)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestRepository_FindBySymbol(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	sellTime := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err := repo.SaveRun(ctx, []domain.RoundTrip{
		testTrip("ETHUSDT", "1", "100", "110", sellTime),
		testTrip("ETHUSDT", "1", "100", "130", sellTime.Add(time.Hour)),
		testTrip("BTCUSDT", "1", "50000", "51000", sellTime),
	})
	require.NoError(t, err)

	found, err := repo.FindBySymbol(ctx, "ETHUSDT", 1)
	require.NoError(t, err)
	require.Len(t, found, 1)
	// Most recent first.
	assert.True(t, found[0].SellPrice.Equal(decimal.NewFromInt(130)),
		"expected the later trip, got sell price %s", found[0].SellPrice)

	none, err := repo.FindBySymbol(ctx, "SOLUSDT", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_TotalProfitLoss(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	total, err := repo.TotalProfitLoss(ctx)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	sellTime := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err = repo.SaveRun(ctx, []domain.RoundTrip{
		testTrip("ETHUSDT", "10", "100", "120", sellTime), // +200
		testTrip("BTCUSDT", "0.5", "50000", "49000", sellTime), // -500
	})
	require.NoError(t, err)

	total, err = repo.TotalProfitLoss(ctx)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(-300)), "expected -300, got %s", total)
}
