package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradescope/config"
	"tradescope/internal/domain"
	"tradescope/internal/utils"
)

// Mock implementations
type mockLogger struct {
	infoMsgs  []string
	warnMsgs  []string
	errorMsgs []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}

func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.infoMsgs = append(m.infoMsgs, msg)
}

func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.warnMsgs = append(m.warnMsgs, msg)
}

func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	m.errorMsgs = append(m.errorMsgs, msg)
}

type mockBroker struct {
	ordersBySymbol map[string][]domain.Order
	listErr        error
	pingErr        error
}

func (m *mockBroker) ListFilledOrders(ctx context.Context, symbol string, since time.Time) ([]domain.Order, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.ordersBySymbol[symbol], nil
}

func (m *mockBroker) Ping(ctx context.Context) error {
	return m.pingErr
}

func (m *mockBroker) GetServerTime(ctx context.Context) (time.Time, error) {
	return time.Now(), nil
}

type mockRepo struct {
	savedTrips []domain.RoundTrip
	saveErr    error
	runID      int64
}

func (m *mockRepo) SaveRun(ctx context.Context, trips []domain.RoundTrip) (int64, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	m.savedTrips = trips
	m.runID++
	return m.runID, nil
}

func (m *mockRepo) FindByRun(ctx context.Context, runID int64) ([]domain.RoundTrip, error) {
	return m.savedTrips, nil
}

func (m *mockRepo) FindBySymbol(ctx context.Context, symbol string, limit int) ([]domain.RoundTrip, error) {
	return nil, nil
}

func (m *mockRepo) TotalProfitLoss(ctx context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (m *mockRepo) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Symbols:         []string{"ETHUSDT", "BTCUSDT"},
		LookbackDays:    30,
		LeaderboardSize: 5,
	}
}

func filledOrder(id int64, symbol string, side domain.OrderSide, qty, price string, at time.Time) domain.Order {
	return domain.Order{
		OrderID:        id,
		Symbol:         symbol,
		Side:           side,
		Status:         domain.StatusFilled,
		FilledQty:      qty,
		FilledAvgPrice: price,
		FilledAt:       at,
	}
}

func TestNewReportServiceValidatesDependencies(t *testing.T) {
	cfg := testConfig()
	ml := &mockLogger{}
	broker := &mockBroker{}
	repo := &mockRepo{}
	out := &bytes.Buffer{}

	_, err := NewReportService(nil, ml, broker, repo, out)
	assert.Error(t, err)
	_, err = NewReportService(cfg, nil, broker, repo, out)
	assert.Error(t, err)
	_, err = NewReportService(cfg, ml, nil, repo, out)
	assert.Error(t, err)
	_, err = NewReportService(cfg, ml, broker, nil, out)
	assert.Error(t, err)

	badCfg := testConfig()
	badCfg.LookbackDays = 0
	_, err = NewReportService(badCfg, ml, broker, repo, out)
	assert.Error(t, err)

	svc, err := NewReportService(cfg, ml, broker, repo, out)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestRunFullPass(t *testing.T) {
	t1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	broker := &mockBroker{
		ordersBySymbol: map[string][]domain.Order{
			"ETHUSDT": {
				filledOrder(1, "ETHUSDT", domain.Buy, "10", "100", t1),
				filledOrder(2, "ETHUSDT", domain.Buy, "5", "110", t1.Add(time.Hour)),
				filledOrder(3, "ETHUSDT", domain.Sell, "12", "120", t1.Add(2*time.Hour)),
			},
			"BTCUSDT": {
				filledOrder(4, "BTCUSDT", domain.Buy, "1", "50000", t1),
				filledOrder(5, "BTCUSDT", domain.Sell, "1", "49000", t1.Add(30*time.Minute)),
			},
		},
	}
	repo := &mockRepo{}
	out := &bytes.Buffer{}

	svc, err := NewReportService(testConfig(), &mockLogger{}, broker, repo, out)
	require.NoError(t, err)

	require.NoError(t, svc.Run(context.Background()))

	// Two ETH trips plus one BTC trip, persisted sorted by sell time.
	require.Len(t, repo.savedTrips, 3)
	assert.Equal(t, "BTCUSDT", repo.savedTrips[0].Symbol)
	assert.Equal(t, "ETHUSDT", repo.savedTrips[1].Symbol)

	report := out.String()
	assert.Contains(t, report, "Performance Summary")
	assert.Contains(t, report, "Per-Symbol Results")
	assert.Contains(t, report, "Leaderboard")
	assert.Contains(t, report, "ETHUSDT")
	assert.Contains(t, report, "BTCUSDT")
}

func TestRunBrokerFailure(t *testing.T) {
	broker := &mockBroker{listErr: errors.New("boom")}
	svc, err := NewReportService(testConfig(), &mockLogger{}, broker, &mockRepo{}, &bytes.Buffer{})
	require.NoError(t, err)

	err = svc.Run(context.Background())
	assert.Error(t, err)
}

func TestRunPersistFailure(t *testing.T) {
	t1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	broker := &mockBroker{
		ordersBySymbol: map[string][]domain.Order{
			"ETHUSDT": {
				filledOrder(1, "ETHUSDT", domain.Buy, "1", "100", t1),
				filledOrder(2, "ETHUSDT", domain.Sell, "1", "110", t1.Add(time.Hour)),
			},
		},
	}
	repo := &mockRepo{saveErr: errors.New("disk full")}

	svc, err := NewReportService(testConfig(), &mockLogger{}, broker, repo, &bytes.Buffer{})
	require.NoError(t, err)

	err = svc.Run(context.Background())
	assert.Error(t, err)
}

func TestRunExportsCSVWhenConfigured(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := testConfig()
	cfg.CSVExportPath = filepath.Join(tmpDir, "trips.csv")

	t1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	broker := &mockBroker{
		ordersBySymbol: map[string][]domain.Order{
			"ETHUSDT": {
				filledOrder(1, "ETHUSDT", domain.Buy, "2", "100", t1),
				filledOrder(2, "ETHUSDT", domain.Sell, "2", "120", t1.Add(time.Hour)),
			},
		},
	}

	svc, err := NewReportService(cfg, &mockLogger{}, broker, &mockRepo{}, &bytes.Buffer{})
	require.NoError(t, err)
	require.NoError(t, svc.Run(context.Background()))

	_, err = os.Stat(cfg.CSVExportPath)
	require.NoError(t, err)

	trips, err := utils.ReadRoundTripsFromCSV(cfg.CSVExportPath)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.True(t, trips[0].ProfitLoss.Equal(decimal.NewFromInt(40)),
		"expected exported P/L 40, got %s", trips[0].ProfitLoss)
}
