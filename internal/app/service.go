package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradescope/config"
	"tradescope/internal/analytics"
	"tradescope/internal/domain"
	"tradescope/internal/ports"
	"tradescope/internal/roundtrip"
	"tradescope/internal/utils"
)

// ReportService orchestrates one analysis pass: fetch filled orders for every
// configured symbol, reconstruct round trips, aggregate performance and
// persist the result. Each pass works on a fresh snapshot; no state carries
// over between passes.
type ReportService struct {
	cfg     *config.Config
	logger  ports.Logger
	broker  ports.BrokerClient
	repo    ports.RoundTripRepository
	matcher *roundtrip.Matcher
	out     io.Writer
}

// NewReportService creates a new application service instance. The report is
// rendered to out.
func NewReportService(
	cfg *config.Config,
	logger ports.Logger,
	broker ports.BrokerClient,
	repo ports.RoundTripRepository,
	out io.Writer,
) (*ReportService, error) {

	// Validate dependencies
	if cfg == nil || logger == nil || broker == nil || repo == nil || out == nil {
		return nil, fmt.Errorf("missing required dependencies for ReportService")
	}
	if cfg.LookbackDays <= 0 {
		return nil, fmt.Errorf("configuration LookbackDays must be positive")
	}
	if cfg.LeaderboardSize <= 0 {
		return nil, fmt.Errorf("configuration LeaderboardSize must be positive")
	}
	if len(cfg.Symbols) == 0 {
		return nil, fmt.Errorf("configuration Symbols must name at least one symbol")
	}

	matcher, err := roundtrip.NewMatcher(logger)
	if err != nil {
		return nil, err
	}

	return &ReportService{
		cfg:     cfg,
		logger:  logger,
		broker:  broker,
		repo:    repo,
		matcher: matcher,
		out:     out,
	}, nil
}

// Run executes a single analysis pass.
func (s *ReportService) Run(ctx context.Context) error {
	if err := s.broker.Ping(ctx); err != nil {
		return fmt.Errorf("broker unreachable: %w", err)
	}

	serverTime, err := s.broker.GetServerTime(ctx)
	if err != nil {
		return fmt.Errorf("failed to get broker server time: %w", err)
	}
	s.logger.Debug(ctx, "Broker server time", map[string]interface{}{
		"serverTime": serverTime,
		"localDrift": time.Since(serverTime).String(),
	})

	since := time.Now().UTC().AddDate(0, 0, -s.cfg.LookbackDays)
	var orders []domain.Order
	for _, symbol := range s.cfg.Symbols {
		symbolOrders, err := s.broker.ListFilledOrders(ctx, symbol, since)
		if err != nil {
			return fmt.Errorf("failed to fetch orders for %s: %w", symbol, err)
		}
		orders = append(orders, symbolOrders...)
	}
	s.logger.Info(ctx, "Fetched filled orders", map[string]interface{}{
		"symbols": len(s.cfg.Symbols),
		"orders":  len(orders),
		"since":   since,
	})

	result := s.matcher.Match(ctx, orders)
	if result.SkippedOrders > 0 || result.UnmatchedSells > 0 {
		s.logger.Warn(ctx, "Matching pass excluded orders", map[string]interface{}{
			"skipped":        result.SkippedOrders,
			"unmatchedSells": result.UnmatchedSells,
		})
	}

	metrics := analytics.Aggregate(result.RoundTrips)
	daily := analytics.DailyProfitLoss(result.RoundTrips)
	cumulative := analytics.CumulativeProfitLoss(daily)
	board := analytics.SymbolLeaderboard(result.RoundTrips, s.cfg.LeaderboardSize)

	runID, err := s.repo.SaveRun(ctx, result.RoundTrips)
	if err != nil {
		return fmt.Errorf("failed to persist round trips: %w", err)
	}
	s.logger.Info(ctx, "Analysis run persisted", map[string]interface{}{
		"runID": runID,
		"trips": len(result.RoundTrips),
	})

	if s.cfg.CSVExportPath != "" {
		if err := utils.WriteRoundTripsToCSV(result.RoundTrips, s.cfg.CSVExportPath); err != nil {
			// Export is auxiliary; the run itself already succeeded.
			s.logger.Error(ctx, err, "Round-trip CSV export failed", map[string]interface{}{
				"path": s.cfg.CSVExportPath,
			})
		} else {
			s.logger.Info(ctx, "Round trips exported", map[string]interface{}{
				"path": s.cfg.CSVExportPath,
			})
		}
	}

	return s.renderReport(result, metrics, board, cumulative)
}

// Watch re-runs the analysis on the configured interval until the context is
// cancelled or a termination signal arrives.
func (s *ReportService) Watch(ctx context.Context) error {
	if s.cfg.WatchInterval <= 0 {
		return fmt.Errorf("watch mode requires a positive WatchInterval")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			s.logger.Info(ctx, "Received shutdown signal", map[string]interface{}{"signal": sig.String()})
			cancel()
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(s.cfg.WatchInterval)
	defer ticker.Stop()

	for {
		if err := s.Run(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// Keep watching; a failed pass leaves the previous run intact.
			s.logger.Error(ctx, err, "Analysis pass failed")
		}

		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Watch stopped")
			return nil
		case <-ticker.C:
		}
	}
}
