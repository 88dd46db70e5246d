package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tradescope/internal/domain"
	"tradescope/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/shopspring/decimal"
)

// Repository implements the ports.RoundTripRepository interface using SQLite.
// Money columns are stored as TEXT holding decimal strings so values
// round-trip exactly.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/tradescope.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("%w: failed to ping database at '%s': %v", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally; the Go driver benefits from a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TIMESTAMP NOT NULL,
		trip_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS round_trips (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		symbol TEXT NOT NULL,
		quantity TEXT NOT NULL,
		buy_price TEXT NOT NULL,
		sell_price TEXT NOT NULL,
		profit_loss TEXT NOT NULL,
		profit_loss_percent TEXT NOT NULL,
		cost TEXT NOT NULL,
		revenue TEXT NOT NULL,
		buy_time TIMESTAMP NOT NULL,
		sell_time TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_round_trips_run ON round_trips (run_id);
	CREATE INDEX IF NOT EXISTS idx_round_trips_symbol_sell_time ON round_trips (symbol, sell_time);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrQueryFailed, err)
	}
	return nil
}

// SaveRun persists a matching pass as one run plus its round trips inside a
// single transaction.
func (r *Repository) SaveRun(ctx context.Context, trips []domain.RoundTrip) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin transaction: %v", ports.ErrUpdateFailed, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, trip_count) VALUES (?, ?)`,
		time.Now().UTC(), len(trips),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: insert run: %v", ports.ErrUpdateFailed, err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: run id: %v", ports.ErrUpdateFailed, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO round_trips
			(run_id, symbol, quantity, buy_price, sell_price, profit_loss,
			 profit_loss_percent, cost, revenue, buy_time, sell_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("%w: prepare insert: %v", ports.ErrUpdateFailed, err)
	}
	defer stmt.Close()

	for i := range trips {
		rt := &trips[i]
		if _, err := stmt.ExecContext(ctx,
			runID, rt.Symbol,
			rt.Quantity.String(), rt.BuyPrice.String(), rt.SellPrice.String(),
			rt.ProfitLoss.String(), rt.ProfitLossPercent.String(),
			rt.Cost.String(), rt.Revenue.String(),
			rt.BuyTime.UTC(), rt.SellTime.UTC(),
		); err != nil {
			return 0, fmt.Errorf("%w: insert round trip: %v", ports.ErrUpdateFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %v", ports.ErrUpdateFailed, err)
	}

	r.logger.Debug(ctx, "Saved matching run", map[string]interface{}{"runID": runID, "trips": len(trips)})
	return runID, nil
}

// FindByRun retrieves all round trips belonging to a run, ordered by sell time.
func (r *Repository) FindByRun(ctx context.Context, runID int64) ([]domain.RoundTrip, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol, quantity, buy_price, sell_price, profit_loss,
		       profit_loss_percent, cost, revenue, buy_time, sell_time
		FROM round_trips WHERE run_id = ? ORDER BY sell_time ASC, id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("%w: query round trips: %v", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	return scanRoundTrips(rows)
}

// FindBySymbol retrieves the most recent round trips for a symbol, up to a limit.
func (r *Repository) FindBySymbol(ctx context.Context, symbol string, limit int) ([]domain.RoundTrip, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol, quantity, buy_price, sell_price, profit_loss,
		       profit_loss_percent, cost, revenue, buy_time, sell_time
		FROM round_trips WHERE symbol = ? ORDER BY sell_time DESC, id DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query round trips: %v", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	return scanRoundTrips(rows)
}

// TotalProfitLoss sums realized profit/loss over every stored round trip.
// The sum runs in Go because decimal strings cannot be added in SQL without
// reintroducing float arithmetic.
func (r *Repository) TotalProfitLoss(ctx context.Context) (decimal.Decimal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT profit_loss FROM round_trips`)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: query profit loss: %v", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, fmt.Errorf("%w: scan profit loss: %v", ports.ErrQueryFailed, err)
		}
		pl, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: stored profit loss %q: %v", ports.ErrQueryFailed, raw, err)
		}
		total = total.Add(pl)
	}
	return total, rows.Err()
}

// Close releases the underlying database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

func scanRoundTrips(rows *sql.Rows) ([]domain.RoundTrip, error) {
	var trips []domain.RoundTrip
	for rows.Next() {
		var (
			rt                                       domain.RoundTrip
			qty, buy, sell, pl, plPct, cost, revenue string
		)
		if err := rows.Scan(&rt.Symbol, &qty, &buy, &sell, &pl, &plPct, &cost, &revenue, &rt.BuyTime, &rt.SellTime); err != nil {
			return nil, fmt.Errorf("%w: scan round trip: %v", ports.ErrQueryFailed, err)
		}

		var err error
		if rt.Quantity, err = decimal.NewFromString(qty); err != nil {
			return nil, fmt.Errorf("%w: stored quantity %q: %v", ports.ErrQueryFailed, qty, err)
		}
		if rt.BuyPrice, err = decimal.NewFromString(buy); err != nil {
			return nil, fmt.Errorf("%w: stored buy price %q: %v", ports.ErrQueryFailed, buy, err)
		}
		if rt.SellPrice, err = decimal.NewFromString(sell); err != nil {
			return nil, fmt.Errorf("%w: stored sell price %q: %v", ports.ErrQueryFailed, sell, err)
		}
		if rt.ProfitLoss, err = decimal.NewFromString(pl); err != nil {
			return nil, fmt.Errorf("%w: stored profit loss %q: %v", ports.ErrQueryFailed, pl, err)
		}
		if rt.ProfitLossPercent, err = decimal.NewFromString(plPct); err != nil {
			return nil, fmt.Errorf("%w: stored profit loss percent %q: %v", ports.ErrQueryFailed, plPct, err)
		}
		if rt.Cost, err = decimal.NewFromString(cost); err != nil {
			return nil, fmt.Errorf("%w: stored cost %q: %v", ports.ErrQueryFailed, cost, err)
		}
		if rt.Revenue, err = decimal.NewFromString(revenue); err != nil {
			return nil, fmt.Errorf("%w: stored revenue %q: %v", ports.ErrQueryFailed, revenue, err)
		}
		trips = append(trips, rt)
	}
	return trips, rows.Err()
}
