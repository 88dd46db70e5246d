package ports

import (
	"context"
	"time"

	"tradescope/internal/domain"
)

// BrokerClient defines the interface for the order-retrieval collaborator.
// Implementations own pagination and date filtering and must return the
// complete, fill-time-ascending order history for the requested range; the
// matcher performs no fetching of its own.
type BrokerClient interface {
	// ListFilledOrders retrieves all completely filled orders for a symbol
	// since the given time.
	ListFilledOrders(ctx context.Context, symbol string, since time.Time) ([]domain.Order, error)

	// Ping checks connectivity to the broker API.
	Ping(ctx context.Context) error

	// GetServerTime retrieves the broker's current server time.
	GetServerTime(ctx context.Context) (time.Time, error)
}
