package binanceclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tradescope/internal/domain"
	"tradescope/internal/ports"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/shopspring/decimal"
)

const (
	// Base URLs
	baseURLProduction = "https://api.binance.com"
	baseURLTestnet    = "https://testnet.binance.vision"

	// Binance caps order-history pages at 1000 entries.
	pageLimit = 1000
)

// Client implements the ports.BrokerClient interface using the go-binance
// spot API.
type Client struct {
	spotClient *binance.Client
	logger     ports.Logger
}

// Config holds configuration specific to the Binance client adapter.
type Config struct {
	APIKey     string
	SecretKey  string
	UseTestnet bool // Testnet keeps analysis runs off the live account
	Logger     ports.Logger
}

// New creates a new Binance client adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance client")
	}
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		cfg.Logger.Warn(context.Background(), "APIKey or SecretKey is empty. Order history requires authenticated access.")
	}

	client := binance.NewClient(cfg.APIKey, cfg.SecretKey)

	// Set BaseURL directly instead of using the global binance.UseTestnet
	if cfg.UseTestnet {
		client.BaseURL = baseURLTestnet
		cfg.Logger.Info(context.Background(), "Binance client configured for Testnet", map[string]interface{}{"baseURL": client.BaseURL})
	} else {
		client.BaseURL = baseURLProduction
		cfg.Logger.Info(context.Background(), "Binance client configured for Production", map[string]interface{}{"baseURL": client.BaseURL})
	}

	return &Client{spotClient: client, logger: cfg.Logger}, nil
}

// handleError translates common Binance API errors into standardized ports errors.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message

		var mappedErr error
		switch apiErr.Code {
		case -1003: // Too many requests
			mappedErr = ports.ErrRateLimited
		case -1021: // Timestamp outside of recvWindow
			mappedErr = ports.ErrTimeout
		case -1022: // Invalid signature
			mappedErr = ports.ErrAuthenticationFailed
		case -2013: // Order does not exist
			mappedErr = ports.ErrOrderNotFound
		case -2014, -2015: // API-key format invalid / invalid key, IP or permissions
			mappedErr = ports.ErrInvalidAPIKeys
		default:
			mappedErr = ports.ErrUnknown
		}
		c.logger.Error(ctx, err, "Binance API error", fields)
		return fmt.Errorf("%w: %s (code %d)", mappedErr, apiErr.Message, apiErr.Code)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ports.ErrContextCanceled, err)
	}

	c.logger.Error(ctx, err, "Binance request failed", fields)
	return fmt.Errorf("%w: %v", ports.ErrConnectionFailed, err)
}

// ListFilledOrders retrieves all completely filled orders for a symbol since
// the given time, paging through the order history by order ID until the
// broker reports no further entries.
func (c *Client) ListFilledOrders(ctx context.Context, symbol string, since time.Time) ([]domain.Order, error) {
	var (
		result      []domain.Order
		lastOrderID int64
		firstPage   = true
	)

	for {
		svc := c.spotClient.NewListOrdersService().Symbol(symbol).Limit(pageLimit)
		if firstPage {
			svc = svc.StartTime(since.UnixMilli())
		} else {
			svc = svc.OrderID(lastOrderID + 1)
		}

		page, err := svc.Do(ctx)
		if err != nil {
			return nil, c.handleError(ctx, err, "ListFilledOrders")
		}

		for _, o := range page {
			lastOrderID = o.OrderID
			mapped := toDomainOrder(o)
			if !mapped.Status.IsFilled() {
				continue
			}
			result = append(result, mapped)
		}

		if len(page) < pageLimit {
			break
		}
		firstPage = false
	}

	c.logger.Debug(ctx, "Fetched filled orders", map[string]interface{}{
		"symbol": symbol,
		"since":  since,
		"count":  len(result),
	})
	return result, nil
}

// toDomainOrder maps a Binance order to the domain representation. Numeric
// fields stay in string form; conversion belongs to the matcher. The average
// fill price is derived from cummulativeQuoteQty/executedQty, falling back
// to the order's limit price when that division cannot be computed.
func toDomainOrder(o *binance.Order) domain.Order {
	avgPrice := o.Price
	quote, qErr := decimal.NewFromString(o.CummulativeQuoteQuantity)
	qty, eErr := decimal.NewFromString(o.ExecutedQuantity)
	if qErr == nil && eErr == nil && !qty.IsZero() {
		avgPrice = quote.Div(qty).String()
	}

	return domain.Order{
		OrderID:        o.OrderID,
		Symbol:         o.Symbol,
		Side:           domain.OrderSide(o.Side),
		Status:         domain.OrderStatus(o.Status),
		FilledQty:      o.ExecutedQuantity,
		FilledAvgPrice: avgPrice,
		FilledAt:       time.UnixMilli(o.UpdateTime),
	}
}

// Ping checks the connectivity to the broker API.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.spotClient.NewPingService().Do(ctx); err != nil {
		return c.handleError(ctx, err, "Ping")
	}
	return nil
}

// GetServerTime retrieves the current server time from the broker.
func (c *Client) GetServerTime(ctx context.Context) (time.Time, error) {
	ms, err := c.spotClient.NewServerTimeService().Do(ctx)
	if err != nil {
		return time.Time{}, c.handleError(ctx, err, "GetServerTime")
	}
	return time.UnixMilli(ms), nil
}
