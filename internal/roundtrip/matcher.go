package roundtrip

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tradescope/internal/domain"
	"tradescope/internal/ports"

	"github.com/shopspring/decimal"
)

// lot is one open buy awaiting matching sells. Lots are owned by the
// per-symbol FIFO queue that created them and live only within one matching
// pass.
type lot struct {
	remaining decimal.Decimal
	price     decimal.Decimal
	openedAt  time.Time
}

// MatchResult is the full output of one matching pass over an order snapshot.
type MatchResult struct {
	// RoundTrips holds every matched trip across all symbols, sorted
	// ascending by sell time.
	RoundTrips []domain.RoundTrip
	// SymbolStats maps each symbol that produced at least one round trip to
	// its accumulated realized results.
	SymbolStats map[string]*domain.SymbolStats
	// SkippedOrders counts orders dropped because a numeric field could not
	// be parsed or was out of range.
	SkippedOrders int
	// UnmatchedSells counts sell orders whose volume (fully or partially)
	// arrived with no open buy lot to consume. Short positions are not
	// modeled; such volume is excluded from P/L.
	UnmatchedSells int
}

// Matcher reconstructs closed round trips from filled orders using FIFO lot
// matching. It is stateless across calls: matching the same snapshot twice
// yields identical output, and concurrent calls with different inputs are
// safe.
type Matcher struct {
	logger ports.Logger
}

// NewMatcher creates a matcher. The logger is required; skipped and
// unmatched orders are reported through it.
func NewMatcher(logger ports.Logger) (*Matcher, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for matcher")
	}
	return &Matcher{logger: logger}, nil
}

// Match filters the snapshot to filled orders, partitions it by symbol and
// applies FIFO lot matching per symbol. The input may be unsorted and may
// contain non-filled statuses. Orders sharing a fill timestamp within a
// symbol keep their input order, so output is deterministic.
func (m *Matcher) Match(ctx context.Context, orders []domain.Order) *MatchResult {
	res := &MatchResult{
		SymbolStats: make(map[string]*domain.SymbolStats),
	}

	bySymbol := make(map[string][]domain.Order)
	symbols := make([]string, 0)
	for _, o := range orders {
		if !o.Status.IsFilled() {
			continue
		}
		if _, seen := bySymbol[o.Symbol]; !seen {
			symbols = append(symbols, o.Symbol)
		}
		bySymbol[o.Symbol] = append(bySymbol[o.Symbol], o)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		m.matchSymbol(ctx, symbol, bySymbol[symbol], res)
	}

	// Cross-symbol interleaving is resolved by sell time. The sort is stable
	// so trips sharing a sell time keep their per-symbol emission order.
	sort.SliceStable(res.RoundTrips, func(i, j int) bool {
		return res.RoundTrips[i].SellTime.Before(res.RoundTrips[j].SellTime)
	})

	return res
}

func (m *Matcher) matchSymbol(ctx context.Context, symbol string, orders []domain.Order, res *MatchResult) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].FilledAt.Before(orders[j].FilledAt)
	})

	queue := make([]*lot, 0, len(orders))
	head := 0
	stats := &domain.SymbolStats{Symbol: symbol}

	for _, o := range orders {
		qty, price, err := parseOrderNumerics(o)
		if err != nil {
			res.SkippedOrders++
			m.logger.Warn(ctx, "Skipping order with invalid data", map[string]interface{}{
				"symbol":  symbol,
				"orderID": o.OrderID,
				"reason":  err.Error(),
			})
			continue
		}

		switch o.Side {
		case domain.Buy:
			queue = append(queue, &lot{remaining: qty, price: price, openedAt: o.FilledAt})

		case domain.Sell:
			sellRemaining := qty
			for sellRemaining.IsPositive() && head < len(queue) {
				open := queue[head]
				matched := decimal.Min(sellRemaining, open.remaining)

				rt := newRoundTrip(symbol, matched, open.price, price, open.openedAt, o.FilledAt)
				res.RoundTrips = append(res.RoundTrips, rt)
				stats.Record(rt)

				open.remaining = open.remaining.Sub(matched)
				sellRemaining = sellRemaining.Sub(matched)
				if !open.remaining.IsPositive() {
					head++
				}
			}
			if sellRemaining.IsPositive() {
				res.UnmatchedSells++
				m.logger.Debug(ctx, "Sell volume without open buy lot dropped", map[string]interface{}{
					"symbol":    symbol,
					"orderID":   o.OrderID,
					"unmatched": sellRemaining.String(),
				})
			}
		}
	}

	if stats.TradeCount > 0 {
		res.SymbolStats[symbol] = stats
	}
}

// parseOrderNumerics converts the broker's string fields, rejecting values a
// filled order can never legally carry.
func parseOrderNumerics(o domain.Order) (qty, price decimal.Decimal, err error) {
	qty, err = decimal.NewFromString(o.FilledQty)
	if err != nil {
		return qty, price, fmt.Errorf("%w: filled quantity %q: %v", ports.ErrInvalidOrderData, o.FilledQty, err)
	}
	if !qty.IsPositive() {
		return qty, price, fmt.Errorf("%w: filled quantity %q must be positive", ports.ErrInvalidOrderData, o.FilledQty)
	}
	price, err = decimal.NewFromString(o.FilledAvgPrice)
	if err != nil {
		return qty, price, fmt.Errorf("%w: filled avg price %q: %v", ports.ErrInvalidOrderData, o.FilledAvgPrice, err)
	}
	if price.IsNegative() {
		return qty, price, fmt.Errorf("%w: filled avg price %q must not be negative", ports.ErrInvalidOrderData, o.FilledAvgPrice)
	}
	return qty, price, nil
}

func newRoundTrip(symbol string, qty, buyPrice, sellPrice decimal.Decimal, buyTime, sellTime time.Time) domain.RoundTrip {
	diff := sellPrice.Sub(buyPrice)

	// A zero buy price would divide by zero; the percent is defined as 0 in
	// that case rather than propagating an infinity.
	percent := decimal.Zero
	if !buyPrice.IsZero() {
		percent = diff.Div(buyPrice).Mul(decimal.NewFromInt(100))
	}

	return domain.RoundTrip{
		Symbol:            symbol,
		Quantity:          qty,
		BuyPrice:          buyPrice,
		SellPrice:         sellPrice,
		ProfitLoss:        diff.Mul(qty),
		ProfitLossPercent: percent,
		Cost:              buyPrice.Mul(qty),
		Revenue:           sellPrice.Mul(qty),
		BuyTime:           buyTime,
		SellTime:          sellTime,
	}
}
