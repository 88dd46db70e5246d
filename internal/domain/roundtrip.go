package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoundTrip represents a matched buy-then-sell pairing that closed part of a
// position, realizing a profit or loss. It is immutable once emitted by the
// matcher.
type RoundTrip struct {
	Symbol            string          // Trading symbol (e.g., "ETHUSDT")
	Quantity          decimal.Decimal // Matched quantity (always positive)
	BuyPrice          decimal.Decimal // Price of the consumed buy lot
	SellPrice         decimal.Decimal // Price of the closing sell
	ProfitLoss        decimal.Decimal // (SellPrice - BuyPrice) * Quantity
	ProfitLossPercent decimal.Decimal // (SellPrice - BuyPrice) / BuyPrice * 100; 0 when BuyPrice is 0
	Cost              decimal.Decimal // BuyPrice * Quantity
	Revenue           decimal.Decimal // SellPrice * Quantity
	BuyTime           time.Time       // When the consumed lot was opened
	SellTime          time.Time       // When the closing sell filled
}

// IsWin reports whether the trip realized a non-negative profit.
// Zero profit counts as a win.
func (rt RoundTrip) IsWin() bool {
	return !rt.ProfitLoss.IsNegative()
}
