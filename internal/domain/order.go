package domain

import "time"

// Order represents a single order as reported by the broker.
// FilledQty and FilledAvgPrice are kept in the broker's string form; the
// matcher owns conversion so that a malformed value skips one order rather
// than failing the fetch.
type Order struct {
	OrderID        int64       // Broker-assigned order ID
	Symbol         string      // Trading symbol (e.g., "ETHUSDT")
	Side           OrderSide   // BUY or SELL
	Status         OrderStatus // Broker status; only FILLED orders are matched
	FilledQty      string      // Executed quantity as reported by the broker
	FilledAvgPrice string      // Average fill price as reported by the broker
	FilledAt       time.Time   // Timestamp of the fill
}
