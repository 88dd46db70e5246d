package domain

// OrderSide represents the side of an order (BUY or SELL).
type OrderSide string

const (
	Buy  OrderSide = "BUY"
	Sell OrderSide = "SELL"
)

// OrderStatus represents the lifecycle status a broker reports for an order.
// Only filled orders take part in round-trip matching; the rest are carried
// through so callers can inspect what was excluded.
type OrderStatus string

const (
	StatusFilled          OrderStatus = "FILLED"
	StatusNew             OrderStatus = "NEW"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusCanceled        OrderStatus = "CANCELED"
	StatusRejected        OrderStatus = "REJECTED"
	StatusExpired         OrderStatus = "EXPIRED"
)

// IsFilled reports whether the status marks a completely executed order.
func (s OrderStatus) IsFilled() bool {
	return s == StatusFilled
}
