package binanceclient

import (
	"testing"
	"time"

	"tradescope/internal/domain"

	"github.com/adshao/go-binance/v2"
	"github.com/stretchr/testify/assert"
)

func TestToDomainOrder(t *testing.T) {
	filledAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		order     *binance.Order
		wantPrice string
	}{
		{
			name: "average price from quote volume",
			order: &binance.Order{
				OrderID:                  42,
				Symbol:                   "ETHUSDT",
				Side:                     binance.SideTypeBuy,
				Status:                   binance.OrderStatusTypeFilled,
				Price:                    "0", // market order carries no limit price
				ExecutedQuantity:         "2",
				CummulativeQuoteQuantity: "201",
				UpdateTime:               filledAt.UnixMilli(),
			},
			wantPrice: "100.5",
		},
		{
			name: "falls back to limit price when executed qty is zero",
			order: &binance.Order{
				OrderID:                  43,
				Symbol:                   "ETHUSDT",
				Side:                     binance.SideTypeSell,
				Status:                   binance.OrderStatusTypeCanceled,
				Price:                    "95.5",
				ExecutedQuantity:         "0",
				CummulativeQuoteQuantity: "0",
				UpdateTime:               filledAt.UnixMilli(),
			},
			wantPrice: "95.5",
		},
		{
			name: "falls back to limit price on unparseable quote volume",
			order: &binance.Order{
				OrderID:                  44,
				Symbol:                   "ETHUSDT",
				Side:                     binance.SideTypeBuy,
				Status:                   binance.OrderStatusTypeFilled,
				Price:                    "101",
				ExecutedQuantity:         "1",
				CummulativeQuoteQuantity: "",
				UpdateTime:               filledAt.UnixMilli(),
			},
			wantPrice: "101",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toDomainOrder(tt.order)
			assert.Equal(t, tt.order.OrderID, got.OrderID)
			assert.Equal(t, tt.order.Symbol, got.Symbol)
			assert.Equal(t, domain.OrderSide(tt.order.Side), got.Side)
			assert.Equal(t, domain.OrderStatus(tt.order.Status), got.Status)
			assert.Equal(t, tt.order.ExecutedQuantity, got.FilledQty)
			assert.Equal(t, tt.wantPrice, got.FilledAvgPrice)
			assert.True(t, got.FilledAt.Equal(filledAt))
		})
	}
}

func TestToDomainOrderStatusFilter(t *testing.T) {
	filled := toDomainOrder(&binance.Order{Status: binance.OrderStatusTypeFilled, ExecutedQuantity: "1", CummulativeQuoteQuantity: "1"})
	assert.True(t, filled.Status.IsFilled())

	open := toDomainOrder(&binance.Order{Status: binance.OrderStatusTypeNew, ExecutedQuantity: "0", CummulativeQuoteQuantity: "0"})
	assert.False(t, open.Status.IsFilled())
}
