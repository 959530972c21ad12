package exchange

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

// SideFromQty maps a signed quantity onto an order side: positive buys,
// negative sells.
func SideFromQty(qty int64) Side {
	if qty < 0 {
		return SideSell
	}
	return SideBuy
}

func (s Side) Reverse() Side {
	switch s {
	case SideBuy:
		return SideSell
	case SideSell:
		return SideBuy
	default:
		return s
	}
}

type OrderType string

const (
	OrderTypeMarket OrderType = "Market"
	OrderTypeLimit  OrderType = "Limit"
)

type OrderStatus string

const (
	OrderStatusNew             OrderStatus = "New"
	OrderStatusPartiallyFilled OrderStatus = "PartiallyFilled"
	OrderStatusFilled          OrderStatus = "Filled"
	OrderStatusCanceled        OrderStatus = "Canceled"
	OrderStatusRejected        OrderStatus = "Rejected"
)

func (s OrderStatus) IsOpen() bool {
	return s == OrderStatusNew || s == OrderStatusPartiallyFilled
}

type Order struct {
	Id        string
	Symbol    Symbol
	Side      Side
	Type      OrderType
	Price     decimal.Decimal
	Quantity  int64
	Status    OrderStatus
	CreatedAt time.Time
}

// CreateOrderReq is one order intent. The sign of Quantity selects the
// side; a zero Price means a market order.
type CreateOrderReq struct {
	Symbol   Symbol
	Quantity int64
	Price    decimal.Decimal
}

func (r CreateOrderReq) Side() Side {
	return SideFromQty(r.Quantity)
}

func (r CreateOrderReq) Type() OrderType {
	if r.Price.IsZero() {
		return OrderTypeMarket
	}
	return OrderTypeLimit
}

type OrderService interface {
	CreateOrder(ctx context.Context, req CreateOrderReq) (Order, error)
	// CreateOrders submits the whole batch in a single request. The venue
	// applies the batch atomically: a rejected batch places nothing.
	CreateOrders(ctx context.Context, reqs []CreateOrderReq) ([]Order, error)
	// ClosePosition submits an exchange-side flattening order for the symbol.
	ClosePosition(ctx context.Context, symbol Symbol) (Order, error)
	// CancelAllOrders cancels every open order on the account and returns
	// the canceled orders.
	CancelAllOrders(ctx context.Context) ([]Order, error)
}
