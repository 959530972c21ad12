package bitmex

import (
	"context"
	"time"

	"github.com/gr-satt/bordem/internal/service/exchange"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var _ exchange.OrderService = (*OrderService)(nil)

type OrderService struct {
	cli *Client
}

func NewOrderService(cli *Client) *OrderService {
	return &OrderService{cli: cli}
}

type orderReq struct {
	Symbol   string   `json:"symbol"`
	Side     string   `json:"side,omitempty"`
	OrderQty int64    `json:"orderQty,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	OrdType  string   `json:"ordType,omitempty"`
	ExecInst string   `json:"execInst,omitempty"`
}

type orderResp struct {
	OrderID   string    `json:"orderID"`
	Symbol    string    `json:"symbol"`
	Side      string    `json:"side"`
	OrdType   string    `json:"ordType"`
	Price     float64   `json:"price"`
	OrderQty  int64     `json:"orderQty"`
	OrdStatus string    `json:"ordStatus"`
	Timestamp time.Time `json:"timestamp"`
}

func toOrderReq(req exchange.CreateOrderReq) orderReq {
	out := orderReq{
		Symbol:   req.Symbol.ToString(),
		Side:     string(req.Side()),
		OrderQty: abs(req.Quantity),
		OrdType:  string(req.Type()),
	}
	if !req.Price.IsZero() {
		price := req.Price.InexactFloat64()
		out.Price = &price
	}
	return out
}

func parseOrder(o orderResp) exchange.Order {
	return exchange.Order{
		Id:        o.OrderID,
		Symbol:    exchange.Symbol(o.Symbol),
		Side:      exchange.Side(o.Side),
		Type:      exchange.OrderType(o.OrdType),
		Price:     decimal.NewFromFloat(o.Price),
		Quantity:  o.OrderQty,
		Status:    exchange.OrderStatus(o.OrdStatus),
		CreatedAt: o.Timestamp,
	}
}

func (svc *OrderService) CreateOrder(ctx context.Context, req exchange.CreateOrderReq) (exchange.Order, error) {
	var resp orderResp
	if err := svc.cli.post(ctx, "/order", toOrderReq(req), &resp); err != nil {
		return exchange.Order{}, err
	}
	return parseOrder(resp), nil
}

type bulkOrderReq struct {
	Orders []orderReq `json:"orders"`
}

// CreateOrders submits the batch as one POST /order/bulk call. The venue
// validates the whole batch before placing any of it, so a rejection leaves
// no stray orders behind.
func (svc *OrderService) CreateOrders(ctx context.Context, reqs []exchange.CreateOrderReq) ([]exchange.Order, error) {
	body := bulkOrderReq{
		Orders: lo.Map(reqs, func(req exchange.CreateOrderReq, _ int) orderReq {
			return toOrderReq(req)
		}),
	}

	var resp []orderResp
	if err := svc.cli.post(ctx, "/order/bulk", body, &resp); err != nil {
		return nil, err
	}
	return lo.Map(resp, func(o orderResp, _ int) exchange.Order {
		return parseOrder(o)
	}), nil
}

// ClosePosition lets the venue size the offsetting order: execInst=Close
// with no quantity flattens whatever is open.
func (svc *OrderService) ClosePosition(ctx context.Context, symbol exchange.Symbol) (exchange.Order, error) {
	body := orderReq{
		Symbol:   symbol.ToString(),
		OrdType:  string(exchange.OrderTypeMarket),
		ExecInst: "Close",
	}

	var resp orderResp
	if err := svc.cli.post(ctx, "/order", body, &resp); err != nil {
		return exchange.Order{}, err
	}
	return parseOrder(resp), nil
}

func (svc *OrderService) CancelAllOrders(ctx context.Context) ([]exchange.Order, error) {
	var resp []orderResp
	if err := svc.cli.del(ctx, "/order/all", nil, &resp); err != nil {
		return nil, err
	}
	return lo.Map(resp, func(o orderResp, _ int) exchange.Order {
		return parseOrder(o)
	}), nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
