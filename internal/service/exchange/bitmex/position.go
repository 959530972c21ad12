package bitmex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/gr-satt/bordem/internal/service/exchange"
	"github.com/shopspring/decimal"
)

var _ exchange.PositionService = (*PositionService)(nil)

type PositionService struct {
	cli *Client
}

func NewPositionService(cli *Client) *PositionService {
	return &PositionService{cli: cli}
}

type position struct {
	Symbol           string  `json:"symbol"`
	CurrentQty       int64   `json:"currentQty"`
	AvgEntryPrice    float64 `json:"avgEntryPrice"`
	MarkPrice        float64 `json:"markPrice"`
	LiquidationPrice float64 `json:"liquidationPrice"`
	Leverage         float64 `json:"leverage"`
	// unrealisedPnl is reported in satoshi.
	UnrealisedPnl int64 `json:"unrealisedPnl"`
}

func (p *PositionService) GetPosition(ctx context.Context, symbol exchange.Symbol) (exchange.Position, error) {
	filter, err := json.Marshal(map[string]string{"symbol": symbol.ToString()})
	if err != nil {
		return exchange.Position{}, fmt.Errorf("bitmex: marshal position filter: %w", err)
	}
	params := url.Values{}
	params.Set("filter", string(filter))

	var positions []position
	if err := p.cli.get(ctx, "/position", params, &positions); err != nil {
		return exchange.Position{}, err
	}

	// A flat account has no row for the symbol; that is a zero position,
	// not an error.
	if len(positions) == 0 {
		return exchange.Position{Symbol: symbol}, nil
	}
	v := positions[0]
	return exchange.Position{
		Symbol:           exchange.Symbol(v.Symbol),
		CurrentQty:       v.CurrentQty,
		EntryPrice:       decimal.NewFromFloat(v.AvgEntryPrice),
		MarkPrice:        decimal.NewFromFloat(v.MarkPrice),
		LiquidationPrice: decimal.NewFromFloat(v.LiquidationPrice),
		Leverage:         decimal.NewFromFloat(v.Leverage),
		UnrealisedPnl:    decimal.NewFromInt(v.UnrealisedPnl).Div(satoshisPerXBT),
	}, nil
}

type setLeverageReq struct {
	Symbol   string  `json:"symbol"`
	Leverage float64 `json:"leverage"`
}

func (p *PositionService) SetLeverage(ctx context.Context, req exchange.SetLeverageReq) error {
	body := setLeverageReq{
		Symbol:   req.Symbol.ToString(),
		Leverage: req.Leverage.InexactFloat64(),
	}
	return p.cli.post(ctx, "/position/leverage", body, nil)
}
