package exchange

import (
	"context"

	"github.com/shopspring/decimal"
)

type Position struct {
	Symbol           Symbol
	CurrentQty       int64
	EntryPrice       decimal.Decimal
	MarkPrice        decimal.Decimal
	LiquidationPrice decimal.Decimal
	Leverage         decimal.Decimal
	// UnrealisedPnl in XBT.
	UnrealisedPnl decimal.Decimal
}

func (p Position) IsOpen() bool {
	return p.CurrentQty != 0
}

type SetLeverageReq struct {
	Symbol Symbol
	// Leverage 0.01-100; 0 selects cross margin on the venue.
	Leverage decimal.Decimal
}

type PositionService interface {
	// GetPosition returns the position for the symbol; a flat account yields
	// a zero-quantity position, not an error.
	GetPosition(ctx context.Context, symbol Symbol) (Position, error)
	SetLeverage(ctx context.Context, req SetLeverageReq) error
}
