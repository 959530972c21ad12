package exchange

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Symbol 合约标识 (BitMEX style, e.g. XBTUSD)
type Symbol string

func (s Symbol) ToString() string {
	return string(s)
}

func (s Symbol) IsZero() bool {
	return s == ""
}

const SymbolXBTUSD Symbol = "XBTUSD"

// Interval BitMEX binSize
type Interval string

func (i Interval) ToString() string {
	return string(i)
}

const (
	Interval1m Interval = "1m"
	Interval5m Interval = "5m"
	Interval1h Interval = "1h"
	Interval1d Interval = "1d"
)

// Intervals lists the bin sizes the venue accepts for trade/bucketed.
var Intervals = []Interval{Interval1m, Interval5m, Interval1h, Interval1d}

func (i Interval) Valid() bool {
	for _, v := range Intervals {
		if i == v {
			return true
		}
	}
	return false
}

func (i Interval) Duration() time.Duration {
	switch i {
	case Interval1m:
		return time.Minute
	case Interval5m:
		return 5 * time.Minute
	case Interval1h:
		return time.Hour
	case Interval1d:
		return 24 * time.Hour
	default:
		return 0
	}
}

type Kline struct {
	OpenTime time.Time
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	Volume   decimal.Decimal
	VWAP     decimal.Decimal
	Trades   int64
}

type GetKlinesReq struct {
	Symbol   Symbol
	Interval Interval
	Count    int
	// Partial includes the still-forming bucket as the newest candle.
	Partial bool
}

type MarketService interface {
	// GetKlines returns up to req.Count candles, oldest first.
	GetKlines(ctx context.Context, req GetKlinesReq) ([]Kline, error)
	// Ticker returns the contract's last traded price.
	Ticker(ctx context.Context, symbol Symbol) (decimal.Decimal, error)
	// VWAP returns the contract's volume-weighted average price.
	VWAP(ctx context.Context, symbol Symbol) (decimal.Decimal, error)
}

type AccountService interface {
	// WalletBalance returns the margin balance denominated in XBT.
	WalletBalance(ctx context.Context) (decimal.Decimal, error)
}

// Service aggregates the per-concern exchange services the way a
// credentialed client exposes them. Two Service values built from two
// credential pairs are fully independent.
type Service interface {
	MarketService() MarketService
	OrderService() OrderService
	AccountService() AccountService
	PositionService() PositionService
}
