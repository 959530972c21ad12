package bitmex

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/gr-satt/bordem/internal/service/exchange"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var _ exchange.MarketService = (*MarketService)(nil)

type MarketService struct {
	cli *Client
}

func NewMarketService(cli *Client) *MarketService {
	return &MarketService{cli: cli}
}

type tradeBucket struct {
	Timestamp time.Time `json:"timestamp"`
	Symbol    string    `json:"symbol"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Trades    int64     `json:"trades"`
	Volume    float64   `json:"volume"`
	VWAP      float64   `json:"vwap"`
}

// GetKlines fetches trade/bucketed candles. The venue serves newest first
// when reverse=true; the result here is always oldest first.
func (m *MarketService) GetKlines(ctx context.Context, req exchange.GetKlinesReq) ([]exchange.Kline, error) {
	if !req.Interval.Valid() {
		return nil, fmt.Errorf("bitmex: unsupported bin size %q (supported: %v)", req.Interval, exchange.Intervals)
	}

	params := url.Values{}
	params.Set("binSize", req.Interval.ToString())
	params.Set("symbol", req.Symbol.ToString())
	params.Set("count", strconv.Itoa(req.Count))
	params.Set("partial", strconv.FormatBool(req.Partial))
	params.Set("reverse", "true")

	var buckets []tradeBucket
	if err := m.cli.get(ctx, "/trade/bucketed", params, &buckets); err != nil {
		return nil, err
	}

	// Empty buckets come back with null prices; drop them like the venue's
	// own charting does.
	buckets = lo.Filter(buckets, func(b tradeBucket, _ int) bool {
		return b.Close != 0
	})
	klines := lo.Map(buckets, func(b tradeBucket, _ int) exchange.Kline {
		return exchange.Kline{
			OpenTime: b.Timestamp,
			Open:     decimal.NewFromFloat(b.Open),
			High:     decimal.NewFromFloat(b.High),
			Low:      decimal.NewFromFloat(b.Low),
			Close:    decimal.NewFromFloat(b.Close),
			Volume:   decimal.NewFromFloat(b.Volume),
			VWAP:     decimal.NewFromFloat(b.VWAP),
			Trades:   b.Trades,
		}
	})
	return lo.Reverse(klines), nil
}

type instrument struct {
	Symbol    string  `json:"symbol"`
	LastPrice float64 `json:"lastPrice"`
	VWAP      float64 `json:"vwap"`
}

func (m *MarketService) Ticker(ctx context.Context, symbol exchange.Symbol) (decimal.Decimal, error) {
	inst, err := m.getInstrument(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(inst.LastPrice), nil
}

func (m *MarketService) VWAP(ctx context.Context, symbol exchange.Symbol) (decimal.Decimal, error) {
	inst, err := m.getInstrument(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(inst.VWAP), nil
}

func (m *MarketService) getInstrument(ctx context.Context, symbol exchange.Symbol) (instrument, error) {
	params := url.Values{}
	params.Set("symbol", symbol.ToString())

	var instruments []instrument
	if err := m.cli.get(ctx, "/instrument", params, &instruments); err != nil {
		return instrument{}, err
	}
	for _, inst := range instruments {
		if inst.Symbol == symbol.ToString() {
			return inst, nil
		}
	}
	return instrument{}, fmt.Errorf("bitmex: no instrument for symbol %s", symbol)
}
