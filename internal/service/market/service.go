package market

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gr-satt/bordem/internal/service/exchange"
)

// Service turns raw candle series into indicator-ready frames and runs
// registered indicators over them. It over-fetches the warm-up region so
// every returned value is defined.
type Service struct {
	market exchange.MarketService
}

func NewService(market exchange.MarketService) *Service {
	return &Service{market: market}
}

// OHLCV fetches the latest candles for the symbol and returns them as a
// columnar frame, oldest first.
func (s *Service) OHLCV(ctx context.Context, symbol exchange.Symbol, interval exchange.Interval, instances int) (*Frame, error) {
	if instances <= 0 {
		return nil, fmt.Errorf("market: instances must be positive, got %d", instances)
	}
	klines, err := s.market.GetKlines(ctx, exchange.GetKlinesReq{
		Symbol:   symbol,
		Interval: interval,
		Count:    instances,
		// The still-forming bucket counts as the newest candle.
		Partial: true,
	})
	if err != nil {
		return nil, err
	}
	if len(klines) < instances {
		return nil, fmt.Errorf("market: requested %d candles for %s %s, venue returned %d",
			instances, symbol, interval, len(klines))
	}
	return NewFrame(klines), nil
}

type IndicatorReq struct {
	Symbol    exchange.Symbol
	Interval  exchange.Interval
	Instances int
	Name      string
	// Sources fill the selectable input slots positionally. Unfilled
	// slots fall back to the close series.
	Sources []Source
	// Params override the registered defaults by name.
	Params map[string]float64
}

type IndicatorResult struct {
	Name    string
	Times   []time.Time
	Outputs []string
	// Values holds one slice per output, each Instances long, oldest
	// value first.
	Values [][]float64
}

// Indicator computes a registered indicator over the latest candles. The
// candle fetch is widened by the indicator's lookback so the oldest
// requested instance is already past the warm-up region.
func (s *Service) Indicator(ctx context.Context, req IndicatorReq) (*IndicatorResult, error) {
	if req.Instances <= 0 {
		return nil, fmt.Errorf("market: instances must be positive, got %d", req.Instances)
	}

	desc, err := Lookup(req.Name)
	if err != nil {
		return nil, err
	}

	params := desc.defaults()
	for name, value := range req.Params {
		if !desc.hasParam(name) {
			return nil, fmt.Errorf("market: indicator %s has no parameter %q", desc.Name, name)
		}
		params[name] = value
	}

	selectable := 0
	for _, slot := range desc.Inputs {
		if slot.Selectable {
			selectable++
		}
	}
	if len(req.Sources) > selectable {
		return nil, fmt.Errorf("market: indicator %s takes at most %d source(s), got %d",
			desc.Name, selectable, len(req.Sources))
	}
	for _, src := range req.Sources {
		if !src.Valid() {
			return nil, fmt.Errorf("market: unknown source %q (sources: %v)", src, sources)
		}
	}

	lookback := desc.Lookback(params)
	frame, err := s.OHLCV(ctx, req.Symbol, req.Interval, req.Instances+lookback)
	if err != nil {
		return nil, err
	}

	inputs := make([][]float64, len(desc.Inputs))
	next := 0
	for i, slot := range desc.Inputs {
		src := slot.Source
		if slot.Selectable && next < len(req.Sources) {
			src = req.Sources[next]
			next++
		}
		col, err := frame.Column(src)
		if err != nil {
			return nil, err
		}
		inputs[i] = col
	}

	raw := desc.compute(inputs, params)

	values := make([][]float64, len(raw))
	for i, series := range raw {
		values[i] = series[len(series)-req.Instances:]
	}

	slog.Debug("indicator computed",
		slog.String("name", desc.Name),
		slog.String("symbol", string(req.Symbol)),
		slog.String("interval", string(req.Interval)),
		slog.Int("instances", req.Instances),
		slog.Int("lookback", lookback))

	return &IndicatorResult{
		Name:    desc.Name,
		Times:   frame.Times[frame.Len()-req.Instances:],
		Outputs: desc.Outputs,
		Values:  values,
	}, nil
}
