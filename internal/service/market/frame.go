package market

import (
	"fmt"
	"time"

	"github.com/gr-satt/bordem/internal/service/exchange"
)

// Source names one column of an OHLCV frame.
type Source string

const (
	SourceOpen   Source = "open"
	SourceHigh   Source = "high"
	SourceLow    Source = "low"
	SourceClose  Source = "close"
	SourceVolume Source = "volume"
	SourceVWAP   Source = "vwap"
)

var sources = []Source{SourceOpen, SourceHigh, SourceLow, SourceClose, SourceVolume, SourceVWAP}

func (s Source) Valid() bool {
	for _, v := range sources {
		if s == v {
			return true
		}
	}
	return false
}

// Frame is a columnar view over a candle series, oldest first. Indicator
// math wants plain float64 columns, so the decimal values are converted
// once at construction.
type Frame struct {
	Times   []time.Time
	columns map[Source][]float64
}

func NewFrame(klines []exchange.Kline) *Frame {
	f := &Frame{
		Times:   make([]time.Time, len(klines)),
		columns: make(map[Source][]float64, len(sources)),
	}
	for _, s := range sources {
		f.columns[s] = make([]float64, len(klines))
	}
	for i, k := range klines {
		f.Times[i] = k.OpenTime
		f.columns[SourceOpen][i] = k.Open.InexactFloat64()
		f.columns[SourceHigh][i] = k.High.InexactFloat64()
		f.columns[SourceLow][i] = k.Low.InexactFloat64()
		f.columns[SourceClose][i] = k.Close.InexactFloat64()
		f.columns[SourceVolume][i] = k.Volume.InexactFloat64()
		f.columns[SourceVWAP][i] = k.VWAP.InexactFloat64()
	}
	return f
}

func (f *Frame) Len() int {
	return len(f.Times)
}

func (f *Frame) Column(s Source) ([]float64, error) {
	col, ok := f.columns[s]
	if !ok {
		return nil, fmt.Errorf("market: unknown source %q (sources: %v)", s, sources)
	}
	return col, nil
}

func (f *Frame) Close() []float64 {
	return f.columns[SourceClose]
}
