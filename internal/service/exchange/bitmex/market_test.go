package bitmex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gr-satt/bordem/internal/service/exchange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trade/bucketed payload as the venue serves it with reverse=true: newest
// candle first.
const tradeBucketedBody = `[
	{"timestamp":"2024-03-01T02:00:00.000Z","symbol":"XBTUSD","open":62100,"high":62400,"low":62050,"close":62300,"trades":1800,"volume":310000,"vwap":62210.5},
	{"timestamp":"2024-03-01T01:00:00.000Z","symbol":"XBTUSD","open":61900,"high":62200,"low":61850,"close":62100,"trades":1500,"volume":280000,"vwap":62010.1},
	{"timestamp":"2024-03-01T00:00:00.000Z","symbol":"XBTUSD","open":61800,"high":62000,"low":61700,"close":61900,"trades":1200,"volume":250000,"vwap":61880.2}
]`

func TestMarketServiceGetKlines(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/trade/bucketed", r.URL.Path)
		gotQuery = r.URL.Query()
		w.Write([]byte(tradeBucketedBody))
	}))
	defer srv.Close()

	cli := NewClient(Credentials{}, false, WithBaseURL(srv.URL+"/api/v1"))
	svc := NewMarketService(cli)

	klines, err := svc.GetKlines(context.Background(), exchange.GetKlinesReq{
		Symbol:   exchange.SymbolXBTUSD,
		Interval: exchange.Interval1h,
		Count:    3,
		Partial:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"1h"}, gotQuery["binSize"])
	assert.Equal(t, []string{"XBTUSD"}, gotQuery["symbol"])
	assert.Equal(t, []string{"3"}, gotQuery["count"])
	assert.Equal(t, []string{"true"}, gotQuery["partial"])
	assert.Equal(t, []string{"true"}, gotQuery["reverse"])

	require.Len(t, klines, 3)
	// Oldest first, strictly time ordered.
	for i := 1; i < len(klines); i++ {
		assert.True(t, klines[i].OpenTime.After(klines[i-1].OpenTime),
			"klines must be oldest first")
	}
	assert.Equal(t, "61900", klines[0].Close.String())
	assert.Equal(t, "62300", klines[2].Close.String())
	assert.Equal(t, int64(1800), klines[2].Trades)
}

func TestMarketServiceGetKlinesDropsEmptyBuckets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"timestamp":"2024-03-01T01:00:00.000Z","symbol":"XBTUSD","open":null,"high":null,"low":null,"close":null,"trades":0,"volume":0,"vwap":null},
			{"timestamp":"2024-03-01T00:00:00.000Z","symbol":"XBTUSD","open":61800,"high":62000,"low":61700,"close":61900,"trades":1200,"volume":250000,"vwap":61880.2}
		]`))
	}))
	defer srv.Close()

	cli := NewClient(Credentials{}, false, WithBaseURL(srv.URL+"/api/v1"))
	svc := NewMarketService(cli)

	klines, err := svc.GetKlines(context.Background(), exchange.GetKlinesReq{
		Symbol:   exchange.SymbolXBTUSD,
		Interval: exchange.Interval1h,
		Count:    2,
	})
	require.NoError(t, err)
	require.Len(t, klines, 1)
	assert.Equal(t, "61900", klines[0].Close.String())
}

func TestMarketServiceGetKlinesRejectsBinSize(t *testing.T) {
	cli := NewClient(Credentials{}, false)
	svc := NewMarketService(cli)

	_, err := svc.GetKlines(context.Background(), exchange.GetKlinesReq{
		Symbol:   exchange.SymbolXBTUSD,
		Interval: "15m",
		Count:    10,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported bin size")
}

func TestMarketServiceTickerAndVWAP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/instrument", r.URL.Path)
		w.Write([]byte(`[{"symbol":"XBTUSD","lastPrice":62345.5,"vwap":62100.25}]`))
	}))
	defer srv.Close()

	cli := NewClient(Credentials{}, false, WithBaseURL(srv.URL+"/api/v1"))
	svc := NewMarketService(cli)

	price, err := svc.Ticker(context.Background(), exchange.SymbolXBTUSD)
	require.NoError(t, err)
	assert.Equal(t, "62345.5", price.String())

	vwap, err := svc.VWAP(context.Background(), exchange.SymbolXBTUSD)
	require.NoError(t, err)
	assert.Equal(t, "62100.25", vwap.String())
}

func TestMarketServiceTickerUnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cli := NewClient(Credentials{}, false, WithBaseURL(srv.URL+"/api/v1"))
	svc := NewMarketService(cli)

	_, err := svc.Ticker(context.Background(), "NOPEUSD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no instrument")
}
