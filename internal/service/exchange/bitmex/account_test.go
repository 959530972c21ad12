package bitmex

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gr-satt/bordem/internal/service/exchange"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountServiceWalletBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/user/wallet", r.URL.Path)
		require.Equal(t, "XBt", r.URL.Query().Get("currency"))
		w.Write([]byte(`{"amount":150000000,"currency":"XBt"}`))
	}))
	defer srv.Close()

	svc := NewAccountService(NewClient(Credentials{Key: "k", Secret: "s"}, false, WithBaseURL(srv.URL+"/api/v1")))

	balance, err := svc.WalletBalance(context.Background())
	require.NoError(t, err)
	// 150,000,000 satoshi is 1.5 XBT.
	assert.Equal(t, "1.5", balance.String())
}

func TestPositionServiceGetPosition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/position", r.URL.Path)
		assert.JSONEq(t, `{"symbol":"XBTUSD"}`, r.URL.Query().Get("filter"))
		w.Write([]byte(`[{"symbol":"XBTUSD","currentQty":-100,"avgEntryPrice":60000,"markPrice":60500,"liquidationPrice":72000,"leverage":5,"unrealisedPnl":-250000}]`))
	}))
	defer srv.Close()

	svc := NewPositionService(NewClient(Credentials{Key: "k", Secret: "s"}, false, WithBaseURL(srv.URL+"/api/v1")))

	pos, err := svc.GetPosition(context.Background(), exchange.SymbolXBTUSD)
	require.NoError(t, err)
	assert.Equal(t, int64(-100), pos.CurrentQty)
	assert.True(t, pos.IsOpen())
	assert.Equal(t, "60000", pos.EntryPrice.String())
	assert.Equal(t, "-0.0025", pos.UnrealisedPnl.String())
}

func TestPositionServiceFlatAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	svc := NewPositionService(NewClient(Credentials{Key: "k", Secret: "s"}, false, WithBaseURL(srv.URL+"/api/v1")))

	pos, err := svc.GetPosition(context.Background(), exchange.SymbolXBTUSD)
	require.NoError(t, err)
	assert.Equal(t, exchange.SymbolXBTUSD, pos.Symbol)
	assert.False(t, pos.IsOpen())
	assert.Zero(t, pos.CurrentQty)
}

func TestPositionServiceSetLeverage(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/position/leverage", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		gotBody = body
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	svc := NewPositionService(NewClient(Credentials{Key: "k", Secret: "s"}, false, WithBaseURL(srv.URL+"/api/v1")))

	err := svc.SetLeverage(context.Background(), exchange.SetLeverageReq{
		Symbol:   exchange.SymbolXBTUSD,
		Leverage: decimal.RequireFromString("5"),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"symbol":"XBTUSD","leverage":5}`, string(gotBody))
}
