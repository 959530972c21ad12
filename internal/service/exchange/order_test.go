package exchange

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSideFromQty(t *testing.T) {
	tests := []struct {
		name string
		qty  int64
		want Side
	}{
		{name: "positive quantity buys", qty: 10, want: SideBuy},
		{name: "negative quantity sells", qty: -10, want: SideSell},
		{name: "zero quantity defaults to buy", qty: 0, want: SideBuy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SideFromQty(tt.qty); got != tt.want {
				t.Errorf("SideFromQty(%d) = %v, want %v", tt.qty, got, tt.want)
			}
		})
	}
}

func TestCreateOrderReqType(t *testing.T) {
	tests := []struct {
		name string
		req  CreateOrderReq
		want OrderType
	}{
		{
			name: "zero price is a market order",
			req:  CreateOrderReq{Symbol: SymbolXBTUSD, Quantity: 10},
			want: OrderTypeMarket,
		},
		{
			name: "priced order is a limit order",
			req:  CreateOrderReq{Symbol: SymbolXBTUSD, Quantity: 10, Price: decimal.NewFromInt(10000)},
			want: OrderTypeLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Type(); got != tt.want {
				t.Errorf("Type() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntervalValid(t *testing.T) {
	for _, i := range Intervals {
		if !i.Valid() {
			t.Errorf("interval %s should be valid", i)
		}
	}
	if Interval("15m").Valid() {
		t.Error("15m is not a supported bin size")
	}
}
