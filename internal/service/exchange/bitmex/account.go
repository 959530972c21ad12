package bitmex

import (
	"context"
	"net/url"

	"github.com/gr-satt/bordem/internal/service/exchange"
	"github.com/shopspring/decimal"
)

var _ exchange.AccountService = (*AccountService)(nil)

type AccountService struct {
	cli *Client
}

func NewAccountService(cli *Client) *AccountService {
	return &AccountService{cli: cli}
}

var satoshisPerXBT = decimal.NewFromInt(100_000_000)

type wallet struct {
	// Amount in satoshi.
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// WalletBalance returns the wallet balance converted from satoshi to XBT.
func (a *AccountService) WalletBalance(ctx context.Context) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("currency", "XBt")

	var w wallet
	if err := a.cli.get(ctx, "/user/wallet", params, &w); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromInt(w.Amount).Div(satoshisPerXBT), nil
}
