package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gr-satt/bordem/internal/entity"
	"github.com/gr-satt/bordem/internal/repo"
	"github.com/gr-satt/bordem/internal/schedule"
	"github.com/gr-satt/bordem/internal/service/exchange"
	"github.com/gr-satt/bordem/internal/service/notification"
	"github.com/shopspring/decimal"
)

// ErrBalanceFloorBreached reports that the wallet fell below the guard
// floor and the account was flattened.
var ErrBalanceFloorBreached = errors.New("monitor: balance below floor, account flattened")

type consoleAlerter struct{}

func (c consoleAlerter) Alert(ctx context.Context, subject, body string) error {
	fmt.Println("balance guard alert:", subject, body)
	return nil
}

type Option func(g *BalanceGuard)

func WithAlerter(alerter notification.Alerter) Option {
	return func(g *BalanceGuard) {
		g.alerter = alerter
	}
}

// BalanceGuard snapshots the wallet each run and flattens the account
// when the balance drops below the floor: the open position is closed,
// every resting order is canceled, and an alert goes out.
type BalanceGuard struct {
	symbol  exchange.Symbol
	floor   decimal.Decimal
	svc     exchange.Service
	repo    repo.BalanceRepo
	alerter notification.Alerter
}

func NewBalanceGuard(svc exchange.Service, balanceRepo repo.BalanceRepo, symbol exchange.Symbol, floor decimal.Decimal, opts ...Option) *BalanceGuard {
	guard := &BalanceGuard{
		symbol:  symbol,
		floor:   floor,
		svc:     svc,
		repo:    balanceRepo,
		alerter: consoleAlerter{},
	}
	for _, opt := range opts {
		opt(guard)
	}
	return guard
}

var _ schedule.Task = (*BalanceGuard)(nil)

func (g *BalanceGuard) Name() string {
	return "balance guard task"
}

func (g *BalanceGuard) Run(ctx context.Context) error {
	balance, err := g.svc.AccountService().WalletBalance(ctx)
	if err != nil {
		return fmt.Errorf("fetch wallet balance: %w", err)
	}

	breached := balance.LessThan(g.floor)
	_, err = g.repo.Create(ctx, entity.BalanceSnapshot{
		Balance:   balance.String(),
		Floor:     g.floor.String(),
		Breached:  breached,
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to save balance snapshot", "balance", balance, "error", err)
	}

	if !breached {
		slog.Info("balance above floor", "balance", balance, "floor", g.floor)
		return nil
	}

	slog.Warn("balance below floor, flattening account", "balance", balance, "floor", g.floor)

	if _, err := g.svc.OrderService().ClosePosition(ctx, g.symbol); err != nil {
		return fmt.Errorf("close position on floor breach: %w", err)
	}
	if _, err := g.svc.OrderService().CancelAllOrders(ctx); err != nil {
		return fmt.Errorf("cancel orders on floor breach: %w", err)
	}

	subject := "balance floor breached"
	body := fmt.Sprintf("wallet balance %s XBT fell below floor %s XBT; position closed and open orders canceled",
		balance, g.floor)
	if err := g.alerter.Alert(ctx, subject, body); err != nil {
		slog.Error("failed to send floor breach alert", "error", err)
	}

	return ErrBalanceFloorBreached
}
