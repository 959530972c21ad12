package trading

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gr-satt/bordem/internal/service/exchange"
	"github.com/shopspring/decimal"
)

const defaultBulkOrders = 10

// Price grids per contract. Anything unlisted is assumed to quote in 0.5
// USD increments like XBTUSD.
var tickSizes = map[exchange.Symbol]decimal.Decimal{
	exchange.SymbolXBTUSD: decimal.NewFromFloat(0.5),
}

var defaultTickSize = decimal.NewFromFloat(0.5)

func tickSizeFor(symbol exchange.Symbol) decimal.Decimal {
	if tick, ok := tickSizes[symbol]; ok {
		return tick
	}
	return defaultTickSize
}

var one = decimal.NewFromInt(1)

// Facade bundles the common order workflows on top of an exchange
// service. Quantities are signed: positive buys, negative sells.
type Facade struct {
	svc    exchange.Service
	logger *slog.Logger
}

func NewFacade(svc exchange.Service) *Facade {
	return &Facade{
		svc:    svc,
		logger: slog.With(slog.String("service", "trading")),
	}
}

// Market places a market order for the signed quantity.
func (f *Facade) Market(ctx context.Context, symbol exchange.Symbol, quantity int64) (exchange.Order, error) {
	if quantity == 0 {
		return exchange.Order{}, fmt.Errorf("trading: quantity must be non-zero")
	}
	order, err := f.svc.OrderService().CreateOrder(ctx, exchange.CreateOrderReq{
		Symbol:   symbol,
		Quantity: quantity,
	})
	if err != nil {
		return exchange.Order{}, fmt.Errorf("place market order: %w", err)
	}
	f.logger.Info("market order placed",
		slog.String("symbol", symbol.ToString()),
		slog.Int64("quantity", quantity),
		slog.String("orderId", order.Id))
	return order, nil
}

// Limit places a limit order for the signed quantity at the given price.
func (f *Facade) Limit(ctx context.Context, symbol exchange.Symbol, quantity int64, price decimal.Decimal) (exchange.Order, error) {
	if quantity == 0 {
		return exchange.Order{}, fmt.Errorf("trading: quantity must be non-zero")
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return exchange.Order{}, fmt.Errorf("trading: price must be positive, got %s", price)
	}
	order, err := f.svc.OrderService().CreateOrder(ctx, exchange.CreateOrderReq{
		Symbol:   symbol,
		Quantity: quantity,
		Price:    price,
	})
	if err != nil {
		return exchange.Order{}, fmt.Errorf("place limit order: %w", err)
	}
	f.logger.Info("limit order placed",
		slog.String("symbol", symbol.ToString()),
		slog.Int64("quantity", quantity),
		slog.String("price", price.String()),
		slog.String("orderId", order.Id))
	return order, nil
}

// Bulk lays a ladder of limit orders around a reference price and
// submits it as one batch, so either every rung rests or none does. Rung
// k is priced at price*(1+k*offsetPct/100): a positive offset stacks the
// ladder above the reference, a negative one below. A non-positive
// amount falls back to 10 rungs, each carrying the full signed quantity.
func (f *Facade) Bulk(ctx context.Context, symbol exchange.Symbol, quantity int64, price decimal.Decimal, offsetPct float64, amount int) ([]exchange.Order, error) {
	if quantity == 0 {
		return nil, fmt.Errorf("trading: quantity must be non-zero")
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("trading: price must be positive, got %s", price)
	}
	if offsetPct == 0 {
		return nil, fmt.Errorf("trading: offset must be non-zero")
	}
	if amount <= 0 {
		amount = defaultBulkOrders
	}

	step := decimal.NewFromFloat(offsetPct).Div(decimal.NewFromInt(100))
	tick := tickSizeFor(symbol)

	reqs := make([]exchange.CreateOrderReq, 0, amount)
	var prev decimal.Decimal
	for k := 1; k <= amount; k++ {
		rung := roundToTick(price.Mul(one.Add(step.Mul(decimal.NewFromInt(int64(k))))), tick, offsetPct > 0)
		// A sub-tick step still has to advance the ladder one tick, or
		// rounding would collapse adjacent rungs onto the same price.
		if k > 1 {
			if offsetPct > 0 && !rung.GreaterThan(prev) {
				rung = prev.Add(tick)
			} else if offsetPct < 0 && !rung.LessThan(prev) {
				rung = prev.Sub(tick)
			}
		}
		prev = rung
		reqs = append(reqs, exchange.CreateOrderReq{
			Symbol:   symbol,
			Quantity: quantity,
			Price:    rung,
		})
	}

	orders, err := f.svc.OrderService().CreateOrders(ctx, reqs)
	if err != nil {
		return nil, fmt.Errorf("place bulk orders: %w", err)
	}
	f.logger.Info("bulk ladder placed",
		slog.String("symbol", symbol.ToString()),
		slog.Int64("quantity", quantity),
		slog.Int("orders", len(orders)),
		slog.String("basePrice", price.String()))
	return orders, nil
}

// Close flattens the open position for the symbol with a market order.
func (f *Facade) Close(ctx context.Context, symbol exchange.Symbol) (exchange.Order, error) {
	order, err := f.svc.OrderService().ClosePosition(ctx, symbol)
	if err != nil {
		return exchange.Order{}, fmt.Errorf("close position: %w", err)
	}
	f.logger.Info("position closed", slog.String("symbol", symbol.ToString()))
	return order, nil
}

// CancelAll cancels every open order on the account.
func (f *Facade) CancelAll(ctx context.Context) ([]exchange.Order, error) {
	orders, err := f.svc.OrderService().CancelAllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("cancel all orders: %w", err)
	}
	f.logger.Info("open orders canceled", slog.Int("count", len(orders)))
	return orders, nil
}

// QtyUpdate pushes the leverage to the venue and returns the contract
// quantity the wallet supports at that leverage: floor(balance in XBT *
// last price * leverage), since one XBTUSD contract is one USD.
func (f *Facade) QtyUpdate(ctx context.Context, symbol exchange.Symbol, leverage decimal.Decimal) (int64, error) {
	if leverage.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("trading: leverage must be positive, got %s", leverage)
	}

	balance, err := f.svc.AccountService().WalletBalance(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch wallet balance: %w", err)
	}
	price, err := f.svc.MarketService().Ticker(ctx, symbol)
	if err != nil {
		return 0, fmt.Errorf("fetch ticker: %w", err)
	}
	if err := f.svc.PositionService().SetLeverage(ctx, exchange.SetLeverageReq{
		Symbol:   symbol,
		Leverage: leverage,
	}); err != nil {
		return 0, fmt.Errorf("set leverage: %w", err)
	}

	qty := balance.Mul(price).Mul(leverage).Floor().IntPart()
	f.logger.Info("tradable quantity updated",
		slog.String("symbol", symbol.ToString()),
		slog.String("leverage", leverage.String()),
		slog.Int64("quantity", qty))
	return qty, nil
}

// Rungs stacking upward round up and rungs stacking downward round down,
// so tick rounding never pulls a rung back across the reference price.
func roundToTick(price, tick decimal.Decimal, up bool) decimal.Decimal {
	ticks := price.Div(tick)
	if up {
		ticks = ticks.Ceil()
	} else {
		ticks = ticks.Floor()
	}
	return ticks.Mul(tick)
}
