package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gr-satt/bordem/internal/repo"
	"github.com/gr-satt/bordem/internal/schedule"
	"github.com/gr-satt/bordem/internal/service/exchange"
	"github.com/gr-satt/bordem/internal/service/exchange/bitmex"
	"github.com/gr-satt/bordem/internal/service/monitor"
	"github.com/gr-satt/bordem/ioc"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func initViper() {
	// --config=./config/xxx.yaml
	file := pflag.String("config", "./config/config.yaml", "specify config file")
	pflag.Parse()

	viper.SetConfigFile(*file)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s \n", err))
	}
}

func main() {
	initViper()

	db := ioc.InitDB()
	if err := repo.InitTables(db); err != nil {
		panic(err)
	}

	cli := ioc.InitBitmexCli()
	venue := bitmex.NewService(cli)
	mailer := ioc.InitMailer()

	type guardConfig struct {
		Symbol string `mapstructure:"symbol"`
		Floor  string `mapstructure:"floor"`
		Hour   int    `mapstructure:"hour"`
		Minute int    `mapstructure:"minute"`
		Second int    `mapstructure:"second"`
	}
	var gc guardConfig
	if err := viper.UnmarshalKey("guard", &gc); err != nil {
		panic(err)
	}
	if gc.Symbol == "" {
		gc.Symbol = exchange.SymbolXBTUSD.ToString()
	}
	floor, err := decimal.NewFromString(gc.Floor)
	if err != nil {
		panic(fmt.Errorf("invalid guard floor %q: %w", gc.Floor, err))
	}

	balanceRepo := repo.NewBalanceRepo(db)
	guard := monitor.NewBalanceGuard(venue, balanceRepo, exchange.Symbol(gc.Symbol), floor,
		monitor.WithAlerter(mailer))

	daily, err := schedule.NewDaily(guard, gc.Hour, gc.Minute, gc.Second)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("balance guard scheduled",
		slog.String("symbol", gc.Symbol),
		slog.String("floor", floor.String()),
		slog.Int("hour", gc.Hour),
		slog.Int("minute", gc.Minute))

	if err := daily.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		panic(err)
	}
	slog.Info("shutting down")
}
