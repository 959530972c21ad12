package ioc

import (
	"github.com/gr-satt/bordem/internal/service/exchange/bitmex"
	"github.com/spf13/viper"
)

func InitBitmexCli() *bitmex.Client {
	type Config struct {
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
		Testnet   bool   `mapstructure:"testnet"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("cex.bitmex", &cfg); err != nil {
		panic(err)
	}

	return bitmex.NewClient(bitmex.Credentials{Key: cfg.ApiKey, Secret: cfg.ApiSecret}, cfg.Testnet)
}
