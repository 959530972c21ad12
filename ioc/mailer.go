package ioc

import (
	"github.com/gr-satt/bordem/internal/service/notification/smtp"
	"github.com/spf13/viper"
)

func InitMailer() *smtp.Mailer {
	type Config struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		From     string `mapstructure:"from"`
		To       string `mapstructure:"to"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("mail", &cfg); err != nil {
		panic(err)
	}

	return smtp.NewMailer(smtp.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
		To:       cfg.To,
	})
}
