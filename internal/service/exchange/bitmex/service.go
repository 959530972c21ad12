package bitmex

import (
	"github.com/gr-satt/bordem/internal/service/exchange"
)

var _ exchange.Service = (*Service)(nil)

// Service bundles the per-concern services built over one credentialed
// client. Separate credential pairs get separate Service values; nothing is
// shared between them.
type Service struct {
	marketSvc   exchange.MarketService
	orderSvc    exchange.OrderService
	accountSvc  exchange.AccountService
	positionSvc exchange.PositionService
}

func NewService(cli *Client) *Service {
	return &Service{
		marketSvc:   NewMarketService(cli),
		orderSvc:    NewOrderService(cli),
		accountSvc:  NewAccountService(cli),
		positionSvc: NewPositionService(cli),
	}
}

func (s *Service) MarketService() exchange.MarketService {
	return s.marketSvc
}

func (s *Service) OrderService() exchange.OrderService {
	return s.orderSvc
}

func (s *Service) AccountService() exchange.AccountService {
	return s.accountSvc
}

func (s *Service) PositionService() exchange.PositionService {
	return s.positionSvc
}
