package cmd

import (
	"time"

	"lunchroom/internal/adapters/in/http"
	"lunchroom/internal/adapters/out/payments"
	"lunchroom/internal/adapters/out/postgres"
	"lunchroom/internal/adapters/out/postgres/accountrepo"
	"lunchroom/internal/adapters/out/postgres/configrepo"
	"lunchroom/internal/adapters/out/postgres/menurepo"
	"lunchroom/internal/core/application/usecases/commands"
	"lunchroom/internal/core/application/usecases/queries"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB          *gorm.DB
	uowFactory      postgres.GormUnitOfWorkFactory
	gateway         *payments.Client
	webhookVerifier *payments.WebhookVerifier
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB) (CompositionRoot, error) {
	gateway, err := payments.NewClient(configs.PaymentAPIBaseURL, configs.PaymentSecretKey)
	if err != nil {
		return CompositionRoot{}, err
	}
	verifier, err := payments.NewWebhookVerifier(configs.PaymentWebhookSecret)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		gormDB:          gormDB,
		uowFactory:      *postgres.NewGormUnitOfWorkFactory(gormDB),
		gateway:         gateway,
		webhookVerifier: verifier,
	}, nil
}

func (c *CompositionRoot) OrderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) PaymentGateway() *payments.Client {
	return c.gateway
}

func (c *CompositionRoot) WebhookVerifier() *payments.WebhookVerifier {
	return c.webhookVerifier
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(
		c.OrderUoWFactory(),
		menurepo.NewGormMenuRepository(c.gormDB),
		accountrepo.NewGormAccountRepository(c.gormDB),
		configrepo.NewGormConfigRepository(c.gormDB),
		c.gateway,
		time.Now,
	)
}

func (c *CompositionRoot) CreateUpdateOrderItemStatusCommandHandler() commands.UpdateOrderItemStatusCommandHandler {
	return commands.NewUpdateOrderItemStatusCommandHandler(c.OrderUoWFactory(), time.Now)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.OrderUoWFactory(), time.Now)
}

func (c *CompositionRoot) CreateFulfillMenuItemCommandHandler() commands.FulfillMenuItemCommandHandler {
	return commands.NewFulfillMenuItemCommandHandler(c.OrderUoWFactory(), time.Now)
}

func (c *CompositionRoot) CreateRecordPaymentEventCommandHandler() commands.RecordPaymentEventCommandHandler {
	return commands.NewRecordPaymentEventCommandHandler(c.OrderUoWFactory(), time.Now)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetKitchenOrdersQueryHandler() queries.GetKitchenOrdersQueryHandler {
	return queries.NewGetKitchenOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetKitchenSummaryQueryHandler() queries.GetKitchenSummaryQueryHandler {
	return queries.NewGetKitchenSummaryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDailyStatsQueryHandler() queries.GetDailyStatsQueryHandler {
	return queries.NewGetDailyStatsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *http.Server {
	return http.NewServer(
		c.CreatePlaceOrderCommandHandler(),
		c.CreateUpdateOrderItemStatusCommandHandler(),
		c.CreateUpdateOrderStatusCommandHandler(),
		c.CreateFulfillMenuItemCommandHandler(),
		c.CreateRecordPaymentEventCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetKitchenOrdersQueryHandler(),
		c.CreateGetKitchenSummaryQueryHandler(),
		c.CreateGetDailyStatsQueryHandler(),
		c.webhookVerifier,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
