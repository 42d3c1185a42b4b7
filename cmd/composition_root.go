package cmd

import (
	"log/slog"

	"gorm.io/gorm"

	inamqp "orderflow/internal/adapters/in/amqp"
	inhttp "orderflow/internal/adapters/in/http"
	outamqp "orderflow/internal/adapters/out/amqp"
	"orderflow/internal/adapters/out/gateways"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/postgres/ledgerrepo"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/jobs"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	publisher  *outamqp.EventPublisher
	amqpClient *outamqp.Client
	billing    *gateways.BillingClient
	fleet      *gateways.FleetClient
	verifier   *inhttp.JWTVerifier
	logger     *slog.Logger

	// Built once so the HTTP server and the sweep job share one attempt
	// counter per order.
	retryHandler commands.RetryAssignmentCommandHandler
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	amqpClient *outamqp.Client,
	logger *slog.Logger,
) (CompositionRoot, error) {
	verifier, err := inhttp.NewJWTVerifier([]byte(config.JWTSecret), config.JWTIssuer)
	if err != nil {
		return CompositionRoot{}, err
	}

	retry := gateways.DefaultRetryConfig()

	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB, ledgerrepo.NewSeenCache(config.LedgerSeenWindow))
	publisher := outamqp.NewEventPublisher(amqpClient, logger)

	var orderFactory commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return uowFactory.Create()
	})

	return CompositionRoot{
		config:       config,
		gormDB:       gormDB,
		uowFactory:   uowFactory,
		publisher:    publisher,
		amqpClient:   amqpClient,
		billing:      gateways.NewBillingClient(config.BillingServiceURL, config.GatewayTimeout, retry, logger),
		fleet:        gateways.NewFleetClient(config.FleetServiceURL, config.GatewayTimeout, retry, logger),
		verifier:     verifier,
		logger:       logger,
		retryHandler: commands.NewRetryAssignmentCommandHandler(orderFactory, publisher, logger),
	}, nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})

	applier := c.CreateApplyAssignmentCommandHandler()
	return commands.NewCreateOrderCommandHandler(f, c.publisher, c.billing, c.fleet, applier, c.logger)
}

func (c *CompositionRoot) CreateApplyAssignmentCommandHandler() commands.ApplyAssignmentCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewApplyAssignmentCommandHandler(f, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeOrderStatusCommandHandler(f, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateAssignFleetCommandHandler() commands.AssignFleetCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignFleetCommandHandler(f, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateRetryAssignmentCommandHandler() commands.RetryAssignmentCommandHandler {
	return c.retryHandler
}

func (c *CompositionRoot) CreateReportCourierLocationCommandHandler() commands.ReportCourierLocationCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReportCourierLocationCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateChangeVehicleStatusCommandHandler() commands.ChangeVehicleStatusCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeVehicleStatusCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *inhttp.Server {
	return inhttp.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateChangeOrderStatusCommandHandler(),
		c.CreateRetryAssignmentCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetActiveOrdersQueryHandler(),
		c.verifier,
	)
}

func (c *CompositionRoot) CreateConsumer() (*inamqp.Consumer, error) {
	applier := c.CreateApplyAssignmentCommandHandler()
	assigner := c.CreateAssignFleetCommandHandler()
	recorder := c.CreateReportCourierLocationCommandHandler()
	changer := c.CreateChangeVehicleStatusCommandHandler()
	return inamqp.NewConsumer(c.amqpClient, applier, assigner, recorder, changer, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})

	retry := c.CreateRetryAssignmentCommandHandler()
	return jobs.NewJobManager(f, retry, c.config.StalePendingAge, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}
