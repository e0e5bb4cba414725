package cmd

import (
	"log/slog"
	"net/http"

	httpin "orderentry/internal/adapters/in/http"
	"orderentry/internal/adapters/out/identity"
	"orderentry/internal/adapters/out/memory"
	"orderentry/internal/adapters/out/metrics"
	"orderentry/internal/adapters/out/postgres"
	"orderentry/internal/adapters/out/settings"
	"orderentry/internal/core/application/lifecycle"
	"orderentry/internal/core/application/usecases/commands"
	"orderentry/internal/core/application/usecases/queries"
	"orderentry/internal/core/ports"
	"orderentry/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use cases. The unit of work and the
// active orders reads come from postgres when a *gorm.DB is given and from
// an in-memory store otherwise.
type CompositionRoot struct {
	config     Config
	logger     *slog.Logger
	uowFactory ports.UnitOfWorkFactory
	identity   *identity.Provider
	metrics    *metrics.Metrics
	env        commands.Environment

	activeOrders httpin.ActiveOrdersReader
	countActive  jobs.ActiveOrdersCounter
}

// NewCompositionRoot builds the shared dependencies once.
//
// Parameters:
//   - config: validated application configuration
//   - gormDB: postgres connection, nil to run on the in-memory store
//   - publisher: destination of lifecycle events, nil to skip publishing
//   - logger: base logger handed to every component
//
// Example:
//
//	root := NewCompositionRoot(cfg, db, publisher, logger)
//	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: root.CreateRouter()}
func NewCompositionRoot(config Config, gormDB *gorm.DB, publisher ports.EventPublisher, logger *slog.Logger) CompositionRoot {
	root := CompositionRoot{
		config:   config,
		logger:   logger,
		identity: identity.NewProvider(nil),
		metrics:  metrics.New(),
	}

	if gormDB != nil {
		root.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB)
		root.activeOrders = queries.NewGetActiveOrdersQueryHandler(gormDB)
		root.countActive = queries.NewCountActiveOrdersQueryHandler(gormDB)
	} else {
		store := memory.NewStore()
		root.uowFactory = store
		root.activeOrders = memory.NewGetActiveOrdersQueryHandler(store)
		root.countActive = memory.NewCountActiveOrdersQueryHandler(store)
	}

	root.env = commands.Environment{
		Identity:  root.identity,
		Config:    settings.NewSettings(config.OrderNumberPrefix, config.DeploymentLabel),
		Publisher: publisher,
		Logger:    logger,
		Options:   []lifecycle.Option{lifecycle.WithRecorder(root.metrics)},
	}
	return root
}

// CreateHTTPHandlers creates one handler per use case, all sharing the unit
// of work factory and environment.
func (c *CompositionRoot) CreateHTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		CreateOrder:          commands.NewCreateOrderCommandHandler(c.uowFactory, c.env),
		SignAndActivateOrder: commands.NewSignAndActivateOrderCommandHandler(c.uowFactory, c.env),
		DiscontinueOrder:     commands.NewDiscontinueOrderCommandHandler(c.uowFactory, c.env),
		FillOrder:            commands.NewFillOrderCommandHandler(c.uowFactory, c.env),
		VoidOrder:            commands.NewVoidOrderCommandHandler(c.uowFactory, c.env),
		UnvoidOrder:          commands.NewUnvoidOrderCommandHandler(c.uowFactory, c.env),
		PurgeOrder:           commands.NewPurgeOrderCommandHandler(c.uowFactory, c.env),
		CreateOrderGroup:     commands.NewCreateOrderGroupCommandHandler(c.uowFactory, c.env),
		VoidOrderGroup:       commands.NewVoidOrderGroupCommandHandler(c.uowFactory, c.env),
		UnvoidOrderGroup:     commands.NewUnvoidOrderGroupCommandHandler(c.uowFactory, c.env),
		CreateOrderType:      commands.NewCreateOrderTypeCommandHandler(c.uowFactory, c.env),
		RetireOrderType:      commands.NewRetireOrderTypeCommandHandler(c.uowFactory, c.env),
		PurgeOrderType:       commands.NewPurgeOrderTypeCommandHandler(c.uowFactory, c.env),

		GetOrder:        queries.NewGetOrderQueryHandler(c.uowFactory),
		GetOrderGroups:  queries.NewGetOrderGroupsQueryHandler(c.uowFactory),
		GetOrderTypes:   queries.NewGetOrderTypesQueryHandler(c.uowFactory),
		GetActiveOrders: c.activeOrders,
	}
}

// CreateRouter returns the echo router serving the API, /health and /metrics.
func (c *CompositionRoot) CreateRouter() http.Handler {
	server := httpin.NewServer(c.CreateHTTPHandlers(), c.identity, c.logger)
	return httpin.NewRouter(server, c.metrics.Handler())
}

// CreateJobManager creates the scheduled jobs. Call StartAll to run them.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.countActive, c.metrics, c.identity, c.config.ActiveOrdersSchedule, c.logger)
}
