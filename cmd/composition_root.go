package cmd

import (
	"log/slog"
	"os"

	"fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/carrierrepo"
	"fulfillment/internal/adapters/out/postgres/warehouserepo"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot assembles the application object graph: adapters around
// the database connection, domain services from the configured tunables and
// the use case handlers on top.
type CompositionRoot struct {
	gormDB      *gorm.DB
	uowFactory  postgres.GormUnitOfWorkFactory
	coordinator services.Coordinator
	tracker     services.SlaTracker
	logger      *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB) (CompositionRoot, error) {
	calculator, err := services.NewSlaCalculator(configs.SlaCutoffHour, configs.SlaExpressCutDays)
	if err != nil {
		return CompositionRoot{}, err
	}

	engine, err := services.NewAllocationEngine(services.NewProximityRanker())
	if err != nil {
		return CompositionRoot{}, err
	}

	selector, err := services.NewPartnerSelector(services.PartnerWeights{
		Rate: configs.PartnerRateWeight,
		Tat:  configs.PartnerTatWeight,
	})
	if err != nil {
		return CompositionRoot{}, err
	}

	coordinator, err := services.NewCoordinator(
		services.NewServiceabilityChecker(),
		calculator,
		engine,
		selector,
		services.AllocationConfig{
			EnableHopping: configs.AllocEnableHopping,
			MaxHops:       configs.AllocMaxHops,
		},
		nil,
	)
	if err != nil {
		return CompositionRoot{}, err
	}

	tracker, err := services.NewSlaTracker(configs.SlaAtRiskFraction)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		coordinator: coordinator,
		tracker:     tracker,
		logger:      slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}, nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateRecordMilestoneCommandHandler() commands.RecordMilestoneCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecordMilestoneCommandHandler(f)
}

func (c *CompositionRoot) CreateOrchestrateOrderCommandHandler() commands.OrchestrateOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewOrchestrateOrderCommandHandler(
		f,
		warehouserepo.NewGormWarehouseStore(c.gormDB),
		carrierrepo.NewGormCarrierConfig(c.gormDB),
		c.coordinator,
	)
}

func (c *CompositionRoot) CreateGetOrderStatusQueryHandler() queries.GetOrderStatusQueryHandler {
	return queries.NewGetOrderStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetSlaComplianceQueryHandler() queries.GetSlaComplianceQueryHandler {
	return queries.NewGetSlaComplianceQueryHandler(c.gormDB, c.tracker)
}

func (c *CompositionRoot) CreateGetSlaBreachesQueryHandler() queries.GetSlaBreachesQueryHandler {
	return queries.NewGetSlaBreachesQueryHandler(c.gormDB, c.tracker)
}

func (c *CompositionRoot) CreateHTTPServer() *http.Server {
	return http.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateOrchestrateOrderCommandHandler(),
		c.CreateRecordMilestoneCommandHandler(),
		c.CreateGetOrderStatusQueryHandler(),
		c.CreateGetSlaComplianceQueryHandler(),
		c.CreateGetSlaBreachesQueryHandler(),
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return jobs.NewJobManager(
		f,
		c.CreateOrchestrateOrderCommandHandler(),
		c.tracker,
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
