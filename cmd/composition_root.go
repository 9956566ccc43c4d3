package cmd

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"fulfillment/internal/adapters/out/geo"
	"fulfillment/internal/adapters/out/hours"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/rabbit"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
)

// CompositionRoot wires adapters into use case handlers. It owns the shared
// singletons: the unit of work factory, the event publisher, and the map
// snapshot cache.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	publisher       ports.EventPublisher
	rabbitPublisher *rabbit.RabbitEventPublisher
	geocoder        ports.Geocoder
	oracle          ports.BusinessHoursOracle
	planner         services.RoutePlanner

	snapshotHandler *queries.MapSnapshotQueryHandler
}

// NewCompositionRoot builds the object graph from configuration. Optional
// integrations (broker, geocoder, routing provider) degrade to their
// fallbacks when unconfigured.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	root := &CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}

	if config.RabbitURL != "" {
		publisher, err := rabbit.NewRabbitEventPublisher(config.RabbitURL, config.RabbitExchange, logger)
		if err != nil {
			return nil, err
		}
		root.rabbitPublisher = publisher
		root.publisher = publisher
	} else {
		root.publisher = rabbit.NewLogPublisher(logger)
	}

	if config.GeocoderURL != "" {
		geocoder, err := geo.NewNominatimGeocoder(config.GeocoderURL, geo.DefaultGeocoderTimeout, logger)
		if err != nil {
			return nil, err
		}
		root.geocoder = geocoder
	}

	fallback := services.NewHaversineEstimator(config.AverageSpeedKmh)
	var primary services.DistanceEstimator
	if config.OSRMURL != "" {
		estimator, err := geo.NewOSRMEstimator(config.OSRMURL, geo.DefaultEstimatorTimeout, logger)
		if err != nil {
			return nil, err
		}
		primary = estimator
	}
	root.planner = services.NewRoutePlanner(services.NewFallbackEstimator(primary, fallback, logger))

	location, err := time.LoadLocation(config.TimeZone)
	if err != nil {
		return nil, err
	}
	oracle, err := hours.NewClockOracle(config.HoursOpen, config.HoursCutoff, config.HoursClose, location)
	if err != nil {
		return nil, err
	}
	root.oracle = oracle

	// The snapshot cache lives as long as the process, so the handler is a
	// singleton rather than built per request.
	root.snapshotHandler = queries.NewMapSnapshotQueryHandler(
		queries.NewGormFleetReader(gormDB), queries.DefaultSnapshotTTL, nil)

	return root, nil
}

// Close releases resources held by long-lived adapters.
func (c *CompositionRoot) Close() {
	if c.rabbitPublisher != nil {
		c.rabbitPublisher.Close()
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.CreateOrderUoWFactory = FuncCreateOrderUoWFactory(func() commands.CreateOrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.oracle, c.publisher, c.logger, nil)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeOrderStatusCommandHandler(
		f, order.DefaultTransitionTable(), c.publisher, c.logger, nil)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.CancelOrderUoWFactory = FuncCancelOrderUoWFactory(func() commands.CancelOrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(
		f, order.DefaultTransitionTable(), c.publisher, c.logger, nil)
}

func (c *CompositionRoot) CreateReportDriverLocationCommandHandler() commands.ReportDriverLocationCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReportDriverLocationCommandHandler(f, nil)
}

func (c *CompositionRoot) CreateGeocodeOrdersCommandHandler() commands.GeocodeOrdersCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewGeocodeOrdersCommandHandler(f, c.geocoder, c.logger, nil)
}

func (c *CompositionRoot) CreatePlanRouteQueryHandler() queries.PlanRouteQueryHandler {
	return queries.NewPlanRouteQueryHandler(c.routeUoWFactory(), c.geocoder, c.planner, c.logger, nil)
}

func (c *CompositionRoot) CreateRecommendBatchesQueryHandler() queries.RecommendBatchesQueryHandler {
	return queries.NewRecommendBatchesQueryHandler(c.routeUoWFactory(), c.planner, c.logger)
}

func (c *CompositionRoot) CreateMapSnapshotQueryHandler() *queries.MapSnapshotQueryHandler {
	return c.snapshotHandler
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateGeocodeOrdersCommandHandler(),
		c.CreateRecommendBatchesQueryHandler(),
		c.routeUoWFactory(),
		c.publisher,
		c.logger,
	)
}

func (c *CompositionRoot) routeUoWFactory() queries.RouteUoWFactory {
	return FuncRouteUoWFactory(func() queries.RouteUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncCreateOrderUoWFactory func() commands.CreateOrderUoW

func (f FuncCreateOrderUoWFactory) Create() commands.CreateOrderUoW {
	return f()
}

type FuncCancelOrderUoWFactory func() commands.CancelOrderUoW

func (f FuncCancelOrderUoWFactory) Create() commands.CancelOrderUoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncRouteUoWFactory func() queries.RouteUoW

func (f FuncRouteUoWFactory) Create() queries.RouteUoW {
	return f()
}
