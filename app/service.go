// Package app wires the logistics components from configuration and runs
// them as one process.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"logistics/api"
	"logistics/api/dashboard"
	"logistics/config"
	coreanalytics "logistics/core/analytics"
	"logistics/core/events"
	"logistics/core/fleet"
	"logistics/core/shipping"
	corestore "logistics/core/store"
	"logistics/core/waybill"
	"logistics/infra/kafka"
	"logistics/infra/mqtt"
	infrastore "logistics/infra/store"
	"logistics/internal/eventbus"
	"logistics/logger"
	"logistics/metrics"
)

// Service holds the wired components and the resources to release on
// shutdown.
type Service struct {
	cfg *config.Config
	log logger.Logger

	vehicles  corestore.VehicleStore
	shipments corestore.ShipmentStore
	analytics *coreanalytics.Aggregator
	fleet     *fleet.Dispatcher
	waybills  *waybill.Generator
	bus       *eventbus.Bus[events.DashboardNotification]
	publisher *kafka.Publisher
	metrics   *metrics.Metrics
	router    http.Handler

	closers []func() error
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	s := &Service{cfg: cfg, log: logger.New("service")}

	if cfg.Metrics.PrometheusEnabled {
		m, err := metrics.New(nil)
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		s.metrics = m
	}

	switch cfg.Database.Backend {
	case "memory":
		mem := infrastore.NewMemory()
		s.vehicles, s.shipments = mem, mem.Shipments()
	case "sqlite":
		db, err := infrastore.NewSQLite(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		s.vehicles, s.shipments = db, db.Shipments()
		s.closers = append(s.closers, db.Close)
	case "postgres":
		db, err := infrastore.NewPostgres(cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		s.vehicles, s.shipments = db, db.Shipments()
		s.closers = append(s.closers, db.Close)
	default:
		return nil, fmt.Errorf("unknown database backend %s", cfg.Database.Backend)
	}

	if cfg.Database.Seed {
		if err := infrastore.SeedDemoFleet(context.Background(), s.vehicles, s.log); err != nil {
			return nil, err
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled() {
		s.publisher = kafka.NewPublisher(cfg.Kafka.Brokers, logger.New("kafka"))
		s.closers = append(s.closers, s.publisher.Close)
		publisher = s.publisher
	} else {
		s.log.Warnf("no kafka brokers configured, event flows are disabled")
	}

	s.bus = eventbus.New[events.DashboardNotification]()
	notifier := events.MultiNotifier{dashboard.BusNotifier{Bus: s.bus}}
	if cfg.MQTT.Enabled {
		b, err := mqtt.NewBroadcaster(cfg.MQTT, logger.New("mqtt"))
		if err != nil {
			return nil, err
		}
		notifier = append(notifier, b)
		s.closers = append(s.closers, func() error { b.Close(); return nil })
	}

	s.analytics = coreanalytics.New(logger.New("analytics"))
	s.fleet = fleet.NewDispatcher(s.vehicles, logger.New("fleet"))
	s.waybills = waybill.NewGenerator(cfg.Waybill.StorageDir, logger.New("waybill"))
	shippingSvc := shipping.NewService(s.shipments, publisher, notifier, logger.New("shipping"))

	s.router = api.NewRouter(api.Deps{
		Vehicles:  s.vehicles,
		Shipments: s.shipments,
		Shipping:  shippingSvc,
		Analytics: s.analytics,
		Waybills:  s.waybills,
		Dashboard: s.bus,
		Metrics:   s.metrics,
		Log:       logger.New("api"),
	})
	return s, nil
}

// Run starts the consumers and the HTTP servers and blocks until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Kafka.Enabled() {
		subs := s.startConsumers(ctx)
		defer func() {
			for _, sub := range subs {
				if err := sub.Close(); err != nil {
					s.log.Errorf("consumer close: %v", err)
				}
			}
		}()
	}

	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, ":"+s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              s.cfg.HTTP.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("gateway listening on %s", s.cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Service) startConsumers(ctx context.Context) []*kafka.Subscription {
	brokers := s.cfg.Kafka.Brokers
	log := logger.New("consumer")

	routes := kafka.JSON(log, func(ctx context.Context, ev events.RouteEvent) error {
		if err := s.analytics.HandleRouteEvent(ctx, ev); err != nil {
			return err
		}
		if s.metrics != nil {
			s.metrics.RouteEventsConsumed.Inc()
		}
		return nil
	})

	fleetHandler := kafka.JSON(log, func(ctx context.Context, ev events.ShipmentEvent) error {
		out, err := s.fleet.HandleShipmentEvent(ctx, ev)
		if err != nil {
			return err
		}
		if s.metrics != nil {
			switch out {
			case fleet.OutcomeClaimed:
				s.metrics.VehicleClaims.Inc()
			case fleet.OutcomeConflict:
				s.metrics.ClaimConflicts.Inc()
			}
		}
		return nil
	})

	waybillHandler := kafka.JSON(log, func(ctx context.Context, ev events.ShipmentEvent) error {
		if err := s.waybills.HandleShipmentEvent(ctx, ev); err != nil {
			return err
		}
		if s.metrics != nil {
			s.metrics.WaybillsGenerated.Inc()
		}
		return nil
	})

	return []*kafka.Subscription{
		kafka.Subscribe(ctx, kafka.SubscribeConfig{Brokers: brokers, Topic: s.cfg.Kafka.RoutesTopic, GroupID: events.GroupAnalytics}, routes, log),
		kafka.Subscribe(ctx, kafka.SubscribeConfig{Brokers: brokers, Topic: s.cfg.Kafka.DispatchQueue, GroupID: events.GroupFleet}, fleetHandler, log),
		kafka.Subscribe(ctx, kafka.SubscribeConfig{Brokers: brokers, Topic: s.cfg.Kafka.DispatchQueue, GroupID: events.GroupWaybill}, waybillHandler, log),
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
