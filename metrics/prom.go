// Package metrics exposes Prometheus counters for the logistics flows.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service counters.
type Metrics struct {
	ShipmentsDispatched prometheus.Counter
	RouteEventsConsumed prometheus.Counter
	VehicleClaims       prometheus.Counter
	ClaimConflicts      prometheus.Counter
	WaybillsGenerated   prometheus.Counter
}

// New registers the counters on the given registerer. A nil registerer
// defaults to the global Prometheus registerer.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		ShipmentsDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shipments_dispatched_total",
			Help: "Total number of shipments dispatched",
		}),
		RouteEventsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "route_events_consumed_total",
			Help: "Total number of route events consumed by analytics",
		}),
		VehicleClaims: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vehicle_claims_total",
			Help: "Total number of vehicles committed to shipments",
		}),
		ClaimConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vehicle_claim_conflicts_total",
			Help: "Total number of shipment events dropped because the vehicle was occupied",
		}),
		WaybillsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "waybills_generated_total",
			Help: "Total number of waybill documents generated",
		}),
	}
	for _, c := range []*prometheus.Counter{
		&m.ShipmentsDispatched, &m.RouteEventsConsumed, &m.VehicleClaims, &m.ClaimConflicts, &m.WaybillsGenerated,
	} {
		if err := reg.Register(*c); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				*c = are.ExistingCollector.(prometheus.Counter)
			} else {
				return nil, err
			}
		}
	}
	return m, nil
}
