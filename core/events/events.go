// Package events defines the messages exchanged between the logistics
// services and the ports used to emit them.
package events

import "context"

// Broker destinations. The routes topic fans out to analytics consumers;
// the dispatch queue is shared work for the fleet and waybill consumers.
const (
	TopicRoutes   = "logistics_routes"
	QueueDispatch = "shipment_dispatch_queue"
)

// Consumer group identifiers.
const (
	GroupAnalytics = "analytics_group"
	GroupFleet     = "fleet_group"
	GroupWaybill   = "waybill_group"
)

// RouteEvent records an origin/destination pair for analytics aggregation.
// Timestamp is milliseconds since epoch at emission time.
type RouteEvent struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Timestamp   int64  `json:"timestamp"`
}

// ShipmentEvent instructs the fleet subsystem to commit a vehicle to a
// shipment. It carries everything the waybill consumer needs to render a
// document, so both consumers decode the same payload.
type ShipmentEvent struct {
	Status       string  `json:"status"`
	Message      string  `json:"message"`
	VehicleID    int64   `json:"vehicleId"`
	TrackingID   string  `json:"trackingId"`
	Weight       float64 `json:"weight"`
	Origin       string  `json:"origin"`
	Destination  string  `json:"destination"`
	LicensePlate string  `json:"licensePlate"`
}

// DashboardNotification is the small JSON status pushed to connected
// dashboard clients on dispatch.
type DashboardNotification struct {
	Status     string `json:"status"`
	TrackingID string `json:"trackingId"`
}

// Publisher sends a message to a broker topic or queue. The call returns
// once the broker accepts the message; delivery to consumers is
// at-least-once and asynchronous.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Notifier pushes a dispatch notification to the dashboard broadcast
// channel.
type Notifier interface {
	NotifyDispatched(ctx context.Context, n DashboardNotification) error
}
