// Package shipping implements the shipment dispatch flow: persist a new
// shipment, then fan out best-effort notifications to the fleet queue,
// the dashboard channel and the analytics topic.
package shipping

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"logistics/core/events"
	"logistics/core/model"
	"logistics/core/store"
	"logistics/logger"
)

// DispatchRequest is the shipment creation payload.
type DispatchRequest struct {
	Origin       string  `json:"origin"`
	Destination  string  `json:"destination"`
	Weight       float64 `json:"weight"`
	VehicleID    int64   `json:"vehicleId"`
	PackageCount int     `json:"packageCount"`
	LicensePlate string  `json:"licensePlate"`
}

// Service coordinates the dispatch flow. The three notifications after the
// database write are independent and not transactional with it: a lost
// fleet event leaves the shipment DISPATCHED with no vehicle state change,
// and there is no reconciliation job.
type Service struct {
	shipments store.ShipmentStore
	publisher events.Publisher
	notifier  events.Notifier
	log       logger.Logger

	now           func() time.Time
	newTrackingID func() string
}

// NewService creates the dispatch flow service.
func NewService(shipments store.ShipmentStore, publisher events.Publisher, notifier events.Notifier, log logger.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if notifier == nil {
		notifier = events.NopNotifier{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		shipments:     shipments,
		publisher:     publisher,
		notifier:      notifier,
		log:           log,
		now:           time.Now,
		newTrackingID: uuid.NewString,
	}
}

// Dispatch persists the shipment with a fresh tracking id and status
// DISPATCHED, then emits the three notifications. Only the database write
// can fail the call; notification failures are logged and swallowed so
// the caller always gets the persisted shipment back.
func (s *Service) Dispatch(ctx context.Context, req DispatchRequest) (model.Shipment, error) {
	plate := req.LicensePlate
	if plate == "" {
		plate = fmt.Sprintf("ID-%d", req.VehicleID)
	}

	sh := model.Shipment{
		TrackingID:   s.newTrackingID(),
		Status:       model.StatusDispatched,
		VehicleID:    req.VehicleID,
		Origin:       req.Origin,
		Destination:  req.Destination,
		Weight:       req.Weight,
		LicensePlate: plate,
		PackageCount: req.PackageCount,
	}

	saved, err := s.shipments.Create(ctx, sh)
	if err != nil {
		return model.Shipment{}, fmt.Errorf("save shipment: %w", err)
	}

	ev := events.ShipmentEvent{
		Status:       "IN_TRANSIT",
		Message:      "Shipment dispatched via " + saved.Origin,
		VehicleID:    saved.VehicleID,
		TrackingID:   saved.TrackingID,
		Weight:       saved.Weight,
		Origin:       saved.Origin,
		Destination:  saved.Destination,
		LicensePlate: saved.LicensePlate,
	}
	if err := s.publisher.Publish(ctx, events.QueueDispatch, ev); err != nil {
		s.log.Errorf("fleet queue publish for %s: %v", saved.TrackingID, err)
	}

	n := events.DashboardNotification{Status: string(model.StatusDispatched), TrackingID: saved.TrackingID}
	if err := s.notifier.NotifyDispatched(ctx, n); err != nil {
		s.log.Errorf("dashboard notify for %s: %v", saved.TrackingID, err)
	}

	route := events.RouteEvent{
		Origin:      saved.Origin,
		Destination: saved.Destination,
		Timestamp:   s.now().UnixMilli(),
	}
	if err := s.publisher.Publish(ctx, events.TopicRoutes, route); err != nil {
		// Analytics is advisory; a down broker must not fail the shipment.
		s.log.Warnf("analytics publish for %s: %v", saved.TrackingID, err)
	}

	return saved, nil
}
