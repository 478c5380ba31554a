package events

import "context"

// NopPublisher is a no-op Publisher used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

// NopNotifier is a no-op Notifier used when the dashboard broadcast is
// disabled.
type NopNotifier struct{}

func (NopNotifier) NotifyDispatched(context.Context, DashboardNotification) error { return nil }

// MultiNotifier fans a notification out to several notifiers. The first
// error is returned after all notifiers have been called.
type MultiNotifier []Notifier

func (m MultiNotifier) NotifyDispatched(ctx context.Context, n DashboardNotification) error {
	var first error
	for _, nt := range m {
		if err := nt.NotifyDispatched(ctx, n); err != nil && first == nil {
			first = err
		}
	}
	return first
}
