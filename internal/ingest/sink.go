package ingest

import (
	"context"

	"github.com/DeborahOlaboye/PassportX-sub002/internal/chainhook"
)

// NotificationSink hands constructed notifications to the external
// delivery collaborator (push, socket broadcast, email fan-out). This
// layer only constructs notifications; actual user delivery happens
// behind this interface.
type NotificationSink interface {
	// DeliverNotifications forwards one dispatch pass's notifications.
	// Implementations should return a non-nil error only if the hand-off
	// itself fails.
	DeliverNotifications(ctx context.Context, notifications []chainhook.Notification) error
}
