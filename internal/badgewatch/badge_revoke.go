package badgewatch

import (
	"context"

	"github.com/DeborahOlaboye/PassportX-sub002/internal/chainhook"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/dispatch"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/pkg/logger"
)

// Positional argument layout of the revoke contract-call variants.
// Revocations carry no criteria argument.
const (
	revokeArgUserID = iota
	revokeArgBadgeID
	revokeArgBadgeName
)

// BadgeRevokeHandler reacts to badge revocations across both ingestion
// paths.
type BadgeRevokeHandler struct{}

var _ dispatch.Handler = (*BadgeRevokeHandler)(nil)

func NewBadgeRevokeHandler() *BadgeRevokeHandler {
	return &BadgeRevokeHandler{}
}

func (h *BadgeRevokeHandler) EventType() string {
	return chainhook.EventTypeBadgeRevoke
}

func (h *BadgeRevokeHandler) CanHandle(p *chainhook.Payload) bool {
	return chainhook.ExtractEventType(p) == chainhook.EventTypeBadgeRevoke
}

func (h *BadgeRevokeHandler) Handle(ctx context.Context, p *chainhook.Payload) (notifications []chainhook.Notification, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error(ctx, "badge revoke handler recovered", "panic", rec)
			notifications = nil
			err = nil
		}
	}()

	if p == nil {
		return nil, nil
	}

	for _, tx := range p.Transactions {
		for _, op := range tx.Operations {
			for _, event := range extractBadgeRevokeEvents(p, tx, op) {
				if event.UserID == "" {
					continue
				}
				notifications = append(notifications, NewBadgeRevokeNotification(event))
			}
		}
	}

	return notifications, nil
}

func extractBadgeRevokeEvents(p *chainhook.Payload, tx chainhook.Transaction, op chainhook.Operation) []chainhook.DomainEvent {
	var events []chainhook.DomainEvent

	if call := op.ContractCall; call != nil && chainhook.MatchMethod(call.Method) == chainhook.EventTypeBadgeRevoke {
		ctx := chainhook.ContextAt(p, tx, call.Contract)
		events = append(events, chainhook.DomainEvent{
			UserID:          chainhook.ArgAt(call.Args, revokeArgUserID),
			BadgeID:         chainhook.ArgAt(call.Args, revokeArgBadgeID),
			BadgeName:       chainhook.ArgAt(call.Args, revokeArgBadgeName),
			ContractAddress: ctx.ContractAddress,
			TxHash:          ctx.TxHash,
			BlockHeight:     ctx.BlockHeight,
			Timestamp:       ctx.Timestamp,
		})
	}

	for _, printEvent := range op.Events {
		if chainhook.MatchTopic(printEvent.Topic) != chainhook.EventTypeBadgeRevoke {
			continue
		}
		ctx := chainhook.ContextAt(p, tx, printEvent.ContractAddress)
		events = append(events, chainhook.MapDomainEvent(printEvent.Value, ctx))
	}

	return events
}
