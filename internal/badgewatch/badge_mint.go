package badgewatch

import (
	"context"

	"github.com/DeborahOlaboye/PassportX-sub002/internal/chainhook"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/dispatch"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/pkg/logger"
)

// Positional argument layout of the mint contract-call variants.
const (
	mintArgUserID = iota
	mintArgBadgeID
	mintArgBadgeName
	mintArgCriteria
)

// BadgeMintHandler reacts to badge-mint activity arriving either as a
// direct mint contract call or as a badge-mint print-event. Both paths
// may fire on the same operation and each produces its own event.
type BadgeMintHandler struct{}

var _ dispatch.Handler = (*BadgeMintHandler)(nil)

func NewBadgeMintHandler() *BadgeMintHandler {
	return &BadgeMintHandler{}
}

func (h *BadgeMintHandler) EventType() string {
	return chainhook.EventTypeBadgeMint
}

func (h *BadgeMintHandler) CanHandle(p *chainhook.Payload) bool {
	return chainhook.ExtractEventType(p) == chainhook.EventTypeBadgeMint
}

// Handle walks every operation of every transaction, extracts badge mint
// events from both ingestion paths, and returns one notification per
// event with a non-empty user ID. Panics anywhere in the walk are
// recovered here: the handler logs and returns an empty list rather than
// propagating.
func (h *BadgeMintHandler) Handle(ctx context.Context, p *chainhook.Payload) (notifications []chainhook.Notification, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error(ctx, "badge mint handler recovered", "panic", rec)
			notifications = nil
			err = nil
		}
	}()

	if p == nil {
		return nil, nil
	}

	for _, tx := range p.Transactions {
		for _, op := range tx.Operations {
			for _, event := range extractBadgeMintEvents(p, tx, op) {
				if event.UserID == "" {
					continue
				}
				notifications = append(notifications, NewBadgeMintNotification(event))
			}
		}
	}

	return notifications, nil
}

// extractBadgeMintEvents normalizes one operation. The contract-call path
// and the print-event path are independent and not mutually exclusive.
func extractBadgeMintEvents(p *chainhook.Payload, tx chainhook.Transaction, op chainhook.Operation) []chainhook.DomainEvent {
	var events []chainhook.DomainEvent

	if call := op.ContractCall; call != nil && chainhook.MatchMethod(call.Method) == chainhook.EventTypeBadgeMint {
		ctx := chainhook.ContextAt(p, tx, call.Contract)
		events = append(events, chainhook.DomainEvent{
			UserID:          chainhook.ArgAt(call.Args, mintArgUserID),
			BadgeID:         chainhook.ArgAt(call.Args, mintArgBadgeID),
			BadgeName:       chainhook.ArgAt(call.Args, mintArgBadgeName),
			Criteria:        chainhook.ArgAt(call.Args, mintArgCriteria),
			ContractAddress: ctx.ContractAddress,
			TxHash:          ctx.TxHash,
			BlockHeight:     ctx.BlockHeight,
			Timestamp:       ctx.Timestamp,
		})
	}

	for _, printEvent := range op.Events {
		if chainhook.MatchTopic(printEvent.Topic) != chainhook.EventTypeBadgeMint {
			continue
		}
		ctx := chainhook.ContextAt(p, tx, printEvent.ContractAddress)
		events = append(events, chainhook.MapDomainEvent(printEvent.Value, ctx))
	}

	return events
}
