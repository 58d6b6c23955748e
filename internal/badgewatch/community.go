package badgewatch

import (
	"context"

	"github.com/DeborahOlaboye/PassportX-sub002/internal/chainhook"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/dispatch"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/pkg/logger"
)

// Positional argument layout of the community-creation contract-call
// variants.
const (
	communityArgCreator = iota
	communityArgID
	communityArgName
	communityArgDescription
)

// CommunityCreateHandler reacts to community creation across both
// ingestion paths, notifying the creator.
type CommunityCreateHandler struct{}

var _ dispatch.Handler = (*CommunityCreateHandler)(nil)

func NewCommunityCreateHandler() *CommunityCreateHandler {
	return &CommunityCreateHandler{}
}

func (h *CommunityCreateHandler) EventType() string {
	return chainhook.EventTypeCommunityCreate
}

func (h *CommunityCreateHandler) CanHandle(p *chainhook.Payload) bool {
	return chainhook.ExtractEventType(p) == chainhook.EventTypeCommunityCreate
}

func (h *CommunityCreateHandler) Handle(ctx context.Context, p *chainhook.Payload) (notifications []chainhook.Notification, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error(ctx, "community create handler recovered", "panic", rec)
			notifications = nil
			err = nil
		}
	}()

	if p == nil {
		return nil, nil
	}

	for _, tx := range p.Transactions {
		for _, op := range tx.Operations {
			for _, event := range extractCommunityEvents(p, tx, op) {
				if event.Creator == "" {
					continue
				}
				notifications = append(notifications, NewCommunityCreatedNotification(event))
			}
		}
	}

	return notifications, nil
}

func extractCommunityEvents(p *chainhook.Payload, tx chainhook.Transaction, op chainhook.Operation) []chainhook.CommunityEvent {
	var events []chainhook.CommunityEvent

	if call := op.ContractCall; call != nil && chainhook.MatchMethod(call.Method) == chainhook.EventTypeCommunityCreate {
		ctx := chainhook.ContextAt(p, tx, call.Contract)
		events = append(events, chainhook.CommunityEvent{
			Creator:         chainhook.ArgAt(call.Args, communityArgCreator),
			CommunityID:     chainhook.ArgAt(call.Args, communityArgID),
			Name:            chainhook.ArgAt(call.Args, communityArgName),
			Description:     chainhook.ArgAt(call.Args, communityArgDescription),
			ContractAddress: ctx.ContractAddress,
			TxHash:          ctx.TxHash,
			BlockHeight:     ctx.BlockHeight,
			Timestamp:       ctx.Timestamp,
		})
	}

	for _, printEvent := range op.Events {
		if chainhook.MatchTopic(printEvent.Topic) != chainhook.EventTypeCommunityCreate {
			continue
		}
		ctx := chainhook.ContextAt(p, tx, printEvent.ContractAddress)
		events = append(events, chainhook.MapCommunityEvent(printEvent.Value, ctx))
	}

	return events
}
