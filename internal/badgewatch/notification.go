// Package badgewatch contains the domain handlers that walk webhook
// payloads and turn badge and community activity into outbound
// notifications. Handlers are best-effort by contract: a malformed
// transaction never aborts the batch, and an event with no user to
// notify is silently dropped.
package badgewatch

import (
	"fmt"
	"time"

	"github.com/DeborahOlaboye/PassportX-sub002/internal/chainhook"

	"github.com/google/uuid"
)

// NewBadgeMintNotification builds the outbound notification for a badge
// mint. Callers must ensure the event carries a non-empty UserID.
func NewBadgeMintNotification(event chainhook.DomainEvent) chainhook.Notification {
	return chainhook.Notification{
		ID:      uuid.Must(uuid.NewV7()).String(),
		UserID:  event.UserID,
		Type:    chainhook.EventTypeBadgeMint,
		Title:   fmt.Sprintf("Badge earned: %s", event.BadgeName),
		Message: fmt.Sprintf("You earned the %q badge for: %s", event.BadgeName, event.Criteria),
		Data: map[string]any{
			"badgeId":         event.BadgeID,
			"badgeName":       event.BadgeName,
			"criteria":        event.Criteria,
			"contractAddress": event.ContractAddress,
			"txHash":          event.TxHash,
			"blockHeight":     event.BlockHeight,
		},
		CreatedAt: time.Now().UTC(),
	}
}

// NewBadgeRevokeNotification builds the outbound notification for a badge
// revocation.
func NewBadgeRevokeNotification(event chainhook.DomainEvent) chainhook.Notification {
	return chainhook.Notification{
		ID:      uuid.Must(uuid.NewV7()).String(),
		UserID:  event.UserID,
		Type:    chainhook.EventTypeBadgeRevoke,
		Title:   fmt.Sprintf("Badge revoked: %s", event.BadgeName),
		Message: fmt.Sprintf("The %q badge was revoked from your passport", event.BadgeName),
		Data: map[string]any{
			"badgeId":         event.BadgeID,
			"badgeName":       event.BadgeName,
			"contractAddress": event.ContractAddress,
			"txHash":          event.TxHash,
			"blockHeight":     event.BlockHeight,
		},
		CreatedAt: time.Now().UTC(),
	}
}

// NewCommunityCreatedNotification builds the outbound notification for a
// newly created community, addressed to its creator.
func NewCommunityCreatedNotification(event chainhook.CommunityEvent) chainhook.Notification {
	return chainhook.Notification{
		ID:      uuid.Must(uuid.NewV7()).String(),
		UserID:  event.Creator,
		Type:    chainhook.EventTypeCommunityCreate,
		Title:   fmt.Sprintf("Community created: %s", event.Name),
		Message: fmt.Sprintf("Your community %q is now live", event.Name),
		Data: map[string]any{
			"communityId":     event.CommunityID,
			"name":            event.Name,
			"description":     event.Description,
			"contractAddress": event.ContractAddress,
			"txHash":          event.TxHash,
			"blockHeight":     event.BlockHeight,
		},
		CreatedAt: time.Now().UTC(),
	}
}
