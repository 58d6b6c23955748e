package chainhook

import "time"

// Canonical event-type keys. Registry lookups compare these by exact
// string equality, so every ingestion path must resolve to one of them.
const (
	// EventTypeBadgeMint identifies a badge being minted to a user.
	EventTypeBadgeMint = "badge-mint"

	// EventTypeBadgeRevoke identifies a badge being revoked from a user.
	EventTypeBadgeRevoke = "badge-revoke"

	// EventTypeCommunityCreate identifies a new community being created.
	EventTypeCommunityCreate = "community-created"

	// EventTypeUnknown is the sentinel returned when nothing recognizable
	// is found in a payload. It is a valid, silent outcome, not an error.
	EventTypeUnknown = ""
)

// EventContext carries the chain-level fields shared by every event
// derived from one operation: where it happened and when.
type EventContext struct {
	ContractAddress string
	TxHash          string
	BlockHeight     uint64
	Timestamp       time.Time
}

// DomainEvent is a normalized badge occurrence derived from raw operation
// data. It is best-effort by contract: missing fields are empty strings
// or zero values, never an error. An event with an empty UserID is
// unparseable or irrelevant and is silently dropped by handlers.
type DomainEvent struct {
	UserID          string    `json:"userId"`
	BadgeID         string    `json:"badgeId"`
	BadgeName       string    `json:"badgeName"`
	Criteria        string    `json:"criteria"`
	ContractAddress string    `json:"contractAddress"`
	TxHash          string    `json:"txHash"`
	BlockHeight     uint64    `json:"blockHeight"`
	Timestamp       time.Time `json:"timestamp"`
}

// CommunityEvent is the community-creation analog of DomainEvent.
type CommunityEvent struct {
	Creator         string    `json:"creator"`
	CommunityID     string    `json:"communityId"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	ContractAddress string    `json:"contractAddress"`
	TxHash          string    `json:"txHash"`
	BlockHeight     uint64    `json:"blockHeight"`
	Timestamp       time.Time `json:"timestamp"`
}

// Notification is the outbound payload handed to the external delivery
// collaborator. It is constructed 1:1 from a domain event carrying a
// non-empty user ID; this layer never delivers it itself.
type Notification struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
