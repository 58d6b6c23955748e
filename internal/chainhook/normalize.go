package chainhook

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// topicRule maps a print-event topic substring to a canonical event type.
type topicRule struct {
	substring string
	eventType string
}

// topicRules is the ordered rule set used to classify print-event topics.
// Rules are evaluated top to bottom and the first match wins, so more
// specific verbs must come first: "badge-revoke-event" contains both
// "revoke" and nothing else mint-like, but a combined topic such as
// "mint-revoke" classifies as a revoke.
var topicRules = []topicRule{
	{substring: "revoke", eventType: EventTypeBadgeRevoke},
	{substring: "mint", eventType: EventTypeBadgeMint},
	{substring: "community", eventType: EventTypeCommunityCreate},
}

// methodAliases maps known contract-call method names to canonical event
// types. The same logical event is exposed under more than one method
// name across contract versions.
var methodAliases = map[string]string{
	"mint":               EventTypeBadgeMint,
	"mint-badge":         EventTypeBadgeMint,
	"revoke":             EventTypeBadgeRevoke,
	"revoke-badge":       EventTypeBadgeRevoke,
	"create-community":   EventTypeCommunityCreate,
	"register-community": EventTypeCommunityCreate,
}

// MatchMethod resolves a contract-call method name to a canonical event
// type, or EventTypeUnknown if the method is not recognized.
func MatchMethod(method string) string {
	return methodAliases[method]
}

// MatchTopic classifies a print-event topic against the ordered rule set.
// The first matching rule wins. Returns EventTypeUnknown when no rule
// matches.
func MatchTopic(topic string) string {
	for _, rule := range topicRules {
		if strings.Contains(topic, rule.substring) {
			return rule.eventType
		}
	}
	return EventTypeUnknown
}

// ExtractEventType inspects a payload's content and returns the canonical
// event-type key of the first recognizable occurrence, scanning
// transactions in order, operations in order, the contract-call record
// before the attached print-events. Returns EventTypeUnknown when nothing
// is recognizable. It never fails: a nil payload or odd-shaped fragment
// yields the unknown sentinel.
func ExtractEventType(p *Payload) string {
	if p == nil {
		return EventTypeUnknown
	}

	for _, tx := range p.Transactions {
		for _, op := range tx.Operations {
			if op.ContractCall != nil {
				if eventType := MatchMethod(op.ContractCall.Method); eventType != EventTypeUnknown {
					return eventType
				}
			}

			for _, event := range op.Events {
				if eventType := MatchTopic(event.Topic); eventType != EventTypeUnknown {
					return eventType
				}
			}
		}
	}

	return EventTypeUnknown
}

// ArgString narrows an opaque contract-call argument to a string using a
// fixed priority order: an object's "value" field if present, else the
// raw scalar, else the empty string. This lossy-but-safe default is the
// contract for every positional extraction in this system; it never
// fails.
func ArgString(v any) string {
	switch arg := v.(type) {
	case nil:
		return ""
	case string:
		return arg
	case map[string]any:
		inner, ok := arg["value"]
		if !ok {
			return ""
		}
		return ArgString(inner)
	case float64:
		return strconv.FormatFloat(arg, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(arg)
	default:
		return fmt.Sprint(arg)
	}
}

// ArgAt narrows the argument at index i, returning the empty string when
// the index is out of range.
func ArgAt(args []any, i int) string {
	if i < 0 || i >= len(args) {
		return ""
	}
	return ArgString(args[i])
}

// ContextAt derives the EventContext for events produced by one
// transaction of a payload. The timestamp is chain-supplied when the
// payload metadata carries one, and falls back to wall-clock receipt
// time otherwise.
func ContextAt(p *Payload, tx Transaction, contractAddress string) EventContext {
	ctx := EventContext{
		ContractAddress: contractAddress,
		TxHash:          tx.TransactionHash,
		Timestamp:       time.Now().UTC(),
	}

	if p != nil {
		ctx.BlockHeight = p.BlockIdentifier.Index
		if p.Metadata != nil && p.Metadata.PoxCyclePosition != nil {
			ctx.Timestamp = time.Unix(*p.Metadata.PoxCyclePosition, 0).UTC()
		}
	}

	return ctx
}

// valueString returns the first non-empty narrowed value found under any
// of the given keys.
func valueString(value map[string]any, keys ...string) string {
	for _, key := range keys {
		if raw, ok := value[key]; ok {
			if s := ArgString(raw); s != "" {
				return s
			}
		}
	}
	return ""
}

// MapDomainEvent merges a raw print-event value with its chain context
// into a badge DomainEvent. Missing fields default to empty strings; the
// contract is "always returns a best-effort struct", never an error.
func MapDomainEvent(value map[string]any, ctx EventContext) DomainEvent {
	return DomainEvent{
		UserID:          valueString(value, "recipient", "user", "user-id"),
		BadgeID:         valueString(value, "badge-id", "id"),
		BadgeName:       valueString(value, "badge-name", "name"),
		Criteria:        valueString(value, "criteria"),
		ContractAddress: ctx.ContractAddress,
		TxHash:          ctx.TxHash,
		BlockHeight:     ctx.BlockHeight,
		Timestamp:       ctx.Timestamp,
	}
}

// MapCommunityEvent is the community-creation analog of MapDomainEvent.
func MapCommunityEvent(value map[string]any, ctx EventContext) CommunityEvent {
	return CommunityEvent{
		Creator:         valueString(value, "creator", "owner"),
		CommunityID:     valueString(value, "community-id", "id"),
		Name:            valueString(value, "name", "community-name"),
		Description:     valueString(value, "description"),
		ContractAddress: ctx.ContractAddress,
		TxHash:          ctx.TxHash,
		BlockHeight:     ctx.BlockHeight,
		Timestamp:       ctx.Timestamp,
	}
}
