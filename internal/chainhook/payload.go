// Package chainhook defines the deserialized shape of chainhook webhook
// payloads describing Stacks blockchain activity, and the normalization
// logic that extracts domain-meaningful events from them.
//
// A payload carries the transactions included in one block. Each
// transaction's execution trace is a list of operations, and an operation
// may carry a direct contract-call record, a list of emitted print-events,
// both, or neither. The same logical occurrence (e.g. a badge being
// minted) can therefore arrive in two shapes, and the normalizer in this
// package is responsible for making both converge on one canonical
// event-type key without ever failing on a malformed fragment.
package chainhook

// BlockIdentifier locates the block a payload describes.
type BlockIdentifier struct {
	Index uint64 `json:"index"`
	Hash  string `json:"hash,omitempty"`
}

// Metadata carries optional chain-supplied context for a payload.
//
// PoxCyclePosition, when present, is the chain-supplied Unix timestamp
// for the block's events. When absent, event timestamps fall back to
// wall-clock receipt time.
type Metadata struct {
	PoxCyclePosition *int64 `json:"poxCyclePosition,omitempty"`
}

// ContractCall is a direct contract invocation recorded on an operation.
// Args are positional and opaque: an element may be a bare scalar or an
// object carrying a "value" field. Use ArgString to narrow one.
type ContractCall struct {
	Contract string `json:"contract"`
	Method   string `json:"method"`
	Args     []any  `json:"args"`
}

// PrintEvent is a structured event emitted during contract execution,
// identified by a free-form topic string.
type PrintEvent struct {
	Topic           string         `json:"topic"`
	ContractAddress string         `json:"contractAddress"`
	Value           map[string]any `json:"value"`
}

// Operation is one element of a transaction's execution trace. Either,
// both, or neither of ContractCall and Events may be present; consumers
// must check both independently.
type Operation struct {
	ContractCall *ContractCall `json:"contractCall,omitempty"`
	Events       []PrintEvent  `json:"events,omitempty"`
}

// Transaction is one transaction included in the observed block.
type Transaction struct {
	TransactionHash string      `json:"transactionHash"`
	Operations      []Operation `json:"operations"`
}

// Payload is one delivered webhook notification. It is immutable once
// received; its lifecycle is a single dispatch pass.
type Payload struct {
	BlockIdentifier BlockIdentifier `json:"blockIdentifier"`
	Transactions    []Transaction   `json:"transactions"`
	Metadata        *Metadata       `json:"metadata,omitempty"`
}
