// Package dispatch implements the handler registry and dispatch engine at
// the center of the event pipeline: an explicitly constructed registry
// mapping canonical event-type keys to ordered handler lists, a dispatch
// pass with per-handler failure isolation, a named-action executor for
// predicate matches, and a fluent registration builder.
//
// Nothing in this package throws past its boundary for data-shape
// problems. A failing handler or action is recorded as a structured
// per-entry result and never stops its siblings.
package dispatch

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/DeborahOlaboye/PassportX-sub002/internal/chainhook"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/pkg/logger"
)

// Handler is the capability set every domain handler implements.
type Handler interface {
	// EventType returns the canonical event-type key this handler reacts to.
	EventType() string

	// CanHandle reports whether the payload's extracted event type matches
	// this handler's event type.
	CanHandle(p *chainhook.Payload) bool

	// Handle walks the payload and returns the notifications it produced.
	// Implementations are best-effort: a malformed transaction must never
	// abort the whole batch, so Handle logs and returns an empty list
	// rather than failing on bad data. A returned error signals a handler
	// fault, not a payload fault.
	Handle(ctx context.Context, p *chainhook.Payload) ([]chainhook.Notification, error)
}

// HandlerFunc adapts a bare function into a Handler bound to an event
// type, for call sites that don't need a full handler implementation.
type HandlerFunc struct {
	Type string
	Fn   func(ctx context.Context, p *chainhook.Payload) ([]chainhook.Notification, error)
}

func (h HandlerFunc) EventType() string { return h.Type }

func (h HandlerFunc) CanHandle(p *chainhook.Payload) bool {
	return chainhook.ExtractEventType(p) == h.Type
}

func (h HandlerFunc) Handle(ctx context.Context, p *chainhook.Payload) ([]chainhook.Notification, error) {
	return h.Fn(ctx, p)
}

// ErrorObserver is the single optional hook invoked with every handler
// failure during dispatch, so callers can choose to log, alert, or
// ignore.
type ErrorObserver func(ctx context.Context, err error, p *chainhook.Payload)

// Status reports the outcome of one handler or action invocation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// HandlerResult is the recorded outcome of one handler invocation within
// a dispatch pass.
type HandlerResult struct {
	Handler string `json:"handler"`
	Status  Status `json:"status"`
	Error   string `json:"error,omitempty"`
}

// Result is the outcome of one dispatch pass.
//
// Success reports dispatch availability, not handler correctness: it is
// true whenever at least one handler was registered for the event type,
// regardless of individual handler outcomes, and false when there was
// nothing to do.
type Result struct {
	Success       bool                     `json:"success"`
	Handlers      []HandlerResult          `json:"handlers"`
	Notifications []chainhook.Notification `json:"notifications,omitempty"`
	Elapsed       time.Duration            `json:"elapsed"`
}

// Registry maps event-type keys to ordered handler lists and action names
// to callables. It is safe for concurrent use; in steady-state operation
// registration happens once at startup and the tables are effectively
// read-only.
type Registry struct {
	mu          sync.RWMutex
	handlers    map[string][]Handler
	actions     map[string]ActionFunc
	errObserver ErrorObserver
}

// NewRegistry creates an empty registry. Registries are explicit
// instances owned by the composition root; there is no package-level
// singleton.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string][]Handler),
		actions:  make(map[string]ActionFunc),
	}
}

// RegisterHandler appends a handler to the list for the given event type.
// Duplicate registrations are kept and each is invoked per dispatch:
// list semantics, not set semantics.
func (r *Registry) RegisterHandler(eventType string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers[eventType] = append(r.handlers[eventType], h)
}

// Handlers returns the handlers registered for the event type, in
// registration order. The returned slice is a copy.
func (r *Registry) Handlers(eventType string) []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handlers := make([]Handler, len(r.handlers[eventType]))
	copy(handlers, r.handlers[eventType])
	return handlers
}

// EventTypes returns the sorted set of event-type keys that have at least
// one registered handler.
func (r *Registry) EventTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.handlers))
	for eventType := range r.handlers {
		types = append(types, eventType)
	}
	sort.Strings(types)
	return types
}

// RegisterErrorObserver sets the error observer, replacing any previous
// one.
func (r *Registry) RegisterErrorObserver(fn ErrorObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errObserver = fn
}

// Clear resets the handler map, the action map, and the error observer.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers = make(map[string][]Handler)
	r.actions = make(map[string]ActionFunc)
	r.errObserver = nil
}

// Dispatch invokes every handler registered for the event type in
// registration order, each failure isolated: a failing or panicking
// handler is recorded as a failed result, forwarded to the error
// observer if one is set, and the remaining handlers still run.
// Notifications produced by successful handlers are aggregated onto the
// result for the caller to forward to the delivery collaborator. The
// payload is never mutated.
//
// When no handlers are registered for the event type the result has
// Success=false and no handler entries; that is a "nothing to do"
// outcome, not an error.
func (r *Registry) Dispatch(ctx context.Context, eventType string, p *chainhook.Payload) Result {
	start := time.Now()

	r.mu.RLock()
	handlers := make([]Handler, len(r.handlers[eventType]))
	copy(handlers, r.handlers[eventType])
	observer := r.errObserver
	r.mu.RUnlock()

	if len(handlers) == 0 {
		return Result{
			Success:  false,
			Handlers: []HandlerResult{},
			Elapsed:  time.Since(start),
		}
	}

	result := Result{
		Success:  true,
		Handlers: make([]HandlerResult, 0, len(handlers)),
	}

	for i, h := range handlers {
		name := fmt.Sprintf("%s[%d]:%T", eventType, i, h)

		notifications, err := invoke(ctx, h, p)
		if err != nil {
			result.Handlers = append(result.Handlers, HandlerResult{
				Handler: name,
				Status:  StatusFailed,
				Error:   err.Error(),
			})

			logger.Error(ctx, "handler failed during dispatch",
				"event.type", eventType,
				"handler", name,
				"error", err,
			)

			if observer != nil {
				observer(ctx, err, p)
			}
			continue
		}

		result.Handlers = append(result.Handlers, HandlerResult{
			Handler: name,
			Status:  StatusSuccess,
		})
		result.Notifications = append(result.Notifications, notifications...)
	}

	result.Elapsed = time.Since(start)
	return result
}

// invoke runs one handler with panic recovery, converting a panic into an
// ordinary handler error so dispatch always completes.
func invoke(ctx context.Context, h Handler, p *chainhook.Payload) (notifications []chainhook.Notification, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			notifications = nil
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()

	return h.Handle(ctx, p)
}
