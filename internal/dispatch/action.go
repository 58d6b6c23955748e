package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/DeborahOlaboye/PassportX-sub002/internal/chainhook"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/pkg/logger"
)

// ActionFunc is a named side-effecting callable invoked when an external
// predicate matcher determines a subscribed condition holds.
type ActionFunc func(ctx context.Context, event chainhook.DomainEvent) error

// PredicateMatch is the result produced by the external predicate-matching
// collaborator: the matched event plus the named actions to run.
type PredicateMatch struct {
	PredicateID string                `json:"predicateId"`
	Matched     bool                  `json:"matched"`
	Event       chainhook.DomainEvent `json:"event"`
	MatchedAt   time.Time             `json:"matchedAt"`
	Actions     []string              `json:"actions"`
}

// ActionResult is the recorded outcome of one action invocation.
type ActionResult struct {
	Action string `json:"action"`
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RegisterAction stores the callable for the given action name. Unlike
// handler registration there is at most one callable per name, and the
// last registration wins. The asymmetry is deliberate.
func (r *Registry) RegisterAction(name string, fn ActionFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.actions[name] = fn
}

// ExecuteActions runs the actions named by the predicate match, in list
// order, against the matched event. Names with no registered callable
// are skipped silently and produce no entry, so the result may be
// shorter than the action list. A failing or panicking action is
// recorded as failed and never blocks its siblings.
//
// Action execution shares the registry object for convenience but is
// logically independent of handler dispatch.
func (r *Registry) ExecuteActions(ctx context.Context, match PredicateMatch) []ActionResult {
	r.mu.RLock()
	callables := make(map[string]ActionFunc, len(r.actions))
	for name, fn := range r.actions {
		callables[name] = fn
	}
	r.mu.RUnlock()

	results := make([]ActionResult, 0, len(match.Actions))
	for _, name := range match.Actions {
		fn, ok := callables[name]
		if !ok {
			continue
		}

		if err := runAction(ctx, fn, match.Event); err != nil {
			results = append(results, ActionResult{
				Action: name,
				Status: StatusFailed,
				Error:  err.Error(),
			})

			logger.Error(ctx, "action failed",
				"predicate.id", match.PredicateID,
				"action", name,
				"error", err,
			)
			continue
		}

		results = append(results, ActionResult{
			Action: name,
			Status: StatusSuccess,
		})
	}

	return results
}

// runAction invokes one action with panic recovery.
func runAction(ctx context.Context, fn ActionFunc, event chainhook.DomainEvent) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("action panic: %v", rec)
		}
	}()

	return fn(ctx, event)
}
