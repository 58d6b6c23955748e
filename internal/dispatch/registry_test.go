package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DeborahOlaboye/PassportX-sub002/internal/chainhook"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Initialize logger for tests to prevent nil pointer dereference
	_ = logger.Init("error")
}

// recordingHandler is a hand-rolled fake that counts invocations and
// returns canned output.
type recordingHandler struct {
	eventType     string
	calls         int
	notifications []chainhook.Notification
	err           error
	panicWith     any
}

func (h *recordingHandler) EventType() string { return h.eventType }

func (h *recordingHandler) CanHandle(p *chainhook.Payload) bool {
	return chainhook.ExtractEventType(p) == h.eventType
}

func (h *recordingHandler) Handle(ctx context.Context, p *chainhook.Payload) ([]chainhook.Notification, error) {
	h.calls++
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.notifications, h.err
}

func TestRegistryDispatch(t *testing.T) {
	payload := &chainhook.Payload{
		BlockIdentifier: chainhook.BlockIdentifier{Index: 1042},
	}

	t.Run("no handlers registered is a nothing-to-do outcome", func(t *testing.T) {
		registry := NewRegistry()

		result := registry.Dispatch(t.Context(), chainhook.EventTypeBadgeMint, payload)

		assert.False(t, result.Success)
		assert.Empty(t, result.Handlers)
		assert.Empty(t, result.Notifications)
		assert.GreaterOrEqual(t, result.Elapsed, time.Duration(0))
	})

	t.Run("handlers run in registration order", func(t *testing.T) {
		registry := NewRegistry()

		var order []string
		for _, name := range []string{"first", "second", "third"} {
			name := name
			registry.RegisterHandler(chainhook.EventTypeBadgeMint, HandlerFunc{
				Type: chainhook.EventTypeBadgeMint,
				Fn: func(ctx context.Context, p *chainhook.Payload) ([]chainhook.Notification, error) {
					order = append(order, name)
					return nil, nil
				},
			})
		}

		result := registry.Dispatch(t.Context(), chainhook.EventTypeBadgeMint, payload)

		require.True(t, result.Success)
		assert.Equal(t, []string{"first", "second", "third"}, order)
		assert.Len(t, result.Handlers, 3)
	})

	t.Run("one failing handler of N does not stop the rest", func(t *testing.T) {
		registry := NewRegistry()

		ok1 := &recordingHandler{eventType: chainhook.EventTypeBadgeMint}
		bad := &recordingHandler{eventType: chainhook.EventTypeBadgeMint, err: errors.New("boom")}
		ok2 := &recordingHandler{eventType: chainhook.EventTypeBadgeMint}

		registry.RegisterHandler(chainhook.EventTypeBadgeMint, ok1)
		registry.RegisterHandler(chainhook.EventTypeBadgeMint, bad)
		registry.RegisterHandler(chainhook.EventTypeBadgeMint, ok2)

		result := registry.Dispatch(t.Context(), chainhook.EventTypeBadgeMint, payload)

		require.True(t, result.Success)
		require.Len(t, result.Handlers, 3)

		var failed []HandlerResult
		for _, hr := range result.Handlers {
			if hr.Status == StatusFailed {
				failed = append(failed, hr)
			}
		}
		require.Len(t, failed, 1)
		assert.Contains(t, failed[0].Error, "boom")

		assert.Equal(t, 1, ok1.calls)
		assert.Equal(t, 1, ok2.calls)
	})

	t.Run("panicking handler is isolated and recorded", func(t *testing.T) {
		registry := NewRegistry()

		registry.RegisterHandler(chainhook.EventTypeBadgeMint, &recordingHandler{
			eventType: chainhook.EventTypeBadgeMint,
			panicWith: "unexpected shape",
		})
		survivor := &recordingHandler{eventType: chainhook.EventTypeBadgeMint}
		registry.RegisterHandler(chainhook.EventTypeBadgeMint, survivor)

		result := registry.Dispatch(t.Context(), chainhook.EventTypeBadgeMint, payload)

		require.True(t, result.Success)
		require.Len(t, result.Handlers, 2)
		assert.Equal(t, StatusFailed, result.Handlers[0].Status)
		assert.Contains(t, result.Handlers[0].Error, "unexpected shape")
		assert.Equal(t, StatusSuccess, result.Handlers[1].Status)
		assert.Equal(t, 1, survivor.calls)
	})

	t.Run("duplicate registration means two invocations", func(t *testing.T) {
		registry := NewRegistry()

		h := &recordingHandler{eventType: chainhook.EventTypeBadgeMint}
		registry.RegisterHandler(chainhook.EventTypeBadgeMint, h)
		registry.RegisterHandler(chainhook.EventTypeBadgeMint, h)

		result := registry.Dispatch(t.Context(), chainhook.EventTypeBadgeMint, payload)

		require.True(t, result.Success)
		assert.Len(t, result.Handlers, 2)
		assert.Equal(t, 2, h.calls)
	})

	t.Run("notifications from all handlers are aggregated in order", func(t *testing.T) {
		registry := NewRegistry()

		registry.RegisterHandler(chainhook.EventTypeBadgeMint, &recordingHandler{
			eventType:     chainhook.EventTypeBadgeMint,
			notifications: []chainhook.Notification{{ID: "n1", UserID: "SP1"}},
		})
		registry.RegisterHandler(chainhook.EventTypeBadgeMint, &recordingHandler{
			eventType:     chainhook.EventTypeBadgeMint,
			notifications: []chainhook.Notification{{ID: "n2", UserID: "SP2"}, {ID: "n3", UserID: "SP3"}},
		})

		result := registry.Dispatch(t.Context(), chainhook.EventTypeBadgeMint, payload)

		require.Len(t, result.Notifications, 3)
		assert.Equal(t, "n1", result.Notifications[0].ID)
		assert.Equal(t, "n2", result.Notifications[1].ID)
		assert.Equal(t, "n3", result.Notifications[2].ID)
	})

	t.Run("error observer receives every failure with the payload", func(t *testing.T) {
		registry := NewRegistry()

		var observed []error
		registry.RegisterErrorObserver(func(ctx context.Context, err error, p *chainhook.Payload) {
			observed = append(observed, err)
			assert.Same(t, payload, p)
		})

		registry.RegisterHandler(chainhook.EventTypeBadgeMint, &recordingHandler{
			eventType: chainhook.EventTypeBadgeMint,
			err:       errors.New("first failure"),
		})
		registry.RegisterHandler(chainhook.EventTypeBadgeMint, &recordingHandler{
			eventType: chainhook.EventTypeBadgeMint,
			err:       errors.New("second failure"),
		})

		registry.Dispatch(t.Context(), chainhook.EventTypeBadgeMint, payload)

		require.Len(t, observed, 2)
		assert.EqualError(t, observed[0], "first failure")
		assert.EqualError(t, observed[1], "second failure")
	})

	t.Run("registering a new observer replaces the previous one", func(t *testing.T) {
		registry := NewRegistry()

		var firstCalls, secondCalls int
		registry.RegisterErrorObserver(func(ctx context.Context, err error, p *chainhook.Payload) { firstCalls++ })
		registry.RegisterErrorObserver(func(ctx context.Context, err error, p *chainhook.Payload) { secondCalls++ })

		registry.RegisterHandler(chainhook.EventTypeBadgeMint, &recordingHandler{
			eventType: chainhook.EventTypeBadgeMint,
			err:       errors.New("boom"),
		})
		registry.Dispatch(t.Context(), chainhook.EventTypeBadgeMint, payload)

		assert.Zero(t, firstCalls)
		assert.Equal(t, 1, secondCalls)
	})
}

func TestRegistryAccessors(t *testing.T) {
	t.Run("event types are the sorted registered keys", func(t *testing.T) {
		registry := NewRegistry()
		registry.RegisterHandler(chainhook.EventTypeCommunityCreate, &recordingHandler{})
		registry.RegisterHandler(chainhook.EventTypeBadgeMint, &recordingHandler{})

		assert.Equal(t, []string{chainhook.EventTypeBadgeMint, chainhook.EventTypeCommunityCreate}, registry.EventTypes())
	})

	t.Run("handlers returns a copy in registration order", func(t *testing.T) {
		registry := NewRegistry()
		first := &recordingHandler{}
		second := &recordingHandler{}
		registry.RegisterHandler(chainhook.EventTypeBadgeMint, first)
		registry.RegisterHandler(chainhook.EventTypeBadgeMint, second)

		handlers := registry.Handlers(chainhook.EventTypeBadgeMint)
		require.Len(t, handlers, 2)
		assert.Same(t, first, handlers[0].(*recordingHandler))
		assert.Same(t, second, handlers[1].(*recordingHandler))

		handlers[0] = nil
		assert.NotNil(t, registry.Handlers(chainhook.EventTypeBadgeMint)[0])
	})

	t.Run("clear resets handlers, actions, and observer", func(t *testing.T) {
		registry := NewRegistry()
		registry.RegisterHandler(chainhook.EventTypeBadgeMint, &recordingHandler{})
		registry.RegisterAction("notify", func(ctx context.Context, event chainhook.DomainEvent) error { return nil })
		registry.RegisterErrorObserver(func(ctx context.Context, err error, p *chainhook.Payload) {
			t.Error("cleared observer must not be invoked")
		})

		registry.Clear()

		assert.Empty(t, registry.EventTypes())
		assert.Empty(t, registry.Handlers(chainhook.EventTypeBadgeMint))

		results := registry.ExecuteActions(t.Context(), PredicateMatch{Actions: []string{"notify"}})
		assert.Empty(t, results)

		registry.RegisterHandler(chainhook.EventTypeBadgeMint, &recordingHandler{
			eventType: chainhook.EventTypeBadgeMint,
			err:       errors.New("boom"),
		})
		registry.Dispatch(t.Context(), chainhook.EventTypeBadgeMint, &chainhook.Payload{})
	})
}
