package dispatch

import "github.com/DeborahOlaboye/PassportX-sub002/internal/chainhook"

// Builder is a fluent convenience façade over a Registry for the
// well-known event vocabulary, reducing call-site boilerplate at the
// composition root. It holds no state beyond the registry it wraps.
type Builder struct {
	registry *Registry
}

// NewBuilder wraps the given registry.
func NewBuilder(r *Registry) *Builder {
	return &Builder{registry: r}
}

// OnBadgeMint registers a handler for badge-mint events.
func (b *Builder) OnBadgeMint(h Handler) *Builder {
	b.registry.RegisterHandler(chainhook.EventTypeBadgeMint, h)
	return b
}

// OnBadgeRevoke registers a handler for badge-revoke events.
func (b *Builder) OnBadgeRevoke(h Handler) *Builder {
	b.registry.RegisterHandler(chainhook.EventTypeBadgeRevoke, h)
	return b
}

// OnCommunityCreation registers a handler for community-creation events.
func (b *Builder) OnCommunityCreation(h Handler) *Builder {
	b.registry.RegisterHandler(chainhook.EventTypeCommunityCreate, h)
	return b
}

// OnError sets the registry's error observer.
func (b *Builder) OnError(fn ErrorObserver) *Builder {
	b.registry.RegisterErrorObserver(fn)
	return b
}

// Action registers a named action callable.
func (b *Builder) Action(name string, fn ActionFunc) *Builder {
	b.registry.RegisterAction(name, fn)
	return b
}

// Registry returns the wrapped registry.
func (b *Builder) Registry() *Registry {
	return b.registry
}
