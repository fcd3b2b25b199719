// Package registry implements first-match resolution over an ordered list of
// guarded handlers. Guards in one control are expected to be mutually
// exclusive by construction; overlapping guards are tolerated (first match
// wins, order-determined) but reported so the configuration can be fixed.
package registry

import "errors"

// ErrNoResolution is returned when a handler is requested from a resolution
// that did not match anything. Applying an effect without a preceding
// successful resolution is a programming error, never a silent no-op.
var ErrNoResolution = errors.New("registry: no handler resolved")

// Named is implemented by every handler held in a registry.
type Named interface {
	HandlerName() string
}

// Resolution is the outcome of one resolve pass. The zero value means no
// handler matched.
type Resolution[H Named] struct {
	handler H
	ok      bool

	// matches holds the names of every handler whose guard returned true, in
	// configuration order.
	matches []string
}

// Ok reports whether any handler matched.
func (r Resolution[H]) Ok() bool { return r.ok }

// Ambiguous reports whether more than one guard matched.
func (r Resolution[H]) Ambiguous() bool { return len(r.matches) > 1 }

// Matches returns the names of all matching handlers in configuration order.
func (r Resolution[H]) Matches() []string { return r.matches }

// Name returns the name of the chosen handler, or "" when nothing matched.
func (r Resolution[H]) Name() string {
	if !r.ok {
		return ""
	}
	return r.handler.HandlerName()
}

// Handler returns the chosen handler. It fails with ErrNoResolution on an
// empty resolution.
func (r Resolution[H]) Handler() (H, error) {
	if !r.ok {
		var zero H
		return zero, ErrNoResolution
	}
	return r.handler, nil
}

// Registry holds an ordered handler list: built-in handlers first, then
// caller-supplied custom handlers in configuration order.
type Registry[H Named] struct {
	handlers []H
}

func New[H Named](builtin []H, custom ...H) *Registry[H] {
	handlers := make([]H, 0, len(builtin)+len(custom))
	handlers = append(handlers, builtin...)
	handlers = append(handlers, custom...)
	return &Registry[H]{handlers: handlers}
}

// Handlers returns the combined list in resolution order.
func (r *Registry[H]) Handlers() []H {
	return r.handlers
}

// Resolve evaluates applicable for every handler in order and returns a
// resolution holding the first match. Resolution is pure: no handler effect
// runs here, and guards must not mutate state.
func (r *Registry[H]) Resolve(applicable func(H) bool) Resolution[H] {
	var res Resolution[H]
	for _, h := range r.handlers {
		if !applicable(h) {
			continue
		}
		if !res.ok {
			res.handler = h
			res.ok = true
		}
		res.matches = append(res.matches, h.HandlerName())
	}
	return res
}
