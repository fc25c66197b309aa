package registry

import (
	"math"
	"sort"

	"github.com/wippyai/mpvbridge/errors"
)

// Handle stands in for a host graphics object inside the GL API.
// Handle 0 is reserved and always means "none".
type Handle uint32

// Category names the kind of object a registry holds.
type Category string

const (
	Program     Category = "program"
	Shader      Category = "shader"
	Buffer      Category = "buffer"
	Texture     Category = "texture"
	Framebuffer Category = "framebuffer"
	Uniform     Category = "uniform-location"
)

// EventType identifies registry lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDeleted
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDeleted:
		return "deleted"
	}
	return "unknown"
}

// Event represents a registry lifecycle event.
type Event struct {
	Value    any
	Category Category
	Handle   Handle
	Type     EventType
}

// Observer receives registry lifecycle events.
type Observer interface {
	OnRegistryEvent(Event)
}

// Registry maps handles of one category to held host references.
//
// Handles are allocated from a monotonic counter starting at 1 and are
// never reused, so a stale handle can only miss, never alias a newer object.
// The release hook runs exactly once per entry: on Delete or on Close.
//
// A Registry is owned by the host goroutine and is not safe for concurrent use.
type Registry[T any] struct {
	entries   map[Handle]T
	release   func(T)
	category  Category
	observers []Observer
	last      Handle
	closed    bool
}

// New creates a registry. release may be nil.
func New[T any](category Category, release func(T)) *Registry[T] {
	return &Registry[T]{
		entries:  make(map[Handle]T, 16),
		release:  release,
		category: category,
	}
}

// Category returns the registry's category.
func (r *Registry[T]) Category() Category { return r.category }

// Create stores v under a fresh handle. It returns 0 once the registry is
// closed or the handle space is exhausted.
func (r *Registry[T]) Create(v T) Handle {
	if r.closed || r.last == math.MaxUint32 {
		return 0
	}
	r.last++
	h := r.last
	r.entries[h] = v
	r.notify(Event{Type: EventCreated, Category: r.category, Handle: h, Value: v})
	return h
}

// Get retrieves a value by handle.
func (r *Registry[T]) Get(h Handle) (T, bool) {
	v, ok := r.entries[h]
	return v, ok
}

// Lookup dereferences h and reports a miss as an error.
func (r *Registry[T]) Lookup(h Handle) (T, error) {
	v, ok := r.entries[h]
	if !ok {
		return v, errors.Missing(string(r.category), uint32(h))
	}
	return v, nil
}

// Delete removes h and fires the release hook. Deleting a missing handle is
// a no-op that reports false.
func (r *Registry[T]) Delete(h Handle) bool {
	v, ok := r.entries[h]
	if !ok {
		return false
	}
	delete(r.entries, h)
	if r.release != nil {
		r.release(v)
	}
	r.notify(Event{Type: EventDeleted, Category: r.category, Handle: h, Value: v})
	return true
}

// Find returns the handle of the first entry, in handle order, that match
// accepts. It is a linear scan; registries hold few live objects.
func (r *Registry[T]) Find(match func(T) bool) (Handle, bool) {
	for _, h := range r.handles() {
		if match(r.entries[h]) {
			return h, true
		}
	}
	return 0, false
}

// Each iterates over live entries in handle order.
func (r *Registry[T]) Each(fn func(Handle, T) bool) {
	for _, h := range r.handles() {
		if !fn(h, r.entries[h]) {
			return
		}
	}
}

// Len returns the number of live entries.
func (r *Registry[T]) Len() int { return len(r.entries) }

// Close releases every remaining entry and stops accepting new ones.
func (r *Registry[T]) Close() error {
	if r.closed {
		return nil
	}
	for _, h := range r.handles() {
		r.Delete(h)
	}
	r.closed = true
	return nil
}

// Subscribe adds an observer for lifecycle events.
func (r *Registry[T]) Subscribe(o Observer) {
	r.observers = append(r.observers, o)
}

// Unsubscribe removes an observer.
func (r *Registry[T]) Unsubscribe(o Observer) {
	for i, obs := range r.observers {
		if obs == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

func (r *Registry[T]) handles() []Handle {
	hs := make([]Handle, 0, len(r.entries))
	for h := range r.entries {
		hs = append(hs, h)
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })
	return hs
}

func (r *Registry[T]) notify(e Event) {
	for _, o := range r.observers {
		o.OnRegistryEvent(e)
	}
}
