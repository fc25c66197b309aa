// Package events moves engine notifications onto the host goroutine.
//
// Engine worker threads only raise one of two coalescing signals, redraw and
// wakeup. The host goroutine consumes them: a redraw asks the engine to draw
// at the cached surface size, a wakeup drains the engine's event queue and
// dispatches every event to its handlers.
package events

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/mpvbridge/engine"
	"github.com/wippyai/mpvbridge/errors"
	"github.com/wippyai/mpvbridge/host"
	"github.com/wippyai/mpvbridge/variant"
)

// Handler receives an event payload as a host value. Log messages arrive as
// an object with prefix, level and text; end-file as an object with reason
// and error; lifecycle events with nil.
type Handler func(data any)

// PropertyFunc receives the new value of an observed property, or nil when
// the property has no value.
type PropertyFunc func(value any)

type subscription struct {
	fn PropertyFunc
	id uint64
}

// Bridge dispatches engine events on the host goroutine.
type Bridge struct {
	engine    engine.Engine
	render    engine.RenderContext
	size      *SizeCache
	redraw    *Signal
	wakeup    *Signal
	handlers  map[engine.EventID]Handler
	observers map[string][]subscription
	nextID    uint64
}

// HandlerNames lists the event names a handler can be registered for.
func HandlerNames() []string {
	names := []string{engine.EventLogMessage.String(), engine.EventEndFile.String()}
	for id := engine.EventNone; id <= engine.EventQueueOverflow; id++ {
		if id.Lifecycle() {
			names = append(names, id.String())
		}
	}
	sort.Strings(names)
	return names
}

// New creates a bridge for eng. handlers is keyed by event name; unknown
// names are rejected.
func New(eng engine.Engine, size *SizeCache, handlers map[string]Handler) (*Bridge, error) {
	b := &Bridge{
		engine:    eng,
		size:      size,
		redraw:    NewSignal(),
		wakeup:    NewSignal(),
		handlers:  make(map[engine.EventID]Handler, len(handlers)),
		observers: make(map[string][]subscription),
	}
	for name, h := range handlers {
		id, ok := engine.EventByName(name)
		if !ok || !(id.Lifecycle() || id == engine.EventLogMessage || id == engine.EventEndFile) {
			return nil, errors.NotFound(errors.PhaseInit, "event handler", name)
		}
		if h != nil {
			b.handlers[id] = h
		}
	}
	return b, nil
}

// RequestRedraw is the engine's update callback. It may run on any thread.
func (b *Bridge) RequestRedraw() { b.redraw.Raise() }

// Wakeup is the engine's wakeup callback. It may run on any thread.
func (b *Bridge) Wakeup() { b.wakeup.Raise() }

// Attach enables drawing through rc. Redraws before Attach do nothing.
func (b *Bridge) Attach(rc engine.RenderContext) { b.render = rc }

// Detach disables drawing.
func (b *Bridge) Detach() { b.render = nil }

// Ready reports whether drawing is enabled.
func (b *Bridge) Ready() bool { return b.render != nil }

// Size returns the surface size cache.
func (b *Bridge) Size() *SizeCache { return b.size }

// Redraw draws one frame into the default framebuffer.
func (b *Bridge) Redraw() error {
	if b.render == nil {
		return nil
	}
	w, h := b.size.Size()
	if err := b.render.Draw(0, w, h); err != nil {
		return errors.Engine("draw", err)
	}
	return nil
}

// ObserveProperty subscribes fn to changes of name and returns the
// subscription id. Several subscribers per name are called in subscription
// order.
func (b *Bridge) ObserveProperty(name string, fn PropertyFunc) (uint64, error) {
	b.nextID++
	id := b.nextID
	if _, ok := b.observers[name]; !ok {
		if err := b.engine.ObserveProperty(id, name); err != nil {
			return 0, errors.Engine("observe_property", err)
		}
	}
	b.observers[name] = append(b.observers[name], subscription{fn: fn, id: id})
	return id, nil
}

// Unobserve drops one subscription. The engine keeps reporting the property,
// so the name stays registered; changes with no subscriber are ignored.
func (b *Bridge) Unobserve(id uint64) bool {
	for name, subs := range b.observers {
		for i, s := range subs {
			if s.id == id {
				b.observers[name] = append(subs[:i:i], subs[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Drain takes events from the engine until its queue is empty and returns
// how many were dispatched. A shutdown event ends the drain after dispatch.
func (b *Bridge) Drain() int {
	n := 0
	for {
		ev := b.engine.WaitEvent(0)
		if ev == nil || ev.ID == engine.EventNone {
			return n
		}
		b.dispatch(ev)
		n++
		if ev.ID == engine.EventShutdown {
			return n
		}
	}
}

// Pump handles pending signals without blocking.
func (b *Bridge) Pump() (draws, events int, err error) {
	if b.wakeup.Take() {
		events = b.Drain()
	}
	if b.redraw.Take() {
		draws = 1
		err = b.Redraw()
	}
	return draws, events, err
}

// Run services signals until ctx is done. It must run on the host goroutine.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.wakeup.C():
			b.Drain()
		case <-b.redraw.C():
			if err := b.Redraw(); err != nil {
				Logger().Warn("redraw failed", zap.Error(err))
			}
		}
	}
}

func (b *Bridge) dispatch(ev *engine.Event) {
	switch ev.ID {
	case engine.EventLogMessage:
		msg, _ := ev.Data.(*engine.LogMessage)
		if msg == nil {
			return
		}
		if h := b.handlers[ev.ID]; h != nil {
			h(host.NewObject().Set("prefix", msg.Prefix).Set("level", msg.Level).Set("text", msg.Text))
			return
		}
		if ce := Logger().Check(engine.LogLevel(msg.Level), msg.Text); ce != nil {
			ce.Write(zap.String("prefix", msg.Prefix), zap.String("level", msg.Level))
		}

	case engine.EventEndFile:
		h := b.handlers[ev.ID]
		if h == nil {
			return
		}
		obj := host.NewObject()
		if ef, ok := ev.Data.(*engine.EndFile); ok {
			obj.Set("reason", ef.Reason.String()).Set("error", float64(ef.Error))
		}
		h(obj)

	case engine.EventPropertyChange:
		prop, _ := ev.Data.(*engine.Property)
		if prop == nil {
			return
		}
		b.fanOut(prop)

	default:
		if !ev.ID.Lifecycle() {
			Logger().Debug("event ignored", zap.Stringer("event", ev.ID))
			return
		}
		if h := b.handlers[ev.ID]; h != nil {
			h(nil)
		}
	}
}

func (b *Bridge) fanOut(prop *engine.Property) {
	if prop.Data != nil {
		defer b.engine.FreeNode(prop.Data)
	}
	subs := b.observers[prop.Name]
	if len(subs) == 0 {
		return
	}
	var value any
	if prop.Data != nil && prop.Data.Kind() != variant.KindNone {
		value = variant.ToHost(prop.Data)
	}
	for _, s := range append([]subscription(nil), subs...) {
		s.fn(value)
	}
}

// PumpUntil pumps until done reports true or the timeout expires.
func (b *Bridge) PumpUntil(timeout time.Duration, done func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		b.Pump()
		if done() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}
