// Package enginetest provides a simulated media engine.
//
// The engine keeps a property store and an event queue. Its wakeup and
// frame-ready callbacks run on fresh goroutines, standing in for unmanaged
// engine worker threads. Values it hands out are engine-owned and audited:
// Outstanding reports values not yet passed back to FreeNode.
package enginetest

import (
	"sync"
	"time"

	"github.com/wippyai/mpvbridge"
	"github.com/wippyai/mpvbridge/engine"
	"github.com/wippyai/mpvbridge/variant"
)

// Engine is a simulated engine. It is safe for concurrent use.
type Engine struct {
	mem        *mpvbridge.LinearMemory
	render     *Render
	props      map[string]*variant.Node
	options    map[string]string
	observed   map[string][]uint64
	handedOut  map[*variant.Node]bool
	wakeup     func()
	queue      []*engine.Event
	commands   [][]any
	freeErrors []error
	logLevel   string

	// InitError, when set, is returned by Initialize.
	InitError error
	// RenderError, when set, is returned by RenderContext.
	RenderError error
	// RejectOptions lists option names SetOptionString refuses.
	RejectOptions map[string]bool

	initialized bool
	destroyed   bool
	callbacks   sync.WaitGroup
	mu          sync.Mutex
}

// New creates an engine with a 1 MiB address space.
func New() *Engine {
	e := &Engine{
		mem:       mpvbridge.NewLinearMemory(1 << 20),
		props:     make(map[string]*variant.Node),
		options:   make(map[string]string),
		observed:  make(map[string][]uint64),
		handedOut: make(map[*variant.Node]bool),
	}
	e.render = &Render{engine: e}
	return e
}

// Factory returns an engine.Factory that always yields e.
func (e *Engine) Factory() engine.Factory {
	return func() (engine.Engine, error) { return e, nil }
}

func (e *Engine) SetOptionString(name, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.RejectOptions[name] {
		return engine.ErrOptionNotFound
	}
	e.options[name] = value
	return nil
}

func (e *Engine) RequestLogMessages(level string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logLevel = level
	return nil
}

func (e *Engine) SetWakeupCallback(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.wakeup = fn
}

func (e *Engine) Initialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.InitError != nil {
		return e.InitError
	}
	e.initialized = true
	return nil
}

// Command runs a simulated command. A bare string or the first array
// element names it:
//
//	loadfile <path>   sets "path", queues start-file and file-loaded
//	stop              queues end-file with reason stop
//	quit              queues shutdown
//	set <name> <v>    sets a property
//	cycle <name>      toggles a boolean property
//	echo ...          returns its arguments
func (e *Engine) Command(args *variant.Node) (*variant.Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return nil, engine.ErrUninitialized
	}

	var parts []*variant.Node
	if args.Kind() == variant.KindArray {
		for i := 0; i < args.Len(); i++ {
			parts = append(parts, args.At(i))
		}
	} else {
		parts = []*variant.Node{args}
	}
	if len(parts) == 0 || parts[0].Kind() != variant.KindString {
		return nil, engine.ErrInvalidParameter
	}
	rec := make([]any, len(parts))
	for i, p := range parts {
		rec[i] = variant.ToHost(p)
	}
	e.commands = append(e.commands, rec)

	switch parts[0].AsString() {
	case "loadfile":
		if len(parts) < 2 {
			return nil, engine.ErrInvalidParameter
		}
		e.setLocked("path", variant.Clone(parts[1]))
		e.pushLocked(&engine.Event{ID: engine.EventStartFile})
		e.pushLocked(&engine.Event{ID: engine.EventFileLoaded})
	case "stop":
		e.pushLocked(&engine.Event{ID: engine.EventEndFile, Data: &engine.EndFile{Reason: engine.EndFileStop}})
	case "quit":
		e.pushLocked(&engine.Event{ID: engine.EventShutdown})
	case "set":
		if len(parts) != 3 {
			return nil, engine.ErrInvalidParameter
		}
		e.setLocked(parts[1].AsString(), variant.Clone(parts[2]))
	case "cycle":
		if len(parts) != 2 {
			return nil, engine.ErrInvalidParameter
		}
		cur, ok := e.props[parts[1].AsString()]
		if !ok || cur.Kind() != variant.KindBool {
			return nil, engine.ErrPropertyUnavailable
		}
		e.setLocked(parts[1].AsString(), variant.Bool(!cur.AsBool()))
	case "echo":
		return e.handOutLocked(variant.Array(cloneAll(parts[1:])...)), nil
	default:
		return nil, engine.ErrInvalidParameter
	}
	return e.handOutLocked(variant.None()), nil
}

func cloneAll(nodes []*variant.Node) []*variant.Node {
	out := make([]*variant.Node, len(nodes))
	for i, n := range nodes {
		out[i] = variant.Clone(n)
	}
	return out
}

func (e *Engine) GetProperty(name string) (*variant.Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return nil, engine.ErrUninitialized
	}
	v, ok := e.props[name]
	if !ok {
		return nil, engine.ErrPropertyNotFound
	}
	return e.handOutLocked(variant.Clone(v)), nil
}

// SetProperty stores a copy of value. The caller keeps ownership of value.
func (e *Engine) SetProperty(name string, value *variant.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return engine.ErrUninitialized
	}
	if value == nil || value.Released() {
		return engine.ErrPropertyFormat
	}
	e.setLocked(name, variant.Clone(value))
	return nil
}

// ObserveProperty adds a registration. Each registration of a name gets its
// own change event; there is no way to remove one.
func (e *Engine) ObserveProperty(id uint64, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observed[name] = append(e.observed[name], id)
	return nil
}

// WaitEvent never blocks; an empty queue yields EventNone.
func (e *Engine) WaitEvent(time.Duration) *engine.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return &engine.Event{ID: engine.EventNone}
	}
	ev := e.queue[0]
	e.queue = e.queue[1:]
	return ev
}

func (e *Engine) FreeNode(n *variant.Node) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := variant.ReleaseOwned(n, variant.OwnerEngine); err != nil {
		e.freeErrors = append(e.freeErrors, err)
		return
	}
	delete(e.handedOut, n)
}

func (e *Engine) RenderContext() (engine.RenderContext, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.RenderError != nil {
		return nil, e.RenderError
	}
	return e.render, nil
}

func (e *Engine) Memory() mpvbridge.AddressSpace { return e.mem }

func (e *Engine) Destroy() {
	e.mu.Lock()
	e.destroyed = true
	e.wakeup = nil
	e.mu.Unlock()
	e.callbacks.Wait()
}

// SetProperties seeds the property store without emitting events.
func (e *Engine) SetProperties(props map[string]*variant.Node) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for name, v := range props {
		e.props[name] = v
	}
}

// ChangeProperty sets name to v, or clears it when v is nil, and emits a
// property-change event if the property is observed.
func (e *Engine) ChangeProperty(name string, v *variant.Node) {
	e.mu.Lock()
	if v == nil {
		delete(e.props, name)
		for _, id := range e.observed[name] {
			e.queue = append(e.queue, e.propertyEvent(name, id, variant.None()))
		}
	} else {
		e.setLocked(name, v)
	}
	e.mu.Unlock()
	e.wake()
}

// Emit queues events and raises the wakeup callback once.
func (e *Engine) Emit(events ...*engine.Event) {
	e.mu.Lock()
	e.queue = append(e.queue, events...)
	e.mu.Unlock()
	e.wake()
}

// EmitLog queues a log-message event.
func (e *Engine) EmitLog(prefix, level, text string) {
	e.Emit(&engine.Event{ID: engine.EventLogMessage, Data: &engine.LogMessage{Prefix: prefix, Level: level, Text: text}})
}

// Pending returns the number of queued events.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Outstanding returns the number of engine-owned values not yet freed.
func (e *Engine) Outstanding() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handedOut)
}

// FreeErrors returns ownership violations seen by FreeNode.
func (e *Engine) FreeErrors() []error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]error(nil), e.freeErrors...)
}

// Options returns the options set so far.
func (e *Engine) Options() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]string, len(e.options))
	for k, v := range e.options {
		out[k] = v
	}
	return out
}

// LogLevel returns the level passed to RequestLogMessages.
func (e *Engine) LogLevel() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.logLevel
}

// Commands returns every command received, converted to host values.
func (e *Engine) Commands() [][]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]any(nil), e.commands...)
}

// Observed reports whether name is observed.
func (e *Engine) Observed(name string) bool {
	return e.Registrations(name) > 0
}

// Registrations returns how many times name was observed.
func (e *Engine) Registrations(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.observed[name])
}

// Destroyed reports whether Destroy was called.
func (e *Engine) Destroyed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

// Render returns the engine's render context.
func (e *Engine) Render() *Render { return e.render }

func (e *Engine) setLocked(name string, v *variant.Node) {
	e.props[name] = v
	for _, id := range e.observed[name] {
		e.queue = append(e.queue, e.propertyEvent(name, id, variant.Clone(v)))
	}
	e.wakeLocked()
}

func (e *Engine) propertyEvent(name string, id uint64, v *variant.Node) *engine.Event {
	return &engine.Event{
		ID:            engine.EventPropertyChange,
		ReplyUserdata: id,
		Data:          &engine.Property{Name: name, Data: e.handOutLocked(v)},
	}
}

func (e *Engine) pushLocked(ev *engine.Event) {
	e.queue = append(e.queue, ev)
	e.wakeLocked()
}

func (e *Engine) handOutLocked(n *variant.Node) *variant.Node {
	variant.Adopt(n, variant.OwnerEngine)
	e.handedOut[n] = true
	return n
}

func (e *Engine) wake() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.wakeLocked()
}

// wakeLocked fires the wakeup callback on its own goroutine.
func (e *Engine) wakeLocked() {
	if fn := e.wakeup; fn != nil && !e.destroyed {
		e.callbacks.Add(1)
		go func() {
			defer e.callbacks.Done()
			fn()
		}()
	}
}
