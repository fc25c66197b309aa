package engine

import (
	"time"

	"github.com/wippyai/mpvbridge"
	"github.com/wippyai/mpvbridge/variant"
)

// Engine is the media engine's command, property and event interface.
//
// SetWakeupCallback and the render context's update callback fire on engine
// worker threads. Every other method is called from the host goroutine.
type Engine interface {
	// SetOptionString sets an option before Initialize.
	SetOptionString(name, value string) error

	// RequestLogMessages enables log-message events at or above level.
	RequestLogMessages(level string) error

	// SetWakeupCallback installs fn to be called when events are pending.
	// Passing nil detaches it.
	SetWakeupCallback(fn func())

	Initialize() error

	// Command runs a command. The result is engine-owned and must be released
	// through FreeNode.
	Command(args *variant.Node) (*variant.Node, error)

	// GetProperty returns an engine-owned value.
	GetProperty(name string) (*variant.Node, error)

	SetProperty(name string, value *variant.Node) error

	// ObserveProperty asks for property-change events for name, tagged with id.
	ObserveProperty(id uint64, name string) error

	// WaitEvent returns the next event. With a zero timeout it never blocks
	// and returns an EventNone event when the queue is empty.
	WaitEvent(timeout time.Duration) *Event

	// FreeNode releases a value returned by the engine.
	FreeNode(n *variant.Node)

	// RenderContext returns the GL rendering sub-interface.
	RenderContext() (RenderContext, error)

	// Memory returns the engine's address space, shared with GL calls.
	Memory() mpvbridge.AddressSpace

	// Destroy terminates the engine. No method may be called afterwards.
	Destroy()
}

// RenderContext is the engine's GL rendering sub-interface.
type RenderContext interface {
	// InitGL lets the engine resolve GL entry points through resolve. A nil
	// result means the symbol is unavailable.
	InitGL(extensions string, resolve func(name string) any) error

	// SetUpdateCallback installs fn to be called when a new frame is ready.
	// Passing nil detaches it.
	SetUpdateCallback(fn func())

	// Draw renders into framebuffer fbo with the given viewport size.
	Draw(fbo, width, height int) error

	UninitGL() error
}

// Factory creates an uninitialized engine.
type Factory func() (Engine, error)
