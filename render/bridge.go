// Package render implements the GL entry points the engine calls, forwarding
// each one to a named method on the host rendering context.
//
// Object names the engine sees are registry handles. Pixel data is repacked
// between the engine's row alignment and the tight rows the host consumes;
// the host itself always runs with pack and unpack alignment 1.
//
// GL has no error returns, so failures detected by the bridge (registry
// misses, unsupported formats, bad pointers) are recorded as a GL error code
// and reported by the next GetError before the host's own error state.
package render

import (
	"reflect"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/mpvbridge"
	"github.com/wippyai/mpvbridge/buffer"
	"github.com/wippyai/mpvbridge/errors"
	"github.com/wippyai/mpvbridge/gl"
	"github.com/wippyai/mpvbridge/host"
	"github.com/wippyai/mpvbridge/pixel"
	"github.com/wippyai/mpvbridge/registry"
)

// Bridge holds the state behind the GL entry points for one host context.
// It is owned by the host goroutine and is not safe for concurrent use.
type Bridge struct {
	mem      mpvbridge.AddressSpace
	methods  map[string]host.Func
	bindings map[gl.Enum]registry.Handle
	strings  map[gl.Enum]gl.Ptr

	programs     *registry.Registry[any]
	shaders      *registry.Registry[any]
	buffers      *registry.Registry[any]
	textures     *registry.Registry[any]
	framebuffers *registry.Registry[any]
	uniforms     *registry.Registry[uniformLocation]

	pool    *buffer.Pool
	pixels  *pixel.Transfer
	tracker *objectTracker

	lastErr gl.Enum
	closed  bool
}

type uniformLocation struct {
	location any
	name     string
	program  registry.Handle
}

// New resolves every host method on ctx and prepares the host's pixel store.
// Engine pointers passed to entry points refer to mem.
func New(ctx host.Context, mem mpvbridge.AddressSpace) (*Bridge, error) {
	methods := make(map[string]host.Func, len(HostMethods))
	var missing []string
	for _, name := range HostMethods {
		fn, ok := ctx.Method(name)
		if !ok || fn == nil {
			missing = append(missing, name)
			continue
		}
		methods[name] = fn
	}
	if len(missing) > 0 {
		return nil, errors.NewMissingMethodsError("webgl", missing)
	}

	b := &Bridge{
		mem:      mem,
		methods:  methods,
		bindings: make(map[gl.Enum]registry.Handle),
		strings:  make(map[gl.Enum]gl.Ptr),
		pool:     buffer.NewPool(),
	}
	b.pixels = pixel.NewTransfer(mem, b.pool, pixel.NewStore())

	b.programs = registry.New[any](registry.Program, b.releaser("deleteProgram"))
	b.shaders = registry.New[any](registry.Shader, b.releaser("deleteShader"))
	b.buffers = registry.New[any](registry.Buffer, b.releaser("deleteBuffer"))
	b.textures = registry.New[any](registry.Texture, b.releaser("deleteTexture"))
	b.framebuffers = registry.New[any](registry.Framebuffer, b.releaser("deleteFramebuffer"))
	b.uniforms = registry.New[uniformLocation](registry.Uniform, nil)

	b.tracker = newObjectTracker()
	b.programs.Subscribe(b.tracker)
	b.shaders.Subscribe(b.tracker)
	b.buffers.Subscribe(b.tracker)
	b.textures.Subscribe(b.tracker)
	b.framebuffers.Subscribe(b.tracker)
	b.uniforms.Subscribe(b.tracker)

	// The host only ever receives tightly packed rows.
	b.call("pixelStorei", int(gl.UNPACK_ALIGNMENT), 1)
	b.call("pixelStorei", int(gl.PACK_ALIGNMENT), 1)

	return b, nil
}

func (b *Bridge) releaser(method string) func(any) {
	return func(obj any) {
		b.call(method, obj)
	}
}

// Memory returns the engine address space the bridge reads and writes.
func (b *Bridge) Memory() mpvbridge.AddressSpace { return b.mem }

// Pool returns the bridge's scratch buffer pool.
func (b *Bridge) Pool() *buffer.Pool { return b.pool }

// pixelStore returns the engine-side pixel store state.
func (b *Bridge) pixelStore() *pixel.Store { return b.pixels.Store() }

// Live returns the number of live objects per category.
func (b *Bridge) Live() map[registry.Category]int {
	out := make(map[registry.Category]int, len(b.tracker.live))
	for c, n := range b.tracker.live {
		out[c] = n
	}
	return out
}

// Close deletes every remaining host object and frees cached strings.
// Entry points called afterwards do nothing.
func (b *Bridge) Close() error {
	if b.closed {
		return nil
	}
	b.uniforms.Close()
	b.framebuffers.Close()
	b.textures.Close()
	b.buffers.Close()
	b.shaders.Close()
	b.programs.Close()
	for name, ptr := range b.strings {
		b.mem.Free(uint32(ptr), 0, 1)
		delete(b.strings, name)
	}
	b.pool.Reset()
	b.closed = true
	return nil
}

// objectTracker counts live objects per category from registry events.
type objectTracker struct {
	live map[registry.Category]int
}

func newObjectTracker() *objectTracker {
	t := &objectTracker{live: make(map[registry.Category]int, 6)}
	for _, c := range []registry.Category{
		registry.Program, registry.Shader, registry.Buffer,
		registry.Texture, registry.Framebuffer, registry.Uniform,
	} {
		t.live[c] = 0
	}
	return t
}

func (t *objectTracker) OnRegistryEvent(e registry.Event) {
	switch e.Type {
	case registry.EventCreated:
		t.live[e.Category]++
	case registry.EventDeleted:
		t.live[e.Category]--
	}
	Logger().Debug("gl object "+e.Type.String(),
		zap.String("category", string(e.Category)),
		zap.Uint32("handle", uint32(e.Handle)),
		zap.Int("live", t.live[e.Category]))
}

func (b *Bridge) call(name string, args ...any) any {
	r, _ := b.callOK(name, args...)
	return r
}

// callOK is call that reports whether the host method ran and succeeded.
func (b *Bridge) callOK(name string, args ...any) (any, bool) {
	if b.closed {
		return nil, false
	}
	r, err := b.methods[name](args...)
	if err != nil {
		Logger().Warn("host method failed", zap.String("method", name), zap.Error(err))
		b.record(gl.INVALID_OPERATION)
		return nil, false
	}
	return r, true
}

// record keeps the first error until GetError reports it.
func (b *Bridge) record(code gl.Enum) {
	if b.lastErr == gl.NO_ERROR {
		b.lastErr = code
	}
}

func (b *Bridge) fail(op string, code gl.Enum, err error) {
	Logger().Debug("gl call rejected", zap.String("op", op), zap.Uint32("error", uint32(code)), zap.Error(err))
	b.record(code)
}

func (b *Bridge) lookup(r *registry.Registry[any], h gl.Uint, op string) (any, bool) {
	obj, err := r.Lookup(registry.Handle(h))
	if err != nil {
		b.fail(op, gl.INVALID_VALUE, err)
		return nil, false
	}
	return obj, true
}

// bindable resolves a handle for a bind-style call: 0 unbinds (nil) without
// touching the registry.
func (b *Bridge) bindable(r *registry.Registry[any], h gl.Uint, op string) (any, bool) {
	if h == 0 {
		return nil, true
	}
	return b.lookup(r, h, op)
}

// handleOf maps a host object back to its handle. nil and unknown objects
// map to 0.
func handleOf(r *registry.Registry[any], obj any) gl.Int {
	if obj == nil {
		return 0
	}
	h, _ := r.Find(func(v any) bool { return sameObject(v, obj) })
	return gl.Int(h)
}

func sameObject(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || ta == nil || !ta.Comparable() {
		return false
	}
	return a == b
}

func (b *Bridge) readString(ptr gl.Ptr, op string) (string, bool) {
	s, err := mpvbridge.ReadCString(b.mem, uint32(ptr))
	if err != nil {
		b.fail(op, gl.INVALID_VALUE, err)
		return "", false
	}
	return s, true
}

func (b *Bridge) writeInt(ptr gl.Ptr, v gl.Int, op string) bool {
	if err := mpvbridge.WriteI32(b.mem, uint32(ptr), int32(v)); err != nil {
		b.fail(op, gl.INVALID_VALUE, err)
		return false
	}
	return true
}

// readBytes copies n bytes of engine memory into the pooled block for role.
func (b *Bridge) readBytes(role buffer.Role, ptr gl.Ptr, n int, op string) ([]byte, bool) {
	if n < 0 {
		b.fail(op, gl.INVALID_VALUE, nil)
		return nil, false
	}
	src, err := b.mem.Read(uint32(ptr), uint32(n))
	if err != nil {
		b.fail(op, gl.INVALID_VALUE, err)
		return nil, false
	}
	dst := b.pool.Get(role, n)
	copy(dst, src)
	return dst, true
}

func hostInt(v any) (gl.Int, bool) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	n, ok := host.Number(v)
	if !ok {
		return 0, false
	}
	return gl.Int(int32(n)), true
}

var active atomic.Pointer[Bridge]

// Install makes b the process-wide active bridge that dispatched entry
// points call into. Only one bridge may be active at a time.
func Install(b *Bridge) error {
	if !active.CompareAndSwap(nil, b) {
		return errors.New(errors.PhaseInit, errors.KindInvalidInput).
			Detail("another render bridge is already active").
			Build()
	}
	return nil
}

// Uninstall clears the active slot if it still holds b.
func Uninstall(b *Bridge) bool {
	return active.CompareAndSwap(b, nil)
}

// Active returns the active bridge or nil.
func Active() *Bridge {
	return active.Load()
}
