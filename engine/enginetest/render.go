package enginetest

import (
	"fmt"
	"sync"

	"github.com/wippyai/mpvbridge"
	"github.com/wippyai/mpvbridge/gl"
)

// Frame records one Draw call.
type Frame struct {
	Version string
	FBO     int
	Width   int
	Height  int
}

// Render is the simulated render context. Draw resolves its GL functions
// once in InitGL and calls them like a real video output would.
type Render struct {
	engine *Engine
	update func()

	bindFramebuffer func(gl.Enum, gl.Uint)
	viewport        func(gl.Int, gl.Int, gl.Sizei, gl.Sizei)
	clearColor      func(gl.Clampf, gl.Clampf, gl.Clampf, gl.Clampf)
	clear           func(gl.Bitfield)
	getString       func(gl.Enum) gl.Ptr

	// DrawHook, when set, runs after the clear with the resolver passed to
	// InitGL.
	DrawHook func(resolve func(string) any) error

	resolve    func(string) any
	extensions string
	frames     []Frame
	ready      bool
	mu         sync.Mutex
}

func (r *Render) InitGL(extensions string, resolve func(name string) any) error {
	var missing []string
	get := func(name string) any {
		fn := resolve(name)
		if fn == nil {
			missing = append(missing, name)
		}
		return fn
	}
	bind, _ := get("glBindFramebuffer").(func(gl.Enum, gl.Uint))
	viewport, _ := get("glViewport").(func(gl.Int, gl.Int, gl.Sizei, gl.Sizei))
	clearColor, _ := get("glClearColor").(func(gl.Clampf, gl.Clampf, gl.Clampf, gl.Clampf))
	clear, _ := get("glClear").(func(gl.Bitfield))
	getString, _ := get("glGetString").(func(gl.Enum) gl.Ptr)
	if len(missing) > 0 {
		return fmt.Errorf("missing GL functions: %v", missing)
	}
	if bind == nil || viewport == nil || clearColor == nil || clear == nil || getString == nil {
		return fmt.Errorf("GL function with unexpected signature")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindFramebuffer, r.viewport, r.clearColor, r.clear, r.getString = bind, viewport, clearColor, clear, getString
	r.resolve = resolve
	r.extensions = extensions
	r.ready = true
	return nil
}

func (r *Render) SetUpdateCallback(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.update = fn
}

func (r *Render) Draw(fbo, width, height int) error {
	r.mu.Lock()
	if !r.ready {
		r.mu.Unlock()
		return fmt.Errorf("render context not initialized")
	}
	hook, resolve := r.DrawHook, r.resolve
	r.mu.Unlock()

	version := ""
	if p := r.getString(gl.VERSION); p != 0 {
		version, _ = mpvbridge.ReadCString(r.engine.mem, uint32(p))
	}
	r.bindFramebuffer(gl.FRAMEBUFFER, gl.Uint(fbo))
	r.viewport(0, 0, gl.Sizei(width), gl.Sizei(height))
	r.clearColor(0, 0, 0, 1)
	r.clear(gl.COLOR_BUFFER_BIT)
	if hook != nil {
		if err := hook(resolve); err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.frames = append(r.frames, Frame{Version: version, FBO: fbo, Width: width, Height: height})
	r.mu.Unlock()
	return nil
}

func (r *Render) UninitGL() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ready = false
	r.update = nil
	r.bindFramebuffer, r.viewport, r.clearColor, r.clear, r.getString = nil, nil, nil, nil, nil
	return nil
}

// FrameReady raises the update callback on its own goroutine.
func (r *Render) FrameReady() {
	r.mu.Lock()
	fn := r.update
	r.mu.Unlock()
	if fn == nil {
		return
	}
	e := r.engine
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.callbacks.Add(1)
	go func() {
		defer e.callbacks.Done()
		fn()
	}()
}

// Frames returns the recorded draws.
func (r *Render) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}

// Ready reports whether InitGL succeeded and UninitGL was not called.
func (r *Render) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ready
}

// Extensions returns the extension string passed to InitGL.
func (r *Render) Extensions() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.extensions
}
