package render

import (
	"encoding/binary"
	"math"

	"github.com/wippyai/mpvbridge"
	"github.com/wippyai/mpvbridge/errors"
	"github.com/wippyai/mpvbridge/gl"
	"github.com/wippyai/mpvbridge/host"
	"github.com/wippyai/mpvbridge/registry"
)

// Strings reported by GetString without asking the host. The engine picks
// its GLES 2 code paths from these.
var fixedStrings = map[gl.Enum]string{
	gl.VERSION:                  "OpenGL ES 2.0 Chromium",
	gl.SHADING_LANGUAGE_VERSION: "OpenGL ES GLSL ES 1.0 Chromium",
	gl.EXTENSIONS:               "GL_ARB_framebuffer_object",
	gl.RENDERER:                 "Software Rasterizer",
}

func (b *Bridge) Clear(mask gl.Bitfield) {
	b.call("clear", int(mask))
}

func (b *Bridge) ClearColor(red, green, blue, alpha gl.Clampf) {
	b.call("clearColor", float64(red), float64(green), float64(blue), float64(alpha))
}

func (b *Bridge) Enable(capability gl.Enum) {
	b.call("enable", int(capability))
}

func (b *Bridge) Disable(capability gl.Enum) {
	b.call("disable", int(capability))
}

func (b *Bridge) Viewport(x, y gl.Int, width, height gl.Sizei) {
	b.call("viewport", int(x), int(y), int(width), int(height))
}

func (b *Bridge) Scissor(x, y gl.Int, width, height gl.Sizei) {
	b.call("scissor", int(x), int(y), int(width), int(height))
}

func (b *Bridge) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha gl.Enum) {
	b.call("blendFuncSeparate", int(srcRGB), int(dstRGB), int(srcAlpha), int(dstAlpha))
}

func (b *Bridge) Finish() {
	b.call("finish")
}

func (b *Bridge) Flush() {
	b.call("flush")
}

// GetError reports and clears the first error recorded by the bridge. When
// none is pending it returns the host's error state.
func (b *Bridge) GetError() gl.Enum {
	if code := b.lastErr; code != gl.NO_ERROR {
		b.lastErr = gl.NO_ERROR
		return code
	}
	v, _ := hostInt(b.call("getError"))
	return gl.Enum(v)
}

// GetString returns a pointer to a NUL-terminated string in engine memory.
// Each name is allocated once and stays valid until Close.
func (b *Bridge) GetString(name gl.Enum) gl.Ptr {
	if p, ok := b.strings[name]; ok {
		return p
	}
	s, ok := fixedStrings[name]
	if !ok {
		s, ok = b.call("getParameter", int(name)).(string)
		if !ok {
			b.fail("GetString", gl.INVALID_ENUM, nil)
			return 0
		}
	}
	ptr, err := b.mem.Alloc(uint32(len(s)+1), 1)
	if err != nil {
		b.fail("GetString", gl.OUT_OF_MEMORY, errors.AllocationFailed(errors.PhaseRuntime, uint32(len(s)+1), 1, err))
		return 0
	}
	if err := mpvbridge.WriteCString(b.mem, ptr, s); err != nil {
		b.mem.Free(ptr, uint32(len(s)+1), 1)
		b.fail("GetString", gl.INVALID_VALUE, err)
		return 0
	}
	b.strings[name] = gl.Ptr(ptr)
	return gl.Ptr(ptr)
}

// GetIntegerv writes the integer state for pname to params. Alignment and
// pixel buffer bindings are answered locally. Object bindings are reported
// as handles.
func (b *Bridge) GetIntegerv(pname gl.Enum, params gl.Ptr) {
	store := b.pixels.Store()
	switch pname {
	case gl.UNPACK_ALIGNMENT:
		b.writeInt(params, gl.Int(store.Unpack()), "GetIntegerv")
		return
	case gl.PACK_ALIGNMENT:
		b.writeInt(params, gl.Int(store.Pack()), "GetIntegerv")
		return
	case gl.PIXEL_PACK_BUFFER_BINDING:
		b.writeInt(params, gl.Int(b.bindings[gl.PIXEL_PACK_BUFFER]), "GetIntegerv")
		return
	case gl.PIXEL_UNPACK_BUFFER_BINDING:
		b.writeInt(params, gl.Int(b.bindings[gl.PIXEL_UNPACK_BUFFER]), "GetIntegerv")
		return
	}

	r := b.call("getParameter", int(pname))
	if reg := b.bindingRegistry(pname); reg != nil {
		b.writeInt(params, handleOf(reg, r), "GetIntegerv")
		return
	}
	vals, ok := integers(r)
	if !ok {
		b.fail("GetIntegerv", gl.INVALID_ENUM, nil)
		return
	}
	for i, v := range vals {
		if !b.writeInt(params+gl.Ptr(4*i), v, "GetIntegerv") {
			return
		}
	}
}

func (b *Bridge) bindingRegistry(pname gl.Enum) *registry.Registry[any] {
	switch pname {
	case gl.CURRENT_PROGRAM:
		return b.programs
	case gl.ARRAY_BUFFER_BINDING, gl.ELEMENT_ARRAY_BUFFER_BINDING:
		return b.buffers
	case gl.TEXTURE_BINDING_2D:
		return b.textures
	case gl.FRAMEBUFFER_BINDING:
		return b.framebuffers
	}
	return nil
}

// integers flattens a host query result into GL integers.
func integers(v any) ([]gl.Int, bool) {
	switch x := v.(type) {
	case host.View:
		n := x.Len()
		out := make([]gl.Int, n)
		size := x.Kind.ElementSize()
		for i := 0; i < n; i++ {
			e := x.Data[i*size:]
			switch x.Kind {
			case host.Uint8:
				out[i] = gl.Int(e[0])
			case host.Uint16:
				out[i] = gl.Int(binary.LittleEndian.Uint16(e))
			case host.Uint32, host.Int32:
				out[i] = gl.Int(int32(binary.LittleEndian.Uint32(e)))
			case host.Float32:
				out[i] = gl.Int(math.Float32frombits(binary.LittleEndian.Uint32(e)))
			}
		}
		return out, true
	case []any:
		out := make([]gl.Int, len(x))
		for i, e := range x {
			n, ok := hostInt(e)
			if !ok {
				return nil, false
			}
			out[i] = n
		}
		return out, true
	}
	n, ok := hostInt(v)
	if !ok {
		return nil, false
	}
	return []gl.Int{n}, true
}
