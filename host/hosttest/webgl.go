// Package hosttest provides an in-memory WebGL-style context and surface for
// tests. Objects keep their identity, textures keep their pixels, and
// readPixels reads from the color attachment of the bound framebuffer.
package hosttest

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/wippyai/mpvbridge/gl"
	"github.com/wippyai/mpvbridge/host"
)

// Object is a host object returned by a create* method.
type Object struct {
	Kind    string
	ID      int
	Deleted bool
}

func (o *Object) String() string { return fmt.Sprintf("%s#%d", o.Kind, o.ID) }

// Location is a uniform location. Every query returns a fresh one.
type Location struct {
	Program *Object
	Name    string
}

// Call is one recorded host method invocation.
type Call struct {
	Method string
	Args   []any
}

// Texture is the stored image of a texture object. Pixels are tight rows.
type Texture struct {
	Pixels []byte
	Width  int
	Height int
	Format int
	Type   int
}

type shader struct {
	source   string
	compiled bool
}

// WebGL is a fake rendering context. It is safe for concurrent use.
type WebGL struct {
	objects     map[*Object]bool
	textures    map[*Object]*Texture
	shaders     map[*Object]*shader
	attachments map[*Object]*Object
	bound       map[int]*Object
	disabled    map[string]bool
	params      map[int]any
	calls       []Call
	program     *Object
	framebuffer *Object
	viewport    [4]int32
	nextID      int
	hostErr     int
	errMethods  map[string]error
	mu          sync.Mutex
}

// New creates an empty context.
func New() *WebGL {
	return &WebGL{
		objects:     make(map[*Object]bool),
		textures:    make(map[*Object]*Texture),
		shaders:     make(map[*Object]*shader),
		attachments: make(map[*Object]*Object),
		bound:       make(map[int]*Object),
		disabled:    make(map[string]bool),
		params:      make(map[int]any),
		errMethods:  make(map[string]error),
	}
}

// Without hides the named methods from Method.
func (w *WebGL) Without(names ...string) *WebGL {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, n := range names {
		w.disabled[n] = true
	}
	return w
}

// FailWith makes the named method return err.
func (w *WebGL) FailWith(method string, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errMethods[method] = err
}

// SetParameter fixes the getParameter answer for pname.
func (w *WebGL) SetParameter(pname gl.Enum, v any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.params[int(pname)] = v
}

// SetError sets the value the next getError returns.
func (w *WebGL) SetError(code gl.Enum) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hostErr = int(code)
}

// Calls returns a copy of the recorded calls.
func (w *WebGL) Calls() []Call {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Call(nil), w.calls...)
}

// CallsTo returns the recorded calls of one method.
func (w *WebGL) CallsTo(method string) []Call {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []Call
	for _, c := range w.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls.
func (w *WebGL) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = nil
}

// Live returns the number of objects of kind that were created and not
// deleted. An empty kind counts every object.
func (w *WebGL) Live(kind string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for o := range w.objects {
		if !o.Deleted && (kind == "" || o.Kind == kind) {
			n++
		}
	}
	return n
}

// TextureBound returns the image of the texture bound to TEXTURE_2D.
func (w *WebGL) TextureBound() *Texture {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t := w.bound[int(gl.TEXTURE_2D)]; t != nil {
		return w.textures[t]
	}
	return nil
}

// Bound returns the object bound to target.
func (w *WebGL) Bound(target gl.Enum) *Object {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bound[int(target)]
}

// Program returns the current program.
func (w *WebGL) Program() *Object {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.program
}

// Source returns the source set on a shader object.
func (w *WebGL) Source(s *Object) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if sh := w.shaders[s]; sh != nil {
		return sh.source
	}
	return ""
}

// Method implements host.Context.
func (w *WebGL) Method(name string) (host.Func, bool) {
	w.mu.Lock()
	disabled := w.disabled[name]
	w.mu.Unlock()
	if disabled {
		return nil, false
	}
	impl, ok := methods[name]
	if !ok {
		impl = func(*WebGL, []any) any { return nil }
	}
	return func(args ...any) (any, error) {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.calls = append(w.calls, Call{Method: name, Args: args})
		if err := w.errMethods[name]; err != nil {
			return nil, err
		}
		return impl(w, args), nil
	}, true
}

// MethodNames lists the methods with non-trivial fake behavior.
func MethodNames() []string {
	names := make([]string, 0, len(methods))
	for n := range methods {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (w *WebGL) create(kind string) *Object {
	w.nextID++
	o := &Object{Kind: kind, ID: w.nextID}
	w.objects[o] = true
	return o
}

func (w *WebGL) remove(o *Object) {
	if o == nil || o.Deleted {
		return
	}
	o.Deleted = true
	for target, b := range w.bound {
		if b == o {
			delete(w.bound, target)
		}
	}
	if w.program == o {
		w.program = nil
	}
	if w.framebuffer == o {
		w.framebuffer = nil
	}
	delete(w.textures, o)
}

func obj(v any) *Object {
	o, _ := v.(*Object)
	return o
}

func num(v any) int {
	n, _ := host.Number(v)
	return int(n)
}

func bytesOf(v any) []byte {
	switch x := v.(type) {
	case host.View:
		return x.Data
	case []byte:
		return x
	}
	return nil
}

func bpp(format, typ int) int {
	switch gl.Enum(typ) {
	case gl.UNSIGNED_SHORT_5_6_5, gl.UNSIGNED_SHORT_4_4_4_4, gl.UNSIGNED_SHORT_5_5_5_1:
		return 2
	case gl.UNSIGNED_INT_24_8:
		return 4
	}
	size := map[gl.Enum]int{gl.UNSIGNED_BYTE: 1, gl.UNSIGNED_SHORT: 2, gl.HALF_FLOAT: 2, gl.UNSIGNED_INT: 4, gl.FLOAT: 4}[gl.Enum(typ)]
	channels := map[gl.Enum]int{
		gl.ALPHA: 1, gl.LUMINANCE: 1, gl.RED: 1, gl.DEPTH_COMPONENT: 1,
		gl.LUMINANCE_ALPHA: 2, gl.RG: 2, gl.RGB: 3, gl.RGBA: 4,
	}[gl.Enum(format)]
	return size * channels
}

var methods = map[string]func(w *WebGL, args []any) any{
	"createBuffer":      func(w *WebGL, _ []any) any { return w.create("buffer") },
	"createTexture":     func(w *WebGL, _ []any) any { return w.create("texture") },
	"createFramebuffer": func(w *WebGL, _ []any) any { return w.create("framebuffer") },
	"createProgram":     func(w *WebGL, _ []any) any { return w.create("program") },
	"createShader": func(w *WebGL, _ []any) any {
		o := w.create("shader")
		w.shaders[o] = &shader{}
		return o
	},
	"deleteBuffer":      func(w *WebGL, a []any) any { w.remove(obj(a[0])); return nil },
	"deleteTexture":     func(w *WebGL, a []any) any { w.remove(obj(a[0])); return nil },
	"deleteFramebuffer": func(w *WebGL, a []any) any { w.remove(obj(a[0])); return nil },
	"deleteProgram":     func(w *WebGL, a []any) any { w.remove(obj(a[0])); return nil },
	"deleteShader":      func(w *WebGL, a []any) any { w.remove(obj(a[0])); return nil },

	"bindBuffer": func(w *WebGL, a []any) any {
		w.bind(num(a[0]), obj(a[1]))
		return nil
	},
	"bindTexture": func(w *WebGL, a []any) any {
		w.bind(num(a[0]), obj(a[1]))
		return nil
	},
	"bindFramebuffer": func(w *WebGL, a []any) any {
		w.framebuffer = obj(a[1])
		return nil
	},
	"useProgram": func(w *WebGL, a []any) any {
		w.program = obj(a[0])
		return nil
	},
	"framebufferTexture2D": func(w *WebGL, a []any) any {
		if w.framebuffer != nil {
			w.attachments[w.framebuffer] = obj(a[3])
		}
		return nil
	},
	"checkFramebufferStatus": func(w *WebGL, _ []any) any { return float64(gl.FRAMEBUFFER_COMPLETE) },
	"getFramebufferAttachmentParameter": func(w *WebGL, a []any) any {
		if w.framebuffer == nil {
			return nil
		}
		tex := w.attachments[w.framebuffer]
		switch gl.Enum(num(a[2])) {
		case gl.FRAMEBUFFER_ATTACHMENT_OBJECT_NAME:
			if tex == nil {
				return nil
			}
			return tex
		case gl.FRAMEBUFFER_ATTACHMENT_OBJECT_TYPE:
			if tex == nil {
				return float64(0)
			}
			return float64(gl.TEXTURE_2D)
		}
		return nil
	},

	"texImage2D": func(w *WebGL, a []any) any {
		t := w.bound[int(gl.TEXTURE_2D)]
		if t == nil {
			return nil
		}
		width, height, format, typ := num(a[3]), num(a[4]), num(a[6]), num(a[7])
		img := &Texture{Width: width, Height: height, Format: format, Type: typ}
		img.Pixels = make([]byte, width*height*bpp(format, typ))
		copy(img.Pixels, bytesOf(a[8]))
		w.textures[t] = img
		return nil
	},
	"texSubImage2D": func(w *WebGL, a []any) any {
		t := w.bound[int(gl.TEXTURE_2D)]
		img := w.textures[t]
		if img == nil {
			return nil
		}
		xoff, yoff, width, height := num(a[2]), num(a[3]), num(a[4]), num(a[5])
		src := bytesOf(a[8])
		px := bpp(img.Format, img.Type)
		for y := 0; y < height && (yoff+y) < img.Height; y++ {
			row := src[y*width*px:]
			off := ((yoff+y)*img.Width + xoff) * px
			copy(img.Pixels[off:off+min(width, img.Width-xoff)*px], row)
		}
		return nil
	},
	"readPixels": func(w *WebGL, a []any) any {
		view, ok := a[6].(host.View)
		if !ok || w.framebuffer == nil {
			return nil
		}
		img := w.textures[w.attachments[w.framebuffer]]
		if img == nil {
			return nil
		}
		x, y, width, height := num(a[0]), num(a[1]), num(a[2]), num(a[3])
		px := bpp(num(a[4]), num(a[5]))
		for r := 0; r < height && y+r < img.Height; r++ {
			src := img.Pixels[((y+r)*img.Width+x)*px:]
			copy(view.Data[r*width*px:(r+1)*width*px], src)
		}
		return nil
	},

	"shaderSource": func(w *WebGL, a []any) any {
		if sh := w.shaders[obj(a[0])]; sh != nil {
			sh.source, _ = a[1].(string)
		}
		return nil
	},
	"compileShader": func(w *WebGL, a []any) any {
		if sh := w.shaders[obj(a[0])]; sh != nil {
			sh.compiled = !strings.Contains(sh.source, "#error")
		}
		return nil
	},
	"getShaderParameter": func(w *WebGL, a []any) any {
		sh := w.shaders[obj(a[0])]
		if sh == nil {
			return nil
		}
		switch gl.Enum(num(a[1])) {
		case gl.COMPILE_STATUS:
			return sh.compiled
		case gl.DELETE_STATUS:
			return obj(a[0]).Deleted
		case gl.SHADER_TYPE:
			return float64(gl.VERTEX_SHADER)
		}
		return nil
	},
	"getShaderInfoLog": func(w *WebGL, a []any) any {
		if sh := w.shaders[obj(a[0])]; sh != nil && !sh.compiled && sh.source != "" {
			return "ERROR: 0:1: '#error' : compilation terminated"
		}
		return ""
	},
	"getProgramParameter": func(w *WebGL, a []any) any {
		switch gl.Enum(num(a[1])) {
		case gl.LINK_STATUS, gl.VALIDATE_STATUS:
			return true
		case gl.DELETE_STATUS:
			return obj(a[0]).Deleted
		case gl.ATTACHED_SHADERS:
			return float64(2)
		}
		return nil
	},
	"getProgramInfoLog": func(w *WebGL, _ []any) any { return "" },
	"getUniformLocation": func(w *WebGL, a []any) any {
		name, _ := a[1].(string)
		if strings.HasPrefix(name, "unused") {
			return nil
		}
		return &Location{Program: obj(a[0]), Name: name}
	},
	"getAttribLocation": func(w *WebGL, a []any) any {
		name, _ := a[1].(string)
		if strings.HasPrefix(name, "unused") {
			return float64(-1)
		}
		return float64(len(name) % 8)
	},

	"viewport": func(w *WebGL, a []any) any {
		w.viewport = [4]int32{int32(num(a[0])), int32(num(a[1])), int32(num(a[2])), int32(num(a[3]))}
		return nil
	},
	"getParameter": func(w *WebGL, a []any) any {
		pname := num(a[0])
		if v, ok := w.params[pname]; ok {
			return v
		}
		switch gl.Enum(pname) {
		case gl.VENDOR:
			return "hosttest"
		case gl.CURRENT_PROGRAM:
			return nilable(w.program)
		case gl.FRAMEBUFFER_BINDING:
			return nilable(w.framebuffer)
		case gl.ARRAY_BUFFER_BINDING:
			return nilable(w.bound[int(gl.ARRAY_BUFFER)])
		case gl.ELEMENT_ARRAY_BUFFER_BINDING:
			return nilable(w.bound[int(gl.ELEMENT_ARRAY_BUFFER)])
		case gl.TEXTURE_BINDING_2D:
			return nilable(w.bound[int(gl.TEXTURE_2D)])
		case gl.MAX_TEXTURE_SIZE:
			return float64(4096)
		case gl.VIEWPORT:
			data := make([]byte, 16)
			for i, v := range w.viewport {
				u := uint32(v)
				data[4*i], data[4*i+1], data[4*i+2], data[4*i+3] = byte(u), byte(u>>8), byte(u>>16), byte(u>>24)
			}
			return host.View{Data: data, Kind: host.Int32}
		}
		return nil
	},
	"getError": func(w *WebGL, _ []any) any {
		code := w.hostErr
		w.hostErr = 0
		return float64(code)
	},
}

func (w *WebGL) bind(target int, o *Object) {
	if o == nil {
		delete(w.bound, target)
		return
	}
	w.bound[target] = o
}

// nilable keeps a nil *Object from becoming a non-nil interface.
func nilable(o *Object) any {
	if o == nil {
		return nil
	}
	return o
}
