package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/mpvbridge"
	"github.com/wippyai/mpvbridge/gl"
	"github.com/wippyai/mpvbridge/host"
	"github.com/wippyai/mpvbridge/host/hosttest"
)

func TestGetString(t *testing.T) {
	b, w, mem := newBridge(t)

	tests := []struct {
		name gl.Enum
		want string
	}{
		{gl.VERSION, "OpenGL ES 2.0 Chromium"},
		{gl.SHADING_LANGUAGE_VERSION, "OpenGL ES GLSL ES 1.0 Chromium"},
		{gl.EXTENSIONS, "GL_ARB_framebuffer_object"},
		{gl.RENDERER, "Software Rasterizer"},
		{gl.VENDOR, "hosttest"},
	}
	for _, tt := range tests {
		p := b.GetString(tt.name)
		if p == 0 {
			t.Fatalf("GetString(0x%04X) = NULL", tt.name)
		}
		got, err := mpvbridge.ReadCString(mem, uint32(p))
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("GetString(0x%04X) = %q, want %q", tt.name, got, tt.want)
		}
		if again := b.GetString(tt.name); again != p {
			t.Errorf("GetString(0x%04X) not cached: %d then %d", tt.name, p, again)
		}
	}
	if n := len(w.CallsTo("getParameter")); n != 1 {
		t.Errorf("getParameter calls = %d, want 1", n)
	}

	if p := b.GetString(0x1234); p != 0 {
		t.Errorf("unknown name returned %d", p)
	}
	if code := b.GetError(); code != gl.INVALID_ENUM {
		t.Errorf("GetError = 0x%04X, want INVALID_ENUM", code)
	}
}

func TestGetIntegerv(t *testing.T) {
	b, w, mem := newBridge(t)
	out := alloc(t, mem, make([]byte, 16))

	prog := b.CreateProgram()
	b.UseProgram(prog)
	b.GetIntegerv(gl.CURRENT_PROGRAM, out)
	if got := readInt(t, mem, out); got != gl.Int(prog) {
		t.Errorf("CURRENT_PROGRAM = %d, want %d", got, prog)
	}

	b.UseProgram(0)
	b.GetIntegerv(gl.CURRENT_PROGRAM, out)
	if got := readInt(t, mem, out); got != 0 {
		t.Errorf("CURRENT_PROGRAM after unbind = %d, want 0", got)
	}

	fb := genOne(t, mem, b.GenFramebuffers)
	b.BindFramebuffer(gl.FRAMEBUFFER, fb)
	b.GetIntegerv(gl.FRAMEBUFFER_BINDING, out)
	if got := readInt(t, mem, out); got != gl.Int(fb) {
		t.Errorf("FRAMEBUFFER_BINDING = %d, want %d", got, fb)
	}

	b.Viewport(1, 2, 640, 480)
	b.GetIntegerv(gl.VIEWPORT, out)
	var vp []gl.Int
	for i := 0; i < 4; i++ {
		vp = append(vp, readInt(t, mem, out+gl.Ptr(4*i)))
	}
	if diff := cmp.Diff([]gl.Int{1, 2, 640, 480}, vp); diff != "" {
		t.Errorf("VIEWPORT (-want +got):\n%s", diff)
	}

	b.GetIntegerv(gl.MAX_TEXTURE_SIZE, out)
	if got := readInt(t, mem, out); got != 4096 {
		t.Errorf("MAX_TEXTURE_SIZE = %d, want 4096", got)
	}

	w.SetParameter(0x0D50, []any{float64(3), true})
	b.GetIntegerv(0x0D50, out)
	if a, c := readInt(t, mem, out), readInt(t, mem, out+4); a != 3 || c != 1 {
		t.Errorf("array result = %d, %d, want 3, 1", a, c)
	}

	b.GetIntegerv(0x9999, out)
	if code := b.GetError(); code != gl.INVALID_ENUM {
		t.Errorf("GetError = 0x%04X, want INVALID_ENUM", code)
	}
}

func TestShaderSource(t *testing.T) {
	b, w, mem := newBridge(t)
	sh := b.CreateShader(gl.FRAGMENT_SHADER)

	parts := []gl.Ptr{
		cstr(t, mem, "void main() {"),
		cstr(t, mem, " gl_FragColor = vec4(1.0); }trailing"),
	}
	strs := alloc(t, mem, make([]byte, 8))
	mem.WriteU32(uint32(strs), uint32(parts[0]))
	mem.WriteU32(uint32(strs)+4, uint32(parts[1]))

	lengths := alloc(t, mem, make([]byte, 8))
	mpvbridge.WriteI32(mem, uint32(lengths), -1)
	mpvbridge.WriteI32(mem, uint32(lengths)+4, 28)

	b.ShaderSource(sh, 2, strs, lengths)
	calls := w.CallsTo("shaderSource")
	if len(calls) != 1 {
		t.Fatalf("shaderSource calls = %d", len(calls))
	}
	want := "void main() { gl_FragColor = vec4(1.0); }"
	if got := w.Source(calls[0].Args[0].(*hosttest.Object)); got != want {
		t.Errorf("source = %q, want %q", got, want)
	}

	b.ShaderSource(sh, 1, strs, 0)
	if got := w.CallsTo("shaderSource")[1].Args[1]; got != "void main() {" {
		t.Errorf("NUL-terminated source = %q", got)
	}
}

func TestShaderStatusAndInfoLog(t *testing.T) {
	b, _, mem := newBridge(t)
	sh := b.CreateShader(gl.VERTEX_SHADER)

	strs := alloc(t, mem, make([]byte, 4))
	mem.WriteU32(uint32(strs), uint32(cstr(t, mem, "#error broken")))
	b.ShaderSource(sh, 1, strs, 0)
	b.CompileShader(sh)

	out := alloc(t, mem, make([]byte, 4))
	b.GetShaderiv(sh, gl.COMPILE_STATUS, out)
	if got := readInt(t, mem, out); got != 0 {
		t.Errorf("COMPILE_STATUS = %d, want 0", got)
	}

	const log = "ERROR: 0:1: '#error' : compilation terminated"
	b.GetShaderiv(sh, gl.INFO_LOG_LENGTH, out)
	if got := readInt(t, mem, out); got != gl.Int(len(log)+1) {
		t.Errorf("INFO_LOG_LENGTH = %d, want %d", got, len(log)+1)
	}

	buf := alloc(t, mem, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	b.GetShaderInfoLog(sh, 6, out, buf)
	if got := readInt(t, mem, out); got != 5 {
		t.Errorf("length = %d, want 5", got)
	}
	got, _ := mem.Read(uint32(buf), 8)
	if diff := cmp.Diff([]byte("ERROR\x00\xFF\xFF"), got); diff != "" {
		t.Errorf("info log bytes (-want +got):\n%s", diff)
	}

	b.GetShaderInfoLog(sh, 0, out, buf)
	if got := readInt(t, mem, out); got != 0 {
		t.Errorf("length with maxLength 0 = %d", got)
	}
}

func TestProgramQueries(t *testing.T) {
	b, w, mem := newBridge(t)
	prog := b.CreateProgram()
	vs := b.CreateShader(gl.VERTEX_SHADER)
	b.AttachShader(prog, vs)
	b.LinkProgram(prog)
	b.DetachShader(prog, vs)

	out := alloc(t, mem, make([]byte, 4))
	b.GetProgramiv(prog, gl.LINK_STATUS, out)
	if got := readInt(t, mem, out); got != 1 {
		t.Errorf("LINK_STATUS = %d, want 1", got)
	}
	b.GetProgramiv(prog, gl.INFO_LOG_LENGTH, out)
	if got := readInt(t, mem, out); got != 0 {
		t.Errorf("INFO_LOG_LENGTH of empty log = %d, want 0", got)
	}
	b.GetProgramInfoLog(prog, 16, out, alloc(t, mem, make([]byte, 16)))
	if got := readInt(t, mem, out); got != 0 {
		t.Errorf("info log length = %d, want 0", got)
	}

	if loc := b.GetAttribLocation(prog, cstr(t, mem, "position")); loc != 0 {
		t.Errorf("GetAttribLocation = %d, want 0", loc)
	}
	if loc := b.GetAttribLocation(prog, cstr(t, mem, "unused_attr")); loc != -1 {
		t.Errorf("GetAttribLocation(unused) = %d, want -1", loc)
	}
	b.BindAttribLocation(prog, 3, cstr(t, mem, "texcoord"))
	if c := w.CallsTo("bindAttribLocation"); len(c) != 1 || c[0].Args[1] != 3 || c[0].Args[2] != "texcoord" {
		t.Errorf("bindAttribLocation calls = %v", c)
	}
	if n := len(w.CallsTo("attachShader")) + len(w.CallsTo("detachShader")); n != 2 {
		t.Errorf("attach/detach calls = %d, want 2", n)
	}
	if code := b.GetError(); code != gl.NO_ERROR {
		t.Errorf("GetError = 0x%04X", code)
	}
}

func TestUniforms(t *testing.T) {
	b, w, mem := newBridge(t)
	prog := b.CreateProgram()
	name := cstr(t, mem, "color")

	loc := b.GetUniformLocation(prog, name)
	if loc <= 0 {
		t.Fatalf("GetUniformLocation = %d", loc)
	}
	if again := b.GetUniformLocation(prog, name); again != loc {
		t.Errorf("second lookup = %d, want %d", again, loc)
	}
	if unused := b.GetUniformLocation(prog, cstr(t, mem, "unused")); unused != -1 {
		t.Errorf("unused uniform = %d, want -1", unused)
	}

	b.Uniform1f(loc, 0.5)
	b.Uniform2f(loc, 1, 2)
	b.Uniform3f(loc, 1, 2, 3)
	b.Uniform4f(loc, 1, 2, 3, 4)
	b.Uniform1i(loc, 7)
	b.Uniform3f(-1, 1, 2, 3)

	checks := []struct {
		method string
		args   []any
	}{
		{"uniform1f", []any{0.5}},
		{"uniform2f", []any{1.0, 2.0}},
		{"uniform3f", []any{1.0, 2.0, 3.0}},
		{"uniform4f", []any{1.0, 2.0, 3.0, 4.0}},
		{"uniform1i", []any{7}},
	}
	for _, c := range checks {
		calls := w.CallsTo(c.method)
		if len(calls) != 1 {
			t.Errorf("%s calls = %d, want 1", c.method, len(calls))
			continue
		}
		l, ok := calls[0].Args[0].(*hosttest.Location)
		if !ok || l.Name != "color" {
			t.Errorf("%s location = %v", c.method, calls[0].Args[0])
		}
		if diff := cmp.Diff(c.args, calls[0].Args[1:]); diff != "" {
			t.Errorf("%s args (-want +got):\n%s", c.method, diff)
		}
	}
	if code := b.GetError(); code != gl.NO_ERROR {
		t.Errorf("GetError = 0x%04X", code)
	}

	mat := make([]byte, 2*16*4)
	b.UniformMatrix4fv(loc, 2, gl.FALSE, alloc(t, mem, mat))
	b.UniformMatrix3fv(loc, 1, gl.FALSE, alloc(t, mem, make([]byte, 36)))
	b.UniformMatrix2fv(loc, 1, gl.TRUE, alloc(t, mem, make([]byte, 16)))
	for method, size := range map[string]int{"uniformMatrix4fv": 128, "uniformMatrix3fv": 36, "uniformMatrix2fv": 16} {
		calls := w.CallsTo(method)
		if len(calls) != 1 {
			t.Errorf("%s calls = %d", method, len(calls))
			continue
		}
		v := calls[0].Args[2].(host.View)
		if v.Kind != host.Float32 || len(v.Data) != size {
			t.Errorf("%s data = %s[%d bytes], want Float32Array[%d bytes]", method, v.Kind, len(v.Data), size)
		}
	}

	b.DeleteProgram(prog)
	if n := b.Live()["uniform-location"]; n != 0 {
		t.Errorf("uniform locations after DeleteProgram = %d", n)
	}
	b.Uniform1f(loc, 1)
	if code := b.GetError(); code != gl.INVALID_VALUE {
		t.Errorf("GetError = 0x%04X, want INVALID_VALUE", code)
	}
}

func TestFramebufferAttachment(t *testing.T) {
	b, _, mem := newBridge(t)
	tex := genOne(t, mem, b.GenTextures)
	fb := genOne(t, mem, b.GenFramebuffers)
	b.BindFramebuffer(gl.FRAMEBUFFER, fb)
	b.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)

	if s := b.CheckFramebufferStatus(gl.FRAMEBUFFER); s != gl.FRAMEBUFFER_COMPLETE {
		t.Errorf("status = 0x%04X", s)
	}
	out := alloc(t, mem, make([]byte, 4))
	b.GetFramebufferAttachmentParameteriv(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.FRAMEBUFFER_ATTACHMENT_OBJECT_NAME, out)
	if got := readInt(t, mem, out); got != gl.Int(tex) {
		t.Errorf("OBJECT_NAME = %d, want %d", got, tex)
	}
	b.GetFramebufferAttachmentParameteriv(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.FRAMEBUFFER_ATTACHMENT_OBJECT_TYPE, out)
	if got := readInt(t, mem, out); got != gl.Int(gl.TEXTURE_2D) {
		t.Errorf("OBJECT_TYPE = 0x%04X", got)
	}

	b.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, 0, 0)
	b.GetFramebufferAttachmentParameteriv(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.FRAMEBUFFER_ATTACHMENT_OBJECT_NAME, out)
	if got := readInt(t, mem, out); got != 0 {
		t.Errorf("OBJECT_NAME after detach = %d, want 0", got)
	}
}
