package dispatch

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/mpvbridge"
	"github.com/wippyai/mpvbridge/gl"
	"github.com/wippyai/mpvbridge/host/hosttest"
	"github.com/wippyai/mpvbridge/render"
)

var wantNames = strings.Fields(`
glActiveTexture glAttachShader glBindAttribLocation glBindBuffer glBindFramebuffer
glBindTexture glBlendFuncSeparate glBufferData glBufferSubData glCheckFramebufferStatus
glClear glClearColor glCompileShader glCreateProgram glCreateShader glDeleteBuffers
glDeleteFramebuffers glDeleteProgram glDeleteShader glDeleteTextures glDetachShader
glDisable glDisableVertexAttribArray glDrawArrays glEnable glEnableVertexAttribArray
glFinish glFlush glFramebufferTexture2D glGenBuffers glGenFramebuffers glGenTextures
glGetAttribLocation glGetError glGetFramebufferAttachmentParameteriv glGetIntegerv
glGetProgramInfoLog glGetProgramiv glGetShaderInfoLog glGetShaderiv glGetString
glGetUniformLocation glLinkProgram glPixelStorei glReadPixels glScissor glShaderSource
glTexImage2D glTexParameteri glTexSubImage2D glUniform1f glUniform1i glUniform2f
glUniform3f glUniform4f glUniformMatrix2fv glUniformMatrix3fv glUniformMatrix4fv
glUseProgram glVertexAttribPointer glViewport
`)

func TestNames(t *testing.T) {
	got := Names()
	if len(got) != len(wantNames) {
		t.Fatalf("got %d names, want %d", len(got), len(wantNames))
	}
	for i := range got {
		if got[i] != wantNames[i] {
			t.Errorf("name[%d] = %s, want %s", i, got[i], wantNames[i])
		}
	}
	// Callers may not mutate the table through the returned slice.
	got[0] = "mutated"
	if Names()[0] != "glActiveTexture" {
		t.Error("Names exposes internal slice")
	}
}

func TestLookup_Types(t *testing.T) {
	tests := []struct {
		name string
		ok   func(any) bool
	}{
		{"glClear", func(f any) bool { _, ok := f.(func(gl.Bitfield)); return ok }},
		{"glCreateProgram", func(f any) bool { _, ok := f.(func() gl.Uint); return ok }},
		{"glGetString", func(f any) bool { _, ok := f.(func(gl.Enum) gl.Ptr); return ok }},
		{"glUniform3f", func(f any) bool { _, ok := f.(func(gl.Int, gl.Float, gl.Float, gl.Float)); return ok }},
	}
	for _, tt := range tests {
		fn := Lookup(tt.name)
		if fn == nil || !tt.ok(fn) {
			t.Errorf("Lookup(%s) = %T", tt.name, fn)
		}
	}
	if sig := Signature("glGetError"); sig != "func() gl.Enum" {
		t.Errorf("Signature(glGetError) = %q", sig)
	}
}

func TestLookup_NoActiveBridge(t *testing.T) {
	if render.Active() != nil {
		t.Skip("bridge active")
	}
	create := Lookup("glCreateProgram").(func() gl.Uint)
	if h := create(); h != 0 {
		t.Errorf("glCreateProgram without bridge = %d, want 0", h)
	}
	Lookup("glClear").(func(gl.Bitfield))(gl.COLOR_BUFFER_BIT)
}

func TestLookup_ForwardsToActive(t *testing.T) {
	w := hosttest.New()
	b, err := render.New(w, mpvbridge.NewLinearMemory(1<<12))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if err := render.Install(b); err != nil {
		t.Fatal(err)
	}
	defer render.Uninstall(b)

	w.Reset()
	Lookup("glClearColor").(func(gl.Clampf, gl.Clampf, gl.Clampf, gl.Clampf))(0, 0.5, 1, 1)
	if calls := w.CallsTo("clearColor"); len(calls) != 1 {
		t.Fatalf("clearColor calls = %d, want 1", len(calls))
	}
	if h := Lookup("glCreateProgram").(func() gl.Uint)(); h != 1 {
		t.Errorf("glCreateProgram = %d, want 1", h)
	}
}

func TestLookup_MissLoggedOnce(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	defer SetLogger(prev)

	for i := 0; i < 3; i++ {
		if fn := Lookup("glDrawElementsInstanced"); fn != nil {
			t.Fatalf("Lookup returned %T for unknown name", fn)
		}
	}
	if n := logs.FilterField(zap.String("name", "glDrawElementsInstanced")).Len(); n != 1 {
		t.Errorf("miss logged %d times, want 1", n)
	}
}
