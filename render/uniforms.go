package render

import (
	"github.com/wippyai/mpvbridge/buffer"
	"github.com/wippyai/mpvbridge/gl"
	"github.com/wippyai/mpvbridge/host"
	"github.com/wippyai/mpvbridge/registry"
)

// GetUniformLocation returns a handle for the named uniform of program, or
// -1 when the host reports none. Repeated queries return the same handle.
func (b *Bridge) GetUniformLocation(program gl.Uint, name gl.Ptr) gl.Int {
	obj, ok := b.lookup(b.programs, program, "GetUniformLocation")
	if !ok {
		return -1
	}
	s, ok := b.readString(name, "GetUniformLocation")
	if !ok {
		return -1
	}
	if h, ok := b.uniforms.Find(func(u uniformLocation) bool {
		return u.program == registry.Handle(program) && u.name == s
	}); ok {
		return gl.Int(h)
	}
	loc := b.call("getUniformLocation", obj, s)
	if loc == nil {
		return -1
	}
	h := b.uniforms.Create(uniformLocation{location: loc, name: s, program: registry.Handle(program)})
	if h == 0 {
		return -1
	}
	return gl.Int(h)
}

// location resolves a uniform handle. -1 is silently ignored.
func (b *Bridge) location(location gl.Int, op string) (any, bool) {
	if location == -1 {
		return nil, false
	}
	if location < 0 {
		b.fail(op, gl.INVALID_VALUE, nil)
		return nil, false
	}
	u, err := b.uniforms.Lookup(registry.Handle(location))
	if err != nil {
		b.fail(op, gl.INVALID_VALUE, err)
		return nil, false
	}
	return u.location, true
}

func (b *Bridge) Uniform1f(location gl.Int, v0 gl.Float) {
	if loc, ok := b.location(location, "Uniform1f"); ok {
		b.call("uniform1f", loc, float64(v0))
	}
}

func (b *Bridge) Uniform2f(location gl.Int, v0, v1 gl.Float) {
	if loc, ok := b.location(location, "Uniform2f"); ok {
		b.call("uniform2f", loc, float64(v0), float64(v1))
	}
}

func (b *Bridge) Uniform3f(location gl.Int, v0, v1, v2 gl.Float) {
	if loc, ok := b.location(location, "Uniform3f"); ok {
		b.call("uniform3f", loc, float64(v0), float64(v1), float64(v2))
	}
}

func (b *Bridge) Uniform4f(location gl.Int, v0, v1, v2, v3 gl.Float) {
	if loc, ok := b.location(location, "Uniform4f"); ok {
		b.call("uniform4f", loc, float64(v0), float64(v1), float64(v2), float64(v3))
	}
}

func (b *Bridge) Uniform1i(location gl.Int, v0 gl.Int) {
	if loc, ok := b.location(location, "Uniform1i"); ok {
		b.call("uniform1i", loc, int(v0))
	}
}

func (b *Bridge) UniformMatrix2fv(location gl.Int, count gl.Sizei, transpose gl.Boolean, value gl.Ptr) {
	b.uniformMatrix("uniformMatrix2fv", 2, location, count, transpose, value, "UniformMatrix2fv")
}

func (b *Bridge) UniformMatrix3fv(location gl.Int, count gl.Sizei, transpose gl.Boolean, value gl.Ptr) {
	b.uniformMatrix("uniformMatrix3fv", 3, location, count, transpose, value, "UniformMatrix3fv")
}

func (b *Bridge) UniformMatrix4fv(location gl.Int, count gl.Sizei, transpose gl.Boolean, value gl.Ptr) {
	b.uniformMatrix("uniformMatrix4fv", 4, location, count, transpose, value, "UniformMatrix4fv")
}

func (b *Bridge) uniformMatrix(method string, dim int, location gl.Int, count gl.Sizei, transpose gl.Boolean, value gl.Ptr, op string) {
	loc, ok := b.location(location, op)
	if !ok {
		return
	}
	if count < 0 {
		b.fail(op, gl.INVALID_VALUE, nil)
		return
	}
	data, ok := b.readBytes(buffer.RoleUniformMatrix, value, int(count)*dim*dim*4, op)
	if !ok {
		return
	}
	b.call(method, loc, transpose != gl.FALSE, host.View{Data: data, Kind: host.Float32})
}
