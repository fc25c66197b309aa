package render

import (
	"strings"

	"github.com/wippyai/mpvbridge"
	"github.com/wippyai/mpvbridge/gl"
	"github.com/wippyai/mpvbridge/registry"
)

func (b *Bridge) CreateShader(typ gl.Enum) gl.Uint {
	return b.create(b.shaders, "createShader", int(typ))
}

func (b *Bridge) DeleteShader(shader gl.Uint) {
	b.shaders.Delete(registry.Handle(shader))
}

// ShaderSource concatenates count strings read from the pointer array at
// strs. A NULL lengths array, or a negative entry in it, means the string is
// NUL-terminated.
func (b *Bridge) ShaderSource(shader gl.Uint, count gl.Sizei, strs, lengths gl.Ptr) {
	obj, ok := b.lookup(b.shaders, shader, "ShaderSource")
	if !ok {
		return
	}
	if count < 0 {
		b.fail("ShaderSource", gl.INVALID_VALUE, nil)
		return
	}
	var src strings.Builder
	for i := uint32(0); i < uint32(count); i++ {
		p, err := b.mem.ReadU32(uint32(strs) + 4*i)
		if err != nil {
			b.fail("ShaderSource", gl.INVALID_VALUE, err)
			return
		}
		n := int32(-1)
		if lengths != 0 {
			if n, err = mpvbridge.ReadI32(b.mem, uint32(lengths)+4*i); err != nil {
				b.fail("ShaderSource", gl.INVALID_VALUE, err)
				return
			}
		}
		if n < 0 {
			s, ok := b.readString(gl.Ptr(p), "ShaderSource")
			if !ok {
				return
			}
			src.WriteString(s)
			continue
		}
		part, err := b.mem.Read(p, uint32(n))
		if err != nil {
			b.fail("ShaderSource", gl.INVALID_VALUE, err)
			return
		}
		src.Write(part)
	}
	b.call("shaderSource", obj, src.String())
}

func (b *Bridge) CompileShader(shader gl.Uint) {
	if obj, ok := b.lookup(b.shaders, shader, "CompileShader"); ok {
		b.call("compileShader", obj)
	}
}

func (b *Bridge) GetShaderiv(shader gl.Uint, pname gl.Enum, params gl.Ptr) {
	obj, ok := b.lookup(b.shaders, shader, "GetShaderiv")
	if !ok {
		return
	}
	b.objectParam(obj, pname, params, "getShaderParameter", "getShaderInfoLog", "GetShaderiv")
}

func (b *Bridge) GetShaderInfoLog(shader gl.Uint, maxLength gl.Sizei, length, infoLog gl.Ptr) {
	obj, ok := b.lookup(b.shaders, shader, "GetShaderInfoLog")
	if !ok {
		return
	}
	b.infoLog(obj, "getShaderInfoLog", maxLength, length, infoLog, "GetShaderInfoLog")
}

func (b *Bridge) CreateProgram() gl.Uint {
	return b.create(b.programs, "createProgram")
}

// DeleteProgram deletes the program and every uniform location taken
// from it.
func (b *Bridge) DeleteProgram(program gl.Uint) {
	if !b.programs.Delete(registry.Handle(program)) {
		return
	}
	var stale []registry.Handle
	b.uniforms.Each(func(h registry.Handle, u uniformLocation) bool {
		if u.program == registry.Handle(program) {
			stale = append(stale, h)
		}
		return true
	})
	for _, h := range stale {
		b.uniforms.Delete(h)
	}
}

func (b *Bridge) AttachShader(program, shader gl.Uint) {
	b.programShader("attachShader", program, shader, "AttachShader")
}

func (b *Bridge) DetachShader(program, shader gl.Uint) {
	b.programShader("detachShader", program, shader, "DetachShader")
}

func (b *Bridge) programShader(method string, program, shader gl.Uint, op string) {
	p, ok := b.lookup(b.programs, program, op)
	if !ok {
		return
	}
	s, ok := b.lookup(b.shaders, shader, op)
	if !ok {
		return
	}
	b.call(method, p, s)
}

func (b *Bridge) LinkProgram(program gl.Uint) {
	if obj, ok := b.lookup(b.programs, program, "LinkProgram"); ok {
		b.call("linkProgram", obj)
	}
}

func (b *Bridge) GetProgramiv(program gl.Uint, pname gl.Enum, params gl.Ptr) {
	obj, ok := b.lookup(b.programs, program, "GetProgramiv")
	if !ok {
		return
	}
	b.objectParam(obj, pname, params, "getProgramParameter", "getProgramInfoLog", "GetProgramiv")
}

func (b *Bridge) GetProgramInfoLog(program gl.Uint, maxLength gl.Sizei, length, infoLog gl.Ptr) {
	obj, ok := b.lookup(b.programs, program, "GetProgramInfoLog")
	if !ok {
		return
	}
	b.infoLog(obj, "getProgramInfoLog", maxLength, length, infoLog, "GetProgramInfoLog")
}

// UseProgram with 0 clears the current program.
func (b *Bridge) UseProgram(program gl.Uint) {
	if obj, ok := b.bindable(b.programs, program, "UseProgram"); ok {
		b.call("useProgram", obj)
	}
}

func (b *Bridge) GetAttribLocation(program gl.Uint, name gl.Ptr) gl.Int {
	obj, ok := b.lookup(b.programs, program, "GetAttribLocation")
	if !ok {
		return -1
	}
	s, ok := b.readString(name, "GetAttribLocation")
	if !ok {
		return -1
	}
	v, ok := hostInt(b.call("getAttribLocation", obj, s))
	if !ok {
		return -1
	}
	return v
}

func (b *Bridge) BindAttribLocation(program, index gl.Uint, name gl.Ptr) {
	obj, ok := b.lookup(b.programs, program, "BindAttribLocation")
	if !ok {
		return
	}
	s, ok := b.readString(name, "BindAttribLocation")
	if !ok {
		return
	}
	b.call("bindAttribLocation", obj, int(index), s)
}

// objectParam answers a shader or program query. Boolean results become 1
// or 0. INFO_LOG_LENGTH counts the terminating NUL, or is 0 for an empty log.
func (b *Bridge) objectParam(obj any, pname gl.Enum, params gl.Ptr, method, logMethod, op string) {
	if pname == gl.INFO_LOG_LENGTH {
		var n gl.Int
		if log, _ := b.call(logMethod, obj).(string); log != "" {
			n = gl.Int(len(log) + 1)
		}
		b.writeInt(params, n, op)
		return
	}
	v, ok := hostInt(b.call(method, obj, int(pname)))
	if !ok {
		b.fail(op, gl.INVALID_ENUM, nil)
		return
	}
	b.writeInt(params, v, op)
}

// infoLog copies at most maxLength-1 bytes of the log plus a NUL into
// infoLog, and stores the number of bytes copied, without the NUL, at length.
func (b *Bridge) infoLog(obj any, method string, maxLength gl.Sizei, length, infoLog gl.Ptr, op string) {
	if maxLength < 0 {
		b.fail(op, gl.INVALID_VALUE, nil)
		return
	}
	log, _ := b.call(method, obj).(string)
	n := 0
	if maxLength > 0 {
		n = min(len(log), int(maxLength)-1)
		if err := mpvbridge.WriteCString(b.mem, uint32(infoLog), log[:n]); err != nil {
			b.fail(op, gl.INVALID_VALUE, err)
			return
		}
	}
	if length != 0 {
		b.writeInt(length, gl.Int(n), op)
	}
}
