package render

import (
	"github.com/wippyai/mpvbridge/buffer"
	"github.com/wippyai/mpvbridge/gl"
	"github.com/wippyai/mpvbridge/registry"
)

func (b *Bridge) gen(r *registry.Registry[any], method string, n gl.Sizei, ptr gl.Ptr, op string) {
	if n < 0 {
		b.fail(op, gl.INVALID_VALUE, nil)
		return
	}
	for i := 0; i < int(n); i++ {
		var h registry.Handle
		if obj := b.call(method); obj != nil {
			h = r.Create(obj)
		}
		if err := b.mem.WriteU32(uint32(ptr)+uint32(4*i), uint32(h)); err != nil {
			r.Delete(h)
			b.fail(op, gl.INVALID_VALUE, err)
			return
		}
	}
}

func (b *Bridge) remove(r *registry.Registry[any], n gl.Sizei, ptr gl.Ptr, op string) []registry.Handle {
	if n < 0 {
		b.fail(op, gl.INVALID_VALUE, nil)
		return nil
	}
	var deleted []registry.Handle
	for i := 0; i < int(n); i++ {
		h, err := b.mem.ReadU32(uint32(ptr) + uint32(4*i))
		if err != nil {
			b.fail(op, gl.INVALID_VALUE, err)
			return deleted
		}
		if r.Delete(registry.Handle(h)) {
			deleted = append(deleted, registry.Handle(h))
		}
	}
	return deleted
}

func (b *Bridge) create(r *registry.Registry[any], method string, args ...any) gl.Uint {
	obj := b.call(method, args...)
	if obj == nil {
		return 0
	}
	return gl.Uint(r.Create(obj))
}

// GenBuffers creates n buffers and writes their names to ptr.
func (b *Bridge) GenBuffers(n gl.Sizei, ptr gl.Ptr) {
	b.gen(b.buffers, "createBuffer", n, ptr, "GenBuffers")
}

// DeleteBuffers deletes the n buffer names at ptr. Unknown names and 0 are
// ignored.
func (b *Bridge) DeleteBuffers(n gl.Sizei, ptr gl.Ptr) {
	for _, h := range b.remove(b.buffers, n, ptr, "DeleteBuffers") {
		for target, bound := range b.bindings {
			if bound == h {
				delete(b.bindings, target)
			}
		}
	}
}

func (b *Bridge) BindBuffer(target gl.Enum, buffer gl.Uint) {
	obj, ok := b.bindable(b.buffers, buffer, "BindBuffer")
	if !ok {
		return
	}
	if buffer == 0 {
		delete(b.bindings, target)
	} else {
		b.bindings[target] = registry.Handle(buffer)
	}
	b.call("bindBuffer", int(target), obj)
}

// Bound returns the buffer handle bound to target, or 0.
func (b *Bridge) Bound(target gl.Enum) registry.Handle {
	return b.bindings[target]
}

func (b *Bridge) BufferData(target gl.Enum, size gl.Sizeiptr, data gl.Ptr, usage gl.Enum) {
	if data == 0 {
		b.call("bufferData", int(target), int(size), int(usage))
		return
	}
	src, ok := b.readBytes(buffer.RoleVertex, data, int(size), "BufferData")
	if !ok {
		return
	}
	b.call("bufferData", int(target), bytesView(src), int(usage))
}

func (b *Bridge) BufferSubData(target gl.Enum, offset gl.Intptr, size gl.Sizeiptr, data gl.Ptr) {
	src, ok := b.readBytes(buffer.RoleVertex, data, int(size), "BufferSubData")
	if !ok {
		return
	}
	b.call("bufferSubData", int(target), int(offset), bytesView(src))
}

func (b *Bridge) GenTextures(n gl.Sizei, ptr gl.Ptr) {
	b.gen(b.textures, "createTexture", n, ptr, "GenTextures")
}

func (b *Bridge) DeleteTextures(n gl.Sizei, ptr gl.Ptr) {
	b.remove(b.textures, n, ptr, "DeleteTextures")
}

func (b *Bridge) BindTexture(target gl.Enum, texture gl.Uint) {
	obj, ok := b.bindable(b.textures, texture, "BindTexture")
	if !ok {
		return
	}
	b.call("bindTexture", int(target), obj)
}

func (b *Bridge) ActiveTexture(texture gl.Enum) {
	b.call("activeTexture", int(texture))
}

func (b *Bridge) TexParameteri(target, pname gl.Enum, param gl.Int) {
	b.call("texParameteri", int(target), int(pname), int(param))
}

func (b *Bridge) GenFramebuffers(n gl.Sizei, ptr gl.Ptr) {
	b.gen(b.framebuffers, "createFramebuffer", n, ptr, "GenFramebuffers")
}

func (b *Bridge) DeleteFramebuffers(n gl.Sizei, ptr gl.Ptr) {
	b.remove(b.framebuffers, n, ptr, "DeleteFramebuffers")
}

func (b *Bridge) BindFramebuffer(target gl.Enum, framebuffer gl.Uint) {
	obj, ok := b.bindable(b.framebuffers, framebuffer, "BindFramebuffer")
	if !ok {
		return
	}
	b.call("bindFramebuffer", int(target), obj)
}

// FramebufferTexture2D attaches texture to the bound framebuffer. Texture 0
// detaches.
func (b *Bridge) FramebufferTexture2D(target, attachment, textarget gl.Enum, texture gl.Uint, level gl.Int) {
	obj, ok := b.bindable(b.textures, texture, "FramebufferTexture2D")
	if !ok {
		return
	}
	b.call("framebufferTexture2D", int(target), int(attachment), int(textarget), obj, int(level))
}

func (b *Bridge) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	v, _ := hostInt(b.call("checkFramebufferStatus", int(target)))
	return gl.Enum(v)
}

// GetFramebufferAttachmentParameteriv writes one integer to params. An
// attached object is reported by its texture handle.
func (b *Bridge) GetFramebufferAttachmentParameteriv(target, attachment, pname gl.Enum, params gl.Ptr) {
	r := b.call("getFramebufferAttachmentParameter", int(target), int(attachment), int(pname))
	if pname == gl.FRAMEBUFFER_ATTACHMENT_OBJECT_NAME {
		b.writeInt(params, handleOf(b.textures, r), "GetFramebufferAttachmentParameteriv")
		return
	}
	v, ok := hostInt(r)
	if !ok {
		b.fail("GetFramebufferAttachmentParameteriv", gl.INVALID_ENUM, nil)
		return
	}
	b.writeInt(params, v, "GetFramebufferAttachmentParameteriv")
}

// VertexAttribPointer takes pointer as a byte offset into the bound array
// buffer. Client-side arrays are not supported.
func (b *Bridge) VertexAttribPointer(index gl.Uint, size gl.Int, typ gl.Enum, normalized gl.Boolean, stride gl.Sizei, pointer gl.Ptr) {
	if b.bindings[gl.ARRAY_BUFFER] == 0 {
		b.fail("VertexAttribPointer", gl.INVALID_OPERATION, nil)
		return
	}
	b.call("vertexAttribPointer", int(index), int(size), int(typ), normalized != gl.FALSE, int(stride), int(pointer))
}

func (b *Bridge) EnableVertexAttribArray(index gl.Uint) {
	b.call("enableVertexAttribArray", int(index))
}

func (b *Bridge) DisableVertexAttribArray(index gl.Uint) {
	b.call("disableVertexAttribArray", int(index))
}

func (b *Bridge) DrawArrays(mode gl.Enum, first gl.Int, count gl.Sizei) {
	b.call("drawArrays", int(mode), int(first), int(count))
}
