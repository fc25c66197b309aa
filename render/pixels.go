package render

import (
	"github.com/wippyai/mpvbridge/gl"
	"github.com/wippyai/mpvbridge/host"
	"github.com/wippyai/mpvbridge/pixel"
)

func bytesView(p []byte) host.View {
	return host.View{Data: p, Kind: host.Uint8}
}

// pixelKind validates a format/type pair and returns the view kind the host
// expects for it.
func (b *Bridge) pixelKind(format, typ gl.Enum, op string) (host.ViewKind, bool) {
	kind, ok := pixel.ViewKind(typ)
	if !ok || pixel.BytesPerPixel(typ, format) == 0 {
		b.fail(op, gl.INVALID_ENUM, pixel.ErrUnsupported(format, typ))
		return 0, false
	}
	return kind, true
}

// source returns the host pixel argument for an upload. With a bound
// unpack buffer data is a byte offset into it.
func (b *Bridge) source(data gl.Ptr, width, height gl.Sizei, format, typ gl.Enum, op string) (any, bool) {
	if b.bindings[gl.PIXEL_UNPACK_BUFFER] != 0 {
		return int(data), true
	}
	kind, ok := b.pixelKind(format, typ, op)
	if !ok {
		return nil, false
	}
	if data == 0 {
		return nil, true
	}
	tight, err := b.pixels.Upload(data, int(width), int(height), format, typ)
	if err != nil {
		b.fail(op, gl.INVALID_VALUE, err)
		return nil, false
	}
	return host.View{Data: tight, Kind: kind}, true
}

func (b *Bridge) TexImage2D(target gl.Enum, level, internalFormat gl.Int, width, height gl.Sizei, border gl.Int, format, typ gl.Enum, data gl.Ptr) {
	src, ok := b.source(data, width, height, format, typ, "TexImage2D")
	if !ok {
		return
	}
	b.call("texImage2D", int(target), int(level), int(internalFormat), int(width), int(height), int(border), int(format), int(typ), src)
}

func (b *Bridge) TexSubImage2D(target gl.Enum, level, xoffset, yoffset gl.Int, width, height gl.Sizei, format, typ gl.Enum, data gl.Ptr) {
	src, ok := b.source(data, width, height, format, typ, "TexSubImage2D")
	if !ok {
		return
	}
	b.call("texSubImage2D", int(target), int(level), int(xoffset), int(yoffset), int(width), int(height), int(format), int(typ), src)
}

// ReadPixels reads from the bound framebuffer into engine memory at data,
// honoring the pack alignment. With a bound pack buffer data is a byte
// offset into it and no copy is made.
func (b *Bridge) ReadPixels(x, y gl.Int, width, height gl.Sizei, format, typ gl.Enum, data gl.Ptr) {
	if b.bindings[gl.PIXEL_PACK_BUFFER] != 0 {
		b.call("readPixels", int(x), int(y), int(width), int(height), int(format), int(typ), int(data))
		return
	}
	kind, ok := b.pixelKind(format, typ, "ReadPixels")
	if !ok || data == 0 {
		return
	}
	scratch, err := b.pixels.Scratch(int(width), int(height), format, typ)
	if err != nil {
		b.fail("ReadPixels", gl.INVALID_VALUE, err)
		return
	}
	if _, ok := b.callOK("readPixels", int(x), int(y), int(width), int(height), int(format), int(typ), host.View{Data: scratch, Kind: kind}); !ok {
		return
	}
	if err := b.pixels.Download(data, int(width), int(height), format, typ, scratch); err != nil {
		b.fail("ReadPixels", gl.INVALID_VALUE, err)
	}
}

// PixelStorei keeps pack and unpack alignment on the engine side. Other
// parameters go to the host.
func (b *Bridge) PixelStorei(pname gl.Enum, param gl.Int) {
	store := b.pixels.Store()
	var err error
	switch pname {
	case gl.UNPACK_ALIGNMENT:
		err = store.SetUnpack(int(param))
	case gl.PACK_ALIGNMENT:
		err = store.SetPack(int(param))
	default:
		b.call("pixelStorei", int(pname), int(param))
		return
	}
	if err != nil {
		b.fail("PixelStorei", gl.INVALID_VALUE, err)
	}
}
