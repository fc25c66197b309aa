package pixel

import (
	"github.com/wippyai/mpvbridge/errors"
	"github.com/wippyai/mpvbridge/gl"
	"github.com/wippyai/mpvbridge/host"
)

// BytesPerPixel returns the size of one pixel of the given type and format,
// or 0 when the combination is not supported. Callers must treat 0 as a
// hard error and abort the transfer.
func BytesPerPixel(typ, format gl.Enum) int {
	switch typ {
	case gl.UNSIGNED_SHORT_5_6_5:
		if format == gl.RGB {
			return 2
		}
		return 0
	case gl.UNSIGNED_SHORT_4_4_4_4, gl.UNSIGNED_SHORT_5_5_5_1:
		if format == gl.RGBA {
			return 2
		}
		return 0
	case gl.UNSIGNED_INT_24_8:
		if format == gl.DEPTH_STENCIL {
			return 4
		}
		return 0
	}

	size := componentSize(typ)
	if size == 0 {
		return 0
	}

	switch format {
	case gl.ALPHA, gl.LUMINANCE, gl.RED:
		return size
	case gl.LUMINANCE_ALPHA, gl.RG:
		return 2 * size
	case gl.RGB:
		return 3 * size
	case gl.RGBA:
		return 4 * size
	case gl.DEPTH_COMPONENT:
		if typ == gl.UNSIGNED_SHORT || typ == gl.UNSIGNED_INT {
			return size
		}
	}
	return 0
}

func componentSize(typ gl.Enum) int {
	switch typ {
	case gl.UNSIGNED_BYTE:
		return 1
	case gl.UNSIGNED_SHORT, gl.HALF_FLOAT:
		return 2
	case gl.UNSIGNED_INT, gl.FLOAT:
		return 4
	}
	return 0
}

// ViewKind returns the typed array kind the host expects for pixel data of typ.
func ViewKind(typ gl.Enum) (host.ViewKind, bool) {
	switch typ {
	case gl.UNSIGNED_BYTE:
		return host.Uint8, true
	case gl.UNSIGNED_SHORT, gl.HALF_FLOAT,
		gl.UNSIGNED_SHORT_5_6_5, gl.UNSIGNED_SHORT_4_4_4_4, gl.UNSIGNED_SHORT_5_5_5_1:
		return host.Uint16, true
	case gl.UNSIGNED_INT, gl.UNSIGNED_INT_24_8:
		return host.Uint32, true
	case gl.FLOAT:
		return host.Float32, true
	}
	return 0, false
}

// Format is a supported (type, format) pair.
type Format struct {
	Type   gl.Enum
	Format gl.Enum
}

// Supported lists every pair BytesPerPixel accepts.
func Supported() []Format {
	types := []gl.Enum{gl.UNSIGNED_BYTE, gl.UNSIGNED_SHORT, gl.UNSIGNED_INT, gl.HALF_FLOAT, gl.FLOAT}
	formats := []gl.Enum{gl.ALPHA, gl.LUMINANCE, gl.RED, gl.LUMINANCE_ALPHA, gl.RG, gl.RGB, gl.RGBA, gl.DEPTH_COMPONENT}

	var out []Format
	for _, typ := range types {
		for _, f := range formats {
			if BytesPerPixel(typ, f) != 0 {
				out = append(out, Format{Type: typ, Format: f})
			}
		}
	}
	return append(out,
		Format{gl.UNSIGNED_SHORT_5_6_5, gl.RGB},
		Format{gl.UNSIGNED_SHORT_4_4_4_4, gl.RGBA},
		Format{gl.UNSIGNED_SHORT_5_5_5_1, gl.RGBA},
		Format{gl.UNSIGNED_INT_24_8, gl.DEPTH_STENCIL},
	)
}

// ErrUnsupported reports a type/format pair BytesPerPixel rejects.
func ErrUnsupported(format, typ gl.Enum) error {
	return errors.New(errors.PhaseTransfer, errors.KindUnsupported).
		Detail("pixel type 0x%04X with format 0x%04X", uint32(typ), uint32(format)).
		Build()
}
