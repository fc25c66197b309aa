// Package pixel moves image data between the engine's row-aligned layout
// and the tightly packed layout the host consumes.
package pixel

import (
	"fmt"

	"github.com/wippyai/mpvbridge"
	"github.com/wippyai/mpvbridge/buffer"
	"github.com/wippyai/mpvbridge/errors"
	"github.com/wippyai/mpvbridge/gl"
)

// AlignToBoundary rounds v up to a multiple of b. b must be a power of two.
func AlignToBoundary(v, b int) int {
	return int(mpvbridge.AlignTo(uint32(v), uint32(b)))
}

// Store holds the engine-side pack (read) and unpack (write) alignments.
type Store struct {
	pack   int
	unpack int
}

// NewStore returns alignments at their default of 1.
func NewStore() *Store {
	return &Store{pack: 1, unpack: 1}
}

func validAlignment(a int) bool {
	return a == 1 || a == 2 || a == 4 || a == 8
}

// SetPack sets the alignment used when downloading into engine memory.
func (s *Store) SetPack(a int) error {
	if !validAlignment(a) {
		return errors.InvalidInput(errors.PhaseTransfer, fmt.Sprintf("pack alignment %d", a))
	}
	s.pack = a
	return nil
}

// SetUnpack sets the alignment used when uploading from engine memory.
func (s *Store) SetUnpack(a int) error {
	if !validAlignment(a) {
		return errors.InvalidInput(errors.PhaseTransfer, fmt.Sprintf("unpack alignment %d", a))
	}
	s.unpack = a
	return nil
}

func (s *Store) Pack() int   { return s.pack }
func (s *Store) Unpack() int { return s.unpack }

// Layout describes one image in both layouts.
type Layout struct {
	Row       int // unpadded row size
	Stride    int // padded row size
	Height    int
	Tight     int // unpadded image size
	Footprint int // bytes spanned in engine memory
}

// Plan computes the layout of a width x height image. It fails for
// unsupported type/format pairs and negative dimensions.
func Plan(width, height int, format, typ gl.Enum, align int) (Layout, error) {
	bpp := BytesPerPixel(typ, format)
	if bpp == 0 {
		return Layout{}, ErrUnsupported(format, typ)
	}
	if width < 0 || height < 0 {
		return Layout{}, errors.InvalidInput(errors.PhaseTransfer, fmt.Sprintf("image size %dx%d", width, height))
	}
	row := width * bpp
	l := Layout{
		Row:    row,
		Stride: AlignToBoundary(row, align),
		Height: height,
		Tight:  row * height,
	}
	if height > 0 {
		l.Footprint = l.Stride*(height-1) + row
	}
	return l, nil
}

// Transfer copies images between engine memory and pooled tight blocks.
type Transfer struct {
	mem   mpvbridge.Memory
	pool  *buffer.Pool
	store *Store
}

// NewTransfer creates a transfer engine over mem.
func NewTransfer(mem mpvbridge.Memory, pool *buffer.Pool, store *Store) *Transfer {
	return &Transfer{mem: mem, pool: pool, store: store}
}

// Store returns the alignment state.
func (t *Transfer) Store() *Store { return t.store }

// Upload reads an image at ptr laid out with the unpack alignment and returns
// it tightly packed. The result is a pooled block valid until the next upload.
func (t *Transfer) Upload(ptr gl.Ptr, width, height int, format, typ gl.Enum) ([]byte, error) {
	l, err := Plan(width, height, format, typ, t.store.unpack)
	if err != nil {
		return nil, err
	}
	dst := t.pool.Get(buffer.RoleTexture, l.Tight)
	if l.Tight == 0 {
		return dst, nil
	}

	src, err := t.mem.Read(uint32(ptr), uint32(l.Footprint))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseTransfer, errors.KindOutOfBounds, err, "read pixels from engine memory")
	}

	if l.Stride == l.Row {
		copy(dst, src)
		return dst, nil
	}
	for y := 0; y < l.Height; y++ {
		copy(dst[y*l.Row:(y+1)*l.Row], src[y*l.Stride:])
	}
	return dst, nil
}

// Scratch returns a pooled tight block sized for a width x height image, for
// the host to fill before Download.
func (t *Transfer) Scratch(width, height int, format, typ gl.Enum) ([]byte, error) {
	l, err := Plan(width, height, format, typ, t.store.pack)
	if err != nil {
		return nil, err
	}
	return t.pool.Get(buffer.RoleGeneric, l.Tight), nil
}

// Download writes a tightly packed image into engine memory at ptr using
// the pack alignment. Padding bytes in engine memory are left untouched.
func (t *Transfer) Download(ptr gl.Ptr, width, height int, format, typ gl.Enum, src []byte) error {
	l, err := Plan(width, height, format, typ, t.store.pack)
	if err != nil {
		return err
	}
	if len(src) < l.Tight {
		return errors.OutOfBounds(errors.PhaseTransfer, nil, l.Tight, len(src))
	}
	if l.Tight == 0 {
		return nil
	}

	if l.Stride == l.Row {
		if err := t.mem.Write(uint32(ptr), src[:l.Tight]); err != nil {
			return errors.Wrap(errors.PhaseTransfer, errors.KindOutOfBounds, err, "write pixels to engine memory")
		}
		return nil
	}
	for y := 0; y < l.Height; y++ {
		off := uint32(ptr) + uint32(y*l.Stride)
		if err := t.mem.Write(off, src[y*l.Row:(y+1)*l.Row]); err != nil {
			return errors.Wrap(errors.PhaseTransfer, errors.KindOutOfBounds, err, "write pixels to engine memory")
		}
	}
	return nil
}
