package mpvbridge

import (
	"encoding/binary"
	"fmt"
	"sync"
)

// Memory is the engine's 32-bit address space as seen by the bridge.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU8(offset uint32) (uint8, error)
	ReadU32(offset uint32) (uint32, error)
	WriteU8(offset uint32, value uint8) error
	WriteU32(offset uint32, value uint32) error
}

// Allocator allocates memory in the engine address space
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}

// AddressSpace is memory the bridge can both access and allocate from.
type AddressSpace interface {
	Memory
	Allocator
}

// ReadI32 reads a little-endian int32.
func ReadI32(m Memory, offset uint32) (int32, error) {
	v, err := m.ReadU32(offset)
	return int32(v), err
}

// WriteI32 writes a little-endian int32.
func WriteI32(m Memory, offset uint32, value int32) error {
	return m.WriteU32(offset, uint32(value))
}

// ReadCString reads a NUL-terminated string starting at offset.
func ReadCString(m Memory, offset uint32) (string, error) {
	if offset == 0 {
		return "", fmt.Errorf("read string: null pointer")
	}
	var buf []byte
	for p := offset; ; p++ {
		c, err := m.ReadU8(p)
		if err != nil {
			return "", err
		}
		if c == 0 {
			return string(buf), nil
		}
		buf = append(buf, c)
	}
}

// WriteCString writes s followed by a NUL terminator.
func WriteCString(m Memory, offset uint32, s string) error {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return m.Write(offset, buf)
}

// AlignTo rounds offset up to a multiple of align. align must be a power of two.
func AlignTo(offset, align uint32) uint32 {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// LinearMemory is a slice-backed address space with a bump allocator.
// Address 0 is never handed out so that 0 keeps meaning NULL.
type LinearMemory struct {
	data []byte
	next uint32
	mu   sync.Mutex
}

const linearMemoryBase = 16

// NewLinearMemory creates an address space of size bytes.
func NewLinearMemory(size uint32) *LinearMemory {
	return &LinearMemory{
		data: make([]byte, size),
		next: linearMemoryBase,
	}
}

func (m *LinearMemory) Read(offset uint32, length uint32) ([]byte, error) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(m.data)) {
		return nil, fmt.Errorf("read out of bounds: offset=%d, length=%d", offset, length)
	}
	return m.data[offset:end:end], nil
}

func (m *LinearMemory) Write(offset uint32, data []byte) error {
	end := uint64(offset) + uint64(len(data))
	if end > uint64(len(m.data)) {
		return fmt.Errorf("write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	copy(m.data[offset:], data)
	return nil
}

func (m *LinearMemory) ReadU8(offset uint32) (uint8, error) {
	data, err := m.Read(offset, 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

func (m *LinearMemory) ReadU32(offset uint32) (uint32, error) {
	data, err := m.Read(offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data), nil
}

func (m *LinearMemory) WriteU8(offset uint32, value uint8) error {
	return m.Write(offset, []byte{value})
}

func (m *LinearMemory) WriteU32(offset uint32, value uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], value)
	return m.Write(offset, b[:])
}

func (m *LinearMemory) Size() uint32 {
	return uint32(len(m.data))
}

// Alloc reserves size bytes aligned to align. Memory is never reused.
func (m *LinearMemory) Alloc(size, align uint32) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if align == 0 {
		align = 1
	}
	ptr := AlignTo(m.next, align)
	if uint64(ptr)+uint64(size) > uint64(len(m.data)) {
		return 0, fmt.Errorf("failed to allocate %d bytes (align %d)", size, align)
	}
	m.next = ptr + size
	return ptr, nil
}

// Free is a no-op for the bump allocator.
func (m *LinearMemory) Free(ptr, size, align uint32) {}

var _ AddressSpace = (*LinearMemory)(nil)
