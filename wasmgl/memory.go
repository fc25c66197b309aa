package wasmgl

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/mpvbridge"
	"github.com/wippyai/mpvbridge/errors"
)

// Guest export names used for allocation.
const (
	MallocExport = "malloc"
	FreeExport   = "free"
)

// Memory wraps a guest's linear memory to implement mpvbridge.Memory.
type Memory struct {
	mem api.Memory
}

// NewMemory wraps mem.
func NewMemory(mem api.Memory) *Memory {
	return &Memory{mem: mem}
}

func (m *Memory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("read out of bounds: offset=%d, length=%d", offset, length)
	}
	return data, nil
}

func (m *Memory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return fmt.Errorf("write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

func (m *Memory) ReadU8(offset uint32) (uint8, error) {
	v, ok := m.mem.ReadByte(offset)
	if !ok {
		return 0, fmt.Errorf("read out of bounds: offset=%d", offset)
	}
	return v, nil
}

func (m *Memory) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, fmt.Errorf("read out of bounds: offset=%d", offset)
	}
	return v, nil
}

func (m *Memory) WriteU8(offset uint32, value uint8) error {
	if !m.mem.WriteByte(offset, value) {
		return fmt.Errorf("write out of bounds: offset=%d", offset)
	}
	return nil
}

func (m *Memory) WriteU32(offset uint32, value uint32) error {
	if !m.mem.WriteUint32Le(offset, value) {
		return fmt.Errorf("write out of bounds: offset=%d", offset)
	}
	return nil
}

// Size returns the current memory size in bytes.
func (m *Memory) Size() uint32 { return m.mem.Size() }

// Allocator allocates through the guest's malloc and free exports.
type Allocator struct {
	ctx    context.Context
	malloc api.Function
	free   api.Function
	stack  []uint64
	mu     sync.Mutex
}

// Alloc calls malloc. Guest malloc aligns for any scalar type, so align is
// only checked against the returned address.
func (a *Allocator) Alloc(size, align uint32) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stack[0] = uint64(size)
	if err := a.malloc.CallWithStack(a.ctx, a.stack[:1]); err != nil {
		return 0, errors.AllocationFailed(errors.PhaseRuntime, size, align, err)
	}
	ptr := uint32(a.stack[0])
	if ptr == 0 {
		return 0, errors.AllocationFailed(errors.PhaseRuntime, size, align, nil)
	}
	if align > 1 && ptr%align != 0 {
		return 0, errors.AllocationFailed(errors.PhaseRuntime, size, align,
			fmt.Errorf("malloc returned misaligned address %#x", ptr))
	}
	return ptr, nil
}

// Free calls free. Failures are logged.
func (a *Allocator) Free(ptr, size, align uint32) {
	if a.free == nil || ptr == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stack[0] = uint64(ptr)
	if err := a.free.CallWithStack(a.ctx, a.stack[:1]); err != nil {
		Logger().Warn("guest free failed",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}

// AddressSpace is a guest's memory together with its allocator.
type AddressSpace struct {
	*Memory
	*Allocator
}

var _ mpvbridge.AddressSpace = (*AddressSpace)(nil)

// NewAddressSpace uses mod's exported memory and its malloc and free
// exports. A guest without free leaks every allocation the bridge makes.
func NewAddressSpace(ctx context.Context, mod api.Module) (*AddressSpace, error) {
	mem := mod.Memory()
	if mem == nil {
		return nil, errors.NotFound(errors.PhaseRuntime, "guest export", "memory")
	}
	malloc := mod.ExportedFunction(MallocExport)
	if malloc == nil {
		return nil, errors.NotFound(errors.PhaseRuntime, "guest export", MallocExport)
	}
	free := mod.ExportedFunction(FreeExport)
	if free == nil {
		Logger().Warn("guest has no free export", zap.String("module", mod.Name()))
	}
	return &AddressSpace{
		Memory: NewMemory(mem),
		Allocator: &Allocator{
			ctx:    ctx,
			malloc: malloc,
			free:   free,
			stack:  make([]uint64, 1),
		},
	}, nil
}
