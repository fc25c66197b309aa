// Package buffer keeps one reusable scratch block per usage role so that
// per-frame transfers do not allocate.
package buffer

// Role tags what a block is used for.
type Role uint8

const (
	RoleGeneric Role = iota
	RoleVertex
	RoleUniformMatrix
	RoleTexture
	roleCount
)

func (r Role) String() string {
	switch r {
	case RoleGeneric:
		return "generic"
	case RoleVertex:
		return "vertex-data"
	case RoleUniformMatrix:
		return "uniform-matrix"
	case RoleTexture:
		return "texture"
	default:
		return "unknown"
	}
}

const minBlock = 64

// Pool holds a single block per role. A block is replaced only when a
// request exceeds its capacity; contents are not preserved across calls.
//
// A Pool is owned by the host goroutine and is not safe for concurrent use.
type Pool struct {
	blocks [roleCount][]byte
	grows  [roleCount]int
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// Get returns a block of exactly n bytes for role. The returned slice is
// valid until the next Get for the same role.
func (p *Pool) Get(role Role, n int) []byte {
	if n < 0 {
		n = 0
	}
	b := p.blocks[role]
	if cap(b) < n {
		size := cap(b) * 2
		if size < n {
			size = n
		}
		if size < minBlock {
			size = minBlock
		}
		b = make([]byte, size)
		p.blocks[role] = b
		p.grows[role]++
	}
	return b[:n]
}

// Cap returns the current capacity for role.
func (p *Pool) Cap(role Role) int { return cap(p.blocks[role]) }

// Grows returns how many times the block for role was replaced.
func (p *Pool) Grows(role Role) int { return p.grows[role] }

// Reset drops all blocks.
func (p *Pool) Reset() {
	for i := range p.blocks {
		p.blocks[i] = nil
	}
}
