package hosttest

import (
	"fmt"
	"sync"

	"github.com/wippyai/mpvbridge/host"
)

// Surface is a fake drawing surface that hands out one context.
type Surface struct {
	Context host.Context
	Kinds   map[string]bool
	Width   int
	Height  int

	reads int
	mu    sync.Mutex
}

// NewSurface returns a width x height surface offering a "webgl" context.
func NewSurface(ctx host.Context, width, height int) *Surface {
	return &Surface{
		Context: ctx,
		Kinds:   map[string]bool{"webgl": true},
		Width:   width,
		Height:  height,
	}
}

func (s *Surface) GetContext(kind string) (host.Context, error) {
	if !s.Kinds[kind] || s.Context == nil {
		return nil, fmt.Errorf("context %q not available", kind)
	}
	return s.Context, nil
}

func (s *Surface) Property(name string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch name {
	case "width":
		s.reads++
		return float64(s.Width), nil
	case "height":
		s.reads++
		return float64(s.Height), nil
	}
	return host.Undefined, nil
}

// Resize changes the reported size.
func (s *Surface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Width, s.Height = width, height
}

// Reads returns how many size properties were read.
func (s *Surface) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

var _ host.Surface = (*Surface)(nil)
