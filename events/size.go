package events

import (
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/mpvbridge/host"
)

// DefaultSizeTTL is how long a surface size stays cached.
const DefaultSizeTTL = 500 * time.Millisecond

// SizeCache caches the drawing surface dimensions.
type SizeCache struct {
	at      time.Time
	surface host.Surface
	now     func() time.Time
	ttl     time.Duration
	width   int
	height  int
	valid   bool
}

// NewSizeCache creates a cache over surface. A ttl of 0 selects
// DefaultSizeTTL.
func NewSizeCache(surface host.Surface, ttl time.Duration) *SizeCache {
	if ttl <= 0 {
		ttl = DefaultSizeTTL
	}
	return &SizeCache{surface: surface, ttl: ttl, now: time.Now}
}

// SetClock replaces the time source.
func (c *SizeCache) SetClock(now func() time.Time) { c.now = now }

// Size returns the surface width and height, reading them from the surface
// when the cached values are older than the ttl.
func (c *SizeCache) Size() (int, int) {
	now := c.now()
	if c.valid && now.Sub(c.at) < c.ttl {
		return c.width, c.height
	}
	c.width = c.dimension("width")
	c.height = c.dimension("height")
	c.at = now
	c.valid = true
	return c.width, c.height
}

func (c *SizeCache) dimension(name string) int {
	v, err := c.surface.Property(name)
	if err != nil {
		Logger().Warn("surface property", zap.String("name", name), zap.Error(err))
		return 0
	}
	n, ok := host.Number(v)
	if !ok || n < 0 {
		return 0
	}
	return int(n)
}
