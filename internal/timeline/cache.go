package timeline

import "github.com/ivlev/path2video/internal/track"

// Cache memoizes the derived schedule behind a version counter. The
// editing layer calls Invalidate after every structural change to the
// waypoints, items or defaults; the next Schedule call rebuilds. The
// zero value is ready to use. Not safe for concurrent use; the player
// and exporter both drive it from a single goroutine.
type Cache struct {
	version uint64
	built   uint64
	valid   bool
	sched   Schedule
}

// Invalidate marks the cached schedule stale
func (c *Cache) Invalidate() {
	c.version++
}

// Schedule returns the cached schedule, rebuilding from the given
// inputs when stale
func (c *Cache) Schedule(m track.Metrics, items []Item, defaults Defaults) Schedule {
	if !c.valid || c.built != c.version {
		c.sched = Build(m, items, defaults)
		c.built = c.version
		c.valid = true
	}
	return c.sched
}
