package optimizer

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// Stats accumulates counters across every optimization run by an Engine. Readers may poll it concurrently with
// a running optimization.
type Stats struct {
	optimizations *xsync.Counter
	replacements  *xsync.Counter
	pruned        *xsync.Counter
	fired         *xsync.MapOf[string, *xsync.Counter]
}

func NewStats() *Stats {
	return &Stats{
		optimizations: xsync.NewCounter(),
		replacements:  xsync.NewCounter(),
		pruned:        xsync.NewCounter(),
		fired:         xsync.NewMapOf[string, *xsync.Counter](),
	}
}

func (s *Stats) Optimizations() int64 {
	return s.optimizations.Value()
}

func (s *Stats) Replacements() int64 {
	return s.replacements.Value()
}

// Pruned returns the number of nodes discarded, including the replaced nodes themselves.
func (s *Stats) Pruned() int64 {
	return s.pruned.Value()
}

// Fired returns how many times the named rule fired.
func (s *Stats) Fired(rule string) int64 {
	c, ok := s.fired.Load(rule)
	if !ok {
		return 0
	}
	return c.Value()
}

// FiredByRule returns a point-in-time copy of the per-rule firing counts.
func (s *Stats) FiredByRule() map[string]int64 {
	out := make(map[string]int64)
	s.fired.Range(func(rule string, c *xsync.Counter) bool {
		out[rule] = c.Value()
		return true
	})
	return out
}

func (s *Stats) recordFiring(rule string) {
	c, _ := s.fired.LoadOrCompute(rule, func() *xsync.Counter {
		return xsync.NewCounter()
	})
	c.Inc()
}
