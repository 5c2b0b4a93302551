package kernel

import "sync"

// criticalSection is the sole mutual-exclusion primitive in the kernel: on
// real single-core hardware it is a globally-disabled-interrupts region; on
// this host it is backed by a real mutex so the host port's task and tick
// goroutines never observe inconsistent kernel state. Grounded on
// core/critical.rs's CriticalSection guard (disable-on-enter,
// restore-on-drop), with the cortex_m::interrupt calls replaced by sync.Mutex
// since there is no such instruction on this host.
//
// Every exported kernel entry point acquires the section exactly once at its
// own top level and releases it before calling schedule() or any Port
// method — internal helpers (readyList*, tickWheel*, pendList*) never
// acquire it themselves and document that the caller must already hold it.
// This mirrors the Rust original's split between `critical_section(|cs| ..)`
// closures and the `unsafe fn` helpers that assume `cs` is already held, and
// means the section never needs to support true re-entrant locking.
type criticalSection struct {
	mu      sync.Mutex
	nesting int
}

func (c *criticalSection) enter() {
	c.mu.Lock()
	c.nesting++
}

func (c *criticalSection) leave() {
	c.nesting--
	c.mu.Unlock()
}

// active reports whether the calling flow currently holds the section. Only
// meaningful when called by the holder itself (e.g. from within withCritical).
func (c *criticalSection) active() bool {
	return c.nesting > 0
}

// withCritical runs fn with the section held, releasing it on every exit
// path including panics.
func (c *criticalSection) withCritical(fn func()) {
	c.enter()
	defer c.leave()
	fn()
}
