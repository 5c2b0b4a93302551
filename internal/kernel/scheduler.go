package kernel

// Schedule is the main scheduling point, §4.2: recompute the highest-ready
// task and, if it differs from whatever is currently selected, hand off to
// the Port. Grounded on core/sched/mod.rs's os_sched, with one structural
// change: the original calls port::os_ctx_sw() from inside the critical
// section guard; here the section is released first and the switch decision
// is captured into locals, because the host port's context switch blocks the
// outgoing goroutine on a channel receive and would deadlock if it still
// held the section's mutex (no other goroutine could ever enter a section to
// make progress and signal it back).
func (k *Kernel) Schedule() {
	if !k.running || k.IsISRContext() || k.schedLockNesting > 0 {
		return
	}

	var switchNeeded bool
	k.cs.withCritical(func() {
		high := k.rdyList.highestReady()
		if high == nil {
			return
		}
		k.tcbHighRdy = high
		if high != k.tcbCur {
			switchNeeded = true
		}
	})
	if switchNeeded {
		k.port.CtxSwitchRequest()
	}
}

// schedRoundRobin charges the current task's time quanta and, if it expires
// with peers of equal priority still ready, cycles it to the tail of its
// priority's ready list. Called once per tick from the tick handler, always
// from ISR context, so unlike Schedule it requests the switch through
// IntCtxSwitchRequest rather than blocking a task goroutine that isn't the
// one calling it. Grounded on os_sched_round_robin.
func (k *Kernel) schedRoundRobin() {
	if !k.cfg.SchedRoundRobinEn || !k.running || k.schedLockNesting > 0 {
		return
	}

	var switchNeeded bool
	k.cs.withCritical(func() {
		cur := k.tcbCur
		if cur == nil {
			return
		}
		if cur.timeQuantaCtr > 0 {
			cur.timeQuantaCtr--
		}
		if cur.timeQuantaCtr != 0 {
			return
		}
		cur.timeQuantaCtr = cur.timeQuanta

		p := cur.prio
		if k.rdyList.heads[p] == k.rdyList.tails[p] {
			return
		}
		k.rdyList.moveToTail(cur)
		k.tcbHighRdy = k.rdyList.heads[p]
		switchNeeded = true
	})
	if switchNeeded {
		k.port.IntCtxSwitchRequest()
	}
}

// SchedLock disables task-level preemption: Schedule and schedRoundRobin
// become no-ops until a matching number of SchedUnlock calls is made. Nests
// up to 255 deep.
func (k *Kernel) SchedLock() error {
	if !k.running {
		return ErrOsNotRunning
	}
	if k.IsISRContext() {
		return ErrSchedLockIsr
	}
	var outErr error
	k.cs.withCritical(func() {
		if k.schedLockNesting == 255 {
			outErr = ErrLockNestingOvf
			return
		}
		k.schedLockNesting++
	})
	return outErr
}

// SchedUnlock reverses one SchedLock call. Once nesting reaches zero,
// Schedule runs immediately to apply whatever became ready while locked.
func (k *Kernel) SchedUnlock() error {
	if !k.running {
		return ErrOsNotRunning
	}
	if k.IsISRContext() {
		return ErrSchedUnlockIsr
	}
	var outErr error
	var shouldSched bool
	k.cs.withCritical(func() {
		if k.schedLockNesting == 0 {
			outErr = ErrSchedNotLocked
			return
		}
		k.schedLockNesting--
		shouldSched = k.schedLockNesting == 0
	})
	if outErr != nil {
		return outErr
	}
	if shouldSched {
		k.Schedule()
	}
	return nil
}
