package kernel

// Semaphore is a counting semaphore, §4.6. Grounded on sync/sem.rs's OsSem,
// translated from its NonNull<OsTcb> pend list into the shared pendList
// type and from the Rust critical_section closure into withCritical blocks
// that end before the kernel's Schedule call, matching the
// task.go/time.go convention of never calling into Port while the critical
// section is held.
type Semaphore struct {
	k       *Kernel
	objType objType
	waiters pendList
	count   OsSemCtr
}

// NewSemaphore creates a counting semaphore on k with an initial count.
func (k *Kernel) NewSemaphore(count OsSemCtr) *Semaphore {
	return &Semaphore{k: k, objType: objTypeSem, count: count}
}

func (s *Semaphore) removeWaiter(tcb *TCB) {
	s.waiters.remove(tcb)
}

// Count returns the semaphore's current count.
func (s *Semaphore) Count() OsSemCtr {
	return s.count
}

// Set overwrites the semaphore's count directly, bypassing pend/post
// bookkeeping. Must not be called from ISR context.
func (s *Semaphore) Set(count OsSemCtr) error {
	if s.k.IsISRContext() {
		return ErrAcceptIsr
	}
	s.k.cs.withCritical(func() {
		s.count = count
	})
	return nil
}

// Pend acquires the semaphore, blocking the calling task for up to timeout
// ticks (0 = wait forever) unless opt carries OptPendNonBlocking, in which
// case an unavailable semaphore returns ErrPendWouldBlock immediately.
// Returns the semaphore's count at the moment of acquisition.
func (s *Semaphore) Pend(timeout OsTick, opt OsOpt) (OsSemCtr, error) {
	if s.k.IsISRContext() {
		return 0, ErrPendIsr
	}
	if !s.k.running {
		return 0, ErrOsNotRunning
	}
	if s.objType != objTypeSem {
		return 0, ErrObjType
	}

	var acquired bool
	var count OsSemCtr
	var blockErr error
	s.k.cs.withCritical(func() {
		if s.count > 0 {
			s.count--
			acquired = true
			count = s.count
			return
		}
		if opt&OptPendNonBlocking != 0 {
			blockErr = ErrPendWouldBlock
			return
		}
		if s.k.schedLockNesting > 0 {
			blockErr = ErrSchedLocked
			return
		}
		s.k.blockCurrentOn(pendOnSemaphore, s, &s.waiters, timeout)
	})
	if acquired || blockErr != nil {
		return count, blockErr
	}

	s.k.Schedule()

	cur := s.k.tcbCur
	return s.count, pendStatusErr(cur.pendStat)
}

// Post signals the semaphore: if a task is waiting, it is woken and made
// ready directly (the count is not incremented, matching handoff
// semantics); otherwise the count is incremented, saturating at an error
// rather than wrapping. Unless opt carries OptPostNoSched, and unless
// called from ISR context, Schedule runs immediately so the woken task can
// preempt.
func (s *Semaphore) Post(opt OsOpt) (OsSemCtr, error) {
	if s.objType != objTypeSem {
		return 0, ErrObjType
	}

	var woke bool
	var overflow bool
	var count OsSemCtr
	s.k.cs.withCritical(func() {
		if tcb := s.k.wakeWaiter(&s.waiters); tcb != nil {
			woke = true
			count = s.count
			return
		}
		if s.count == ^OsSemCtr(0) {
			overflow = true
			return
		}
		s.count++
		count = s.count
	})
	if overflow {
		return 0, ErrSemOvf
	}
	if woke && opt&OptPostNoSched == 0 && !s.k.IsISRContext() {
		s.k.Schedule()
	}
	return count, nil
}
