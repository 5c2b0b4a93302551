package kernel

// Mutex is a binary, recursively-lockable mutex with priority inheritance,
// §4.7. Grounded on sync/mutex.rs's OsMutex: when a higher-priority task
// blocks on a mutex held by a lower-priority owner, the owner's priority is
// boosted in place to the blocked task's priority (moving it between ready
// lists if it is currently ready), and restored to its base priority on
// final release. This mirrors the original's direct tcb.prio mutation
// rather than a more general "recompute from every owned mutex" scheme,
// since the original never tracks multiple simultaneously-owned mutexes per
// task and we match its actual behavior rather than inventing a stronger one.
type Mutex struct {
	k       *Kernel
	objType objType
	waiters pendList
	owner   *TCB
	nesting OsNestingCtr
}

// NewMutex creates an unlocked mutex on k.
func (k *Kernel) NewMutex() *Mutex {
	return &Mutex{k: k, objType: objTypeMutex}
}

func (m *Mutex) removeWaiter(tcb *TCB) {
	m.waiters.remove(tcb)
}

// IsOwned reports whether any task currently holds the mutex.
func (m *Mutex) IsOwned() bool {
	return m.owner != nil
}

// OwnerPrio returns the current owner's priority and true, or (0, false) if
// the mutex is unlocked.
func (m *Mutex) OwnerPrio() (OsPrio, bool) {
	if m.owner == nil {
		return 0, false
	}
	return m.owner.prio, true
}

// Pend acquires the mutex, recursively if the calling task already owns it.
// Blocking and timeout semantics mirror Semaphore.Pend; before blocking, a
// caller of higher priority than the owner boosts the owner to its priority.
func (m *Mutex) Pend(timeout OsTick, opt OsOpt) error {
	if m.k.IsISRContext() {
		return ErrPendIsr
	}
	if !m.k.running {
		return ErrOsNotRunning
	}
	if m.objType != objTypeMutex {
		return ErrObjType
	}

	var done bool
	var immediateErr error
	m.k.cs.withCritical(func() {
		cur := m.k.tcbCur

		if m.owner == nil {
			m.owner = cur
			m.nesting = 1
			done = true
			return
		}
		if m.owner == cur {
			if m.nesting == ^OsNestingCtr(0) {
				immediateErr = ErrMutexOvf
				return
			}
			m.nesting++
			done = true
			return
		}
		if opt&OptPendNonBlocking != 0 {
			immediateErr = ErrPendWouldBlock
			return
		}
		if m.k.schedLockNesting > 0 {
			immediateErr = ErrSchedLocked
			return
		}

		if cur.prio < m.owner.prio {
			if m.owner.state == stateReady {
				m.k.rdyList.changePrio(m.owner, cur.prio)
			} else {
				m.owner.prio = cur.prio
			}
		}

		m.k.blockCurrentOn(pendOnMutex, m, &m.waiters, timeout)
	})
	if done || immediateErr != nil {
		return immediateErr
	}

	m.k.Schedule()

	cur := m.k.tcbCur
	return pendStatusErr(cur.pendStat)
}

// Post releases one level of ownership. Once the nesting counter reaches
// zero the mutex is fully released: the owner's priority is restored to its
// base priority and, if a task is waiting, ownership transfers to it
// directly without passing through the unlocked state.
func (m *Mutex) Post(opt OsOpt) error {
	if m.k.IsISRContext() {
		return ErrAcceptIsr
	}
	if !m.k.running {
		return ErrOsNotRunning
	}
	if m.objType != objTypeMutex {
		return ErrObjType
	}

	var notOwner bool
	var transferred bool
	m.k.cs.withCritical(func() {
		cur := m.k.tcbCur
		if m.owner != cur {
			notOwner = true
			return
		}
		if m.nesting > 1 {
			m.nesting--
			return
		}
		m.nesting = 0

		if cur.prio != cur.basePrio {
			if cur.state == stateReady {
				m.k.rdyList.changePrio(cur, cur.basePrio)
			} else {
				cur.prio = cur.basePrio
			}
		}

		if waiter := m.waiters.highestPrio(); waiter != nil {
			m.waiters.remove(waiter)
			if waiter.state == statePendTimeout || waiter.state == statePendTimeoutSuspended {
				m.k.wheel.remove(waiter)
			}
			waiter.pendOnKind = pendOnNothing
			waiter.pendObj = nil
			waiter.pendStat = pendStatusOk
			waiter.tickRemain = 0

			m.owner = waiter
			m.nesting = 1

			if waiter.state == statePendSuspended || waiter.state == statePendTimeoutSuspended {
				waiter.state = stateSuspended
			} else {
				waiter.state = stateReady
				m.k.rdyList.insert(waiter)
				transferred = true
			}
		} else {
			m.owner = nil
		}
	})
	if notOwner {
		return ErrMutexNotOwner
	}
	if transferred && opt&OptPostNoSched == 0 {
		m.k.Schedule()
	}
	return nil
}
