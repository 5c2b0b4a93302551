package kernel

// pendable is implemented by every kernel object a task can block on
// (Semaphore, Mutex), so the tick handler can cut a timed-out waiter out of
// the object's wait list without a type switch at each call site.
type pendable interface {
	removeWaiter(tcb *TCB)
}

// cutFromPendObj removes tcb from whatever object's pend list it was
// threaded into, called when a pend timeout fires. This is the one point
// where behavior here is deliberately stricter than the retrieved original,
// which updates the TCB's own state on timeout but does not appear to
// unlink it from the object's wait list in the same step. Caller must hold
// the critical section.
func (k *Kernel) cutFromPendObj(tcb *TCB) {
	if p, ok := tcb.pendObj.(pendable); ok {
		p.removeWaiter(tcb)
	}
	tcb.pendObj = nil
	tcb.pendOnKind = pendOnNothing
}

// blockCurrentOn parks the calling task on obj's pend list at the given
// timeout (0 = forever), removing it from the ready list and setting the
// pend-related TCB fields. Shared by Semaphore.Pend and Mutex.Pend. Caller
// must hold the critical section and must call Schedule() once it releases
// the section.
func (k *Kernel) blockCurrentOn(kind pendOn, obj pendable, waiters *pendList, timeout OsTick) *TCB {
	cur := k.tcbCur
	k.rdyList.remove(cur)

	cur.pendOnKind = kind
	cur.pendObj = obj
	cur.pendStat = pendStatusOk
	cur.tickRemain = timeout

	if timeout > 0 {
		cur.state = statePendTimeout
		k.wheel.insert(cur, k.tick, timeout)
	} else {
		cur.state = statePend
	}

	waiters.insertByPrio(cur)
	return cur
}

// wakeWaiter removes the head of waiters (the highest-priority blocked task)
// and makes it ready, ready to be picked up by whoever posted. Returns nil
// if waiters is empty. Caller must hold the critical section.
func (k *Kernel) wakeWaiter(waiters *pendList) *TCB {
	tcb := waiters.highestPrio()
	if tcb == nil {
		return nil
	}
	waiters.remove(tcb)
	if tcb.state == statePendTimeout || tcb.state == statePendTimeoutSuspended {
		k.wheel.remove(tcb)
	}

	tcb.pendOnKind = pendOnNothing
	tcb.pendObj = nil
	tcb.pendStat = pendStatusOk
	tcb.tickRemain = 0

	if tcb.state == statePendSuspended || tcb.state == statePendTimeoutSuspended {
		tcb.state = stateSuspended
		return tcb
	}
	tcb.state = stateReady
	k.rdyList.insert(tcb)
	return tcb
}
