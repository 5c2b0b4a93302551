package kernel

// pendList is the wait list threaded through a semaphore or mutex, kept
// sorted by ascending priority (numerically smallest, i.e. highest priority,
// first) so the highest-priority waiter is always the head. Grounded on
// core/sync primitives' insert_by_prio helper in the original, reworked here
// as a small intrusive list over *TCB.pendPrev/pendNext, the same pointer
// idiom as readyLists.
//
// All methods assume the caller already holds the kernel's critical section.
type pendList struct {
	head *TCB
}

// insertByPrio threads tcb into the list ahead of the first entry with a
// numerically larger (lower) priority, preserving FIFO order among waiters
// that share a priority.
func (l *pendList) insertByPrio(tcb *TCB) {
	var prev *TCB
	cur := l.head
	for cur != nil && cur.prio <= tcb.prio {
		prev = cur
		cur = cur.pendNext
	}
	tcb.pendPrev = prev
	tcb.pendNext = cur
	if prev != nil {
		prev.pendNext = tcb
	} else {
		l.head = tcb
	}
	if cur != nil {
		cur.pendPrev = tcb
	}
}

// remove unlinks tcb from the list.
func (l *pendList) remove(tcb *TCB) {
	if tcb.pendPrev != nil {
		tcb.pendPrev.pendNext = tcb.pendNext
	} else if l.head == tcb {
		l.head = tcb.pendNext
	}
	if tcb.pendNext != nil {
		tcb.pendNext.pendPrev = tcb.pendPrev
	}
	tcb.pendPrev = nil
	tcb.pendNext = nil
}

// isEmpty reports whether no task is waiting.
func (l *pendList) isEmpty() bool {
	return l.head == nil
}

// highestPrio returns the head waiter, the highest-priority pending task, or
// nil if none.
func (l *pendList) highestPrio() *TCB {
	return l.head
}

// all returns every waiter currently on the list, head first. Post does not
// use it: OptPostAll is not acted on, and Post wakes only the head waiter.
func (l *pendList) all() []*TCB {
	var out []*TCB
	for cur := l.head; cur != nil; cur = cur.pendNext {
		out = append(out, cur)
	}
	return out
}
