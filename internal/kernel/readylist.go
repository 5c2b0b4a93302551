package kernel

// readyLists holds one intrusive doubly-linked FIFO per priority level plus
// the bitmap that tracks which of those lists is non-empty. Grounded on
// core/sched/rdy_list.rs's RdyList, translated from Rust's Option<NonNull<Tcb>>
// links to plain *TCB prev/next pointer pairs on the TCB itself rather than
// a container/list.
//
// All methods assume the caller already holds the kernel's critical section.
type readyLists struct {
	heads []*TCB
	tails []*TCB
	bmp   *prioTable
}

func newReadyLists(prios int) *readyLists {
	return &readyLists{
		heads: make([]*TCB, prios),
		tails: make([]*TCB, prios),
		bmp:   newPrioTable(prios),
	}
}

// insert appends tcb to the tail of its priority's list (FIFO order among
// equal-priority ready tasks) and marks the priority ready in the bitmap.
func (r *readyLists) insert(tcb *TCB) {
	p := tcb.prio
	tcb.rdyPrev = r.tails[p]
	tcb.rdyNext = nil
	if r.tails[p] != nil {
		r.tails[p].rdyNext = tcb
	} else {
		r.heads[p] = tcb
	}
	r.tails[p] = tcb
	r.bmp.insert(p)
}

// insertHead inserts tcb at the head of its priority's list (LIFO insertion)
// and marks the priority ready in the bitmap. No kernel path calls it at
// present: readiness always uses insert, and round-robin rotation uses
// moveToTail.
func (r *readyLists) insertHead(tcb *TCB) {
	p := tcb.prio
	tcb.rdyNext = r.heads[p]
	tcb.rdyPrev = nil
	if r.heads[p] != nil {
		r.heads[p].rdyPrev = tcb
	} else {
		r.tails[p] = tcb
	}
	r.heads[p] = tcb
	r.bmp.insert(p)
}

// remove unlinks tcb from its priority's list, clearing the bitmap bit if
// that was the list's last member. tcb must currently be linked into the
// list for tcb.prio: a tcb with nil links is taken to be that list's only
// member, so removing one that is not linked empties the list.
func (r *readyLists) remove(tcb *TCB) {
	p := tcb.prio
	if tcb.rdyPrev != nil {
		tcb.rdyPrev.rdyNext = tcb.rdyNext
	} else {
		r.heads[p] = tcb.rdyNext
	}
	if tcb.rdyNext != nil {
		tcb.rdyNext.rdyPrev = tcb.rdyPrev
	} else {
		r.tails[p] = tcb.rdyPrev
	}
	tcb.rdyPrev = nil
	tcb.rdyNext = nil
	if r.heads[p] == nil {
		r.bmp.remove(p)
	}
}

// highestReady returns the head TCB of the highest-priority non-empty list,
// or nil if every list is empty.
func (r *readyLists) highestReady() *TCB {
	p, ok := r.bmp.highest()
	if !ok {
		return nil
	}
	return r.heads[p]
}

// moveToTail cycles tcb, already at the head of its own priority list, to
// the tail: the round-robin mechanism in §4.2.
func (r *readyLists) moveToTail(tcb *TCB) {
	r.remove(tcb)
	r.insert(tcb)
}

// changePrio moves a ready tcb from its current priority list to newPrio's,
// used by mutex priority inheritance (§4.7) when a ready owner is boosted or
// restored. No-op if tcb is already at newPrio.
func (r *readyLists) changePrio(tcb *TCB, newPrio OsPrio) {
	if tcb.prio == newPrio {
		return
	}
	r.remove(tcb)
	tcb.prio = newPrio
	r.insert(tcb)
}
