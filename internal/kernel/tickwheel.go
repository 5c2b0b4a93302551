package kernel

// tickWheel is a hashed timing wheel: TickWheelSize doubly-linked slots,
// indexed by (expiry tick) mod size. A task whose delay runs past one full
// rotation stays in its slot and carries the remaining ticks in
// TCB.tickRemain, decremented by the wheel size every time its slot is
// revisited, until tickRemain is small enough that this rotation is the due
// one. Grounded on core/time/mod.rs's process_delayed_tasks and tick_remain
// field (core/task/tcb.rs); the original's per-slot linkage function bodies
// were not present in the retrieval pack, so the slot walk below is our own
// rendering of the documented slot/tickRemain algorithm as a Go doubly
// linked list over TCB.tickPrev/tickNext, matching the intrusive-pointer
// idiom readyLists uses.
//
// All methods assume the caller already holds the kernel's critical section.
type tickWheel struct {
	slots []*TCB
	size  uint32
}

func newTickWheel(size int) *tickWheel {
	return &tickWheel{
		slots: make([]*TCB, size),
		size:  uint32(size),
	}
}

// insert places tcb into the wheel to fire at currentTick+ticks. ticks must
// be > 0.
func (w *tickWheel) insert(tcb *TCB, currentTick OsTick, ticks OsTick) {
	expiry := currentTick + ticks
	slot := expiry % w.size
	tcb.tickRemain = ticks
	tcb.tickSlot = slot
	tcb.tickNext = w.slots[slot]
	tcb.tickPrev = nil
	if w.slots[slot] != nil {
		w.slots[slot].tickPrev = tcb
	}
	w.slots[slot] = tcb
}

// remove unlinks tcb from whichever slot it currently occupies. No-op if
// tcb is not linked into the wheel.
func (w *tickWheel) remove(tcb *TCB) {
	if tcb.tickPrev == nil && w.slots[tcb.tickSlot] != tcb {
		return
	}
	if tcb.tickPrev != nil {
		tcb.tickPrev.tickNext = tcb.tickNext
	} else {
		w.slots[tcb.tickSlot] = tcb.tickNext
	}
	if tcb.tickNext != nil {
		tcb.tickNext.tickPrev = tcb.tickPrev
	}
	tcb.tickPrev = nil
	tcb.tickNext = nil
	tcb.tickRemain = 0
}

// dueAt returns every TCB in currentTick's slot whose delay expires this
// rotation (tickRemain <= wheel size), and decrements the rest by the wheel
// size in place. Grounded directly on process_delayed_tasks's <=
// CFG_TICK_WHEEL_SIZE comparison.
func (w *tickWheel) dueAt(currentTick OsTick) []*TCB {
	slot := currentTick % w.size
	var due []*TCB
	cur := w.slots[slot]
	for cur != nil {
		next := cur.tickNext
		if cur.tickRemain <= w.size {
			w.remove(cur)
			due = append(due, cur)
		} else {
			cur.tickRemain -= w.size
		}
		cur = next
	}
	return due
}
