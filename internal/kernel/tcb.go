package kernel

// TCB is a task control block: the kernel's sole bookkeeping record for a
// task, simultaneously a node in at most one ready list, one pend list and
// one tick-wheel slot. Grounded on core/task/tcb.rs's OsTcb, with the
// pointer-heavy C-ABI fields (stk_ptr, pend_obj_ptr as *const (), msg_ptr)
// dropped or replaced by typed Go equivalents; event-flag and message-queue
// fields are omitted since those subsystems are out of scope here.
//
// Callers outside the kernel package allocate a TCB value and pass a pointer
// to CreateTask, which fills it in; of its fields only Name is visible to
// them.
type TCB struct {
	// Name is the task's human-readable identifier, used in logging and the
	// monitor UI. Not used by the scheduler itself.
	Name string

	fn  TaskFunc
	arg any

	// stkPtr is the Port-opaque value Port.StkInit produced; the kernel only
	// stores it and never interprets it.
	stkPtr  StackPointer
	stkSize int

	// Ready-list links (readyLists), valid only while task_state == Ready.
	rdyPrev *TCB
	rdyNext *TCB

	// Pend-list links (pendList), valid only while task_state is one of the
	// Pend* states.
	pendPrev   *TCB
	pendNext   *TCB
	pendOnKind pendOn
	pendObj    any
	pendStat   pendStatus

	// Tick-wheel links (tickWheel), valid only while the task has a live
	// delay or pend timeout running.
	tickPrev   *TCB
	tickNext   *TCB
	tickRemain OsTick
	tickSlot   uint32

	prio     OsPrio
	basePrio OsPrio

	state taskState
	opt   OsOpt

	suspendCtr OsNestingCtr

	timeQuanta    OsTick
	timeQuantaCtr OsTick

	// resumeCh is not used: the host port keeps its own per-task resume
	// channels keyed by *TCB, since it cannot reach unexported fields. It
	// is always nil.
	resumeCh chan struct{}
}

func (t *TCB) isReady() bool {
	return t.state == stateReady
}

func (t *TCB) isPending() bool {
	switch t.state {
	case statePend, statePendTimeout, statePendSuspended, statePendTimeoutSuspended:
		return true
	default:
		return false
	}
}

func (t *TCB) isSuspended() bool {
	switch t.state {
	case stateSuspended, stateDelayedSuspended, statePendSuspended, statePendTimeoutSuspended:
		return true
	default:
		return false
	}
}

func (t *TCB) isDelayed() bool {
	switch t.state {
	case stateDelayed, stateDelayedSuspended:
		return true
	default:
		return false
	}
}
