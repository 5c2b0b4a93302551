package kernel

// Grounded on core/task/mod.rs's os_task_create_raw/os_task_del/
// os_task_suspend/os_task_resume. The Rust original runs its reschedule call
// (crate::sched::os_sched()) from inside the same critical_section closure
// that mutated state; our Schedule() must not be called while the section
// is held (it calls into Port, which would deadlock against the host port's
// goroutine baton — see Schedule in scheduler.go), so every function below
// closes its withCritical block first and calls Schedule() as a separate,
// unprotected step afterward. This is the one structural deviation from the
// original's shape, required by the host simulation.

// CreateTask initializes tcb (caller-owned, process-lifetime storage per
// spec.md §3 — the kernel never allocates a TCB itself) to run fn(arg) at
// prio, backed by stkBase (caller-owned, at least cfg.StkSizeMin words).
// Multiple tasks may share the same prio: the ready list at that priority is
// a FIFO and round-robin (§4.4) cycles among them, so rejecting a second
// task at an already-used priority would make that mechanism unreachable
// through this API. If the kernel is already running, the new task enters
// the ready list immediately and may preempt the caller.
func (k *Kernel) CreateTask(tcb *TCB, name string, fn TaskFunc, arg any, prio OsPrio, stkBase []StackWord, timeQuanta OsTick, opt OsOpt) error {
	if tcb == nil {
		return ErrTcbInvalid
	}
	if int(prio) >= k.cfg.PrioMax {
		return ErrPrioInvalid
	}
	if len(stkBase) < k.cfg.StkSizeMin {
		return ErrStkSizeInvalid
	}
	if k.IsISRContext() {
		return ErrTaskCreateIsr
	}
	if timeQuanta == 0 {
		timeQuanta = k.cfg.TimeQuantaDefault
	}

	tcb.Name = name
	tcb.fn = fn
	tcb.arg = arg
	tcb.prio = prio
	tcb.basePrio = prio
	tcb.state = stateReady
	tcb.opt = opt
	tcb.timeQuanta = timeQuanta
	tcb.timeQuantaCtr = timeQuanta
	tcb.stkSize = len(stkBase)
	tcb.stkPtr = k.port.StkInit(tcb, fn, arg, stkBase, opt)

	var run bool
	k.cs.withCritical(func() {
		k.tasks = append(k.tasks, tcb)
		k.rdyList.insert(tcb)
		run = k.running
	})
	if run {
		k.Schedule()
	}
	return nil
}

// DeleteTask removes tcb (or the calling task if tcb is nil) from
// scheduling. A deleted task's TCB is left Suspended rather than reclaimed;
// the idle task may never be deleted.
func (k *Kernel) DeleteTask(tcb *TCB) error {
	if !k.running {
		return ErrOsNotRunning
	}
	if k.IsISRContext() {
		return ErrTaskDelIsr
	}

	var reschedule bool
	var outErr error
	k.cs.withCritical(func() {
		target := tcb
		if target == nil {
			target = k.tcbCur
		}
		if target == nil {
			outErr = ErrTcbInvalid
			return
		}
		if target == k.idle {
			outErr = ErrTaskDelIdle
			return
		}

		if target.isReady() {
			k.rdyList.remove(target)
		} else if target.isDelayed() || target.state == statePendTimeout || target.state == statePendTimeoutSuspended {
			k.wheel.remove(target)
		}
		if target.isPending() {
			if p, ok := target.pendObj.(pendable); ok {
				p.removeWaiter(target)
			}
			target.pendObj = nil
			target.pendOnKind = pendOnNothing
		}
		target.state = stateSuspended
		for i, t := range k.tasks {
			if t == target {
				k.tasks = append(k.tasks[:i], k.tasks[i+1:]...)
				break
			}
		}

		reschedule = target == k.tcbCur
	})
	if outErr != nil {
		return outErr
	}
	if reschedule {
		k.Schedule()
	}
	return nil
}

// SuspendTask suspends tcb (or the calling task if nil), stacking on top of
// any pre-existing block/delay state. Each suspend must be matched by a
// ResumeTask before the task becomes schedulable again.
func (k *Kernel) SuspendTask(tcb *TCB) error {
	if !k.running {
		return ErrOsNotRunning
	}
	if k.IsISRContext() {
		return ErrTaskSuspendIsr
	}

	var reschedule bool
	var outErr error
	k.cs.withCritical(func() {
		target := tcb
		if target == nil {
			target = k.tcbCur
		}
		if target == nil {
			outErr = ErrTcbInvalid
			return
		}
		if target == k.idle {
			outErr = ErrTaskSuspendIdle
			return
		}

		if target.suspendCtr < 255 {
			target.suspendCtr++
		}

		switch target.state {
		case stateReady:
			target.state = stateSuspended
			k.rdyList.remove(target)
		case stateDelayed:
			target.state = stateDelayedSuspended
		case statePend:
			target.state = statePendSuspended
		case statePendTimeout:
			target.state = statePendTimeoutSuspended
		}

		reschedule = target == k.tcbCur
	})
	if outErr != nil {
		return outErr
	}
	if reschedule {
		k.Schedule()
	}
	return nil
}

// ResumeTask decrements tcb's suspend counter and, once it reaches zero,
// restores whatever state the task was in before it was suspended.
func (k *Kernel) ResumeTask(tcb *TCB) error {
	if !k.running {
		return ErrOsNotRunning
	}
	if k.IsISRContext() {
		return ErrTaskResumeIsr
	}
	if tcb == nil {
		return ErrTcbInvalid
	}

	var reschedule bool
	var outErr error
	k.cs.withCritical(func() {
		if tcb.suspendCtr == 0 {
			outErr = ErrTaskNotSuspended
			return
		}
		tcb.suspendCtr--
		if tcb.suspendCtr != 0 {
			return
		}

		switch tcb.state {
		case stateSuspended:
			tcb.state = stateReady
			k.rdyList.insert(tcb)
		case stateDelayedSuspended:
			tcb.state = stateDelayed
		case statePendSuspended:
			tcb.state = statePend
		case statePendTimeoutSuspended:
			tcb.state = statePendTimeout
		}
		reschedule = true
	})
	if outErr != nil {
		return outErr
	}
	if reschedule {
		k.Schedule()
	}
	return nil
}
