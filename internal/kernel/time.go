package kernel

import "fmt"

// Delay blocks the calling task for ticks system ticks. Grounded on
// core/time/mod.rs's os_time_dly: the task is pulled off the ready list and
// threaded into the tick wheel under the critical section, then Schedule is
// called once the section is released.
func (k *Kernel) Delay(ticks OsTick) error {
	if !k.running {
		return ErrOsNotRunning
	}
	if k.IsISRContext() {
		return ErrTimeDlyIsr
	}
	if k.schedLockNesting > 0 {
		return ErrSchedLocked
	}
	if ticks == 0 {
		return nil
	}

	k.cs.withCritical(func() {
		cur := k.tcbCur
		if cur == nil {
			return
		}
		cur.state = stateDelayed
		k.wheel.insert(cur, k.tick, ticks)
		k.rdyList.remove(cur)
	})
	k.Schedule()
	return nil
}

// DelayHMSM delays the calling task for a duration expressed in hours,
// minutes, seconds and milliseconds, converted to ticks at the kernel's
// configured tick rate. Grounded on os_time_dly_hmsm.
func (k *Kernel) DelayHMSM(hours uint16, minutes, seconds uint8, milliseconds uint16) error {
	if minutes > 59 || seconds > 59 || milliseconds > 999 {
		return &ConfigError{Field: "DelayHMSM", Reason: "field out of range"}
	}
	totalMs := uint64(hours)*3600_000 + uint64(minutes)*60_000 + uint64(seconds)*1000 + uint64(milliseconds)
	ticks := OsTick((totalMs * uint64(k.cfg.TickRateHz)) / 1000)
	return k.Delay(ticks)
}

// DelayResume wakes tcb before its delay naturally expires. Grounded on
// os_time_dly_resume.
func (k *Kernel) DelayResume(tcb *TCB) error {
	if !k.running {
		return ErrOsNotRunning
	}
	if k.IsISRContext() {
		return ErrTimeDlyIsr
	}
	if tcb == nil || !tcb.isDelayed() {
		return ErrTaskNotDly
	}

	var reschedule bool
	k.cs.withCritical(func() {
		k.wheel.remove(tcb)
		switch tcb.state {
		case stateDelayed:
			tcb.state = stateReady
			k.rdyList.insert(tcb)
			reschedule = true
		case stateDelayedSuspended:
			tcb.state = stateSuspended
		}
	})
	if reschedule {
		k.Schedule()
	}
	return nil
}

// TickHandler advances the kernel's tick count by one and processes every
// task whose delay or pend timeout expires this tick, then runs round-robin
// time slicing. Intended to be called once per tick from the Port's tick
// source (see Port.TickInit), never directly by application code.
// Grounded on os_tick_handler/process_delayed_tasks.
func (k *Kernel) TickHandler() {
	if !k.running {
		return
	}

	k.intEnter()
	k.tick++

	k.cs.withCritical(func() {
		for _, tcb := range k.wheel.dueAt(k.tick) {
			switch tcb.state {
			case stateDelayed:
				tcb.state = stateReady
				k.rdyList.insert(tcb)
			case stateDelayedSuspended:
				tcb.state = stateSuspended
			case statePendTimeout:
				tcb.state = stateReady
				tcb.pendStat = pendStatusTimeout
				k.cutFromPendObj(tcb)
				k.rdyList.insert(tcb)
			case statePendTimeoutSuspended:
				tcb.state = stateSuspended
				tcb.pendStat = pendStatusTimeout
				k.cutFromPendObj(tcb)
			}
		}
	})
	k.schedRoundRobin()
	k.intExit()
}

func (k *Kernel) debugString() string {
	return fmt.Sprintf("tick=%d cur=%v highRdy=%v", k.tick, k.tcbCur, k.tcbHighRdy)
}
