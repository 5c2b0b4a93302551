package kernel

import "fmt"

// Kernel is the complete state of one kernel instance: configuration, the
// scheduling data structures, the current/highest-ready task pointers, and
// the handful of global counters (tick, interrupt nesting, scheduler lock
// nesting) the original keeps as free-standing statics in core/kernel.rs.
// Bundled into a struct instead of package-level globals so tests can spin
// up independent kernels side by side rather than fighting over shared
// state.
type Kernel struct {
	cfg  Config
	port Port

	cs      criticalSection
	rdyList *readyLists
	wheel   *tickWheel

	tcbCur    *TCB
	tcbHighRdy *TCB

	// tasks is the registry of every created task, in creation order. Not
	// keyed by priority: spec §4.4/S6 require multiple tasks to share one
	// priority's round-robin ready list, so priority is not a usable key.
	tasks []*TCB

	tick OsTick

	intNesting      OsNestingCtr
	schedLockNesting OsNestingCtr

	running     bool
	initialized bool

	idle *TCB
}

// NewKernel constructs a kernel instance bound to the given Port, with the
// scheduling tables sized from cfg. Does not start the scheduler; call
// OsInit (which creates the idle task), then CreateTask for the
// application's tasks, followed by OsStart.
func NewKernel(cfg Config, port Port) (*Kernel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	k := &Kernel{
		cfg:     cfg,
		port:    port,
		rdyList: newReadyLists(cfg.PrioMax),
		wheel:   newTickWheel(cfg.TickWheelSize),
	}
	return k, nil
}

// IsRunning reports whether OsStart has been called.
func (k *Kernel) IsRunning() bool {
	return k.running
}

// TickGet returns the current tick count.
func (k *Kernel) TickGet() OsTick {
	return k.tick
}

// IsISRContext reports whether the calling flow is inside tick-handler (ISR)
// context, tracked by our own intNesting counter rather than an IPSR read,
// since there is no such register on this host.
func (k *Kernel) IsISRContext() bool {
	return k.intNesting > 0
}

// SchedLockNesting returns the current scheduler-lock depth.
func (k *Kernel) SchedLockNesting() OsNestingCtr {
	return k.schedLockNesting
}

// CurTask returns the task currently selected as running, or nil before
// OsStart.
func (k *Kernel) CurTask() *TCB {
	return k.tcbCur
}

// HighRdyTask returns the task the scheduler most recently selected as the
// one that should be running, which a Port implementation reads after
// CtxSwitchRequest/IntCtxSwitchRequest to know who to switch to.
func (k *Kernel) HighRdyTask() *TCB {
	return k.tcbHighRdy
}

// CommitSwitch is called by a Port implementation once it has decided to
// actually perform the handoff to tcbHighRdy, updating tcbCur to match. On
// real hardware this is the PendSV handler's final store to the "current
// task" pointer; here it is an explicit call because nothing plays that
// role automatically.
func (k *Kernel) CommitSwitch() {
	k.cs.withCritical(func() {
		k.tcbCur = k.tcbHighRdy
	})
}

// intEnter marks entry into ISR (tick-handler) context.
func (k *Kernel) intEnter() {
	k.intNesting++
}

// intExit leaves ISR context and, if this was the outermost nesting level,
// runs the scheduling decision the way os_int_exit does: pick the new
// highest-ready task and, if it differs from whichever task was running
// when the ISR fired, request the ISR-flavored context switch.
func (k *Kernel) intExit() {
	if k.intNesting == 0 {
		return
	}
	k.intNesting--
	if k.intNesting > 0 {
		return
	}
	if k.schedLockNesting > 0 {
		return
	}
	var switchNeeded bool
	k.cs.withCritical(func() {
		high := k.rdyList.highestReady()
		if high == nil {
			return
		}
		k.tcbHighRdy = high
		if k.tcbHighRdy != k.tcbCur {
			switchNeeded = true
		}
	})
	if switchNeeded {
		k.port.IntCtxSwitchRequest()
	}
}

// OsInit prepares the kernel to accept task creation: it creates the idle
// task (lowest priority, always ready, never deleted or suspended) and
// marks the kernel initialized. Call CreateTask for application tasks and then
// OsStart. Per spec §6, the only documented error is OsRunning, returned if
// the kernel is already running or OsInit was already called once.
func (k *Kernel) OsInit() error {
	if k.running || k.initialized {
		return ErrOsRunning
	}
	idlePrio := k.cfg.PrioIdle()
	stk := make([]StackWord, k.cfg.StkSizeMin)
	idle := &TCB{}
	if err := k.CreateTask(idle, "idle", idleTaskFn, k, idlePrio, stk, k.cfg.TimeQuantaDefault, OptNone); err != nil {
		return err
	}
	k.idle = idle
	k.initialized = true
	return nil
}

// idleTaskFn is the idle task's body: it never blocks and never exits, so
// there is always at least one ready task for the scheduler to select. Each
// iteration calls Port.IdleHook; the host port's hook sleeps for a
// millisecond, so the loop does not spin the host CPU. On the host port the
// idle goroutine, once first resumed, keeps looping independently of the
// resume-channel handoff, since it never calls into Schedule.
func idleTaskFn(arg any) {
	k := arg.(*Kernel)
	for {
		k.port.IdleHook()
	}
}

// OsStart selects the highest-priority ready task (normally the first
// application task created, since idle is always lowest) and transfers
// control to it via the Port. Returns ErrOsNoAppTask if no task other than
// idle has been created. On success it returns only if the Port's
// StartFirstTask returns; the host port's never does.
func (k *Kernel) OsStart() error {
	if k.running {
		return ErrOsRunning
	}
	appTasks := 0
	for _, tcb := range k.tasks {
		if tcb != k.idle {
			appTasks++
		}
	}
	if appTasks == 0 {
		return ErrOsNoAppTask
	}

	high := k.rdyList.highestReady()
	if high == nil {
		return ErrOsNoAppTask
	}
	k.tcbHighRdy = high
	k.tcbCur = high
	k.running = true

	k.port.TickInit(k.cfg.TickRateHz, k.TickHandler)
	k.port.StartFirstTask()
	return nil
}

func (k *Kernel) String() string {
	return fmt.Sprintf("kernel(prio_max=%d tick=%d running=%v)", k.cfg.PrioMax, k.tick, k.running)
}

// TaskSnapshot is a read-only view of one task's scheduling state, for
// monitoring front ends such as cmd/nanomon. It never exposes enough to let
// a caller outside the package mutate a TCB.
type TaskSnapshot struct {
	Name       string
	Prio       OsPrio
	State      string
	TickRemain OsTick
}

// Tasks returns a snapshot of every created task, ordered by priority (and,
// within a priority, creation order — several tasks may share one priority
// under round-robin).
func (k *Kernel) Tasks() []TaskSnapshot {
	var out []TaskSnapshot
	k.cs.withCritical(func() {
		for prio := 0; prio < k.cfg.PrioMax; prio++ {
			for _, tcb := range k.tasks {
				if int(tcb.prio) != prio {
					continue
				}
				out = append(out, TaskSnapshot{
					Name:       tcb.Name,
					Prio:       tcb.prio,
					State:      tcb.state.String(),
					TickRemain: tcb.tickRemain,
				})
			}
		}
	})
	return out
}
