package kernel

// Port is the hardware abstraction boundary: every operation that a real
// target would implement with CPU-specific assembly (stack frame layout,
// the PendSV-triggered context switch, the SysTick timer) lives behind this
// interface so the scheduler above it never depends on a specific core. The
// shape follows the Coprocessor interface in internal/mips/cop.go — defined
// at point of use in the package that consumes it, with concrete
// implementations living in their own sub-packages.
type Port interface {
	// StkInit lays out a brand-new task's initial stack frame so that the
	// first context switch into it behaves like a return from an
	// interrupt: fn is invoked with arg, and stkBase is the caller-owned
	// stack region passed to CreateTask for the task. tcb is passed only as
	// an identity key (its unexported fields are not reachable from outside
	// the kernel package) so the Port can key its own goroutine/channel
	// bookkeeping by task rather than by the opaque StackPointer it
	// returns, which the kernel stores in the TCB and never interprets.
	StkInit(tcb *TCB, fn TaskFunc, arg any, stkBase []StackWord, opt OsOpt) StackPointer

	// CtxSwitchRequest performs a task-to-task context switch: the kernel
	// has already updated tcbHighRdy and released its critical section; the
	// Port updates tcbCur by calling Kernel.CommitSwitch. This call must not
	// return to its caller (the outgoing task) until that task is next
	// scheduled to run again.
	CtxSwitchRequest()

	// IntCtxSwitchRequest performs the ISR-exit flavor of context switch:
	// called from tick-handler context, where there is no outgoing task
	// goroutine to suspend.
	IntCtxSwitchRequest()

	// StartFirstTask transfers control to the first task the scheduler
	// selects during OsStart and never returns.
	StartFirstTask()

	// TickInit arms the periodic tick source at the given rate. Real
	// hardware configures SysTick; the host port starts a ticker goroutine.
	TickInit(rateHz uint32, handler func())

	// IdleHook runs once per idle-task loop iteration. Real firmware would
	// enter a low-power sleep (WFI); the host port yields the goroutine
	// scheduler instead.
	IdleHook()
}
