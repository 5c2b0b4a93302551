package kernel

/*
Reminder (priority bitmap bit layout, matching the original ucosiii scheme):

	Bit p of the bitmap lives at word p/32, bit position 31-(p%32), so the
	numerically smallest priority with a ready task is the most-significant
	set bit of the lowest non-zero word. A count-leading-zeros on that word
	gives the priority directly.
*/

// OsPrio is a task priority. 0 is highest; PrioMax-1 is the idle task.
type OsPrio = uint8

// OsTick is a tick counter or tick delta. Wraps modulo 2^32.
type OsTick = uint32

// OsSemCtr is a semaphore count.
type OsSemCtr = uint32

// OsNestingCtr is a saturating nesting counter (suspend depth, mutex nesting).
type OsNestingCtr = uint8

// OsOpt is the 16-bit option-flag word accepted by most kernel calls.
type OsOpt = uint16

// StackWord is one element of a task's stack array.
type StackWord = uint32

// StackPointer is the opaque value a Port hands back from StkInit and that
// the kernel stores in the TCB as tcb.stkPtr. Its internal meaning belongs
// entirely to the Port implementation.
type StackPointer = int

// TaskFunc is a task's entry point. It never returns in well-formed task
// code; if it does, the Port traps it (the host port logs the return and
// parks the task's goroutine forever) without taking the rest of the system
// down.
type TaskFunc func(arg any)

// Option flags, §6. Stable 16-bit encoding.
const (
	OptNone            OsOpt = 0x0000
	OptDelAlways       OsOpt = 0x0001
	OptPendNonBlocking OsOpt = 0x8000
	OptPostFIFO        OsOpt = 0x0000
	OptPostLIFO        OsOpt = 0x0010
	OptPostAll         OsOpt = 0x0200
	OptPostNoSched     OsOpt = 0x8000
	OptTaskStkChk      OsOpt = 0x0001
	OptTaskStkClr      OsOpt = 0x0002
	OptTaskSaveFP      OsOpt = 0x0004
)

// taskState is the lifecycle state machine from spec §4.5.
type taskState uint8

const (
	stateReady taskState = iota
	stateDelayed
	statePend
	statePendTimeout
	stateSuspended
	stateDelayedSuspended
	statePendSuspended
	statePendTimeoutSuspended
)

func (s taskState) String() string {
	switch s {
	case stateReady:
		return "Ready"
	case stateDelayed:
		return "Delayed"
	case statePend:
		return "Pend"
	case statePendTimeout:
		return "PendTimeout"
	case stateSuspended:
		return "Suspended"
	case stateDelayedSuspended:
		return "DelayedSuspended"
	case statePendSuspended:
		return "PendSuspended"
	case statePendTimeoutSuspended:
		return "PendTimeoutSuspended"
	default:
		return "Unknown"
	}
}

// pendOn identifies the kind of object a task is blocked on.
type pendOn uint8

const (
	pendOnNothing pendOn = iota
	pendOnSemaphore
	pendOnMutex
)

// pendStatus is written by whatever wakes a pending task, and translated by
// the pend call on return.
type pendStatus uint8

const (
	pendStatusOk pendStatus = iota
	pendStatusAbort
	pendStatusDel
	pendStatusTimeout
)

// objType is a plain sanity-check tag, never a dynamic dispatch mechanism
// (spec §9: "no dynamic dispatch... used only for sanity checks").
type objType uint8

const (
	objTypeNone objType = iota
	objTypeSem
	objTypeMutex
)
