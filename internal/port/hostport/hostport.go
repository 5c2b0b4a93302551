// Package hostport implements kernel.Port for a regular Go process: every
// task is a goroutine parked on its own resume channel, and a context
// switch is a synchronous handoff through that channel rather than a
// hardware PendSV trap, following the same interface-at-point-of-use pattern
// as internal/mips.Coprocessor and the goroutine/channel CPU-loop style of
// cmd/mipsvm/main.go.
package hostport

import (
	"log"
	"sync"
	"time"

	"nanokernel/internal/kernel"
)

// HostPort is a kernel.Port backed by goroutines. Zero value is not usable;
// construct with New and bind it to a kernel with Bind before calling
// kernel.NewKernel's Port argument's methods (the two are necessarily
// circular: the kernel needs a Port at construction and the Port needs the
// kernel to read tcbCur/tcbHighRdy, so construction is two-phase).
type HostPort struct {
	k *kernel.Kernel

	mu    sync.Mutex
	chans map[*kernel.TCB]chan struct{}
	seq   int

	tickStop chan struct{}

	// Verbose, when set, logs every context switch and tick; off by
	// default since the scenario binaries print their own narration.
	Verbose bool
}

// New constructs an unbound HostPort. Call Bind with the kernel it drives
// before starting it.
func New() *HostPort {
	return &HostPort{chans: make(map[*kernel.TCB]chan struct{})}
}

// Bind completes the two-phase construction described on HostPort.
func (p *HostPort) Bind(k *kernel.Kernel) {
	p.k = k
}

func (p *HostPort) resumeChanFor(tcb *kernel.TCB) chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch, ok := p.chans[tcb]
	if !ok {
		ch = make(chan struct{}, 1)
		p.chans[tcb] = ch
	}
	return ch
}

// StkInit spawns the task's goroutine immediately, parked on its resume
// channel until it is first scheduled. stkBase/opt are accepted to satisfy
// kernel.Port but otherwise unused: a goroutine's stack is managed by the Go
// runtime, not laid out by hand the way a real port's assembly would.
func (p *HostPort) StkInit(tcb *kernel.TCB, fn kernel.TaskFunc, arg any, stkBase []kernel.StackWord, opt kernel.OsOpt) kernel.StackPointer {
	ch := p.resumeChanFor(tcb)

	p.mu.Lock()
	p.seq++
	id := p.seq
	p.mu.Unlock()

	go func() {
		<-ch
		fn(arg)
		// TaskFunc is documented never to return; a task that does is
		// trapped here rather than letting its goroutine fall off the end
		// and vanish silently.
		log.Printf("hostport: task %q returned from its entry function; parking forever", tcb.Name)
		select {}
	}()

	return id
}

// StartFirstTask signals the kernel's selected first task to begin running
// and then blocks forever: like a real port's equivalent, this call never
// returns.
func (p *HostPort) StartFirstTask() {
	first := p.k.HighRdyTask()
	p.signal(first)
	select {}
}

// CtxSwitchRequest performs a task-context switch: called by the outgoing
// task's own goroutine (from inside Schedule), it hands off to the incoming
// task and blocks until this task is resumed again.
func (p *HostPort) CtxSwitchRequest() {
	out := p.k.CurTask()
	in := p.k.HighRdyTask()
	if out == in {
		return
	}
	p.k.CommitSwitch()
	if p.Verbose {
		log.Printf("hostport: switch %q -> %q", nameOf(out), nameOf(in))
	}
	p.signal(in)
	<-p.resumeChanFor(out)
}

// IntCtxSwitchRequest performs the ISR-flavored switch: called from tick-
// handler context by a goroutine that is not itself a task, it signals the
// incoming task but cannot and does not block anything, since there is no
// outgoing task goroutine representing this call's caller. If the task
// being switched away from is still physically executing (it was not
// blocked on a kernel call when its time quanta expired), its goroutine
// keeps running concurrently until it next calls into the kernel — a
// documented approximation forced by the lack of true preemption of a
// running goroutine in Go; see DESIGN.md's discussion of this boundary.
func (p *HostPort) IntCtxSwitchRequest() {
	out := p.k.CurTask()
	in := p.k.HighRdyTask()
	if out == in {
		return
	}
	p.k.CommitSwitch()
	if p.Verbose {
		log.Printf("hostport: int-switch %q -> %q", nameOf(out), nameOf(in))
	}
	p.signal(in)
}

// TickInit starts a goroutine ticking at rateHz, calling handler on every
// tick, until Stop is called.
func (p *HostPort) TickInit(rateHz uint32, handler func()) {
	p.tickStop = make(chan struct{})
	period := time.Second / time.Duration(rateHz)
	go func() {
		t := time.NewTicker(period)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				handler()
			case <-p.tickStop:
				return
			}
		}
	}()
}

// Stop halts the tick source. Intended for tests and the monitor binary's
// clean shutdown path; a real target never calls its SysTick equivalent off.
func (p *HostPort) Stop() {
	if p.tickStop != nil {
		close(p.tickStop)
	}
}

// IdleHook yields the host scheduler rather than spinning a hot loop, since
// there is no WFI instruction to execute here.
func (p *HostPort) IdleHook() {
	time.Sleep(time.Millisecond)
}

func (p *HostPort) signal(tcb *kernel.TCB) {
	select {
	case p.resumeChanFor(tcb) <- struct{}{}:
	default:
		// Already signalled and not yet consumed: the incoming task is
		// already due to run, nothing more to do.
	}
}

func nameOf(tcb *kernel.TCB) string {
	if tcb == nil {
		return "<nil>"
	}
	return tcb.Name
}
