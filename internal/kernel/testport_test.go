package kernel

// recordingPort is a deterministic, non-blocking Port test double: it never
// spawns goroutines and every switch call returns immediately after
// recording what happened, so tests can drive the kernel from a single
// goroutine and assert on the resulting scheduling decisions directly.
type recordingPort struct {
	k *Kernel

	switches    []string
	intSwitches []string
	started     bool
	tickRateHz  uint32
	tickHandler func()
	idleHooks   int
	stkInits    int
}

func newRecordingPort() *recordingPort {
	return &recordingPort{}
}

func (p *recordingPort) bind(k *Kernel) { p.k = k }

func (p *recordingPort) StkInit(tcb *TCB, fn TaskFunc, arg any, stkBase []StackWord, opt OsOpt) StackPointer {
	p.stkInits++
	return p.stkInits
}

func (p *recordingPort) CtxSwitchRequest() {
	out, in := p.k.CurTask(), p.k.HighRdyTask()
	if out == in {
		return
	}
	p.switches = append(p.switches, label(out)+"->"+label(in))
	p.k.CommitSwitch()
}

func (p *recordingPort) IntCtxSwitchRequest() {
	out, in := p.k.CurTask(), p.k.HighRdyTask()
	if out == in {
		return
	}
	p.intSwitches = append(p.intSwitches, label(out)+"->"+label(in))
	p.k.CommitSwitch()
}

func (p *recordingPort) StartFirstTask() {
	p.started = true
}

func (p *recordingPort) TickInit(rateHz uint32, handler func()) {
	p.tickRateHz = rateHz
	p.tickHandler = handler
}

func (p *recordingPort) IdleHook() {
	p.idleHooks++
}

func label(tcb *TCB) string {
	if tcb == nil {
		return "<nil>"
	}
	return tcb.Name
}

// newTestKernel builds a kernel wired to a recordingPort, small enough
// (8 priorities) to keep tests readable, and returns both so a test can
// inspect switch history.
func newTestKernel(t interface{ Fatalf(string, ...any) }) (*Kernel, *recordingPort) {
	cfg := DefaultConfig()
	cfg.PrioMax = 8
	cfg.TickWheelSize = 8
	port := newRecordingPort()
	k, err := NewKernel(cfg, port)
	if err != nil {
		t.Fatalf("NewKernel: %v", err)
	}
	port.bind(k)
	if err := k.OsInit(); err != nil {
		t.Fatalf("OsInit: %v", err)
	}
	return k, port
}

func mkStack(k *Kernel) []StackWord {
	return make([]StackWord, k.cfg.StkSizeMin)
}
