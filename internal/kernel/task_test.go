package kernel

import "testing"

func TestCreateTaskBeforeRunningJoinsReadyList(t *testing.T) {
	k, _ := newTestKernel(t)

	tcb := &TCB{}
	if err := k.CreateTask(tcb, "a", func(any) {}, nil, 3, mkStack(k), 0, OptNone); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if !tcb.isReady() {
		t.Fatalf("state = %v, want Ready", tcb.state)
	}
	if k.rdyList.highestReady() != tcb {
		t.Fatal("new task should be the highest-ready task (only one above idle)")
	}
}

func TestCreateTaskAllowsSharedPriority(t *testing.T) {
	k, _ := newTestKernel(t)
	a, b := &TCB{}, &TCB{}
	if err := k.CreateTask(a, "a", func(any) {}, nil, 3, mkStack(k), 0, OptNone); err != nil {
		t.Fatalf("first CreateTask: %v", err)
	}
	if err := k.CreateTask(b, "b", func(any) {}, nil, 3, mkStack(k), 0, OptNone); err != nil {
		t.Fatalf("second CreateTask at the same priority: %v", err)
	}
	if k.rdyList.heads[3] != a || k.rdyList.heads[3].rdyNext != b {
		t.Fatal("both tasks should share priority 3's ready list, a then b")
	}
}

func TestCreateTaskRejectsBadStackAndPrio(t *testing.T) {
	k, _ := newTestKernel(t)
	if err := k.CreateTask(&TCB{}, "a", func(any) {}, nil, 3, make([]StackWord, 1), 0, OptNone); err != ErrStkSizeInvalid {
		t.Fatalf("err = %v, want ErrStkSizeInvalid", err)
	}
	if err := k.CreateTask(&TCB{}, "a", func(any) {}, nil, OsPrio(k.cfg.PrioMax), mkStack(k), 0, OptNone); err != ErrPrioInvalid {
		t.Fatalf("err = %v, want ErrPrioInvalid", err)
	}
}

func TestCreateTaskRejectsNilTcb(t *testing.T) {
	k, _ := newTestKernel(t)
	if err := k.CreateTask(nil, "a", func(any) {}, nil, 3, mkStack(k), 0, OptNone); err != ErrTcbInvalid {
		t.Fatalf("err = %v, want ErrTcbInvalid", err)
	}
}

func startedKernel(t *testing.T) (*Kernel, *recordingPort, *TCB) {
	k, port := newTestKernel(t)
	tcb := &TCB{}
	if err := k.CreateTask(tcb, "a", func(any) {}, nil, 3, mkStack(k), 0, OptNone); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := k.OsStart(); err != nil {
		t.Fatalf("OsStart: %v", err)
	}
	if !port.started {
		t.Fatal("port.StartFirstTask should have been called")
	}
	if k.CurTask() != tcb {
		t.Fatalf("CurTask = %v, want a", k.CurTask())
	}
	return k, port, tcb
}

func TestSuspendResumeCycle(t *testing.T) {
	k, port, tcb := startedKernel(t)

	if err := k.SuspendTask(tcb); err != nil {
		t.Fatalf("SuspendTask: %v", err)
	}
	if !tcb.isSuspended() {
		t.Fatalf("state = %v, want Suspended", tcb.state)
	}
	// Suspending the current task should have switched to idle.
	if k.CurTask() == tcb {
		t.Fatal("current task should have changed away from the suspended task")
	}
	if len(port.switches) == 0 {
		t.Fatal("expected a recorded context switch")
	}

	if err := k.ResumeTask(tcb); err != nil {
		t.Fatalf("ResumeTask: %v", err)
	}
	if !tcb.isReady() {
		t.Fatalf("state = %v, want Ready", tcb.state)
	}
}

func TestSuspendIdleRejected(t *testing.T) {
	k, _, _ := startedKernel(t)
	if err := k.SuspendTask(k.idle); err != ErrTaskSuspendIdle {
		t.Fatalf("err = %v, want ErrTaskSuspendIdle", err)
	}
}

func TestResumeWithoutSuspendRejected(t *testing.T) {
	k, _, tcb := startedKernel(t)
	if err := k.ResumeTask(tcb); err != ErrTaskNotSuspended {
		t.Fatalf("err = %v, want ErrTaskNotSuspended", err)
	}
}

func TestNestedSuspendRequiresMatchingResumes(t *testing.T) {
	k, _, tcb := startedKernel(t)

	if err := k.SuspendTask(tcb); err != nil {
		t.Fatal(err)
	}
	if err := k.SuspendTask(tcb); err != nil {
		t.Fatal(err)
	}
	if err := k.ResumeTask(tcb); err != nil {
		t.Fatal(err)
	}
	if !tcb.isSuspended() {
		t.Fatal("task should still be suspended after only one of two resumes")
	}
	if err := k.ResumeTask(tcb); err != nil {
		t.Fatal(err)
	}
	if !tcb.isReady() {
		t.Fatal("task should be ready after the matching second resume")
	}
}

func TestDeleteTaskCannotDeleteIdle(t *testing.T) {
	k, _, _ := startedKernel(t)
	if err := k.DeleteTask(k.idle); err != ErrTaskDelIdle {
		t.Fatalf("err = %v, want ErrTaskDelIdle", err)
	}
}

func TestDeleteCurrentTaskSwitchesToIdle(t *testing.T) {
	k, _, tcb := startedKernel(t)
	if err := k.DeleteTask(tcb); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if k.CurTask() != k.idle {
		t.Fatalf("CurTask = %v, want idle", k.CurTask())
	}
}
