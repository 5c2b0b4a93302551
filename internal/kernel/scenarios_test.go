package kernel

import "testing"

// TestProducerConsumerScenario exercises a semaphore as a handoff signal
// between a producer and a consumer task, the same shape cmd/producerconsumer
// builds against the real host port.
func TestProducerConsumerScenario(t *testing.T) {
	k, _ := newTestKernel(t)

	produced := 0
	consumed := 0
	sem := k.NewSemaphore(0)

	producer := &TCB{}
	if err := k.CreateTask(producer, "producer", func(any) {
		produced++
		sem.Post(OptNone)
	}, nil, 4, mkStack(k), 0, OptNone); err != nil {
		t.Fatal(err)
	}
	consumer := &TCB{}
	if err := k.CreateTask(consumer, "consumer", func(any) {
		if _, err := sem.Pend(0, OptPendNonBlocking); err == nil {
			consumed++
		}
	}, nil, 5, mkStack(k), 0, OptNone); err != nil {
		t.Fatal(err)
	}
	if err := k.OsStart(); err != nil {
		t.Fatal(err)
	}
	if k.CurTask() != producer {
		t.Fatalf("CurTask = %v, want producer (numerically smaller priority)", k.CurTask())
	}

	producer.fn(nil)
	if sem.Count() != 1 {
		t.Fatalf("count = %d, want 1 after the producer posts", sem.Count())
	}

	consumer.fn(nil)
	if consumed != 1 {
		t.Fatalf("consumed = %d, want 1", consumed)
	}
	if sem.Count() != 0 {
		t.Fatalf("count = %d, want 0 after the consumer pends", sem.Count())
	}
}

// TestPriorityInversionScenario mirrors cmd/priorityinversion: a low-priority
// task holds a mutex, a high-priority task blocks on it and boosts the
// owner's priority, and release hands ownership straight to the waiter.
func TestPriorityInversionScenario(t *testing.T) {
	k, _ := newTestKernel(t)

	low := &TCB{}
	if err := k.CreateTask(low, "low", func(any) {}, nil, 6, mkStack(k), 0, OptNone); err != nil {
		t.Fatal(err)
	}
	if err := k.CreateTask(&TCB{}, "mid", func(any) {}, nil, 4, mkStack(k), 0, OptNone); err != nil {
		t.Fatal(err)
	}
	if err := k.OsStart(); err != nil {
		t.Fatal(err)
	}

	mtx := k.NewMutex()

	// mid starts out selected (numerically smaller prio than low).
	if k.CurTask().Name != "mid" {
		t.Fatalf("CurTask = %v, want mid", k.CurTask())
	}

	// Walk low back to the front by suspending mid so low can take the
	// mutex, matching the scenario's setup ordering without needing real
	// concurrency to interleave the two tasks.
	mid := k.CurTask()
	if err := k.SuspendTask(mid); err != nil {
		t.Fatal(err)
	}
	if k.CurTask() != low {
		t.Fatalf("CurTask = %v, want low once mid is suspended", k.CurTask())
	}
	if err := mtx.Pend(0, OptNone); err != nil {
		t.Fatal(err)
	}

	high := &TCB{}
	if err := k.CreateTask(high, "high", func(any) {}, nil, 1, mkStack(k), 0, OptNone); err != nil {
		t.Fatal(err)
	}
	if err := mtx.Pend(0, OptNone); err != nil {
		t.Fatal(err)
	}
	if low.prio != high.prio {
		t.Fatalf("low.prio = %d, want boosted to high's %d", low.prio, high.prio)
	}

	if err := mtx.Post(OptNone); err != nil {
		t.Fatal(err)
	}
	if mtx.owner != high {
		t.Fatalf("owner = %v, want high", mtx.owner)
	}
	if low.prio != low.basePrio {
		t.Fatalf("low.prio = %d, want restored to basePrio %d", low.prio, low.basePrio)
	}
}

// TestTickWrapAroundScenario exercises spec §8 scenario S3: a task delayed
// across the tick counter's wrap from 0xFFFFFFFF back to 0 must still wake
// after exactly its requested number of ticks, not early and not late.
func TestTickWrapAroundScenario(t *testing.T) {
	k, _ := newTestKernel(t)
	a := &TCB{}
	if err := k.CreateTask(a, "a", func(any) {}, nil, 5, mkStack(k), 0, OptNone); err != nil {
		t.Fatal(err)
	}
	if err := k.OsStart(); err != nil {
		t.Fatal(err)
	}

	k.tick = 0xFFFF_FFFE
	if err := k.Delay(5); err != nil {
		t.Fatalf("Delay: %v", err)
	}
	if !a.isDelayed() {
		t.Fatalf("state = %v, want Delayed", a.state)
	}

	for i := 0; i < 4; i++ {
		k.TickHandler()
		if !a.isDelayed() {
			t.Fatalf("a woke early after %d ticks (tick now %d)", i+1, k.tick)
		}
	}

	k.TickHandler()
	if !a.isReady() {
		t.Fatalf("state = %v, want Ready after the 5th tick past wrap", a.state)
	}
	if k.tick != 3 {
		t.Fatalf("tick = %d, want 3 (wrapped 0xFFFFFFFE + 5)", k.tick)
	}
}
