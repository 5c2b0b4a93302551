// Command priorityinversion demonstrates mutex priority inheritance: Low
// (prio 15) holds a mutex that High (prio 5) then blocks on; Low should be
// boosted to prio 5 for the duration so Medium (prio 10), CPU-bound, cannot
// starve High indirectly. Grounded on
// original_source/examples/priority_inversion.rs.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"nanokernel/internal/kernel"
	"nanokernel/internal/port/hostport"
)

func main() {
	verbose := flag.Bool("v", false, "log every context switch")
	flag.Parse()

	cfg := kernel.DefaultConfig()

	port := hostport.New()
	port.Verbose = *verbose
	k, err := kernel.NewKernel(cfg, port)
	if err != nil {
		log.Fatalf("kernel init: %v", err)
	}
	port.Bind(k)

	if err := k.OsInit(); err != nil {
		log.Fatalf("os init: %v", err)
	}

	mtx := k.NewMutex()

	var highRuns, lowRuns atomic.Uint32

	lowStk := make([]kernel.StackWord, cfg.StkSizeMin*4)
	err = k.CreateTask(&kernel.TCB{}, "L", func(any) {
		for {
			n := lowRuns.Add(1)
			if err := mtx.Pend(0, kernel.OptNone); err != nil {
				log.Printf("low pend: %v", err)
				continue
			}
			log.Printf("[LOW] holding #%d", n)
			busySpin(100_000)
			_ = mtx.Post(kernel.OptNone)
			_ = k.Delay(200)
		}
	}, nil, 15, lowStk, 0, kernel.OptNone)
	if err != nil {
		log.Fatalf("create L: %v", err)
	}

	medStk := make([]kernel.StackWord, cfg.StkSizeMin*4)
	err = k.CreateTask(&kernel.TCB{}, "M", func(any) {
		for {
			busySpin(50_000)
			_ = k.Delay(10)
		}
	}, nil, 10, medStk, 0, kernel.OptNone)
	if err != nil {
		log.Fatalf("create M: %v", err)
	}

	highStk := make([]kernel.StackWord, cfg.StkSizeMin*4)
	err = k.CreateTask(&kernel.TCB{}, "H", func(any) {
		_ = k.Delay(50)
		for {
			n := highRuns.Add(1)
			if err := mtx.Pend(0, kernel.OptNone); err != nil {
				log.Printf("high pend: %v", err)
				continue
			}
			log.Printf("[HIGH] acquired #%d", n)
			busySpin(1_000)
			_ = mtx.Post(kernel.OptNone)
			_ = k.Delay(100)
		}
	}, nil, 5, highStk, 0, kernel.OptNone)
	if err != nil {
		log.Fatalf("create H: %v", err)
	}

	log.Print("priority inversion demo: H(5) M(10) L(15)")

	done := make(chan struct{})
	go func() {
		if err := k.OsStart(); err != nil {
			log.Fatalf("os start: %v", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Print("signal received, stopping tick source")
		port.Stop()
	case <-done:
	}
}

// busySpin stands in for the original's cortex_m::asm::nop() loop: there is
// no meaningful "do nothing, slowly" instruction on the host, so this just
// burns iterations of an empty loop.
func busySpin(n int) {
	for i := 0; i < n; i++ {
	}
}
