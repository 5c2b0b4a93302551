// Command blink is the smallest possible demonstration of the kernel: one
// task toggling a simulated LED on a fixed delay, translated from a static
// no_std entry point into an ordinary Go main using log/flag the way
// cmd/mipsvm does.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nanokernel/internal/kernel"
	"nanokernel/internal/port/hostport"
)

func main() {
	periodTicks := flag.Uint("period", 50, "LED toggle period in ticks")
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

	var ledOn bool
	stk := make([]kernel.StackWord, cfg.StkSizeMin*4)
	err = k.CreateTask(&kernel.TCB{}, "blink", func(arg any) {
		ticks := arg.(uint)
		for {
			ledOn = !ledOn
			log.Printf("led = %v (tick %d)", ledOn, k.TickGet())
			if err := k.Delay(kernel.OsTick(ticks)); err != nil {
				log.Fatalf("delay: %v", err)
			}
		}
	}, *periodTicks, 5, stk, 0, kernel.OptNone)
	if err != nil {
		log.Fatalf("create task: %v", err)
	}

	log.Printf("starting blink at %d ticks/%v period", *periodTicks, time.Duration(*periodTicks)*time.Millisecond)

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
