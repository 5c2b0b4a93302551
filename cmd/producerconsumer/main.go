// Command producerconsumer demonstrates the counting semaphore: a producer
// task posts once per delay period, a consumer task blocks on Pend and
// wakes each time. Grounded on
// original_source/examples/producer_consumer.rs.
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

	sem := k.NewSemaphore(0)

	var produced, consumed atomic.Uint32

	prodStk := make([]kernel.StackWord, cfg.StkSizeMin*4)
	err = k.CreateTask(&kernel.TCB{}, "producer", func(any) {
		for {
			n := produced.Add(1)
			if _, err := sem.Post(kernel.OptNone); err != nil {
				log.Printf("producer post: %v", err)
			}
			log.Printf("[P] produced #%d", n)
			_ = k.Delay(200)
		}
	}, nil, 15, prodStk, 0, kernel.OptNone)
	if err != nil {
		log.Fatalf("create producer: %v", err)
	}

	consStk := make([]kernel.StackWord, cfg.StkSizeMin*4)
	err = k.CreateTask(&kernel.TCB{}, "consumer", func(any) {
		for {
			if _, err := sem.Pend(0, kernel.OptNone); err != nil {
				log.Printf("consumer pend: %v", err)
				continue
			}
			n := consumed.Add(1)
			log.Printf("[C] consumed #%d", n)
		}
	}, nil, 10, consStk, 0, kernel.OptNone)
	if err != nil {
		log.Fatalf("create consumer: %v", err)
	}

	log.Print("starting producer-consumer demo")

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
