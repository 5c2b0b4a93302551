// Command nanomon is an interactive terminal dashboard for a running
// kernel instance: it prints each task's priority, state and tick-wheel
// remaining time once a second, and reads single keystrokes in raw mode to
// let the operator pause/resume the round-robin scheduler or quit cleanly.
// Uses golang.org/x/term and github.com/eiannone/keyboard for raw-terminal
// input, plus a direct use of golang.org/x/sys/unix for the window-size
// ioctl.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/eiannone/keyboard"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"nanokernel/internal/kernel"
	"nanokernel/internal/port/hostport"
)

func main() {
	verbose := flag.Bool("v", false, "log every context switch to stderr")
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
	sem := k.NewSemaphore(0)

	var workerRuns atomic.Uint32
	workerStk := make([]kernel.StackWord, cfg.StkSizeMin*4)
	worker := &kernel.TCB{}
	if err := k.CreateTask(worker, "worker", func(any) {
		for {
			_ = mtx.Pend(0, kernel.OptNone)
			workerRuns.Add(1)
			_ = mtx.Post(kernel.OptNone)
			_, _ = sem.Post(kernel.OptNone)
			_ = k.Delay(50)
		}
	}, nil, 10, workerStk, 0, kernel.OptNone); err != nil {
		log.Fatalf("create worker: %v", err)
	}

	watcherStk := make([]kernel.StackWord, cfg.StkSizeMin*4)
	if err := k.CreateTask(&kernel.TCB{}, "watcher", func(any) {
		for {
			_, _ = sem.Pend(0, kernel.OptNone)
		}
	}, nil, 20, watcherStk, 0, kernel.OptNone); err != nil {
		log.Fatalf("create watcher: %v", err)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		log.Print("stdin is not a terminal, running headless: press Ctrl+C to stop")
		runHeadless(k, port, worker, &workerRuns)
		return
	}

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		log.Fatalf("terminal raw mode: %v", err)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	width, height := 80, 24
	if ws, err := unix.IoctlGetWinsize(int(os.Stdin.Fd()), unix.TIOCGWINSZ); err == nil {
		width, height = int(ws.Col), int(ws.Row)
	}

	quit := make(chan struct{})
	go func() {
		for {
			r, key, err := keyboard.GetSingleKey()
			if err != nil {
				log.Print("nanomon: could not read a key from the terminal")
				return
			}
			if key == keyboard.KeyCtrlC {
				close(quit)
				return
			}
			switch r {
			case 'p':
				_ = k.SchedLock()
			case 'r':
				_ = k.SchedUnlock()
			case 'q':
				close(quit)
				return
			}
		}
	}()

	// OsStart never returns on success (it hands the calling flow to the
	// first task's goroutine and blocks there forever), so it runs on its
	// own goroutine and this one keeps driving the dashboard, the same
	// split cmd/mipsvm/main.go uses between its CPU-run goroutine and its
	// signal-handling main goroutine.
	go func() {
		if err := k.OsStart(); err != nil {
			log.Fatalf("os start: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			render(width, height, k, workerRuns.Load())
		case <-quit:
			port.Stop()
			return
		case <-sigCh:
			port.Stop()
			return
		}
	}
}

func render(width, height int, k *kernel.Kernel, runs uint32) {
	fmt.Print("\033[H\033[2J")
	fmt.Printf("nanomon  tick=%-10d worker_runs=%-8d\r\n", k.TickGet(), runs)
	fmt.Print(dashes(width))
	fmt.Print("PRIO  NAME            STATE              TICK_REMAIN\r\n")
	rows := height - 6
	if rows < 1 {
		rows = 1
	}
	for i, ts := range k.Tasks() {
		if i >= rows {
			fmt.Printf("... %d more\r\n", len(k.Tasks())-rows)
			break
		}
		fmt.Printf("%-4d  %-14s  %-17s  %d\r\n", ts.Prio, ts.Name, ts.State, ts.TickRemain)
	}
	fmt.Print(dashes(width))
	fmt.Print("p: pause scheduling   r: resume   q: quit\r\n")
}

func dashes(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b) + "\r\n"
}

func runHeadless(k *kernel.Kernel, port *hostport.HostPort, worker *kernel.TCB, runs *atomic.Uint32) {
	_ = worker
	done := make(chan struct{})
	go func() {
		if err := k.OsStart(); err != nil {
			log.Fatalf("os start: %v", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			log.Printf("tick=%d worker_runs=%d", k.TickGet(), runs.Load())
		case <-sigCh:
			log.Print("signal received, stopping tick source")
			port.Stop()
			return
		case <-done:
			return
		}
	}
}
