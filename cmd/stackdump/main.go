// Package main implements stackdump, a small demonstration CLI for the
// threadstack library.
//
// Usage:
//
//	stackdump            # start a pinned worker, dump its stack once
//	stackdump -watch     # dump it repeatedly until interrupted
//
// This exists to exercise the collector end to end against a real, pinned
// OS thread rather than leaving that as untested library code: it starts
// a worker goroutine, pins it with runtime.LockOSThread, runs Participate
// on it, and then uses stacktrace.GetThreadStack from the main goroutine
// to collect and print that worker's stack.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/kolkov/threadstack/internal/trace/procfs"
	"github.com/kolkov/threadstack/stacktrace"
	"github.com/sirupsen/logrus"
)

type noopSymbolizer struct{}

func (noopSymbolizer) Symbolize(pc uintptr) (string, bool) {
	return fmt.Sprintf("pc=%#x", pc), true
}

func main() {
	watch := flag.Bool("watch", false, "dump the worker's stack once a second until interrupted")
	signum := flag.Int("signal", 0, "override the realtime signal number used (0 = library default)")
	flag.Parse()

	log := logrus.New()
	stacktrace.SetLogger(log)

	if *signum != 0 {
		if err := stacktrace.SetStackTraceSignal(*signum); err != nil {
			fmt.Fprintf(os.Stderr, "stackdump: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan int32, 1)
	go worker(ctx, ready)
	tid := <-ready

	dump := func() {
		stack, err := stacktrace.GetThreadStack(tid, time.Now().Add(time.Second))
		if err != nil {
			fmt.Fprintf(os.Stderr, "stackdump: %v\n", err)
			return
		}
		fmt.Print(stack.Symbolize(noopSymbolizer{}))
	}

	if !*watch {
		dump()
		return
	}
	for {
		dump()
		time.Sleep(time.Second)
	}
}

// worker pins itself to an OS thread, announces its tid, then runs
// Participate on that same thread for as long as ctx is live, while a
// helper goroutine ticks in the background until ctx is canceled.
func worker(ctx context.Context, ready chan<- int32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ready <- procfs.CurrentTID()

	done := make(chan struct{})
	go func() {
		spin(ctx)
		close(done)
	}()

	_ = stacktrace.Participate(ctx)
	<-done
}

func spin(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
}
