package core

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
)

// CrashHandler is invoked with the recovered panic value and stack trace
// whenever a Go-launched goroutine panics. The default logs and exits;
// tests install a non-exiting handler to assert on recovered panics.
var CrashHandler = func(r any, stack []byte) {
	log.Printf("CRASH: %v\n%s", r, stack)
	os.Exit(1)
}

// Go runs fn in a new goroutine with panic recovery, handing any panic to
// CrashHandler. Per spec.md §5, the only threads outside the simulation
// thread are the tick timing source and the overlay worker, and neither may
// crash the process silently. The transport ports do not start their I/O
// loops through Go: TCPPort runs them in an errgroup and WSPort with plain
// goroutines.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				CrashHandler(r, debug.Stack())
			}
		}()
		fn()
	}()
}

// Recoverf runs fn and returns any recovered panic as an error instead of
// invoking CrashHandler. cmd/voidmarchd's tick loop runs each pipeline pass
// through it, so a panicking system surfaces as a logged error and the tick
// still completes instead of the process terminating.
func Recoverf(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered panic: %v", r)
		}
	}()
	fn()
	return nil
}
