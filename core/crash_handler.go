package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
)

var (
	crashMu   sync.RWMutex
	crashHook func(r any)
)

// SetCrashHook installs a cleanup callback run before the crash report (terminal restore, flush)
// Keeps core independent of the viewer package
func SetCrashHook(fn func(r any)) {
	crashMu.Lock()
	crashHook = fn
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler that runs the hook and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.RLock()
	hook := crashHook
	crashMu.RUnlock()
	if hook != nil {
		hook(r)
	}

	os.Stdout.Sync()
	fmt.Fprintf(os.Stderr, "\r\nCRASH DETECTED: %v\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()

	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword so a crash in the clock or server loop
// still restores the terminal.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
