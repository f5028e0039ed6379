// Package log provides the small leveled logger used across circuiteval,
// gated by two independent verbosity switches rather than a level enum.
package log

import (
	"fmt"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	debugOn bool
	traceOn bool
)

// DebugOn reports whether debug-level logging is enabled.
func DebugOn() bool {
	mu.Lock()
	defer mu.Unlock()
	return debugOn
}

// TraceOn reports whether trace-level logging is enabled.
func TraceOn() bool {
	mu.Lock()
	defer mu.Unlock()
	return traceOn
}

// SetDebug toggles debug-level logging.
func SetDebug(on bool) {
	mu.Lock()
	defer mu.Unlock()
	debugOn = on
}

// SetTrace toggles trace-level logging. Trace implies debug.
func SetTrace(on bool) {
	mu.Lock()
	defer mu.Unlock()
	traceOn = on
	if on {
		debugOn = true
	}
}

// DEBUG writes a message to stderr when debug logging is enabled.
func DEBUG(format string, args ...interface{}) {
	if !DebugOn() {
		return
	}
	PrintfStdErr("DEBUG> "+format+"\n", args...)
}

// TRACE writes a message to stderr when trace logging is enabled.
func TRACE(format string, args ...interface{}) {
	if !TraceOn() {
		return
	}
	PrintfStdErr("TRACE> "+format+"\n", args...)
}

// PrintfStdErr writes directly to stderr, independent of the level switches.
func PrintfStdErr(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}
