// Package debug provides conditional debug logging for soroban.
//
// Debug logging is enabled by setting the SOROBAN_DEBUG environment variable:
//
//	SOROBAN_DEBUG=1 soroban --robot-replay moves.yaml
//
// When enabled, debug messages are written to stderr with timestamps. The
// TUI moves them to debug.log in the state directory.
// When disabled (default), all debug functions are no-ops.
//
// Usage:
//
//	import "github.com/vanderheijden86/soroban/pkg/debug"
//
//	func export() {
//	    defer debug.LogEnterExit("export")()
//	    debug.Log("writing %s", path)
//	}
package debug

import (
	"io"
	"log"
	"os"
	"sync"
	"time"
)

const prefix = "[SOROBAN_DEBUG] "

var (
	mu      sync.RWMutex
	enabled bool
	logger  *log.Logger
)

func init() {
	if os.Getenv("SOROBAN_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, prefix, log.Ltime|log.Lmicroseconds)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetOutput redirects debug output. The TUI points it at a file in the
// state directory so log lines never land on the alt screen. It also
// enables logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
	logger = log.New(w, prefix, log.Ltime|log.Lmicroseconds)
}

func current() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !enabled {
		return nil
	}
	return logger
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if l := current(); l != nil {
		l.Printf(format, args...)
	}
}

// LogEnterExit logs function entry and exit with timing.
//
//	func myFunc() {
//	    defer debug.LogEnterExit("myFunc")()
//	}
func LogEnterExit(name string) func() {
	l := current()
	if l == nil {
		return func() {}
	}
	l.Printf("-> %s", name)
	start := time.Now()
	return func() {
		l.Printf("<- %s (%v)", name, time.Since(start))
	}
}
