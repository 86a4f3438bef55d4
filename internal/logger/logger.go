// Package logger is the leveled stderr logger used by the gitaguide
// commands. Debug, Info and Section output only appears with --verbose;
// warnings are always shown.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	out     io.Writer = os.Stderr
)

// SetVerbose turns verbose output on or off.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects all log output. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

func write(gated bool, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if gated && !verbose {
		return
	}
	fmt.Fprintf(out, prefix+format+"\n", args...)
}

// Debug prints a message in verbose mode.
func Debug(format string, args ...any) {
	write(true, "[DEBUG] ", format, args...)
}

// Info prints a message in verbose mode.
func Info(format string, args ...any) {
	write(true, "[INFO] ", format, args...)
}

// Warn prints a message regardless of verbosity.
func Warn(format string, args ...any) {
	write(false, "[WARN] ", format, args...)
}

// Section prints a header separating pipeline stages in verbose mode.
func Section(name string) {
	write(true, "\n=== ", "%s ===", name)
}

// Elapsed logs how long a stage took. Use as
// defer logger.Elapsed("embedding", time.Now()).
func Elapsed(stage string, start time.Time) {
	write(true, "[DEBUG] ", "%s took %s", stage, time.Since(start).Round(time.Millisecond))
}
