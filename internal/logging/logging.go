package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

const defaultLogFile = "modbar.log"

var (
	mu           sync.Mutex
	traceEnabled bool
	logPath      = defaultLogFile
	override     io.Writer
)

// Error writes errors to the shared log file. The bar owns the terminal, so
// nothing is ever written to stdout while it runs.
func Error(err error, keyvals ...interface{}) {
	if err == nil {
		return
	}
	write(func(w io.Writer) {
		newLogger(w, charmlog.TextFormatter).Error(err.Error(), keyvals...)
	})
}

// Warn records a non-fatal condition such as a dropped message.
func Warn(msg string, keyvals ...interface{}) {
	write(func(w io.Writer) {
		newLogger(w, charmlog.TextFormatter).Warn(msg, keyvals...)
	})
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	mu.Lock()
	traceEnabled = enabled
	mu.Unlock()
}

// TraceEnabled reports whether Trace currently emits entries.
func TraceEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return traceEnabled
}

// Trace appends a structured JSON entry to the shared log when tracing is enabled.
func Trace(event string, payload interface{}) {
	if !TraceEnabled() {
		return
	}
	write(func(w io.Writer) {
		logger := newLogger(w, charmlog.JSONFormatter)
		if payload == nil {
			logger.Debug(event)
			return
		}
		logger.Debug(event, "payload", payload)
	})
}

// Configure sets the log destination. Empty values fall back to the default
// path. Directories are created automatically when missing.
func Configure(path string) {
	mu.Lock()
	defer mu.Unlock()
	if strings.TrimSpace(path) == "" {
		logPath = defaultLogFile
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "unable to create log directory: %v\n", err)
		logPath = defaultLogFile
		return
	}
	logPath = path
}

// SetOutput redirects every entry to w instead of the log file. Passing nil
// restores file output.
func SetOutput(w io.Writer) {
	mu.Lock()
	override = w
	mu.Unlock()
}

func newLogger(w io.Writer, formatter charmlog.Formatter) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.DebugLevel,
		ReportTimestamp: true,
		Prefix:          "modbar",
		Formatter:       formatter,
	})
}

func write(fn func(io.Writer)) {
	mu.Lock()
	defer mu.Unlock()
	if override != nil {
		fn(override)
		return
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging failed: %v\n", err)
		return
	}
	defer f.Close()
	fn(f)
}
