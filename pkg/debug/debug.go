// Package debug provides conditional debug logging for trendradar.
//
// Debug logging is enabled by setting the RADAR_DEBUG environment variable:
//
//	RADAR_DEBUG=1 trendradar render -o radar.svg
//
// When enabled, messages are written to stderr as structured zap records.
// When disabled (default), every function here is a no-op.
//
// Usage:
//
//	import "github.com/vanderheijden86/trendradar/pkg/debug"
//
//	func myFunc() {
//	    debug.Log("processing %d items", count)
//	    // ...
//	    debug.LogTiming("myFunc", elapsed)
//	}
package debug

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names so log lines stay greppable across packages.
const (
	FieldComponent  = "component"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
	FieldPath       = "path"
	FieldID         = "id"
)

var (
	mu      sync.RWMutex
	enabled bool
	logger  = zap.NewNop().Sugar()
)

func init() {
	if os.Getenv("RADAR_DEBUG") != "" {
		SetEnabled(true)
	}
}

func newLogger() *zap.SugaredLogger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000")
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		zapcore.DebugLevel,
	)
	return zap.New(core).Named("RADAR_DEBUG").Sugar()
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = e
	if e {
		logger = newLogger()
	} else {
		_ = logger.Sync()
		logger = zap.NewNop().Sugar()
	}
}

// SetLogger replaces the backing logger. Tests use this with zaptest/observer.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	enabled = l != nil
	if l == nil {
		logger = zap.NewNop().Sugar()
		return
	}
	logger = l.Sugar()
}

func current() (*zap.SugaredLogger, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return logger, enabled
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	l, on := current()
	if !on {
		return
	}
	l.Debugf(format, args...)
}

// Logw writes a structured debug message with key/value pairs.
func Logw(msg string, keysAndValues ...any) {
	l, on := current()
	if !on {
		return
	}
	l.Debugw(msg, keysAndValues...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	l, on := current()
	if !on {
		return
	}
	l.Debugw(name+" done", FieldDurationMS, float64(d.Microseconds())/1000.0)
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !cond {
		return
	}
	Log(format, args...)
}

// LogEnterExit logs function entry and exit with timing.
//
//	func myFunc() {
//	    defer debug.LogEnterExit("myFunc")()
//	}
func LogEnterExit(name string) func() {
	l, on := current()
	if !on {
		return func() {}
	}
	l.Debugf("-> %s", name)
	start := time.Now()
	return func() {
		l.Debugw("<- "+name, FieldDurationMS, float64(time.Since(start).Microseconds())/1000.0)
	}
}

// Trace is an alias for LogEnterExit.
var Trace = LogEnterExit

// Dump logs a value with its type for debugging complex structures.
func Dump(name string, v any) {
	l, on := current()
	if !on {
		return
	}
	l.Debugf("%s: %T = %+v", name, v, v)
}

// Section logs a section header for visual organization in debug output.
func Section(name string) {
	Log("=== %s ===", name)
}

// Assert panics if the condition is false. Only active when debug is enabled.
func Assert(cond bool, msg string) {
	l, on := current()
	if !on || cond {
		return
	}
	l.Errorf("ASSERTION FAILED: %s", msg)
	panic(fmt.Sprintf("debug assertion failed: %s", msg))
}
