// Package debug prints step-by-step traces of normalization and
// classification when HNI_DEBUG is set. Traces go to a zap logger installed
// with SetLogger; until then they are dropped.
package debug

import (
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/slhn-import/internal/config"
)

var tracer atomic.Pointer[zap.Logger]

func init() {
	tracer.Store(zap.NewNop())
}

// SetLogger installs the logger traces are written to
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	tracer.Store(l.Named("debug"))
}

// Enabled reports whether step tracing was switched on through HNI_DEBUG
func Enabled() bool {
	return config.GetEnvBool("HNI_DEBUG", false)
}

// DebugOutput prints debug output if debugging is enabled
func DebugOutput(enabled bool, format string, args ...interface{}) {
	if enabled {
		tracer.Load().Debug(fmt.Sprintf(format, args...))
	}
}

// DebugTiming measures and logs execution time if debugging is enabled
func DebugTiming(enabled bool, operation string) func() {
	if !enabled {
		return func() {}
	}

	start := time.Now()
	tracer.Load().Debug("starting", zap.String("operation", operation))

	return func() {
		tracer.Load().Debug("completed", zap.String("operation", operation), zap.Duration("took", time.Since(start)))
	}
}
