package monitoring

import (
	"log"
	"sync/atomic"
)

type logFunc func(format string, v ...interface{})

var logger atomic.Pointer[logFunc]

func init() {
	SetLogger(log.Printf)
}

// Logf writes a diagnostic message through the current logger. It is safe to
// call concurrently with SetLogger.
func Logf(format string, v ...interface{}) {
	(*logger.Load())(format, v...)
}

// SetLogger replaces the package logger, which defaults to log.Printf.
// Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		f = func(string, ...interface{}) {}
	}
	lf := logFunc(f)
	logger.Store(&lf)
}
