package monitoring

import "log"

// Logf is the package-level diagnostic logger used by dataset extraction.
// It defaults to log.Printf but may be replaced by SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Errorf logs through Logf with an [ERROR] prefix.
func Errorf(format string, v ...interface{}) {
	Logf("[ERROR] "+format, v...)
}

// Warnf logs through Logf with a [WARN] prefix.
func Warnf(format string, v ...interface{}) {
	Logf("[WARN] "+format, v...)
}
