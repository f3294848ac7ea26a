package monitoring

import "log"

// Logf is the process-wide printf-style logger used by the CLI and the
// catalog. It defaults to log.Printf; UseZap routes it through zap.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
