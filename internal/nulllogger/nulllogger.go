// Package nulllogger provides a no-op ethermac.Logger for tests.
package nulllogger

// NullLogger is an ethermac.Logger that discards everything.
type NullLogger struct{}

// Debug implements ethermac.Logger.
func (*NullLogger) Debug(message string) {
	// nothing
}

// Debugf implements ethermac.Logger.
func (*NullLogger) Debugf(format string, v ...any) {
	// nothing
}

// Info implements ethermac.Logger.
func (*NullLogger) Info(message string) {
	// nothing
}

// Infof implements ethermac.Logger.
func (*NullLogger) Infof(format string, v ...any) {
	// nothing
}

// Warn implements ethermac.Logger.
func (*NullLogger) Warn(message string) {
	// nothing
}

// Warnf implements ethermac.Logger.
func (*NullLogger) Warnf(format string, v ...any) {
	// nothing
}
