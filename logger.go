package ethermac

//
// Logging
//

// Logger is the logger used by the MAC core. The interface matches
// github.com/apex/log's Interface so that a *log.Logger (or the package
// level log.Log) can be passed in directly without an adapter.
type Logger interface {
	// Debug emits a debug message.
	Debug(message string)

	// Debugf formats and emits a debug message.
	Debugf(format string, v ...any)

	// Info emits an informational message.
	Info(message string)

	// Infof formats and emits an informational message.
	Infof(format string, v ...any)

	// Warn emits a warning message.
	Warn(message string)

	// Warnf formats and emits a warning message.
	Warnf(format string, v ...any)
}
