package types

// Logger is the structured logger leadroute writes to.
//
// Every method takes a message plus alternating key/value pairs, the calling convention
// of slog and zap.SugaredLogger. The engine logs decisions at Info, missing candidates
// and rejected rule groups at Warn, and per-candidate detail at Debug.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)

	// Fatal logs and terminates the process. Leadroute itself never calls it; it exists
	// so application loggers can be passed in unchanged.
	Fatal(msg string, keysAndValues ...any)
}
