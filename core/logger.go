package core

// Logger is any leveled logger the app can report through.
// args may carry context values alongside the message: errors,
// map[string]interface{} data or the acting user.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
