package core

// Logger is implemented by the app's logging services.
// Implementations accept extra args of any type and may give special
// treatment to known ones (e.g. a logged in user).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
