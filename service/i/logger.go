package i

// Logger is the leveled logger components write through.
type Logger interface {
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}
