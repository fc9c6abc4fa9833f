// Package logger prints prefixed, colored log lines for the maze services.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/beka-birhanu/vinom-maze/config"
)

// Logger writes lines of the form "[PREFIX] [LEVEL] message".
type Logger struct {
	prefix string
	color  string
	out    *log.Logger
}

// New creates a logger writing to w. color is applied to the prefix.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if prefix == "" {
		return nil, errors.New("logger prefix is required")
	}
	if w == nil {
		return nil, errors.New("logger writer is required")
	}
	return &Logger{
		prefix: prefix,
		color:  color,
		out:    log.New(w, "", log.LstdFlags),
	}, nil
}

// Discard returns a logger that drops everything, for tests and tools.
func Discard() *Logger {
	l, _ := New("DISCARD", "", io.Discard)
	return l
}

func (l *Logger) Info(msg string) {
	l.print(config.LogInfoColor, "INFO", msg)
}

func (l *Logger) Warning(msg string) {
	l.print(config.LogWarningColor, "WARNING", msg)
}

func (l *Logger) Error(msg string) {
	l.print(config.LogErrorColor, "ERROR", msg)
}

func (l *Logger) print(levelColor, level, msg string) {
	l.out.Print(fmt.Sprintf("%s[%s]%s %s[%s]%s %s",
		l.color, l.prefix, config.LogColorReset,
		levelColor, level, config.LogColorReset,
		msg))
}
