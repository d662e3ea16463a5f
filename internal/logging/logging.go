// Package logging holds the process-wide logger of the library. It is
// disabled until a caller installs one.
package logging

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var current atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	current.Store(&nop)
}

// L returns the installed logger.
func L() *zerolog.Logger {
	return current.Load()
}

// Set installs l for every package of the module.
func Set(l zerolog.Logger) {
	current.Store(&l)
}

// Console builds a human readable logger writing to w.
func Console(w io.Writer, level zerolog.Level) zerolog.Logger {
	consoleWriter := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	consoleWriter.FormatLevel = func(i interface{}) string {
		switch i {
		case "info":
			return "\033[32m[INFO]\033[0m"
		case "error":
			return "\033[31m[ERROR]\033[0m"
		case "debug":
			return "\033[36m[DEBUG]\033[0m"
		case "warn":
			return "\033[33m[WARN]\033[0m"
		default:
			return fmt.Sprintf("[%s]", i)
		}
	}
	consoleWriter.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("\033[1m%s:\033[0m", i)
	}

	return zerolog.New(consoleWriter).
		Level(level).
		With().
		Timestamp().
		Logger()
}
