package obslog

import (
	"io"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Level selects the minimum severity a Logger emits, named after the
// engine's own vocabulary rather than logiface's full syslog level set,
// since nothing here ever needs Emerg/Alert/Crit.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelErr
)

func (l Level) logifaceLevel() logiface.Level {
	switch l {
	case LevelDebug:
		return logiface.LevelDebug
	case LevelWarn:
		return logiface.LevelWarning
	case LevelErr:
		return logiface.LevelError
	default:
		return logiface.LevelInformational
	}
}

// Logger is the handle every subsystem logs through. It embeds the
// logiface logger so callers can use the package's usual
// logger.Info().Str("key", v).Log("message") chain directly.
type Logger struct {
	*logiface.Logger[*stumpy.Event]
}

// New builds a Logger writing newline-delimited JSON to w at the given
// minimum level. A nil w defaults to os.Stderr.
func New(level Level, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	factory := stumpy.L
	l := factory.New(
		factory.WithStumpy(stumpy.WithWriter(w)),
		factory.WithLevel(level.logifaceLevel()),
	)
	return &Logger{Logger: l}
}

// Discard returns a Logger that drops everything, used by tests and by
// any CLI subcommand invoked with logging disabled.
func Discard() *Logger {
	return New(LevelErr+1, io.Discard)
}
