package logger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w at the given level ("debug",
// "info", "warn", ...).  An empty level means "info".
func New(w io.Writer, level string) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level = strings.TrimSpace(level); level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// NewJSON returns a JSON logger writing to w at the given level.
func NewJSON(w io.Writer, level string) (zerolog.Logger, error) {
	l, err := New(w, level)
	if err != nil {
		return l, err
	}
	return zerolog.New(w).Level(l.GetLevel()).With().Timestamp().Logger(), nil
}
