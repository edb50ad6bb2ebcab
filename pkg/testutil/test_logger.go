package testutil

import (
	"testing"

	"github.com/rs/zerolog"
)

// NewTestLogger returns a logger that forwards each event to t.Log, so
// output is attached to the test that produced it.
func NewTestLogger(t *testing.T) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}
