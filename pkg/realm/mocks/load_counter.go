package mocks

import (
	"sync"
	"testing"
	"time"

	mock "github.com/stretchr/testify/mock"

	artifact "github.com/stackb/classworlds/pkg/artifact"
)

// LoadCounter is a Source that resolves every class name it is asked for,
// slowly, while recording how many lookups of each name were in flight at
// once.
type LoadCounter struct {
	Source *Source

	mu       sync.Mutex
	inFlight map[string]int
	maxSeen  map[string]int
	calls    map[string]int
}

// NewLoadCounter creates a LoadCounter whose lookups each take delay.
func NewLoadCounter(t *testing.T, name string, delay time.Duration) *LoadCounter {
	c := &LoadCounter{
		Source:   NewSource(t, name),
		inFlight: make(map[string]int),
		maxSeen:  make(map[string]int),
		calls:    make(map[string]int),
	}

	c.Source.
		On("FindArtifact", mock.Anything).
		Maybe().
		Return(func(className string) (*artifact.Artifact, error) {
			c.begin(className)
			defer c.end(className)
			time.Sleep(delay)
			return artifact.New(className, name+"!/"+artifact.ClassFile(className), name, nil), nil
		})

	return c
}

func (c *LoadCounter) begin(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[name]++
	c.inFlight[name]++
	if c.inFlight[name] > c.maxSeen[name] {
		c.maxSeen[name] = c.inFlight[name]
	}
}

func (c *LoadCounter) end(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight[name]--
}

// Calls returns the number of lookups of name.
func (c *LoadCounter) Calls(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}

// MaxInFlight returns the largest number of concurrent lookups of name.
func (c *LoadCounter) MaxInFlight(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxSeen[name]
}
