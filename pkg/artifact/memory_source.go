package artifact

import (
	"bytes"
	"io"
	"iter"
	"sync"
)

// MemorySource implements Source over an in-memory map of resource paths to
// content.  It is safe for concurrent use.
type MemorySource struct {
	name string

	mu      sync.RWMutex
	content map[string][]byte
}

// NewMemorySource constructs a new empty MemorySource with the given name.
func NewMemorySource(name string) *MemorySource {
	return &MemorySource{
		name:    name,
		content: make(map[string][]byte),
	}
}

// String implements fmt.Stringer
func (s *MemorySource) String() string {
	return "mem:" + s.name
}

// PutClass adds content for the given class name.
func (s *MemorySource) PutClass(className string, data []byte) *MemorySource {
	return s.PutResource(ClassFile(className), data)
}

// PutResource adds content for the given resource name, replacing any
// previous value.
func (s *MemorySource) PutResource(name string, data []byte) *MemorySource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content[name] = data
	return s
}

// FindArtifact implements part of the Source interface.
func (s *MemorySource) FindArtifact(name string) (*Artifact, error) {
	a, err := s.FindResource(ClassFile(name))
	if err != nil {
		return nil, err
	}
	a.Name = name
	return a, nil
}

// FindResource implements part of the Source interface.
func (s *MemorySource) FindResource(name string) (*Artifact, error) {
	s.mu.RLock()
	data, ok := s.content[name]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(name, s)
	}
	return New(name, s.String()+"!/"+name, s.String(), func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}), nil
}

// FindResources implements part of the Source interface.
func (s *MemorySource) FindResources(name string) (iter.Seq[*Artifact], error) {
	return func(yield func(*Artifact) bool) {
		if a, err := s.FindResource(name); err == nil {
			yield(a)
		}
	}, nil
}
