package artifact

import (
	"archive/zip"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// JarSource implements Source over a jar (or zip) file.  The file is opened
// and indexed on first use and kept open until Close.  A source that is
// closed before first use is never opened.
type JarSource struct {
	jarFile string

	once    sync.Once
	reader  *zip.ReadCloser
	entries map[string]*zip.File
	openErr error

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewJarSource constructs a new JarSource for the given file.
func NewJarSource(jarFile string) *JarSource {
	return &JarSource{jarFile: jarFile}
}

// String implements fmt.Stringer
func (s *JarSource) String() string {
	return s.jarFile
}

func (s *JarSource) open() error {
	s.once.Do(func() {
		r, err := zip.OpenReader(s.jarFile)
		if err != nil {
			s.openErr = fmt.Errorf("open jar %s: %w", s.jarFile, err)
			return
		}
		s.reader = r
		s.entries = make(map[string]*zip.File, len(r.File))
		for _, f := range r.File {
			if strings.HasSuffix(f.Name, "/") {
				continue
			}
			// first entry wins on duplicates, like the JDK
			if _, ok := s.entries[f.Name]; !ok {
				s.entries[f.Name] = f
			}
		}
	})
	if s.closed.Load() {
		return fmt.Errorf("jar %s: %w", s.jarFile, os.ErrClosed)
	}
	return s.openErr
}

// Names returns the sorted entry names of the jar.
func (s *JarSource) Names() ([]string, error) {
	if err := s.open(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// FindArtifact implements part of the Source interface.
func (s *JarSource) FindArtifact(name string) (*Artifact, error) {
	a, err := s.FindResource(ClassFile(name))
	if err != nil {
		return nil, err
	}
	a.Name = name
	return a, nil
}

// FindResource implements part of the Source interface.
func (s *JarSource) FindResource(name string) (*Artifact, error) {
	if err := s.open(); err != nil {
		return nil, err
	}
	f, ok := s.entries[name]
	if !ok {
		return nil, notFound(name, s)
	}
	location := "jar:file:" + filepath.ToSlash(s.jarFile) + "!/" + f.Name
	return New(name, location, s.String(), func() (io.ReadCloser, error) {
		return f.Open()
	}), nil
}

// FindResources implements part of the Source interface.
func (s *JarSource) FindResources(name string) (iter.Seq[*Artifact], error) {
	if err := s.open(); err != nil {
		return nil, err
	}
	return func(yield func(*Artifact) bool) {
		if a, err := s.FindResource(name); err == nil {
			yield(a)
		}
	}, nil
}

// Close releases the underlying file, if it was opened.  It is safe to call
// more than once and concurrently with lookups.  Lookups that start after
// Close fail with os.ErrClosed.
func (s *JarSource) Close() error {
	s.closed.Store(true)
	// a jar that was never opened stays that way
	s.once.Do(func() {})
	s.closeOnce.Do(func() {
		if s.reader != nil {
			s.closeErr = s.reader.Close()
		}
	})
	return s.closeErr
}
