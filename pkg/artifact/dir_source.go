package artifact

import (
	"io"
	"iter"
	"os"
	"path/filepath"
)

// DirSource implements Source over a directory tree of class files and
// resources.
type DirSource struct {
	directory string
}

// NewDirSource constructs a new DirSource rooted at the given directory.
func NewDirSource(directory string) *DirSource {
	return &DirSource{directory: directory}
}

// String implements fmt.Stringer
func (s *DirSource) String() string {
	return s.directory
}

// FindArtifact implements part of the Source interface.
func (s *DirSource) FindArtifact(name string) (*Artifact, error) {
	a, err := s.FindResource(ClassFile(name))
	if err != nil {
		return nil, err
	}
	a.Name = name
	return a, nil
}

// FindResource implements part of the Source interface.  Names that would
// leave the directory are not found.
func (s *DirSource) FindResource(name string) (*Artifact, error) {
	rel := filepath.FromSlash(name)
	if !IsLocalName(name) || !filepath.IsLocal(rel) {
		return nil, notFound(name, s)
	}
	filename := filepath.Join(s.directory, rel)
	info, err := os.Stat(filename)
	if err != nil || info.IsDir() {
		return nil, notFound(name, s)
	}
	return New(name, "file:"+filepath.ToSlash(filename), s.String(), func() (io.ReadCloser, error) {
		return os.Open(filename)
	}), nil
}

// FindResources implements part of the Source interface.  A directory holds
// at most one resource per name.
func (s *DirSource) FindResources(name string) (iter.Seq[*Artifact], error) {
	info, err := os.Stat(s.directory)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "enumerate", Path: s.directory, Err: os.ErrInvalid}
	}
	return func(yield func(*Artifact) bool) {
		if a, err := s.FindResource(name); err == nil {
			yield(a)
		}
	}, nil
}
