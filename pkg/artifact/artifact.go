package artifact

import (
	"fmt"
	"io"
	"io/fs"
	"strings"
)

const (
	CLASS_FILE_SUFFIX = ".class"
	JAR_FILE_SUFFIX   = ".jar"
	ZIP_FILE_SUFFIX   = ".zip"
)

// Artifact is the concrete thing a name resolves to.
type Artifact struct {
	// Name is the requested name, either a class name (com.foo.Bar) or a
	// resource name (com/foo/bar.properties).
	Name string
	// Location is an URL-like string that identifies where the artifact
	// lives, e.g. "file:/lib/classes/com/foo/Bar.class" or
	// "jar:file:/lib/foo.jar!/com/foo/Bar.class".
	Location string
	// Source is the String() of the source that supplied the artifact.
	Source string

	open func() (io.ReadCloser, error)
}

// New constructs an artifact.  The open function may be nil in which case
// Open returns an error.
func New(name, location, source string, open func() (io.ReadCloser, error)) *Artifact {
	return &Artifact{
		Name:     name,
		Location: location,
		Source:   source,
		open:     open,
	}
}

// Open returns a reader for the artifact bytes.
func (a *Artifact) Open() (io.ReadCloser, error) {
	if a.open == nil {
		return nil, fmt.Errorf("artifact %s has no content", a.Name)
	}
	return a.open()
}

// String implements fmt.Stringer
func (a *Artifact) String() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.Location)
}

// ClassFile returns the resource path of the given class name. For example,
// "com.foo.Bar" -> "com/foo/Bar.class".
func ClassFile(name string) string {
	return strings.ReplaceAll(name, ".", "/") + CLASS_FILE_SUFFIX
}

// IsResourceName reports whether the name is a slash separated resource name
// rather than a dotted class name.
func IsResourceName(name string) bool {
	return strings.ContainsRune(name, '/')
}

// IsLocalName reports whether the resource name stays below whatever root it
// is resolved against: relative, slash separated and free of empty, "." and
// ".." elements.  A single trailing '/' (a directory name) is allowed.
func IsLocalName(name string) bool {
	return fs.ValidPath(strings.TrimSuffix(name, "/"))
}
