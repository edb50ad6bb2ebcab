package artifact

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ParseLocation turns a source location into zero or more sources.  Accepted
// forms are plain filesystem paths, "file:" URLs, "jar:file:...!/" URLs and
// doublestar glob patterns such as "lib/**/*.jar".  Paths ending in .jar or
// .zip become JarSources, everything else a DirSource.  Locations that cannot
// be interpreted yield a *MalformedLocationError.
func ParseLocation(location string) ([]Source, error) {
	path, err := locationPath(location)
	if err != nil {
		return nil, err
	}

	if !hasGlobMeta(path) {
		src, err := newPathSource(location, path)
		if err != nil {
			return nil, err
		}
		return []Source{src}, nil
	}

	matches, err := doublestar.FilepathGlob(path)
	if err != nil {
		return nil, &MalformedLocationError{Location: location, Err: err}
	}
	sources := make([]Source, 0, len(matches))
	for _, match := range matches {
		src, err := newPathSource(location, match)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func newPathSource(location, path string) (Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &MalformedLocationError{Location: location, Err: err}
	}
	lower := strings.ToLower(abs)
	if strings.HasSuffix(lower, JAR_FILE_SUFFIX) || strings.HasSuffix(lower, ZIP_FILE_SUFFIX) {
		return NewJarSource(abs), nil
	}
	return NewDirSource(abs), nil
}

// locationPath reduces a location to a filesystem path (possibly a glob
// pattern).
func locationPath(location string) (string, error) {
	if strings.TrimSpace(location) == "" {
		return "", &MalformedLocationError{Location: location, Err: fmt.Errorf("empty location")}
	}

	s := location
	// jar:file:/foo.jar!/ denotes the root of the jar, which is the jar
	// itself
	if strings.HasPrefix(s, "jar:") {
		if !strings.HasSuffix(s, "!/") {
			return "", &MalformedLocationError{Location: location, Err: fmt.Errorf("jar URL must name the archive root (\"!/\")")}
		}
		s = s[len("jar:") : len(s)-len("!/")]
	}

	scheme, ok := urlScheme(s)
	if !ok {
		return s, nil
	}
	if scheme != "file" {
		return "", &MalformedLocationError{Location: location, Err: fmt.Errorf("unsupported scheme %q", scheme)}
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", &MalformedLocationError{Location: location, Err: err}
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", &MalformedLocationError{Location: location, Err: fmt.Errorf("remote host %q", u.Host)}
	}
	path := u.Path
	if path == "" {
		path = u.Opaque
	}
	if path == "" {
		return "", &MalformedLocationError{Location: location, Err: fmt.Errorf("empty path")}
	}
	return filepath.FromSlash(path), nil
}

// urlScheme returns the scheme of s if s starts with one.  Single letter
// schemes are treated as windows drive letters rather than schemes.
func urlScheme(s string) (string, bool) {
	i := strings.IndexByte(s, ':')
	if i < 2 {
		return "", false
	}
	for j := 0; j < i; j++ {
		c := s[j]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case j > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return "", false
		}
	}
	return strings.ToLower(s[:i]), true
}

func hasGlobMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
