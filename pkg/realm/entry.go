package realm

import (
	"fmt"
	"strings"

	"github.com/stackb/classworlds/pkg/artifact"
)

// Entry associates a name-prefix filter with the resolver that serves names
// under it.  Entries are immutable.
type Entry struct {
	filter   string
	resolver Resolver
	seq      uint64
}

// Filter returns the dotted-name prefix of the entry.  The empty filter
// matches everything.
func (e Entry) Filter() string {
	return e.filter
}

// Resolver returns the resolver of the entry.  It is nil for parent-import
// entries.
func (e Entry) Resolver() Resolver {
	return e.resolver
}

// Matches reports whether the filter applies to the given class or resource
// name.  A class name matches when it equals the filter, or continues it with
// a '.' (subpackage or class) or a '$' (nested type).  A resource name
// (containing '/') matches when it equals the filter, or continues the
// filter's directory form with a '/' or '$', or is the filter's class file.
// A non-empty filter never matches a resource name with ".", ".." or empty
// elements, since such a name need not stay under the filter's directory.
func (e Entry) Matches(name string) bool {
	f := e.filter
	if f == "" {
		return true
	}

	if !artifact.IsResourceName(name) {
		if !strings.HasPrefix(name, f) {
			return false
		}
		if len(name) == len(f) {
			return true
		}
		switch name[len(f)] {
		case '.', '$':
			return true
		}
		return false
	}

	if !artifact.IsLocalName(name) {
		return false
	}
	if name == f {
		return true
	}
	dir := strings.ReplaceAll(f, ".", "/")
	if !strings.HasPrefix(name, dir) || len(name) == len(dir) {
		return false
	}
	switch name[len(dir)] {
	case '/', '$':
		return true
	}
	return name == dir+artifact.CLASS_FILE_SUFFIX
}

// String implements fmt.Stringer
func (e Entry) String() string {
	filter := e.filter
	if filter == "" {
		filter = "*"
	}
	if e.resolver == nil {
		return filter
	}
	return fmt.Sprintf("%s -> %v", filter, e.resolver)
}

// entryKeyReplacer folds the resource and nested type separators into '.'
// so that "com/foo", "com.foo" and "com$foo" share an index key.
var entryKeyReplacer = strings.NewReplacer("/", ".", "$", ".")

func entryKey(name string) string {
	return entryKeyReplacer.Replace(name)
}

// less orders more specific filters first (reverse lexicographic order of
// the folded filter) and equal filters by insertion.
func (e Entry) less(other Entry) bool {
	a, b := entryKey(e.filter), entryKey(other.filter)
	if a != b {
		return a > b
	}
	return e.seq < other.seq
}
