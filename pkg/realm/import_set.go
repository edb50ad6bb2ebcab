package realm

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dghubble/trie"

	"github.com/stackb/classworlds/pkg/collections"
)

var importPathTrieConfig = &trie.PathTrieConfig{
	Segmenter: importSegmenter,
}

// ImportSet is an ordered set of entries, most specific filter first.  Reads
// never block: every Add publishes a new immutable snapshot.
type ImportSet struct {
	mu       sync.Mutex
	seq      uint64
	snapshot atomic.Pointer[importSnapshot]
}

// importSnapshot is an immutable view of the set.  The index maps folded
// filters to the entries registered under them, in insertion order.  Entries
// with the empty filter are kept aside in catchAll.
type importSnapshot struct {
	entries  []Entry
	index    *trie.PathTrie
	catchAll []Entry
}

// NewImportSet constructs a new empty ImportSet.
func NewImportSet() *ImportSet {
	return &ImportSet{}
}

// Add registers a new entry.  Entries with the same filter are all retained;
// the first one registered wins lookups.
func (s *ImportSet) Add(filter string, resolver Resolver) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	entry := Entry{filter: filter, resolver: resolver, seq: s.seq}

	var prev []Entry
	if snap := s.snapshot.Load(); snap != nil {
		prev = snap.entries
	}
	entries := collections.SliceInsertSorted(prev, entry, Entry.less)

	index := trie.NewPathTrieWithConfig(importPathTrieConfig)
	var catchAll []Entry
	for _, e := range entries {
		key := entryKey(e.filter)
		if key == "" {
			catchAll = append(catchAll, e)
			continue
		}
		var group []Entry
		if v := index.Get(key); v != nil {
			group = v.([]Entry)
		}
		// entries is sorted, so each group stays in insertion order
		index.Put(key, append(group, e))
	}

	s.snapshot.Store(&importSnapshot{entries: entries, index: index, catchAll: catchAll})
	return entry
}

// Entries returns the entries in lookup order.
func (s *ImportSet) Entries() []Entry {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil
	}
	return append([]Entry(nil), snap.entries...)
}

// Len returns the number of entries.
func (s *ImportSet) Len() int {
	snap := s.snapshot.Load()
	if snap == nil {
		return 0
	}
	return len(snap.entries)
}

// FindEntry returns the first entry, in lookup order, whose filter matches
// the given name.
func (s *ImportSet) FindEntry(name string) (Entry, bool) {
	snap := s.snapshot.Load()
	if snap == nil {
		return Entry{}, false
	}

	var path [][]Entry
	snap.index.WalkPath(entryKey(name), func(key string, value interface{}) error {
		path = append(path, value.([]Entry))
		return nil
	})

	// deepest node first: its filter is the most specific one
	for i := len(path) - 1; i >= 0; i-- {
		for _, e := range path[i] {
			if e.Matches(name) {
				return e, true
			}
		}
	}
	if len(snap.catchAll) > 0 {
		return snap.catchAll[0], true
	}
	return Entry{}, false
}

// FindMatch returns the resolver of the first entry whose filter matches
// the given name.
func (s *ImportSet) FindMatch(name string) (Resolver, bool) {
	e, ok := s.FindEntry(name)
	if !ok {
		return nil, false
	}
	return e.resolver, true
}

// importSegmenter segments string key paths by dot separators. For example,
// "a.b.c" -> ("a", 1), (".b", 3), (".c", -1) in successive calls. It does not
// allocate any heap memory.
func importSegmenter(path string, start int) (segment string, next int) {
	if len(path) == 0 || start < 0 || start > len(path)-1 {
		return "", -1
	}
	end := strings.IndexRune(path[start+1:], '.') // next '.' after 0th rune
	if end == -1 {
		return path[start:], -1
	}
	return path[start : start+end+1], start + end + 1
}
