package realm_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/stackb/classworlds/pkg/artifact"
	"github.com/stackb/classworlds/pkg/realm"
)

func namedResolver(name string) realm.Resolver {
	return realm.SourceResolver{Source: artifact.NewMemorySource(name)}
}

func TestImportSetEntries(t *testing.T) {
	for name, tc := range map[string]struct {
		filters []string
		want    []string
	}{
		"empty": {},
		"more specific first": {
			filters: []string{"com", "com.acme.api", "com.acme", "org"},
			want:    []string{"org", "com.acme.api", "com.acme", "com"},
		},
		"catch-all last": {
			filters: []string{"", "com.acme"},
			want:    []string{"com.acme", ""},
		},
		"resource and class forms interleave": {
			filters: []string{"com/acme", "com.acme.api", "com.acme"},
			want:    []string{"com.acme.api", "com/acme", "com.acme"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			set := realm.NewImportSet()
			for _, filter := range tc.filters {
				set.Add(filter, nil)
			}
			var got []string
			for _, e := range set.Entries() {
				got = append(got, e.Filter())
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Entries (-want +got):\n%s", diff)
			}
			if set.Len() != len(tc.filters) {
				t.Errorf("Len: want %d, got %d", len(tc.filters), set.Len())
			}
		})
	}
}

func TestImportSetFindMatch(t *testing.T) {
	set := realm.NewImportSet()
	set.Add("com.acme", namedResolver("acme"))
	set.Add("com.acme.api", namedResolver("api"))
	set.Add("com.acme.api", namedResolver("api-shadowed"))
	set.Add("org.slf4j", namedResolver("slf4j"))
	set.Add("com.acme.api.internal.Impl", namedResolver("impl"))

	for name, want := range map[string]string{
		"com.acme.Widget":                  "mem:acme",
		"com.acme.api.Service":             "mem:api",
		"com.acme.api.internal.Impl":       "mem:impl",
		"com.acme.api.internal.Impl$Peer":  "mem:impl",
		"com.acme.api.internal.Other":      "mem:api",
		"com/acme/api/Service.class":       "mem:api",
		"com/acme/api/internal/Impl.class": "mem:impl",
		"org.slf4j.Logger":                 "mem:slf4j",
		"org.slf4jx.Logger":                "",
		"com.acmex.Widget":                 "",
		"net.other.Thing":                  "",
	} {
		t.Run(name, func(t *testing.T) {
			var got string
			if resolver, ok := set.FindMatch(name); ok {
				got = fmt.Sprint(resolver)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("FindMatch(%q) (-want +got):\n%s", name, diff)
			}
		})
	}
}

var (
	segments   = []string{"com", "acme", "api", "Widget", "a"}
	separators = []string{".", "/", "$"}
)

func dottedName(t *rapid.T, label string, minSegments int) string {
	n := rapid.IntRange(minSegments, 4).Draw(t, label+"Len")
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(rapid.SampledFrom(separators).Draw(t, label+"Sep"))
		}
		b.WriteString(rapid.SampledFrom(segments).Draw(t, label+"Seg"))
	}
	return b.String()
}

// The indexed lookup must agree with a linear scan of the entries in lookup
// order.
func TestImportSetFindEntryProperty(t *testing.T) {
	fold := strings.NewReplacer("/", ".", "$", ".")

	rapid.Check(t, func(t *rapid.T) {
		set := realm.NewImportSet()
		n := rapid.IntRange(0, 8).Draw(t, "filters")
		for i := 0; i < n; i++ {
			set.Add(dottedName(t, "filter", 0), namedResolver(fmt.Sprintf("r%d", i)))
		}

		entries := set.Entries()
		for i := 1; i < len(entries); i++ {
			if fold.Replace(entries[i-1].Filter()) < fold.Replace(entries[i].Filter()) {
				t.Fatalf("entries out of order: %v before %v", entries[i-1], entries[i])
			}
		}

		name := dottedName(t, "name", 1)
		if rapid.Bool().Draw(t, "classFile") {
			name = strings.ReplaceAll(name, ".", "/") + artifact.CLASS_FILE_SUFFIX
		}

		var want string
		for _, e := range entries {
			if e.Matches(name) {
				want = e.String()
				break
			}
		}
		var got string
		if e, ok := set.FindEntry(name); ok {
			got = e.String()
		}
		if want != got {
			t.Fatalf("FindEntry(%q): want %q, got %q (entries %v)", name, want, got, entries)
		}
	})
}
