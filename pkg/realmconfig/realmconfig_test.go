package realmconfig

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/stackb/classworlds/pkg/artifact"
	"github.com/stackb/classworlds/pkg/realm"
	"github.com/stackb/classworlds/pkg/world"
)

func boolPtr(b bool) *bool {
	return &b
}

const yamlDescriptor = `
main_realm: app
properties:
  Lib: /opt/lib
realms:
  - id: core
    strategy: parent-first
    sources: ["${lib}/core"]
  - id: app
    parent: core
    parallel: false
    cycle_guard: true
    parent_imports: ["org.slf4j"]
    imports:
      - from: core
        filter: com.acme.api
    sources: ["${LIB}/app", "${lib}/plugins/*.jar"]
`

const starlarkDescriptor = `
property("lib", "/opt/lib")

core = realm("core", strategy = "parent-first", sources = ["${lib}/core"])

realm(
    "app",
    parent = core,
    parallel = False,
    cycle_guard = True,
    parent_imports = ["org.slf4j"],
    imports = {"com.acme.api": core},
    sources = ["${LIB}/app", "${lib}/plugins/*.jar"],
)

main("app")
`

func wantDescriptor(lib string) *Descriptor {
	return &Descriptor{
		MainRealm:  "app",
		Properties: map[string]string{"lib": lib},
		Realms: []RealmDescriptor{
			{
				ID:       "core",
				Strategy: "parent-first",
				Sources:  []string{"${lib}/core"},
			},
			{
				ID:            "app",
				Parent:        "core",
				Parallel:      boolPtr(false),
				CycleGuard:    true,
				ParentImports: []string{"org.slf4j"},
				Imports:       []ImportDescriptor{{From: "core", Filter: "com.acme.api"}},
				Sources:       []string{"${LIB}/app", "${lib}/plugins/*.jar"},
			},
		},
	}
}

func TestLoadYAML(t *testing.T) {
	got, err := Load(strings.NewReader(yamlDescriptor), "yaml")
	require.NoError(t, err)
	if diff := cmp.Diff(wantDescriptor("/opt/lib"), got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLoadStarlark(t *testing.T) {
	got, err := LoadStarlark("realms.star", strings.NewReader(starlarkDescriptor))
	require.NoError(t, err)
	if diff := cmp.Diff(wantDescriptor("/opt/lib"), got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLoadStarlarkImportPairs(t *testing.T) {
	src := `
core = realm("core")
shared = realm("shared")
realm("app", imports = [("com.acme", core), ["com.acme", shared], ("org.slf4j", "core")])
`
	got, err := LoadStarlark("realms.star", strings.NewReader(src))
	require.NoError(t, err)
	want := []ImportDescriptor{
		{From: "core", Filter: "com.acme"},
		{From: "shared", Filter: "com.acme"},
		{From: "core", Filter: "org.slf4j"},
	}
	if diff := cmp.Diff(want, got.Realms[2].Imports); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	w := world.New()
	_, err = Build(got, w)
	require.NoError(t, err)
	app, err := w.GetRealm("app")
	require.NoError(t, err)
	require.Len(t, app.Imports(), 3)
}

func TestLoadStarlarkErrors(t *testing.T) {
	for name, tc := range map[string]struct {
		src  string
		want string
	}{
		"missing id":         {src: `realm()`, want: "missing argument for id"},
		"bad parallel":       {src: `realm("a", parallel = "yes")`, want: "parallel: got string, want bool"},
		"bad sources":        {src: `realm("a", sources = [1])`, want: "sources: got int in list, want string"},
		"bad import target":  {src: `realm("a", imports = {"com": 1})`, want: `imports["com"]: got int, want realm id`},
		"bad import pair":    {src: `realm("a", imports = [("com", "b", "c")])`, want: "imports[0]: got tuple, want (filter, realm id) pair"},
		"string import pair": {src: `realm("a", imports = ["ab"])`, want: "imports[0]: got string, want (filter, realm id) pair"},
		"bad imports":        {src: `realm("a", imports = 1)`, want: "imports: got int, want dict or list"},
		"syntax error":       {src: `realm(`, want: "realms.star"},
		"unknown keyword":    {src: `realm("a", colour = "red")`, want: "unexpected keyword argument"},
		"undefined function": {src: `world("a")`, want: "undefined: world"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadStarlark("realms.star", strings.NewReader(tc.src))
			require.ErrorContains(t, err, tc.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	for _, tc := range []struct {
		filename string
		content  string
	}{
		{"realms.yaml", yamlDescriptor},
		{"realms.star", starlarkDescriptor},
		{"realms.json", `{
  "main_realm": "app",
  "properties": {"lib": "/opt/lib"},
  "realms": [
    {"id": "core", "strategy": "parent-first", "sources": ["${lib}/core"]},
    {
      "id": "app",
      "parent": "core",
      "parallel": false,
      "cycle_guard": true,
      "parent_imports": ["org.slf4j"],
      "imports": [{"from": "core", "filter": "com.acme.api"}],
      "sources": ["${LIB}/app", "${lib}/plugins/*.jar"]
    }
  ]
}`},
	} {
		t.Run(tc.filename, func(t *testing.T) {
			filename := filepath.Join(dir, tc.filename)
			require.NoError(t, os.WriteFile(filename, []byte(tc.content), os.ModePerm))
			got, err := LoadFile(filename)
			require.NoError(t, err)
			if diff := cmp.Diff(wantDescriptor("/opt/lib"), got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestExpand(t *testing.T) {
	t.Setenv("CLASSWORLDS_TEST_HOME", "/home/test")

	desc := &Descriptor{
		Properties: map[string]string{"Lib": "/opt/lib"},
		Realms: []RealmDescriptor{{
			ID:      "app",
			Imports: []ImportDescriptor{{From: "${main}", Filter: "com.acme"}},
			Sources: []string{"${lib}/a", "${CLASSWORLDS_TEST_HOME}/b", "${ lib }/c"},
		}},
	}
	desc.Properties["main"] = "core"

	got, err := desc.Expand()
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"/opt/lib/a", "/home/test/b", "/opt/lib/c"}, got.Realms[0].Sources); diff != "" {
		t.Errorf("Sources (-want +got):\n%s", diff)
	}
	require.Equal(t, "core", got.Realms[0].Imports[0].From)
	// the receiver is unchanged
	require.Equal(t, "${lib}/a", desc.Realms[0].Sources[0])

	desc.Realms[0].Sources = append(desc.Realms[0].Sources, "${nope}/d")
	_, err = desc.Expand()
	require.ErrorContains(t, err, `undefined property "nope"`)
}

func TestValidate(t *testing.T) {
	for name, tc := range map[string]struct {
		desc Descriptor
		want string
	}{
		"ok": {
			desc: Descriptor{Realms: []RealmDescriptor{{ID: "a"}, {ID: "b", Parent: "a"}}},
		},
		"missing id": {
			desc: Descriptor{Realms: []RealmDescriptor{{ID: "a"}, {}}},
			want: "realm #1: missing id",
		},
		"duplicate": {
			desc: Descriptor{Realms: []RealmDescriptor{{ID: "a"}, {ID: "a"}}},
			want: `realm "a": declared twice`,
		},
		"unknown parent": {
			desc: Descriptor{Realms: []RealmDescriptor{{ID: "a", Parent: "b"}}},
			want: `realm "a": unknown parent "b"`,
		},
		"unknown import": {
			desc: Descriptor{Realms: []RealmDescriptor{{ID: "a", Imports: []ImportDescriptor{{From: "b", Filter: "com"}}}}},
			want: `realm "a": import "com" from unknown realm "b"`,
		},
		"unknown main": {
			desc: Descriptor{MainRealm: "b", Realms: []RealmDescriptor{{ID: "a"}}},
			want: `unknown main realm "b"`,
		},
		"unknown strategy": {
			desc: Descriptor{Realms: []RealmDescriptor{{ID: "a", Strategy: "nope"}}},
			want: `realm "a": unknown strategy "nope" (known: [isolated parent-first self-first])`,
		},
	} {
		t.Run(name, func(t *testing.T) {
			err := tc.desc.Validate()
			if tc.want == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tc.want)
		})
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"core/com/acme/api/Service.class": "core",
		"core/org/slf4j/Logger.class":     "core",
		"core/com/core/Util.class":        "core",
		"app/com/acme/app/Main.class":     "app",
	} {
		filename := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(filename), os.ModePerm))
		require.NoError(t, os.WriteFile(filename, []byte(content), os.ModePerm))
	}

	desc, err := Load(strings.NewReader(yamlDescriptor), "yaml")
	require.NoError(t, err)
	desc.Properties["lib"] = filepath.ToSlash(dir)

	w := world.New()
	base := realm.SourceResolver{Source: artifact.NewMemorySource("base").PutClass("java.lang.Object", nil)}
	app, err := Build(desc, w, WithBase(base))
	require.NoError(t, err)
	require.Equal(t, "app", app.ID())

	core, err := w.GetRealm("core")
	require.NoError(t, err)
	require.Equal(t, realm.ParentFirstStrategyName, core.StrategyName())
	require.True(t, core.IsParallel())
	require.False(t, app.IsParallel())
	require.Same(t, core, app.ParentRealm())
	require.Len(t, app.Sources(), 1, "the plugins glob matches nothing")

	ctx := context.Background()
	for name, want := range map[string]string{
		"java.lang.Object":     "mem:base",
		"com.acme.api.Service": filepath.Join(dir, "core"),
		"org.slf4j.Logger":     filepath.Join(dir, "core"),
		"com.acme.app.Main":    filepath.Join(dir, "app"),
		"com.core.Util":        "",
	} {
		t.Run(name, func(t *testing.T) {
			var got string
			if a, err := app.LoadArtifact(ctx, name); err == nil {
				got = a.Source
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	realmIDs := func(w *world.World) []string {
		var ids []string
		for _, r := range w.Realms() {
			ids = append(ids, r.ID())
		}
		return ids
	}

	t.Run("duplicate realm in world", func(t *testing.T) {
		w := world.New()
		_, err := w.NewRealm("core", nil)
		require.NoError(t, err)
		_, err = Build(&Descriptor{Realms: []RealmDescriptor{{ID: "app"}, {ID: "core"}}}, w)
		var dup *realm.DuplicateRealmError
		require.ErrorAs(t, err, &dup)
		require.Equal(t, []string{"core"}, realmIDs(w))
	})

	t.Run("unknown strategy", func(t *testing.T) {
		w := world.New()
		desc := &Descriptor{Realms: []RealmDescriptor{{ID: "core"}, {ID: "app", Strategy: "nope"}}}
		_, err := Build(desc, w)
		var unknown *realm.UnknownStrategyError
		require.ErrorAs(t, err, &unknown)
		require.Empty(t, w.Realms())

		// the world is still usable for a corrected descriptor
		desc.Realms[1].Strategy = ""
		_, err = Build(desc, w)
		require.NoError(t, err)
		require.Equal(t, []string{"app", "core"}, realmIDs(w))
	})

	t.Run("creation fails after earlier realms", func(t *testing.T) {
		w := world.New()
		desc := &Descriptor{Realms: []RealmDescriptor{
			{ID: "core", Strategy: realm.SelfFirstStrategyName},
			{ID: "app", Parent: "core"},
		}}
		_, err := Build(desc, w, WithRealmOptions(realm.WithStrategy("nope")))
		var unknown *realm.UnknownStrategyError
		require.ErrorAs(t, err, &unknown)
		require.ErrorContains(t, err, `realm "app"`)
		require.Empty(t, w.Realms())
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := Build(&Descriptor{Realms: []RealmDescriptor{{ID: "a", Parent: "b"}}}, world.New())
		require.ErrorContains(t, err, "unknown parent")
	})

	t.Run("no main realm", func(t *testing.T) {
		main, err := Build(&Descriptor{Realms: []RealmDescriptor{{ID: "a"}, {ID: "b"}}}, world.New())
		require.NoError(t, err)
		require.Nil(t, main)
	})

	t.Run("isolated parent", func(t *testing.T) {
		w := world.New()
		main, err := Build(&Descriptor{Realms: []RealmDescriptor{{ID: "a"}, {ID: "b", Parent: "a", IsolateParent: true}}, MainRealm: "b"}, w)
		require.NoError(t, err)
		entries, ok := main.ParentImports()
		require.True(t, ok)
		require.Empty(t, entries)
	})
}
