package world

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/stackb/classworlds/pkg/artifact"
	"github.com/stackb/classworlds/pkg/realm"
)

type recorder struct {
	events []string
}

func (r *recorder) RealmCreated(rlm *realm.Realm) {
	r.events = append(r.events, "created "+rlm.ID())
}

func (r *recorder) RealmDisposed(rlm *realm.Realm) {
	r.events = append(r.events, "disposed "+rlm.ID())
}

func ids(realms []*realm.Realm) []string {
	var got []string
	for _, r := range realms {
		got = append(got, r.ID())
	}
	return got
}

func TestNewRealmDuplicate(t *testing.T) {
	w := New()
	original, err := w.NewRealm("app", nil)
	require.NoError(t, err)

	_, err = w.NewRealm("app", nil, realm.WithStrategy(realm.IsolatedStrategyName))
	var dup *realm.DuplicateRealmError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "app", dup.ID)

	got, err := w.GetRealm("app")
	require.NoError(t, err)
	require.Same(t, original, got)
	require.Equal(t, realm.SelfFirstStrategyName, got.StrategyName())
	require.Same(t, w, got.World())
}

func TestGetRealmMissing(t *testing.T) {
	w := New()
	_, err := w.GetRealm("nope")

	var noSuch *realm.NoSuchRealmError
	require.ErrorAs(t, err, &noSuch)
	require.True(t, errors.Is(err, realm.ErrNotFound))

	_, ok := w.Realm("nope")
	require.False(t, ok)
}

func TestRealmsSorted(t *testing.T) {
	w := New()
	for _, id := range []string{"plugin", "app", "core"} {
		_, err := w.NewRealm(id, nil)
		require.NoError(t, err)
	}
	if diff := cmp.Diff([]string{"app", "core", "plugin"}, ids(w.Realms())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestWithRealmOptions(t *testing.T) {
	w := New(WithRealmOptions(realm.WithParallel(false), realm.WithStrategy(realm.ParentFirstStrategyName)))

	defaults, err := w.NewRealm("defaults", nil)
	require.NoError(t, err)
	require.False(t, defaults.IsParallel())
	require.Equal(t, realm.ParentFirstStrategyName, defaults.StrategyName())

	overridden, err := w.NewRealm("overridden", nil, realm.WithStrategy(realm.SelfFirstStrategyName))
	require.NoError(t, err)
	require.Equal(t, realm.SelfFirstStrategyName, overridden.StrategyName())
}

func TestDisposeRealm(t *testing.T) {
	w := New()
	l := &recorder{}
	w.AddListener(l)

	core, err := w.NewRealm("core", nil)
	require.NoError(t, err)
	app, err := core.CreateChildRealm("app")
	require.NoError(t, err)
	other, err := w.NewRealm("other", nil)
	require.NoError(t, err)
	require.Same(t, core, app.ParentRealm())

	require.NoError(t, w.DisposeRealm("core"))
	require.Nil(t, app.Parent())
	require.Nil(t, other.Parent())
	if diff := cmp.Diff([]string{"app", "other"}, ids(w.Realms())); diff != "" {
		t.Errorf("Realms (-want +got):\n%s", diff)
	}

	var noSuch *realm.NoSuchRealmError
	require.ErrorAs(t, w.DisposeRealm("core"), &noSuch)

	// the id can be reused
	_, err = w.NewRealm("core", nil)
	require.NoError(t, err)

	want := []string{"created core", "created app", "created other", "disposed core", "created core"}
	if diff := cmp.Diff(want, l.events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestRemoveListener(t *testing.T) {
	w := New()
	a, b := &recorder{}, &recorder{}
	w.AddListener(a)
	w.AddListener(b)
	w.RemoveListener(a)
	w.RemoveListener(&recorder{})

	_, err := w.NewRealm("app", nil)
	require.NoError(t, err)

	require.Empty(t, a.events)
	require.Equal(t, []string{"created app"}, b.events)
}

type closingSource struct {
	*artifact.MemorySource
	closed int
	err    error
}

func (s *closingSource) Close() error {
	s.closed++
	return s.err
}

func TestClose(t *testing.T) {
	w := New()
	core, err := w.NewRealm("core", nil)
	require.NoError(t, err)
	app, err := w.NewRealm("app", nil)
	require.NoError(t, err)

	plain := &closingSource{MemorySource: artifact.NewMemorySource("plain")}
	failing := &closingSource{MemorySource: artifact.NewMemorySource("failing"), err: errors.New("busy")}
	core.AddArtifactSource(plain)
	core.AddArtifactSource(artifact.NewMemorySource("not a closer"))
	app.AddArtifactSource(failing)

	err = w.Close()
	require.EqualError(t, err, `realm "app": close mem:failing: busy`)
	require.Equal(t, 1, plain.closed)
	require.Equal(t, 1, failing.closed)
	require.Len(t, w.Realms(), 2)
}
