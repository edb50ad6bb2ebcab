// Package world provides the registry that creates realms and looks them up
// by id.
package world

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/stackb/classworlds/pkg/collections"
	"github.com/stackb/classworlds/pkg/realm"
)

// Listener is notified of realm lifecycle events.
type Listener interface {
	RealmCreated(r *realm.Realm)
	RealmDisposed(r *realm.Realm)
}

// Option configures a World.
type Option func(*World) *World

// WithLogger sets the logger.  Realms created by the world log through it
// unless their own options say otherwise.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *World) *World {
		w.logger = logger
		return w
	}
}

// WithRealmOptions sets options applied to every realm before the options
// given to NewRealm.
func WithRealmOptions(options ...realm.Option) Option {
	return func(w *World) *World {
		w.realmOptions = append(w.realmOptions, options...)
		return w
	}
}

// World implements realm.Registry using a map.  It is safe for concurrent
// use.
type World struct {
	logger       zerolog.Logger
	realmOptions []realm.Option

	mu        sync.RWMutex
	realms    map[string]*realm.Realm
	listeners []Listener
}

var _ realm.Registry = (*World)(nil)

// New constructs a new empty World.
func New(options ...Option) *World {
	w := &World{
		logger: zerolog.Nop(),
		realms: make(map[string]*realm.Realm),
	}
	for _, opt := range options {
		w = opt(w)
	}
	return w
}

// NewRealm implements part of the realm.Registry interface.
func (w *World) NewRealm(id string, base realm.Resolver, options ...realm.Option) (*realm.Realm, error) {
	w.mu.Lock()
	if _, ok := w.realms[id]; ok {
		w.mu.Unlock()
		return nil, &realm.DuplicateRealmError{ID: id}
	}

	opts := make([]realm.Option, 0, len(w.realmOptions)+len(options)+1)
	opts = append(opts, realm.WithLogger(w.logger))
	opts = append(opts, w.realmOptions...)
	opts = append(opts, options...)

	r, err := realm.New(w, id, base, opts...)
	if err != nil {
		w.mu.Unlock()
		return nil, err
	}
	w.realms[id] = r
	listeners := append([]Listener(nil), w.listeners...)
	w.mu.Unlock()

	w.logger.Debug().Str("realm", id).Msg("realm created")
	for _, l := range listeners {
		l.RealmCreated(r)
	}
	return r, nil
}

// GetRealm implements part of the realm.Registry interface.
func (w *World) GetRealm(id string) (*realm.Realm, error) {
	r, ok := w.Realm(id)
	if !ok {
		return nil, &realm.NoSuchRealmError{ID: id}
	}
	return r, nil
}

// Realm returns the realm with the given id.
func (w *World) Realm(id string) (*realm.Realm, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	r, ok := w.realms[id]
	return r, ok
}

// Realms returns all realms sorted by id.
func (w *World) Realms() []*realm.Realm {
	w.mu.RLock()
	defer w.mu.RUnlock()
	realms := make([]*realm.Realm, 0, len(w.realms))
	for _, r := range w.realms {
		realms = append(realms, r)
	}
	sort.Slice(realms, func(i, j int) bool {
		return realms[i].ID() < realms[j].ID()
	})
	return realms
}

// DisposeRealm removes the realm from the world.  Realms whose parent was the
// disposed realm lose their parent.  Imports from it are left in place:
// entries are never removed from an import set.
func (w *World) DisposeRealm(id string) error {
	w.mu.Lock()
	r, ok := w.realms[id]
	if !ok {
		w.mu.Unlock()
		return &realm.NoSuchRealmError{ID: id}
	}
	delete(w.realms, id)
	children := make([]*realm.Realm, 0)
	for _, other := range w.realms {
		if other.ParentRealm() == r {
			children = append(children, other)
		}
	}
	listeners := append([]Listener(nil), w.listeners...)
	w.mu.Unlock()

	for _, child := range children {
		child.SetParent(nil)
	}
	w.logger.Debug().Str("realm", id).Int("children", len(children)).Msg("realm disposed")
	for _, l := range listeners {
		l.RealmDisposed(r)
	}
	return nil
}

// Close closes every realm source that implements io.Closer, such as jar
// sources.  Realms stay registered; later lookups through a closed source
// fail.
func (w *World) Close() error {
	var errs []error
	for _, r := range w.Realms() {
		for _, src := range r.Sources() {
			c, ok := src.(io.Closer)
			if !ok {
				continue
			}
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("realm %q: close %v: %w", r.ID(), src, err))
			}
		}
	}
	return errors.Join(errs...)
}

// AddListener registers a listener.  Listeners must be comparable.
func (w *World) AddListener(l Listener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, l)
}

// RemoveListener unregisters a listener.  It is a no-op if the listener is
// not registered.
func (w *World) RemoveListener(l Listener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, other := range w.listeners {
		if other == l {
			w.listeners = collections.SliceRemoveIndex(w.listeners, i)
			return
		}
	}
}
