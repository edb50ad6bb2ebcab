package realmconfig

import (
	"fmt"

	"github.com/stackb/classworlds/pkg/realm"
	"github.com/stackb/classworlds/pkg/world"
)

// BuildOption configures Build.
type BuildOption func(*builder) *builder

// WithBase sets the base resolver of every realm built.
func WithBase(base realm.Resolver) BuildOption {
	return func(b *builder) *builder {
		b.base = base
		return b
	}
}

// WithRealmOptions adds options to every realm built, before the options
// derived from the descriptor.
func WithRealmOptions(options ...realm.Option) BuildOption {
	return func(b *builder) *builder {
		b.options = append(b.options, options...)
		return b
	}
}

type builder struct {
	base    realm.Resolver
	options []realm.Option
}

// Build creates the realms of the descriptor in w and wires their parents,
// imports and sources.  It returns the main realm: the one named by
// MainRealm, or the only realm if there is exactly one, or nil.  On error no
// realm of the descriptor is left in w.
func Build(desc *Descriptor, w *world.World, options ...BuildOption) (*realm.Realm, error) {
	b := &builder{}
	for _, opt := range options {
		b = opt(b)
	}

	desc, err := desc.Expand()
	if err != nil {
		return nil, err
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	for _, rd := range desc.Realms {
		if _, ok := w.Realm(rd.ID); ok {
			return nil, fmt.Errorf("realm %q: %w", rd.ID, &realm.DuplicateRealmError{ID: rd.ID})
		}
	}

	realms := make([]*realm.Realm, 0, len(desc.Realms))
	rollback := func(err error) (*realm.Realm, error) {
		for i := len(realms) - 1; i >= 0; i-- {
			_ = w.DisposeRealm(realms[i].ID())
		}
		return nil, err
	}

	for _, rd := range desc.Realms {
		r, err := w.NewRealm(rd.ID, b.base, b.realmOptions(rd)...)
		if err != nil {
			return rollback(fmt.Errorf("realm %q: %w", rd.ID, err))
		}
		realms = append(realms, r)
	}

	for i, rd := range desc.Realms {
		if err := wire(w, realms[i], rd); err != nil {
			return rollback(fmt.Errorf("realm %q: %w", rd.ID, err))
		}
	}

	switch {
	case desc.MainRealm != "":
		return w.GetRealm(desc.MainRealm)
	case len(realms) == 1:
		return realms[0], nil
	default:
		return nil, nil
	}
}

func (b *builder) realmOptions(rd RealmDescriptor) []realm.Option {
	opts := append([]realm.Option(nil), b.options...)
	if rd.Strategy != "" {
		opts = append(opts, realm.WithStrategy(rd.Strategy))
	}
	if rd.Parallel != nil {
		opts = append(opts, realm.WithParallel(*rd.Parallel))
	}
	if rd.CycleGuard {
		opts = append(opts, realm.WithCycleGuard())
	}
	return opts
}

func wire(w *world.World, r *realm.Realm, rd RealmDescriptor) error {
	if rd.Parent != "" {
		parent, err := w.GetRealm(rd.Parent)
		if err != nil {
			return err
		}
		r.SetParentRealm(parent)
	}
	if rd.IsolateParent {
		r.RestrictParentImports()
	}
	for _, filter := range rd.ParentImports {
		r.ImportFromParent(filter)
	}
	for _, imp := range rd.Imports {
		if err := r.ImportFrom(imp.From, imp.Filter); err != nil {
			return err
		}
	}
	for _, location := range rd.Sources {
		r.AddSource(location)
	}
	return nil
}
