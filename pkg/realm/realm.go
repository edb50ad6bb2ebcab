package realm

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/stackb/classworlds/pkg/artifact"
)

const tracerName = "github.com/stackb/classworlds/pkg/realm"

// Realm is the artifact loading gateway.  Each realm has access to a base
// resolver, imports from zero or more other resolvers, an optional parent
// resolver and its own sources.  When queried for a name, a realm always
// queries its base resolver first before it delegates to a pluggable
// strategy.  The strategy controls the order in which the imports, the parent
// and the realm itself are searched.
//
// Realms are created by a Registry; see world.World.
type Realm struct {
	world Registry
	id    string
	base  Resolver

	strategyName string
	strategy     Strategy
	parallel     bool
	cycleGuard   bool
	logger       zerolog.Logger
	tracer       trace.Tracer

	foreignImports *ImportSet

	// mu guards the fields below
	mu            sync.RWMutex
	parentImports *ImportSet
	parent        Resolver
	sources       []artifact.Source

	// loadMu is the realm-wide lock of non-parallel realms.
	loadMu sync.Mutex
	// locks holds a *sync.Mutex per name for parallel realms.
	locks sync.Map
	// loaded holds the artifacts resolved through this realm's own sources.
	loaded sync.Map
}

// New constructs a realm bound to the given registry.  Application code
// should use Registry.NewRealm instead; New is for Registry
// implementations.  The base resolver may be nil.
func New(world Registry, id string, base Resolver, options ...Option) (*Realm, error) {
	r := &Realm{
		world:          world,
		id:             id,
		base:           base,
		foreignImports: NewImportSet(),
	}
	for _, opt := range append(defaultOptions, options...) {
		r = opt(r)
	}
	if r.tracer == nil {
		r.tracer = noop.NewTracerProvider().Tracer(tracerName)
	}
	r.logger = r.logger.With().Str("realm", id).Logger()

	factory, ok := LookupStrategy(r.strategyName)
	if !ok {
		return nil, &UnknownStrategyError{Name: r.strategyName}
	}
	r.strategy = factory(r)

	return r, nil
}

// ID returns the realm identifier.
func (r *Realm) ID() string {
	return r.id
}

// World returns the registry the realm belongs to.
func (r *Realm) World() Registry {
	return r.world
}

// Strategy returns the bound strategy.
func (r *Realm) Strategy() Strategy {
	return r.strategy
}

// StrategyName returns the registered name of the bound strategy.
func (r *Realm) StrategyName() string {
	return r.strategyName
}

// IsParallel reports whether the realm uses per-name locking.
func (r *Realm) IsParallel() bool {
	return r.parallel
}

// Logger returns the realm logger.
func (r *Realm) Logger() zerolog.Logger {
	return r.logger
}

// ImportFrom imports the names matching filter from the realm with the given
// id.
func (r *Realm) ImportFrom(realmID, filter string) error {
	if r.world == nil {
		return fmt.Errorf("realm %q has no registry to look up %q", r.id, realmID)
	}
	other, err := r.world.GetRealm(realmID)
	if err != nil {
		return err
	}
	r.ImportFromResolver(other, filter)
	return nil
}

// ImportFromResolver imports the names matching filter from the given
// resolver.
func (r *Realm) ImportFromResolver(resolver Resolver, filter string) {
	r.foreignImports.Add(filter, resolver)
}

// Imports returns the foreign import entries in lookup order.
func (r *Realm) Imports() []Entry {
	return r.foreignImports.Entries()
}

// ImportResolver returns the resolver that the foreign imports assign to the
// name, if any.
func (r *Realm) ImportResolver(name string) (Resolver, bool) {
	return r.foreignImports.FindMatch(name)
}

// ImportRealms returns the distinct realms this realm imports from, in
// lookup order.
func (r *Realm) ImportRealms() []*Realm {
	var realms []*Realm
	seen := make(map[*Realm]bool)
	for _, e := range r.foreignImports.Entries() {
		other, ok := e.resolver.(*Realm)
		if !ok || seen[other] {
			continue
		}
		seen[other] = true
		realms = append(realms, other)
	}
	return realms
}

// ImportFromParent restricts the names served by the parent to those
// matching the given filter (and any other filters added so far).
func (r *Realm) ImportFromParent(filter string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.parentImports == nil {
		r.parentImports = NewImportSet()
	}
	r.parentImports.Add(filter, nil)
}

// RestrictParentImports installs an empty parent-import set, which imports
// nothing from the parent until ImportFromParent adds a filter.
func (r *Realm) RestrictParentImports() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.parentImports == nil {
		r.parentImports = NewImportSet()
	}
}

// ParentImports returns the parent-import entries.  The boolean is false when
// no parent-import set exists, meaning everything is imported from the
// parent.
func (r *Realm) ParentImports() ([]Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.parentImports == nil {
		return nil, false
	}
	return r.parentImports.Entries(), true
}

// IsImportedFromParent reports whether the parent may serve the name.
func (r *Realm) IsImportedFromParent(name string) bool {
	r.mu.RLock()
	parentImports := r.parentImports
	r.mu.RUnlock()
	if parentImports == nil {
		return true
	}
	_, ok := parentImports.FindEntry(name)
	return ok
}

// SetParent sets the parent resolver.  A nil parent removes it.
func (r *Realm) SetParent(parent Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parent = parent
}

// SetParentRealm sets the parent to the given realm.
func (r *Realm) SetParentRealm(parent *Realm) {
	if parent == nil {
		r.SetParent(nil)
		return
	}
	r.SetParent(parent)
}

// Parent returns the parent resolver, or nil.
func (r *Realm) Parent() Resolver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.parent
}

// ParentRealm returns the parent if it is a realm, or nil.
func (r *Realm) ParentRealm() *Realm {
	parent, _ := r.Parent().(*Realm)
	return parent
}

// CreateChildRealm creates a new realm in the same registry whose parent is
// this realm.
func (r *Realm) CreateChildRealm(id string) (*Realm, error) {
	if r.world == nil {
		return nil, fmt.Errorf("realm %q has no registry to create %q", r.id, id)
	}
	child, err := r.world.NewRealm(id, nil)
	if err != nil {
		return nil, err
	}
	child.SetParentRealm(r)
	return child, nil
}

// AddSource adds the sources denoted by location to the realm's own sources.
// A malformed location is logged and skipped; the realm stays usable.
func (r *Realm) AddSource(location string) {
	sources, err := artifact.ParseLocation(location)
	if err != nil {
		r.logger.Warn().Err(err).Str("location", location).Msg("skipping source location")
		return
	}
	if len(sources) == 0 {
		r.logger.Debug().Str("location", location).Msg("source location matched nothing")
		return
	}
	for _, src := range sources {
		r.AddArtifactSource(src)
	}
}

// AddArtifactSource appends the given source to the realm's own sources.
func (r *Realm) AddArtifactSource(src artifact.Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, src)
}

// Sources returns the realm's own sources in search order.
func (r *Realm) Sources() []artifact.Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]artifact.Source(nil), r.sources...)
}

// String implements fmt.Stringer
func (r *Realm) String() string {
	parent := r.Parent()
	if parent == nil {
		return fmt.Sprintf("Realm[%s]", r.id)
	}
	if p, ok := parent.(*Realm); ok {
		return fmt.Sprintf("Realm[%s, parent: %s]", r.id, p.id)
	}
	return fmt.Sprintf("Realm[%s, parent: %v]", r.id, parent)
}
