package realm

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"sync"

	"github.com/stackb/classworlds/pkg/artifact"
)

// DefaultStrategyName is the strategy used when none is configured.
const DefaultStrategyName = SelfFirstStrategyName

// Strategy decides the order in which a realm's imports, own sources and
// parent are searched.  A strategy is bound to exactly one realm.
type Strategy interface {
	// Realm returns the realm the strategy is bound to.
	Realm() *Realm
	// LoadArtifact resolves a class name.  A *NotFoundError is returned when
	// no source along the strategy's order has it.
	LoadArtifact(ctx context.Context, name string) (*artifact.Artifact, error)
	// GetResource resolves a resource name to the first match.
	GetResource(ctx context.Context, name string) (*artifact.Artifact, bool)
	// GetResources merges the resources of every source along the
	// strategy's order.  The sequence is produced on demand.
	GetResources(ctx context.Context, name string) (iter.Seq[*artifact.Artifact], error)
}

// StrategyFactory creates the strategy of a realm.
type StrategyFactory func(r *Realm) Strategy

var globalStrategies = &strategyRegistry{
	factories: make(map[string]StrategyFactory),
}

func init() {
	mustRegisterStrategy(SelfFirstStrategyName, NewSelfFirstStrategy)
	mustRegisterStrategy(ParentFirstStrategyName, NewParentFirstStrategy)
	mustRegisterStrategy(IsolatedStrategyName, NewIsolatedStrategy)
}

// RegisterStrategy makes a strategy available to realms under the given
// name.  It is an error to register the same name twice.
func RegisterStrategy(name string, factory StrategyFactory) error {
	return globalStrategies.register(name, factory)
}

// LookupStrategy returns the factory registered under the given name.
func LookupStrategy(name string) (StrategyFactory, bool) {
	return globalStrategies.lookup(name)
}

// StrategyNames returns the sorted names of the registered strategies.
func StrategyNames() []string {
	return globalStrategies.names()
}

func mustRegisterStrategy(name string, factory StrategyFactory) {
	if err := RegisterStrategy(name, factory); err != nil {
		panic(err)
	}
}

type strategyRegistry struct {
	mu        sync.RWMutex
	factories map[string]StrategyFactory
}

func (s *strategyRegistry) register(name string, factory StrategyFactory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.factories[name]; ok {
		return fmt.Errorf("duplicate strategy %q", name)
	}
	s.factories[name] = factory
	return nil
}

func (s *strategyRegistry) lookup(name string) (StrategyFactory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	factory, ok := s.factories[name]
	return factory, ok
}

func (s *strategyRegistry) names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.factories))
	for name := range s.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
