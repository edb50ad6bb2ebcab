package realm

import (
	"context"
	"iter"

	"github.com/stackb/classworlds/pkg/artifact"
)

// Resolver knows how to resolve names to artifacts.  Realms implement it, and
// so can any external resolver used as an import or a parent.
type Resolver interface {
	// LoadArtifact resolves a class name.  An error is returned when the name
	// cannot be resolved.
	LoadArtifact(ctx context.Context, name string) (*artifact.Artifact, error)
	// GetResource resolves a resource name to the first matching resource.
	GetResource(ctx context.Context, name string) (*artifact.Artifact, bool)
	// GetResources resolves a resource name to all matching resources.
	GetResources(ctx context.Context, name string) (iter.Seq[*artifact.Artifact], error)
}

// Registry creates and looks up realms by id.
type Registry interface {
	// NewRealm creates and registers a new realm.  A *DuplicateRealmError is
	// returned if the id is taken.
	NewRealm(id string, base Resolver, options ...Option) (*Realm, error)
	// GetRealm returns the realm with the given id, or a *NoSuchRealmError.
	GetRealm(id string) (*Realm, error)
}

// SourceResolver adapts an artifact.Source to the Resolver interface.  It is
// typically used as the base resolver of a realm.
type SourceResolver struct {
	Source artifact.Source
}

// LoadArtifact implements part of the Resolver interface.
func (r SourceResolver) LoadArtifact(ctx context.Context, name string) (*artifact.Artifact, error) {
	return r.Source.FindArtifact(name)
}

// GetResource implements part of the Resolver interface.
func (r SourceResolver) GetResource(ctx context.Context, name string) (*artifact.Artifact, bool) {
	a, err := r.Source.FindResource(name)
	if err != nil {
		return nil, false
	}
	return a, true
}

// GetResources implements part of the Resolver interface.
func (r SourceResolver) GetResources(ctx context.Context, name string) (iter.Seq[*artifact.Artifact], error) {
	return r.Source.FindResources(name)
}

// String implements fmt.Stringer
func (r SourceResolver) String() string {
	return r.Source.String()
}
