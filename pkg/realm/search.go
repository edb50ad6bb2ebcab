package realm

import (
	"context"
	"errors"
	"iter"

	"github.com/stackb/classworlds/pkg/artifact"
)

// The search primitives below are the building blocks of strategies.  They
// are not meant to be called by application code, which should use
// LoadArtifact, GetResource and GetResources.  Except for
// GetResourcesFromSelf, failures of the underlying resolvers and sources are
// reported as "not found".

// LoadArtifactFromImport resolves the class name through the matching foreign
// import, if any.
func (r *Realm) LoadArtifactFromImport(ctx context.Context, name string) (*artifact.Artifact, bool) {
	resolver, ok := r.foreignImports.FindMatch(name)
	if !ok {
		return nil, false
	}
	a, err := resolver.LoadArtifact(ctx, name)
	if err != nil {
		r.logger.Debug().Err(err).Str("name", name).Msg("import lookup failed")
		return nil, false
	}
	return a, true
}

// LoadArtifactFromSelf resolves the class name through the realm's own
// sources.  Lookups of the same name are serialized, and once a name is
// resolved the same artifact is returned without consulting the sources
// again.
func (r *Realm) LoadArtifactFromSelf(ctx context.Context, name string) (*artifact.Artifact, bool) {
	unlock := r.lockName(ctx, name)
	defer unlock()

	if a, ok := r.findLoaded(name); ok {
		return a, true
	}
	for _, src := range r.Sources() {
		a, err := src.FindArtifact(name)
		if err != nil {
			if !errors.Is(err, artifact.ErrNotFound) {
				r.logger.Debug().Err(err).Str("name", name).Stringer("source", src).Msg("source lookup failed")
			}
			continue
		}
		r.loaded.Store(name, a)
		return a, true
	}
	return nil, false
}

// LoadArtifactFromParent resolves the class name through the parent, if
// there is one and it may serve the name.
func (r *Realm) LoadArtifactFromParent(ctx context.Context, name string) (*artifact.Artifact, bool) {
	parent := r.Parent()
	if parent == nil || !r.IsImportedFromParent(name) {
		return nil, false
	}
	a, err := parent.LoadArtifact(ctx, name)
	if err != nil {
		r.logger.Debug().Err(err).Str("name", name).Msg("parent lookup failed")
		return nil, false
	}
	return a, true
}

// GetResourceFromImport resolves the resource name through the matching
// foreign import, if any.
func (r *Realm) GetResourceFromImport(ctx context.Context, name string) (*artifact.Artifact, bool) {
	resolver, ok := r.foreignImports.FindMatch(name)
	if !ok {
		return nil, false
	}
	return resolver.GetResource(ctx, name)
}

// GetResourceFromSelf resolves the resource name through the realm's own
// sources.
func (r *Realm) GetResourceFromSelf(ctx context.Context, name string) (*artifact.Artifact, bool) {
	return r.FindResource(name)
}

// GetResourceFromParent resolves the resource name through the parent, if
// there is one and it may serve the name.
func (r *Realm) GetResourceFromParent(ctx context.Context, name string) (*artifact.Artifact, bool) {
	parent := r.Parent()
	if parent == nil || !r.IsImportedFromParent(name) {
		return nil, false
	}
	return parent.GetResource(ctx, name)
}

// GetResourcesFromImport returns the resources of the matching foreign
// import.  The import is not consulted until the sequence is iterated.
func (r *Realm) GetResourcesFromImport(ctx context.Context, name string) iter.Seq[*artifact.Artifact] {
	resolver, ok := r.foreignImports.FindMatch(name)
	if !ok {
		return artifact.Empty
	}
	return r.deferResources(ctx, "import", resolver, name)
}

// GetResourcesFromSelf returns the resources of the realm's own sources.
// Unlike the other primitives, a source that cannot be enumerated is
// reported as an *EnumerationError.
func (r *Realm) GetResourcesFromSelf(ctx context.Context, name string) (iter.Seq[*artifact.Artifact], error) {
	seq, err := r.FindResources(name)
	if err != nil {
		return nil, &EnumerationError{Realm: r.id, Name: name, Err: err}
	}
	return seq, nil
}

// GetResourcesFromParent returns the resources of the parent, if there is
// one and it may serve the name.  The parent is not consulted until the
// sequence is iterated.
func (r *Realm) GetResourcesFromParent(ctx context.Context, name string) iter.Seq[*artifact.Artifact] {
	parent := r.Parent()
	if parent == nil || !r.IsImportedFromParent(name) {
		return artifact.Empty
	}
	return r.deferResources(ctx, "parent", parent, name)
}

func (r *Realm) deferResources(ctx context.Context, hop string, resolver Resolver, name string) iter.Seq[*artifact.Artifact] {
	return func(yield func(*artifact.Artifact) bool) {
		seq, err := resolver.GetResources(ctx, name)
		if err != nil {
			r.logger.Debug().Err(err).Str("name", name).Str("hop", hop).Msg("resource enumeration failed")
			return
		}
		if seq == nil {
			return
		}
		for a := range seq {
			if !yield(a) {
				return
			}
		}
	}
}

// FindResource searches only the realm's own sources for the resource.
// Application code that wants the realm's configured search order should use
// GetResource.
func (r *Realm) FindResource(name string) (*artifact.Artifact, bool) {
	for _, src := range r.Sources() {
		a, err := src.FindResource(name)
		if err != nil {
			if !errors.Is(err, artifact.ErrNotFound) {
				r.logger.Debug().Err(err).Str("name", name).Stringer("source", src).Msg("source lookup failed")
			}
			continue
		}
		return a, true
	}
	return nil, false
}

// FindResources searches only the realm's own sources for the resources.
// The first source that cannot be enumerated fails the call.  Application
// code that wants the realm's configured search order should use
// GetResources.
func (r *Realm) FindResources(name string) (iter.Seq[*artifact.Artifact], error) {
	sources := r.Sources()
	seqs := make([]iter.Seq[*artifact.Artifact], 0, len(sources))
	for _, src := range sources {
		seq, err := src.FindResources(name)
		if err != nil {
			return nil, err
		}
		seqs = append(seqs, seq)
	}
	return artifact.Concat(seqs...), nil
}

func (r *Realm) findLoaded(name string) (*artifact.Artifact, bool) {
	v, ok := r.loaded.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*artifact.Artifact), true
}
