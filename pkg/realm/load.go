package realm

import (
	"context"
	"iter"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/stackb/classworlds/pkg/artifact"
)

// LoadArtifact resolves a class name: first through artifacts this realm
// already resolved and its base resolver, then through the strategy.  The
// only error returned is a *NotFoundError.
func (r *Realm) LoadArtifact(ctx context.Context, name string) (*artifact.Artifact, error) {
	ctx, span := r.startSpan(ctx, "Realm.LoadArtifact", name)
	defer span.End()

	ctx, release, ok := r.enter(ctx, name, true)
	if !ok {
		span.SetStatus(codes.Error, "cycle")
		return nil, &NotFoundError{Realm: r.id, Name: name}
	}
	defer release()

	if a, ok := r.loadArtifactFromBase(ctx, name); ok {
		span.SetAttributes(attribute.String("artifact.stage", "base"))
		return a, nil
	}

	a, err := r.strategy.LoadArtifact(ctx, name)
	if err != nil || a == nil {
		span.SetStatus(codes.Error, "not found")
		return nil, &NotFoundError{Realm: r.id, Name: name}
	}
	span.SetAttributes(
		attribute.String("artifact.stage", "strategy"),
		attribute.String("artifact.location", a.Location),
	)
	return a, nil
}

func (r *Realm) loadArtifactFromBase(ctx context.Context, name string) (*artifact.Artifact, bool) {
	if a, ok := r.findLoaded(name); ok {
		return a, true
	}
	if r.base == nil {
		return nil, false
	}
	a, err := r.base.LoadArtifact(ctx, name)
	if err != nil {
		return nil, false
	}
	return a, true
}

// GetResource resolves a resource name through the base resolver, then
// through the strategy.
func (r *Realm) GetResource(ctx context.Context, name string) (*artifact.Artifact, bool) {
	ctx, span := r.startSpan(ctx, "Realm.GetResource", name)
	defer span.End()

	ctx, release, ok := r.enter(ctx, name, false)
	if !ok {
		return nil, false
	}
	defer release()

	if r.base != nil {
		if a, ok := r.base.GetResource(ctx, name); ok {
			return a, true
		}
	}
	return r.strategy.GetResource(ctx, name)
}

// GetResources resolves a resource name to the resources of the base
// resolver followed by those of the strategy.  Failures along the way
// contribute nothing; the returned error is always nil for realms.
func (r *Realm) GetResources(ctx context.Context, name string) (iter.Seq[*artifact.Artifact], error) {
	ctx, span := r.startSpan(ctx, "Realm.GetResources", name)
	defer span.End()

	ctx, release, ok := r.enter(ctx, name, false)
	if !ok {
		return artifact.Empty, nil
	}
	defer release()

	var base iter.Seq[*artifact.Artifact] = artifact.Empty
	if r.base != nil {
		if seq, err := r.base.GetResources(ctx, name); err == nil && seq != nil {
			base = seq
		}
	}

	seq, err := r.strategy.GetResources(ctx, name)
	if err != nil {
		r.logger.Warn().Err(err).Str("name", name).Msg("resource enumeration failed")
		return base, nil
	}
	return artifact.Concat(base, seq), nil
}

func (r *Realm) startSpan(ctx context.Context, op, name string) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("realm.id", r.id),
		attribute.String("artifact.name", name),
	))
}
