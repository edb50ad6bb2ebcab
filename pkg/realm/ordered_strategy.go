package realm

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/stackb/classworlds/pkg/artifact"
)

// Step names one of the places a strategy can search.
type Step int

const (
	// ImportStep searches the matching foreign import.
	ImportStep Step = iota
	// SelfStep searches the realm's own sources.
	SelfStep
	// ParentStep searches the parent, subject to the parent imports.
	ParentStep
)

func (s Step) String() string {
	switch s {
	case ImportStep:
		return "import"
	case SelfStep:
		return "self"
	case ParentStep:
		return "parent"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// OrderedStrategy implements Strategy by searching a fixed sequence of steps.
// Class and single resource lookups stop at the first step that succeeds;
// resource sequences merge every step.
type OrderedStrategy struct {
	realm *Realm
	order []Step
}

// NewOrderedStrategy constructs a strategy for the realm that searches the
// given steps in order.
func NewOrderedStrategy(r *Realm, order ...Step) *OrderedStrategy {
	return &OrderedStrategy{
		realm: r,
		order: order,
	}
}

// Realm implements part of the Strategy interface.
func (s *OrderedStrategy) Realm() *Realm {
	return s.realm
}

// Order returns the steps searched, in order.
func (s *OrderedStrategy) Order() []Step {
	return append([]Step(nil), s.order...)
}

// LoadArtifact implements part of the Strategy interface.
func (s *OrderedStrategy) LoadArtifact(ctx context.Context, name string) (*artifact.Artifact, error) {
	for _, step := range s.order {
		var a *artifact.Artifact
		var ok bool
		switch step {
		case ImportStep:
			a, ok = s.realm.LoadArtifactFromImport(ctx, name)
		case SelfStep:
			a, ok = s.realm.LoadArtifactFromSelf(ctx, name)
		case ParentStep:
			a, ok = s.realm.LoadArtifactFromParent(ctx, name)
		}
		if ok {
			return a, nil
		}
	}
	return nil, &NotFoundError{Realm: s.realm.id, Name: name}
}

// GetResource implements part of the Strategy interface.
func (s *OrderedStrategy) GetResource(ctx context.Context, name string) (*artifact.Artifact, bool) {
	for _, step := range s.order {
		var a *artifact.Artifact
		var ok bool
		switch step {
		case ImportStep:
			a, ok = s.realm.GetResourceFromImport(ctx, name)
		case SelfStep:
			a, ok = s.realm.GetResourceFromSelf(ctx, name)
		case ParentStep:
			a, ok = s.realm.GetResourceFromParent(ctx, name)
		}
		if ok {
			return a, true
		}
	}
	return nil, false
}

// GetResources implements part of the Strategy interface.  An enumeration
// failure of the realm's own sources is returned as is.
func (s *OrderedStrategy) GetResources(ctx context.Context, name string) (iter.Seq[*artifact.Artifact], error) {
	seqs := make([]iter.Seq[*artifact.Artifact], 0, len(s.order))
	for _, step := range s.order {
		switch step {
		case ImportStep:
			seqs = append(seqs, s.realm.GetResourcesFromImport(ctx, name))
		case SelfStep:
			seq, err := s.realm.GetResourcesFromSelf(ctx, name)
			if err != nil {
				return nil, err
			}
			seqs = append(seqs, seq)
		case ParentStep:
			seqs = append(seqs, s.realm.GetResourcesFromParent(ctx, name))
		}
	}
	return artifact.Concat(seqs...), nil
}

// String implements fmt.Stringer
func (s *OrderedStrategy) String() string {
	steps := make([]string, len(s.order))
	for i, step := range s.order {
		steps[i] = step.String()
	}
	return strings.Join(steps, ",")
}
