package artifact

import (
	"fmt"
	"iter"
)

// Source is a lower-level artifact loader: a directory, a jar file, or
// anything else that can produce artifacts for a name.  Sources do not know
// about realms; a realm decides which source answers a name.
type Source interface {
	fmt.Stringer

	// FindArtifact returns the artifact for the given class name.  If the
	// source does not have it, an error wrapping ErrNotFound is returned.
	FindArtifact(name string) (*Artifact, error)

	// FindResource returns the first resource with the given name.  If the
	// source does not have it, an error wrapping ErrNotFound is returned.
	FindResource(name string) (*Artifact, error)

	// FindResources returns all resources with the given name.  The sequence
	// is produced on demand.  An error is returned only when the source
	// cannot be enumerated at all.
	FindResources(name string) (iter.Seq[*Artifact], error)
}

// Empty is the empty artifact sequence.
func Empty(yield func(*Artifact) bool) {}

// Of returns a sequence over the given artifacts, skipping nil values.
func Of(artifacts ...*Artifact) iter.Seq[*Artifact] {
	return func(yield func(*Artifact) bool) {
		for _, a := range artifacts {
			if a == nil {
				continue
			}
			if !yield(a) {
				return
			}
		}
	}
}

// Concat returns a sequence that yields every element of the given
// sequences in order.  Nil sequences are skipped.  A sequence is not touched
// until the consumer reaches it.
func Concat(seqs ...iter.Seq[*Artifact]) iter.Seq[*Artifact] {
	return func(yield func(*Artifact) bool) {
		for _, seq := range seqs {
			if seq == nil {
				continue
			}
			for a := range seq {
				if !yield(a) {
					return
				}
			}
		}
	}
}

// Collect drains a sequence into a slice.
func Collect(seq iter.Seq[*Artifact]) []*Artifact {
	var all []*Artifact
	if seq == nil {
		return all
	}
	for a := range seq {
		all = append(all, a)
	}
	return all
}
