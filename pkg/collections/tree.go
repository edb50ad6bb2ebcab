package collections

import (
	"io"
	"strings"
)

// Tree is a labelled node of a text tree.  The root node is unlabelled; its
// children are printed flush left.
type Tree struct {
	Label    string
	Children []*Tree
}

// Add appends a child with the given label and returns it.
func (t *Tree) Add(label string) *Tree {
	child := &Tree{Label: label}
	t.Children = append(t.Children, child)
	return child
}

// Fprint writes one line per node below t, children under their parent.
func (t *Tree) Fprint(w io.Writer) error {
	var b strings.Builder
	t.print(&b, true, "")
	_, err := io.WriteString(w, b.String())
	return err
}

func (t *Tree) print(b *strings.Builder, root bool, padding string) {
	for i, child := range t.Children {
		b.WriteString(padding)
		b.WriteString(boxPadding(root, boxTypeOf(i, len(t.Children))))
		b.WriteString(child.Label)
		b.WriteString("\n")
		child.print(b, false, padding+boxPadding(root, boxTypeExternal(i, len(t.Children))))
	}
}

// box drawing adapted from https://github.com/Tufin/asciitree; Apache 2

type boxType int

const (
	regularBox boxType = iota
	lastBox
	afterLastBox
	betweenBox
)

func (bt boxType) String() string {
	switch bt {
	case regularBox:
		return "\u251c" // ├
	case lastBox:
		return "\u2514" // └
	case afterLastBox:
		return " "
	case betweenBox:
		return "\u2502" // │
	default:
		panic("invalid box type")
	}
}

func boxTypeOf(index, n int) boxType {
	if index+1 == n {
		return lastBox
	} else if index+1 > n {
		return afterLastBox
	}
	return regularBox
}

func boxTypeExternal(index, n int) boxType {
	if index+1 == n {
		return afterLastBox
	}
	return betweenBox
}

func boxPadding(root bool, bt boxType) string {
	if root {
		return ""
	}
	return bt.String() + " "
}
