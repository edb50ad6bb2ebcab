package realm

import (
	"fmt"
	"io"
	"strings"
)

// Description is a report of a realm and its parent chain, nearest first.
type Description struct {
	Realms []RealmDescription `json:"realms" yaml:"realms"`
}

// RealmDescription describes a single realm.
type RealmDescription struct {
	ID       string   `json:"id" yaml:"id"`
	Strategy string   `json:"strategy" yaml:"strategy"`
	Parallel bool     `json:"parallel" yaml:"parallel"`
	Sources  []string `json:"sources,omitempty" yaml:"sources,omitempty"`
	Imports  []string `json:"imports,omitempty" yaml:"imports,omitempty"`
	// ParentImports is nil when everything is imported from the parent.
	ParentImports []string `json:"parent_imports,omitempty" yaml:"parent_imports,omitempty"`
	// RestrictsParent is true when a parent-import set exists.
	RestrictsParent bool   `json:"restricts_parent,omitempty" yaml:"restricts_parent,omitempty"`
	Parent          string `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// Describe reports the realm and its chain of parent realms.  The walk stops
// at a parent that is not a realm, or at a realm already reported.
func (r *Realm) Describe() *Description {
	d := &Description{}
	seen := make(map[*Realm]bool)
	for cr := r; cr != nil && !seen[cr]; cr = cr.ParentRealm() {
		seen[cr] = true
		d.Realms = append(d.Realms, cr.describeSelf())
	}
	return d
}

func (r *Realm) describeSelf() RealmDescription {
	rd := RealmDescription{
		ID:       r.id,
		Strategy: r.strategyName,
		Parallel: r.parallel,
	}
	for _, src := range r.Sources() {
		rd.Sources = append(rd.Sources, src.String())
	}
	for _, e := range r.Imports() {
		rd.Imports = append(rd.Imports, e.String())
	}
	if entries, ok := r.ParentImports(); ok {
		rd.RestrictsParent = true
		for _, e := range entries {
			rd.ParentImports = append(rd.ParentImports, e.String())
		}
	}
	if parent := r.Parent(); parent != nil {
		if p, ok := parent.(*Realm); ok {
			rd.Parent = p.id
		} else {
			rd.Parent = fmt.Sprintf("%v", parent)
		}
	}
	return rd
}

// Display writes a human readable form of Describe to w.
func (r *Realm) Display(w io.Writer) error {
	return r.Describe().Write(w)
}

// Write writes the description to w.
func (d *Description) Write(w io.Writer) error {
	var buf strings.Builder
	rule := strings.Repeat("-", 53)
	buf.WriteString(rule + "\n")
	for _, rd := range d.Realms {
		fmt.Fprintf(&buf, "realm =    %s\n", rd.ID)
		fmt.Fprintf(&buf, "strategy = %s\n", rd.Strategy)
		if rd.Parent != "" {
			fmt.Fprintf(&buf, "parent =   %s\n", rd.Parent)
		}
		for i, src := range rd.Sources {
			fmt.Fprintf(&buf, "sources[%d] = %s\n", i, src)
		}
		fmt.Fprintf(&buf, "Number of foreign imports: %d\n", len(rd.Imports))
		for _, imp := range rd.Imports {
			fmt.Fprintf(&buf, "import: %s\n", imp)
		}
		if rd.RestrictsParent {
			fmt.Fprintf(&buf, "Number of parent imports: %d\n", len(rd.ParentImports))
			for _, imp := range rd.ParentImports {
				fmt.Fprintf(&buf, "import: %s\n", imp)
			}
		}
		buf.WriteString("\n")
	}
	buf.WriteString(rule + "\n")
	_, err := io.WriteString(w, buf.String())
	return err
}
