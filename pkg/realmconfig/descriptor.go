// Package realmconfig reads realm descriptors and builds worlds from them.
//
// A descriptor lists realms, their strategies, parents, imports and source
// locations.  YAML, JSON and TOML descriptors are read with viper; files
// ending in .star are evaluated as Starlark.
//
//	main_realm: app
//	properties:
//	  lib: /opt/app/lib
//	realms:
//	  - id: core
//	    sources: ["${lib}/core/*.jar"]
//	  - id: app
//	    parent: core
//	    parent_imports: ["org.slf4j"]
//	    imports:
//	      - from: core
//	        filter: com.acme.api
//	    sources: ["${lib}/app"]
package realmconfig

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/stackb/classworlds/pkg/realm"
)

// Descriptor describes a world.
type Descriptor struct {
	// MainRealm is the id of the realm applications resolve through.
	MainRealm string `mapstructure:"main_realm"`
	// Properties are substituted for ${name} references in realm fields.
	// Names are case-insensitive.
	Properties map[string]string `mapstructure:"properties"`
	// Realms are created in order, then wired.
	Realms []RealmDescriptor `mapstructure:"realms"`
}

// RealmDescriptor describes one realm.
type RealmDescriptor struct {
	ID string `mapstructure:"id"`
	// Strategy is a registered strategy name; empty means the default.
	Strategy string `mapstructure:"strategy"`
	// Parallel overrides per-name locking when set.
	Parallel   *bool `mapstructure:"parallel"`
	CycleGuard bool  `mapstructure:"cycle_guard"`
	// Parent is the id of the parent realm.
	Parent string `mapstructure:"parent"`
	// ParentImports restricts what is imported from the parent.
	ParentImports []string `mapstructure:"parent_imports"`
	// IsolateParent imports nothing from the parent beyond ParentImports.
	IsolateParent bool               `mapstructure:"isolate_parent"`
	Imports       []ImportDescriptor `mapstructure:"imports"`
	// Sources are source locations (paths, file: or jar: URLs, globs).
	Sources []string `mapstructure:"sources"`
}

// ImportDescriptor imports the names under Filter from the realm From.
type ImportDescriptor struct {
	From   string `mapstructure:"from"`
	Filter string `mapstructure:"filter"`
}

var propertyRef = regexp.MustCompile(`\$\{([^}]*)\}`)

// Expand returns a copy of the descriptor with ${name} references replaced
// by the descriptor properties or, failing that, environment variables.  An
// undefined name is an error.
func (d *Descriptor) Expand() (*Descriptor, error) {
	props := make(map[string]string, len(d.Properties))
	for k, v := range d.Properties {
		props[strings.ToLower(k)] = v
	}

	var firstErr error
	expand := func(s string) string {
		return propertyRef.ReplaceAllStringFunc(s, func(ref string) string {
			name := strings.TrimSpace(ref[2 : len(ref)-1])
			if v, ok := props[strings.ToLower(name)]; ok {
				return v
			}
			if v, ok := os.LookupEnv(name); ok {
				return v
			}
			if firstErr == nil {
				firstErr = fmt.Errorf("undefined property %q in %q", name, s)
			}
			return ref
		})
	}
	expandAll := func(values []string) []string {
		if values == nil {
			return nil
		}
		out := make([]string, len(values))
		for i, v := range values {
			out[i] = expand(v)
		}
		return out
	}

	out := &Descriptor{
		MainRealm:  expand(d.MainRealm),
		Properties: d.Properties,
		Realms:     make([]RealmDescriptor, len(d.Realms)),
	}
	for i, rd := range d.Realms {
		x := rd
		x.ID = expand(rd.ID)
		x.Strategy = expand(rd.Strategy)
		x.Parent = expand(rd.Parent)
		x.ParentImports = expandAll(rd.ParentImports)
		x.Sources = expandAll(rd.Sources)
		x.Imports = make([]ImportDescriptor, len(rd.Imports))
		for j, imp := range rd.Imports {
			x.Imports[j] = ImportDescriptor{From: expand(imp.From), Filter: expand(imp.Filter)}
		}
		out.Realms[i] = x
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// Validate checks the descriptor for missing ids, duplicate ids,
// unregistered strategies and references to unknown realms.
func (d *Descriptor) Validate() error {
	ids := make(map[string]bool, len(d.Realms))
	for i, rd := range d.Realms {
		if rd.ID == "" {
			return fmt.Errorf("realm #%d: missing id", i)
		}
		if ids[rd.ID] {
			return fmt.Errorf("realm %q: declared twice", rd.ID)
		}
		ids[rd.ID] = true
		if rd.Strategy != "" {
			if _, ok := realm.LookupStrategy(rd.Strategy); !ok {
				return fmt.Errorf("realm %q: %w", rd.ID, &realm.UnknownStrategyError{Name: rd.Strategy})
			}
		}
	}
	for _, rd := range d.Realms {
		if rd.Parent != "" && !ids[rd.Parent] {
			return fmt.Errorf("realm %q: unknown parent %q", rd.ID, rd.Parent)
		}
		for _, imp := range rd.Imports {
			if !ids[imp.From] {
				return fmt.Errorf("realm %q: import %q from unknown realm %q", rd.ID, imp.Filter, imp.From)
			}
		}
	}
	if d.MainRealm != "" && !ids[d.MainRealm] {
		return fmt.Errorf("unknown main realm %q", d.MainRealm)
	}
	return nil
}
