package realmconfig

import (
	"fmt"
	"io"
	"log"

	"go.starlark.net/starlark"

	"github.com/stackb/classworlds/pkg/starlarkeval"
)

// LoadStarlark evaluates a Starlark descriptor.  The file declares realms
// with the builtins
//
//	property(name, value)
//	main(id)
//	realm(id, strategy="", parallel=None, cycle_guard=False, parent="",
//	      parent_imports=[], isolate_parent=False, imports={}, sources=[])
//
// where imports is either a dict mapping filters to realm ids or a list of
// (filter, realm id) pairs.  The list form can import one filter from
// several realms.
func LoadStarlark(filename string, src io.Reader) (*Descriptor, error) {
	b := &starlarkBuilder{desc: &Descriptor{Properties: make(map[string]string)}}

	interpreter := starlarkeval.NewInterpreter(filename, log.Printf)
	interpreter.Builtin("realm", b.realm)
	interpreter.Builtin("property", b.property)
	interpreter.Builtin("main", b.main)

	if err := interpreter.Exec(filename, src); err != nil {
		return nil, fmt.Errorf("eval %s: %w", filename, err)
	}
	return b.desc, nil
}

type starlarkBuilder struct {
	desc *Descriptor
}

func (b *starlarkBuilder) property(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name, value string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "value", &value); err != nil {
		return nil, err
	}
	b.desc.Properties[name] = value
	return starlark.None, nil
}

func (b *starlarkBuilder) main(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var id string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "id", &id); err != nil {
		return nil, err
	}
	b.desc.MainRealm = id
	return starlark.None, nil
}

func (b *starlarkBuilder) realm(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		rd            RealmDescriptor
		parallel      starlark.Value
		parentImports starlark.Value
		imports       starlark.Value
		sources       starlark.Value
	)
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs,
		"id", &rd.ID,
		"strategy?", &rd.Strategy,
		"parallel?", &parallel,
		"cycle_guard?", &rd.CycleGuard,
		"parent?", &rd.Parent,
		"parent_imports?", &parentImports,
		"isolate_parent?", &rd.IsolateParent,
		"imports?", &imports,
		"sources?", &sources,
	); err != nil {
		return nil, err
	}

	if parallel != nil && parallel != starlark.None {
		flag, ok := parallel.(starlark.Bool)
		if !ok {
			return nil, fmt.Errorf("%s: parallel: got %s, want bool", fn.Name(), parallel.Type())
		}
		value := bool(flag)
		rd.Parallel = &value
	}

	var err error
	if rd.ParentImports, err = starlarkeval.StringList(parentImports); err != nil {
		return nil, fmt.Errorf("%s: parent_imports: %w", fn.Name(), err)
	}
	if rd.Sources, err = starlarkeval.StringList(sources); err != nil {
		return nil, fmt.Errorf("%s: sources: %w", fn.Name(), err)
	}
	if rd.Imports, err = importList(imports); err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}

	b.desc.Realms = append(b.desc.Realms, rd)
	return starlark.String(rd.ID), nil
}

// importList converts the imports argument of realm().
func importList(v starlark.Value) ([]ImportDescriptor, error) {
	var pairs []starlark.Tuple
	switch t := v.(type) {
	case nil, starlark.NoneType:
		return nil, nil
	case *starlark.Dict:
		pairs = t.Items()
	case starlark.Iterable:
		it := t.Iterate()
		defer it.Done()
		var x starlark.Value
		for i := 0; it.Next(&x); i++ {
			var pair starlark.Indexable
			switch p := x.(type) {
			case starlark.Tuple:
				pair = p
			case *starlark.List:
				pair = p
			}
			if pair == nil || pair.Len() != 2 {
				return nil, fmt.Errorf("imports[%d]: got %s, want (filter, realm id) pair", i, x.Type())
			}
			pairs = append(pairs, starlark.Tuple{pair.Index(0), pair.Index(1)})
		}
	default:
		return nil, fmt.Errorf("imports: got %s, want dict or list", v.Type())
	}

	imports := make([]ImportDescriptor, 0, len(pairs))
	for _, item := range pairs {
		filter, ok := starlark.AsString(item[0])
		if !ok {
			return nil, fmt.Errorf("imports: got %s filter, want string", item[0].Type())
		}
		from, ok := starlark.AsString(item[1])
		if !ok {
			return nil, fmt.Errorf("imports[%q]: got %s, want realm id", filter, item[1].Type())
		}
		imports = append(imports, ImportDescriptor{From: from, Filter: filter})
	}
	return imports, nil
}
