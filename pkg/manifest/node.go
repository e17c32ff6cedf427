// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"

	"github.com/plugload/plugload/pkg/types"
)

const (
	kindString nodeKind = iota + 1
	kindBool
	kindList
	kindObject
	kindOther
)

type (
	nodeKind int

	// node is the format-neutral, order-preserving document tree the
	// key-value formats decode into.
	node struct {
		kind   nodeKind
		str    string
		b      bool
		items  []node
		fields []field
	}

	field struct {
		key   string
		value node
	}
)

func (k nodeKind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindBool:
		return "bool"
	case kindList:
		return "list"
	case kindObject:
		return "object"
	default:
		return "value"
	}
}

func (n node) lookup(key string) (node, bool) {
	for _, f := range n.fields {
		if f.key == key {
			return f.value, true
		}
	}
	return node{}, false
}

func fromNode(root node) (*Declarations, error) {
	if root.kind != kindObject {
		return nil, fmt.Errorf("manifest must be an object, got %s", root.kind)
	}
	ns, ok := root.lookup("Namespaces")
	if !ok {
		return nil, errors.New(`missing "Namespaces" section`)
	}
	if ns.kind != kindObject {
		return nil, fmt.Errorf("Namespaces: must be an object, got %s", ns.kind)
	}

	decls := &Declarations{}
	for _, f := range ns.fields {
		if f.key == RootKey {
			trees, err := treesFromNode(f.value)
			if err != nil {
				return nil, err
			}
			decls.Trees = append(decls.Trees, trees...)
			continue
		}
		targets, err := targetsFromNode(f.key, f.value)
		if err != nil {
			return nil, err
		}
		decls.Namespaces = append(decls.Namespaces, targets...)
	}
	return decls, nil
}

func treesFromNode(n node) ([]TreeDirective, error) {
	if n.kind != kindObject {
		return nil, fmt.Errorf("Namespaces.%s: must map root namespaces to directories, got %s", RootKey, n.kind)
	}
	trees := make([]TreeDirective, 0, len(n.fields))
	for _, f := range n.fields {
		if f.value.kind != kindString || f.value.str == "" {
			return nil, fmt.Errorf("Namespaces.%s.%s: directory must be a non-empty string", RootKey, f.key)
		}
		trees = append(trees, TreeDirective{RootNamespace: f.key, RootDirectory: types.FilesystemPath(f.value.str)})
	}
	return trees, nil
}

func targetsFromNode(prefix string, n node) ([]Declaration, error) {
	switch n.kind {
	case kindString, kindObject:
		d, err := targetFromNode(prefix, n)
		if err != nil {
			return nil, err
		}
		return []Declaration{d}, nil
	case kindList:
		out := make([]Declaration, 0, len(n.items))
		for _, item := range n.items {
			d, err := targetFromNode(prefix, item)
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("Namespaces.%s: expected string, list or object, got %s", prefix, n.kind)
	}
}

func targetFromNode(prefix string, n node) (Declaration, error) {
	d := Declaration{Prefix: prefix}
	switch n.kind {
	case kindString:
		d.Directory = types.FilesystemPath(n.str)
	case kindObject:
		for _, f := range n.fields {
			switch f.key {
			case "directory":
				if f.value.kind != kindString {
					return d, fmt.Errorf("Namespaces.%s.directory: expected string, got %s", prefix, f.value.kind)
				}
				d.Directory = types.FilesystemPath(f.value.str)
			case "prepend":
				if f.value.kind != kindBool {
					return d, fmt.Errorf("Namespaces.%s.prepend: expected bool, got %s", prefix, f.value.kind)
				}
				d.Prepend = f.value.b
			default:
				return d, fmt.Errorf("Namespaces.%s: unknown field %q", prefix, f.key)
			}
		}
	default:
		return d, fmt.Errorf("Namespaces.%s: expected string or object, got %s", prefix, n.kind)
	}
	if d.Directory == "" {
		return d, fmt.Errorf("Namespaces.%s: directory must not be empty", prefix)
	}
	return d, nil
}
