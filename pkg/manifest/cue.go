// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"

	"github.com/plugload/plugload/pkg/cueutil"
)

//go:embed manifest_schema.cue
var manifestSchema []byte

// parseCUE validates data against #Manifest and walks the unified value,
// which keeps fields in declaration order.
func parseCUE(data []byte, filename string) (node, error) {
	result, err := cueutil.ParseAndDecode[map[string]any](manifestSchema, data, "#Manifest",
		cueutil.WithFilename(filename))
	if err != nil {
		return node{}, err
	}
	return fromCUEValue(result.Unified)
}

func fromCUEValue(v cue.Value) (node, error) {
	switch v.Kind() {
	case cue.StructKind:
		it, err := v.Fields()
		if err != nil {
			return node{}, err
		}
		obj := node{kind: kindObject}
		for it.Next() {
			value, err := fromCUEValue(it.Value())
			if err != nil {
				return node{}, err
			}
			obj.fields = append(obj.fields, field{key: it.Selector().Unquoted(), value: value})
		}
		return obj, nil
	case cue.ListKind:
		it, err := v.List()
		if err != nil {
			return node{}, err
		}
		list := node{kind: kindList}
		for it.Next() {
			value, err := fromCUEValue(it.Value())
			if err != nil {
				return node{}, err
			}
			list.items = append(list.items, value)
		}
		return list, nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return node{}, err
		}
		return node{kind: kindString, str: s}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return node{}, err
		}
		return node{kind: kindBool, b: b}, nil
	case cue.BottomKind:
		return node{}, fmt.Errorf("invalid value at %s: %w", v.Path(), v.Err())
	default:
		return node{kind: kindOther}, nil
	}
}
