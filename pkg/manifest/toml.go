// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"maps"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// parseTOML decodes into generic maps. Tables carry no key order once
// decoded, so keys are visited in lexical order.
func parseTOML(data []byte) (node, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return node{}, err
	}
	return fromTOMLValue(doc), nil
}

func fromTOMLValue(v any) node {
	switch t := v.(type) {
	case map[string]any:
		obj := node{kind: kindObject}
		for _, k := range slices.Sorted(maps.Keys(t)) {
			obj.fields = append(obj.fields, field{key: k, value: fromTOMLValue(t[k])})
		}
		return obj
	case []any:
		list := node{kind: kindList}
		for _, item := range t {
			list.items = append(list.items, fromTOMLValue(item))
		}
		return list
	case []map[string]any:
		list := node{kind: kindList}
		for _, item := range t {
			list.items = append(list.items, fromTOMLValue(item))
		}
		return list
	case string:
		return node{kind: kindString, str: t}
	case bool:
		return node{kind: kindBool, b: t}
	default:
		return node{kind: kindOther}
	}
}
