// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

func parseYAML(data []byte) (node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return node{}, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return node{}, errors.New("empty document")
	}
	return fromYAMLNode(doc.Content[0])
}

func fromYAMLNode(y *yaml.Node) (node, error) {
	switch y.Kind {
	case yaml.AliasNode:
		return fromYAMLNode(y.Alias)
	case yaml.MappingNode:
		obj := node{kind: kindObject}
		for i := 0; i+1 < len(y.Content); i += 2 {
			k, v := y.Content[i], y.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return node{}, fmt.Errorf("line %d: mapping key must be a scalar", k.Line)
			}
			value, err := fromYAMLNode(v)
			if err != nil {
				return node{}, err
			}
			obj.fields = append(obj.fields, field{key: k.Value, value: value})
		}
		return obj, nil
	case yaml.SequenceNode:
		list := node{kind: kindList}
		for _, item := range y.Content {
			value, err := fromYAMLNode(item)
			if err != nil {
				return node{}, err
			}
			list.items = append(list.items, value)
		}
		return list, nil
	case yaml.ScalarNode:
		switch y.ShortTag() {
		case "!!str":
			return node{kind: kindString, str: y.Value}, nil
		case "!!bool":
			var b bool
			if err := y.Decode(&b); err != nil {
				return node{}, fmt.Errorf("line %d: %w", y.Line, err)
			}
			return node{kind: kindBool, b: b}, nil
		default:
			return node{kind: kindOther}, nil
		}
	default:
		return node{kind: kindOther}, nil
	}
}
