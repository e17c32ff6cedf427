// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// parseJSON walks the token stream rather than unmarshaling into a map so
// object key order survives.
func parseJSON(data []byte) (node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	n, err := readJSONValue(dec)
	if err != nil {
		return node{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return node{}, fmt.Errorf("unexpected data after top-level value")
	}
	return n, nil
}

func readJSONValue(dec *json.Decoder) (node, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return node{}, io.ErrUnexpectedEOF
		}
		return node{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := node{kind: kindObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return node{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return node{}, fmt.Errorf("object key must be a string, got %v", keyTok)
				}
				v, err := readJSONValue(dec)
				if err != nil {
					return node{}, err
				}
				obj.fields = append(obj.fields, field{key: key, value: v})
			}
			if _, err := dec.Token(); err != nil {
				return node{}, err
			}
			return obj, nil
		case '[':
			list := node{kind: kindList}
			for dec.More() {
				v, err := readJSONValue(dec)
				if err != nil {
					return node{}, err
				}
				list.items = append(list.items, v)
			}
			if _, err := dec.Token(); err != nil {
				return node{}, err
			}
			return list, nil
		default:
			return node{}, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return node{kind: kindString, str: t}, nil
	case bool:
		return node{kind: kindBool, b: t}, nil
	default:
		return node{kind: kindOther}, nil
	}
}
