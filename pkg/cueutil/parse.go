// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult contains the result of a successful CUE parse operation.
type ParseResult[T any] struct {
	// Value is the decoded Go value.
	Value *T

	// Unified is the unified CUE value, available for callers that need to
	// walk fields in declaration order.
	Unified cue.Value
}

// ParseAndDecode compiles schema, unifies data with the definition at
// schemaPath (e.g., "#Manifest"), validates the result and decodes it into T.
// Errors carry the filename and the JSON path of the offending field.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	unified, err := unify(schema, data, schemaPath, opts)
	if err != nil {
		return nil, err
	}

	var result T
	if err := unified.value.Decode(&result); err != nil {
		return nil, FormatError(err, unified.filename)
	}

	return &ParseResult[T]{
		Value:   &result,
		Unified: unified.value,
	}, nil
}

// ParseAndDecodeString is a convenience wrapper that accepts schema as string.
func ParseAndDecodeString[T any](schema string, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	return ParseAndDecode[T]([]byte(schema), data, schemaPath, opts...)
}

// DecodeMap validates data against the definition at schemaPath and decodes
// it into a generic map, for callers that merge the result into another
// configuration store.
func DecodeMap(schema, data []byte, schemaPath string, opts ...Option) (map[string]any, error) {
	unified, err := unify(schema, data, schemaPath, opts)
	if err != nil {
		return nil, err
	}

	var m map[string]any
	if err := unified.value.Decode(&m); err != nil {
		return nil, FormatError(err, unified.filename)
	}
	return m, nil
}

type unified struct {
	value    cue.Value
	filename string
}

func unify(schema, data []byte, schemaPath string, opts []Option) (unified, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	// Early file size check to prevent OOM from large files
	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return unified{}, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return unified{}, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return unified{}, FormatError(userValue.Err(), filename)
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return unified{}, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	value := schemaRoot.Unify(userValue)
	if err := value.Validate(cue.Concrete(options.concrete)); err != nil {
		return unified{}, FormatError(err, filename)
	}

	return unified{value: value, filename: filename}, nil
}
