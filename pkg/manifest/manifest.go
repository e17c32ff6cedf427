// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/plugload/plugload/internal/issue"
	"github.com/plugload/plugload/pkg/cueutil"
	"github.com/plugload/plugload/pkg/fspath"
	"github.com/plugload/plugload/pkg/types"
)

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatCUE  Format = "cue"

	// RootKey is the key under Namespaces that holds namespace tree directives.
	RootKey = "ROOT"
)

// ErrUnsupportedFormat is returned when a manifest extension maps to no known format.
var ErrUnsupportedFormat = errors.New("unsupported manifest format")

type (
	// Format identifies a manifest encoding.
	Format string

	// Declaration maps one namespace prefix to one base directory.
	Declaration struct {
		Prefix    string
		Directory types.FilesystemPath
		Prepend   bool
	}

	// TreeDirective asks for a namespace tree to be synthesized by mirroring
	// RootDirectory under RootNamespace.
	TreeDirective struct {
		RootNamespace string
		RootDirectory types.FilesystemPath
	}

	// Declarations is the decoded content of a manifest, in document order.
	Declarations struct {
		Namespaces []Declaration
		Trees      []TreeDirective
	}

	// LoadOptions configures Load.
	LoadOptions struct {
		// DocumentRoot is the base for relative directories. Defaults to the
		// directory holding the manifest.
		DocumentRoot types.FilesystemPath
		// MaxFileSize bounds the manifest size. Defaults to cueutil.DefaultMaxFileSize.
		MaxFileSize int64
	}
)

// FormatFromPath returns the format implied by the file extension of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".xml":
		return FormatXML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads and decodes the manifest at path. Relative directories are
// resolved against opts.DocumentRoot. Every failure is an
// *issue.ActionableError.
func Load(path string, opts LoadOptions) (*Declarations, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load manifest").
			WithResource(path).
			WithSuggestion("Use one of the .json, .xml, .yaml, .yml, .toml or .cue extensions").
			Wrap(err).
			BuildError()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		ctx := issue.NewErrorContext().
			WithOperation("load manifest").
			WithResource(path).
			Wrap(err)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			ctx.WithSuggestion("Check that the manifest path is correct")
		case errors.Is(err, fs.ErrPermission):
			ctx.WithSuggestion("Check the manifest file permissions")
		}
		return nil, ctx.BuildError()
	}

	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = cueutil.DefaultMaxFileSize
	}
	if err := cueutil.CheckFileSize(data, maxSize, path); err != nil {
		return nil, issue.WrapWithContext(err, "load manifest", path)
	}

	decls, err := Decode(format, data, path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse manifest").
			WithResource(path).
			WithSuggestion("Run 'plugload check' to validate the manifest").
			Wrap(err).
			BuildError()
	}

	root := opts.DocumentRoot
	if root == "" {
		root = fspath.Dir(types.FilesystemPath(path))
	}
	decls.resolve(root)
	return decls, nil
}

// Decode parses manifest content in the given format. Directories are
// returned as written. filename is used in error messages only.
func Decode(format Format, data []byte, filename string) (*Declarations, error) {
	switch format {
	case FormatXML:
		return decodeXML(data)
	case FormatJSON:
		n, err := parseJSON(data)
		if err != nil {
			return nil, err
		}
		return fromNode(n)
	case FormatYAML:
		n, err := parseYAML(data)
		if err != nil {
			return nil, err
		}
		return fromNode(n)
	case FormatTOML:
		n, err := parseTOML(data)
		if err != nil {
			return nil, err
		}
		return fromNode(n)
	case FormatCUE:
		n, err := parseCUE(data, filename)
		if err != nil {
			return nil, err
		}
		return fromNode(n)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func (d *Declarations) resolve(root types.FilesystemPath) {
	for i := range d.Namespaces {
		d.Namespaces[i].Directory = fspath.Resolve(root, d.Namespaces[i].Directory)
	}
	for i := range d.Trees {
		d.Trees[i].RootDirectory = fspath.Resolve(root, d.Trees[i].RootDirectory)
	}
}
