// SPDX-License-Identifier: MPL-2.0

package nstree

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/plugload/plugload/pkg/fspath"
	"github.com/plugload/plugload/pkg/nsmap"
	"github.com/plugload/plugload/pkg/platform"
	"github.com/plugload/plugload/pkg/types"
)

type (
	// Generator registers synthesized prefixes for directory trees.
	Generator struct {
		registry   *nsmap.Registry
		skipHidden bool
		ignore     []string
		logger     *slog.Logger
	}

	// Option configures a Generator.
	Option func(*Generator)

	// Mapping is one prefix registration made by Generate.
	Mapping struct {
		Prefix    types.NamespacePrefix
		Directory types.FilesystemPath
	}

	// Result reports what a Generate call registered.
	Result struct {
		// Root is the normalized root namespace prefix.
		Root types.NamespacePrefix
		// Mappings lists every registration in the order it was made; the
		// first entry is always the root.
		Mappings []Mapping
		// Diagnostics lists directories that could not be walked or mapped.
		Diagnostics []Diagnostic
	}

	// frame is a directory waiting to be registered and expanded.
	frame struct {
		dir    types.FilesystemPath
		prefix types.NamespacePrefix
		rel    string
	}
)

// WithSkipHidden controls whether entries whose name starts with a dot are
// skipped. Enabled by default.
func WithSkipHidden(skip bool) Option {
	return func(g *Generator) { g.skipHidden = skip }
}

// WithIgnore adds doublestar patterns matched against slash-separated paths
// relative to the root directory (e.g., "**/tests", "vendor/**"). A matching
// directory and its whole subtree are skipped.
func WithIgnore(patterns ...string) Option {
	return func(g *Generator) { g.ignore = append(g.ignore, patterns...) }
}

// WithLogger sets the logger used to report diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a Generator that registers into reg.
func New(reg *nsmap.Registry, opts ...Option) *Generator {
	g := &Generator{
		registry:   reg,
		skipHidden: true,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate registers rootNamespace for rootDirectory and a synthesized prefix
// for every directory below it. Calling it again with the same arguments
// appends the same directories again; no mapping is ever lost.
//
// An error is returned only for an empty root namespace or an invalid ignore
// pattern, in which case nothing is registered. A missing or unreadable root
// directory still registers the root prefix and yields a diagnostic.
func (g *Generator) Generate(rootNamespace string, rootDirectory types.FilesystemPath) (*Result, error) {
	root := types.NormalizePrefix(rootNamespace)
	if err := root.Validate(); err != nil {
		return nil, fmt.Errorf("generate namespace tree: %w", err)
	}
	if err := rootDirectory.Validate(); err != nil {
		return nil, fmt.Errorf("generate namespace tree: %w", err)
	}
	for _, pat := range g.ignore {
		if _, err := doublestar.Match(pat, ""); err != nil {
			return nil, fmt.Errorf("generate namespace tree: invalid ignore pattern %q: %w", pat, err)
		}
	}

	res := &Result{Root: root}
	stack := []frame{{dir: fspath.TrimTrailingSeparator(rootDirectory), prefix: root}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		g.registry.Register(string(cur.prefix), cur.dir, false)
		res.Mappings = append(res.Mappings, Mapping{Prefix: cur.prefix, Directory: cur.dir})

		children := g.children(cur, res)
		// Push in reverse so the lexically first child is expanded next.
		for _, child := range slices.Backward(children) {
			stack = append(stack, child)
		}
	}

	g.logger.Debug("namespace tree generated", "root", root, "dir", rootDirectory, "prefixes", len(res.Mappings))
	return res, nil
}

// children lists the subdirectories of cur that should be mapped, in lexical
// order, recording diagnostics for entries that cannot be.
func (g *Generator) children(cur frame, res *Result) []frame {
	entries, err := os.ReadDir(string(cur.dir))
	if err != nil {
		code := "directory_unreadable"
		if errors.Is(err, fs.ErrNotExist) {
			code = "directory_missing"
		}
		// Nothing below an unlistable root gets mapped.
		severity := SeverityWarning
		if cur.rel == "" {
			severity = SeverityError
		}
		g.report(res, Diagnostic{
			Severity: severity,
			Code:     code,
			Message:  fmt.Sprintf("cannot list %s: %v", cur.dir, err),
			Path:     string(cur.dir),
			Cause:    err,
		})
		return nil
	}

	var out []frame
	for _, entry := range entries {
		// DirEntry types come from lstat, so symlinked directories are not
		// descended.
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if g.skipHidden && strings.HasPrefix(name, ".") {
			continue
		}

		rel := path.Join(cur.rel, name)
		if g.isIgnored(rel) {
			continue
		}

		dir := fspath.JoinStr(cur.dir, name)
		if strings.ContainsRune(name, types.NamespaceSeparator) {
			g.report(res, Diagnostic{
				Severity: SeverityWarning,
				Code:     "directory_unmappable",
				Message:  fmt.Sprintf("directory name %q contains the namespace separator, skipping", name),
				Path:     string(dir),
			})
			continue
		}

		if platform.IsWindowsReservedName(name) {
			g.report(res, Diagnostic{
				Severity: SeverityWarning,
				Code:     "directory_reserved_name",
				Message:  fmt.Sprintf("directory name %q is reserved on Windows, mapping is not portable", name),
				Path:     string(dir),
			})
		}

		out = append(out, frame{dir: dir, prefix: cur.prefix.Child(Capitalize(name)), rel: rel})
	}
	return out
}

// isIgnored reports whether rel (slash-separated, relative to the root)
// matches an ignore pattern, as a path or as a directory.
func (g *Generator) isIgnored(rel string) bool {
	for _, pat := range g.ignore {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pat, rel+"/"); err == nil && matched {
			return true
		}
	}
	return false
}

func (g *Generator) report(res *Result, d Diagnostic) {
	res.Diagnostics = append(res.Diagnostics, d)
	if d.Severity == SeverityError {
		g.logger.Error(d.Message, "code", d.Code, "path", d.Path)
		return
	}
	g.logger.Warn(d.Message, "code", d.Code, "path", d.Path)
}

// Capitalize upper-cases the first byte of s when it is an ASCII lowercase
// letter. Everything else is returned unchanged.
func Capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
