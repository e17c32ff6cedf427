// SPDX-License-Identifier: MPL-2.0

package autoload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/plugload/plugload/internal/issue"
	"github.com/plugload/plugload/pkg/manifest"
	"github.com/plugload/plugload/pkg/nsmap"
	"github.com/plugload/plugload/pkg/nstree"
	"github.com/plugload/plugload/pkg/resolve"
	"github.com/plugload/plugload/pkg/types"
)

type (
	// Options configures Build and Install.
	Options struct {
		// DocumentRoot is the base for relative manifest directories.
		DocumentRoot types.FilesystemPath
		// Prepend registers the hook in front of existing hooks.
		Prepend bool
		// Generator options applied to every namespace tree.
		Generator []nstree.Option
		// Resolver options, e.g. extension, loader and cache size.
		Resolver []resolve.Option
		// Logger receives diagnostics. Nil discards them.
		Logger *slog.Logger
	}

	// Autoloader is an installed manifest. Its registry is replaced as a
	// whole on Reload; readers never observe a partially built registry.
	Autoloader struct {
		chain  *Chain
		path   string
		opts   Options
		logger *slog.Logger
		hookID HookID
		state  atomic.Pointer[state]
	}

	state struct {
		decls       *manifest.Declarations
		resolver    *resolve.Resolver
		diagnostics []nstree.Diagnostic
	}
)

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Build creates a registry from decls. Namespace trees are synthesized
// first and explicit declarations registered after them, so an explicit
// directory for a synthesized prefix is probed after the synthesized one
// unless it is prepended.
func Build(decls *manifest.Declarations, opts Options) (*nsmap.Registry, []nstree.Diagnostic, error) {
	reg := nsmap.New()
	gen := nstree.New(reg, append([]nstree.Option{nstree.WithLogger(opts.logger())}, opts.Generator...)...)

	var diags []nstree.Diagnostic
	for _, tree := range decls.Trees {
		res, err := gen.Generate(tree.RootNamespace, tree.RootDirectory)
		if err != nil {
			return nil, nil, issue.NewErrorContext().
				WithOperation("generate namespace tree").
				WithResource(string(tree.RootDirectory)).
				WithSuggestion("Check the ROOT entries of the manifest").
				Wrap(err).
				BuildError()
		}
		diags = append(diags, res.Diagnostics...)
	}

	for _, d := range decls.Namespaces {
		reg.Register(d.Prefix, d.Directory, d.Prepend)
	}
	return reg, diags, nil
}

// Install loads the manifest at path, builds its registry and registers the
// resolver hook on chain. On any configuration error it logs the error,
// registers nothing and returns false.
func Install(ctx context.Context, chain *Chain, path string, opts Options) (*Autoloader, bool) {
	a := &Autoloader{chain: chain, path: path, opts: opts, logger: opts.logger()}

	st, err := a.build()
	if err != nil {
		a.logger.ErrorContext(ctx, "autoloader not installed", "manifest", path, "error", err)
		return nil, false
	}
	a.state.Store(st)
	a.hookID = chain.Register(a.lookup, opts.Prepend)

	a.logger.DebugContext(ctx, "autoloader installed",
		"manifest", path, "prefixes", st.resolver.Registry().Len(), "diagnostics", len(st.diagnostics), "hooks", chain.Len())
	return a, true
}

// Reload rebuilds the registry from the manifest and swaps it in. On error
// the previous registry stays active.
func (a *Autoloader) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	st, err := a.build()
	if err != nil {
		a.logger.WarnContext(ctx, "reload failed, keeping previous map", "manifest", a.path, "error", err)
		return err
	}
	a.state.Store(st)
	a.logger.InfoContext(ctx, "namespace map reloaded", "manifest", a.path, "prefixes", st.resolver.Registry().Len())
	return nil
}

// Close removes the hook from the chain.
func (a *Autoloader) Close() error {
	if !a.chain.Unregister(a.hookID) {
		return errors.New("autoloader hook already removed")
	}
	return nil
}

// ManifestPath returns the path of the installed manifest.
func (a *Autoloader) ManifestPath() string { return a.path }

// Resolver returns the active resolver.
func (a *Autoloader) Resolver() *resolve.Resolver { return a.state.Load().resolver }

// Registry returns the active registry.
func (a *Autoloader) Registry() *nsmap.Registry { return a.state.Load().resolver.Registry() }

// Declarations returns the manifest content the active registry was built from.
func (a *Autoloader) Declarations() *manifest.Declarations { return a.state.Load().decls }

// Diagnostics returns the tree generation diagnostics of the last build.
func (a *Autoloader) Diagnostics() []nstree.Diagnostic { return a.state.Load().diagnostics }

func (a *Autoloader) lookup(name string) bool {
	return a.state.Load().resolver.Load(types.QualifiedName(name))
}

func (a *Autoloader) build() (*state, error) {
	decls, err := manifest.Load(a.path, manifest.LoadOptions{DocumentRoot: a.opts.DocumentRoot})
	if err != nil {
		return nil, err
	}
	reg, diags, err := Build(decls, a.opts)
	if err != nil {
		return nil, err
	}
	ropts := append([]resolve.Option{resolve.WithLogger(a.logger)}, a.opts.Resolver...)
	return &state{
		decls:       decls,
		resolver:    resolve.New(reg, ropts...),
		diagnostics: diags,
	}, nil
}
