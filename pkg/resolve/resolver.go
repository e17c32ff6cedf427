// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/plugload/plugload/pkg/fspath"
	"github.com/plugload/plugload/pkg/nsmap"
	"github.com/plugload/plugload/pkg/types"
)

// DefaultExtension is the source file extension appended to candidate paths.
const DefaultExtension = ".php"

type (
	// Resolver resolves qualified names against a registry. The registry must
	// not be modified once it has been handed to New.
	Resolver struct {
		registry *nsmap.Registry
		ext      string
		prober   Prober
		loader   Loader
		logger   *slog.Logger
		cache    *lru.Cache[types.QualifiedName, Result]
	}

	// Option configures a Resolver.
	Option func(*Resolver)

	// Result describes a successful resolution.
	Result struct {
		// Name is the name that was resolved, without a leading separator.
		Name types.QualifiedName
		// Prefix is the registered prefix that matched.
		Prefix types.NamespacePrefix
		// Directory is the base directory the file was found in.
		Directory types.FilesystemPath
		// File is the resolved source file.
		File types.FilesystemPath
	}

	// Attempt is one candidate file considered during resolution.
	Attempt struct {
		Prefix    types.NamespacePrefix
		Directory types.FilesystemPath
		File      types.FilesystemPath
		// Exists is set by Attempts; it is false for candidates that were not
		// probed.
		Exists bool
	}
)

// WithExtension sets the source file extension. A missing leading dot is added.
func WithExtension(ext string) Option {
	return func(r *Resolver) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.ext = ext
	}
}

// WithProber replaces the filesystem prober.
func WithProber(p Prober) Option {
	return func(r *Resolver) { r.prober = p }
}

// WithLoader sets the loader invoked by Load.
func WithLoader(l Loader) Option {
	return func(r *Resolver) { r.loader = l }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithCacheSize keeps up to size successful resolutions in memory. Zero
// disables the cache, which is the default. Misses are never cached.
func WithCacheSize(size int) Option {
	return func(r *Resolver) {
		if size <= 0 {
			r.cache = nil
			return
		}
		c, err := lru.New[types.QualifiedName, Result](size)
		if err != nil {
			r.logger.Warn("resolution cache disabled", "size", size, "error", err)
			return
		}
		r.cache = c
	}
}

// New creates a Resolver over reg.
func New(reg *nsmap.Registry, opts ...Option) *Resolver {
	r := &Resolver{
		registry: reg,
		ext:      DefaultExtension,
		prober:   OSProber{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = nsmap.New()
	}
	return r
}

// Registry returns the registry the resolver reads from.
func (r *Resolver) Registry() *nsmap.Registry {
	return r.registry
}

// Extension returns the source file extension in use.
func (r *Resolver) Extension() string {
	return r.ext
}

// Resolve returns the file that name resolves to without loading it. A cached
// resolution is only reused while its file still exists.
func (r *Resolver) Resolve(name types.QualifiedName) (Result, bool) {
	if name.IsBare() {
		return Result{}, false
	}
	name = name.Trimmed()
	if r.cache != nil {
		if res, ok := r.cache.Get(name); ok {
			if r.prober.Exists(res.File) {
				return res, true
			}
			r.logger.Debug("evicting stale resolution", "name", name, "file", res.File)
			r.cache.Remove(name)
		}
	}

	for a := range r.candidates(name) {
		if !r.prober.Exists(a.File) {
			continue
		}
		res := Result{Name: name, Prefix: a.Prefix, Directory: a.Directory, File: a.File}
		if r.cache != nil {
			r.cache.Add(name, res)
		}
		return res, true
	}

	r.logger.Debug("name not resolved", "name", name)
	return Result{}, false
}

// Load resolves name and hands the first existing candidate to the loader.
// If the loader fails, the candidate counts as missing and the remaining
// candidates are tried. Load reports whether a file was loaded; it never
// panics. Without a loader nothing can be loaded and Load returns false.
func (r *Resolver) Load(name types.QualifiedName) (loaded bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("resolver fault", "name", name, "panic", fmt.Sprint(rec))
			loaded = false
		}
	}()

	if r.loader == nil {
		r.logger.Debug("no loader configured", "name", name)
		return false
	}
	if name.IsBare() {
		return false
	}
	name = name.Trimmed()

	var failed types.FilesystemPath
	if r.cache != nil {
		if res, ok := r.cache.Get(name); ok {
			if err := r.loader.Load(res.File); err == nil {
				return true
			}
			r.cache.Remove(name)
			failed = res.File
		}
	}

	for a := range r.candidates(name) {
		if a.File == failed || !r.prober.Exists(a.File) {
			continue
		}
		if err := r.loader.Load(a.File); err != nil {
			r.logger.Debug("skipping unloadable candidate", "name", name, "file", a.File, "error", err)
			continue
		}
		if r.cache != nil {
			r.cache.Add(name, Result{Name: name, Prefix: a.Prefix, Directory: a.Directory, File: a.File})
		}
		return true
	}

	r.logger.Debug("name not resolved", "name", name)
	return false
}

// Attempts lists every candidate resolution would consider for name, in
// probe order, with the probe outcome. Unlike Resolve it does not stop at the
// first existing file.
func (r *Resolver) Attempts(name types.QualifiedName) []Attempt {
	if name.IsBare() {
		return nil
	}
	var attempts []Attempt
	for a := range r.candidates(name.Trimmed()) {
		a.Exists = r.prober.Exists(a.File)
		attempts = append(attempts, a)
	}
	return attempts
}

// candidates yields candidate files from the most specific prefix of name to
// the least specific. The relative suffix is always sliced from the full name
// at the separator found in the shrinking remainder.
func (r *Resolver) candidates(name types.QualifiedName) iter.Seq[Attempt] {
	return func(yield func(Attempt) bool) {
		full := string(name)
		remaining := full
		for {
			sep := strings.LastIndexByte(remaining, types.NamespaceSeparator)
			if sep < 0 {
				return
			}
			prefix := types.NamespacePrefix(remaining[:sep+1])
			suffix := full[sep+1:]

			if rel, ok := relativePath(suffix); ok {
				for _, dir := range r.registry.Lookup(prefix) {
					file := fspath.JoinStr(dir, rel+r.ext)
					if !yield(Attempt{Prefix: prefix, Directory: dir, File: file}) {
						return
					}
				}
			}

			remaining = remaining[:sep]
		}
	}
}

// relativePath converts a name suffix into a relative file path. Suffixes
// that are empty or could step outside the base directory are rejected.
func relativePath(suffix string) (string, bool) {
	if suffix == "" {
		return "", false
	}
	segments := strings.Split(suffix, string(types.NamespaceSeparator))
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." || strings.ContainsAny(seg, "/\x00") {
			return "", false
		}
	}
	return filepath.Join(segments...), true
}
