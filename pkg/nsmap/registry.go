// SPDX-License-Identifier: MPL-2.0

package nsmap

import (
	"slices"

	"github.com/plugload/plugload/pkg/fspath"
	"github.com/plugload/plugload/pkg/types"
)

type (
	// Registry maps namespace prefixes to ordered base directory lists.
	// The zero value is not usable; create one with New.
	Registry struct {
		dirs map[types.NamespacePrefix][]types.FilesystemPath
	}

	// Entry is one prefix together with its base directories, in probe order.
	Entry struct {
		Prefix      types.NamespacePrefix
		Directories []types.FilesystemPath
	}
)

// New creates an empty Registry.
func New() *Registry {
	return &Registry{dirs: make(map[types.NamespacePrefix][]types.FilesystemPath)}
}

// Register adds directory to the base directory list of prefix. The prefix is
// normalized (see types.NormalizePrefix) and trailing separators are removed
// from the directory. With prepend the directory is searched before every
// directory already registered for the prefix; otherwise after them.
//
// Duplicates are kept. A prefix without any segment is ignored.
func (r *Registry) Register(prefix string, directory types.FilesystemPath, prepend bool) {
	key := types.NormalizePrefix(prefix)
	if key == "" {
		return
	}
	dir := fspath.TrimTrailingSeparator(directory)

	if prepend {
		r.dirs[key] = slices.Insert(r.dirs[key], 0, dir)
		return
	}
	r.dirs[key] = append(r.dirs[key], dir)
}

// Lookup returns the base directories registered for exactly prefix, in probe
// order, or nil if the prefix is unknown. The returned slice is a copy.
func (r *Registry) Lookup(prefix types.NamespacePrefix) []types.FilesystemPath {
	return slices.Clone(r.dirs[prefix])
}

// Has reports whether prefix has at least one base directory.
func (r *Registry) Has(prefix types.NamespacePrefix) bool {
	return len(r.dirs[prefix]) > 0
}

// Len returns the number of registered prefixes.
func (r *Registry) Len() int {
	return len(r.dirs)
}

// Prefixes returns every registered prefix in lexical order.
func (r *Registry) Prefixes() []types.NamespacePrefix {
	prefixes := make([]types.NamespacePrefix, 0, len(r.dirs))
	for p := range r.dirs {
		prefixes = append(prefixes, p)
	}
	slices.Sort(prefixes)
	return prefixes
}

// Entries returns a snapshot of the registry ordered by prefix.
func (r *Registry) Entries() []Entry {
	prefixes := r.Prefixes()
	entries := make([]Entry, len(prefixes))
	for i, p := range prefixes {
		entries[i] = Entry{Prefix: p, Directories: slices.Clone(r.dirs[p])}
	}
	return entries
}

// Merge appends every directory of other to r, prefix by prefix in lexical
// order and keeping each list's order. It is the serialized union step for
// registries built from separate sources.
func (r *Registry) Merge(other *Registry) {
	if other == nil {
		return
	}
	for _, e := range other.Entries() {
		r.dirs[e.Prefix] = append(r.dirs[e.Prefix], e.Directories...)
	}
}
