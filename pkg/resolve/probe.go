// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"os"

	"github.com/plugload/plugload/pkg/types"
)

type (
	// Prober reports whether a candidate file exists.
	Prober interface {
		Exists(path types.FilesystemPath) bool
	}

	// ProberFunc adapts a function to the Prober interface.
	ProberFunc func(path types.FilesystemPath) bool

	// OSProber probes the local filesystem. Only regular files (after
	// following symlinks) count as existing; every stat error is a miss.
	OSProber struct{}

	// Loader receives the file chosen by the resolver. A returned error makes
	// the resolver treat the file as missing and continue with the next
	// candidate.
	Loader interface {
		Load(path types.FilesystemPath) error
	}

	// LoaderFunc adapts a function to the Loader interface.
	LoaderFunc func(path types.FilesystemPath) error
)

// Exists calls f(path).
func (f ProberFunc) Exists(path types.FilesystemPath) bool { return f(path) }

// Exists reports whether path names a regular file.
func (OSProber) Exists(path types.FilesystemPath) bool {
	info, err := os.Stat(string(path))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Load calls f(path).
func (f LoaderFunc) Load(path types.FilesystemPath) error { return f(path) }
