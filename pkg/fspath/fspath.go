// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath functions that
// accept and return types.FilesystemPath, plus the directory normalization
// used when base directories are registered.
package fspath

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/plugload/plugload/pkg/types"
)

// Join wraps filepath.Join, accepting and returning types.FilesystemPath.
func Join(elem ...types.FilesystemPath) types.FilesystemPath {
	strs := make([]string, len(elem))
	for i, e := range elem {
		strs[i] = string(e)
	}
	return types.FilesystemPath(filepath.Join(strs...))
}

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments such as names returned by os.ReadDir.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Abs wraps filepath.Abs for FilesystemPath.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// FromSlash wraps filepath.FromSlash for FilesystemPath.
func FromSlash(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.FromSlash(string(p)))
}

// IsAbs wraps filepath.IsAbs for FilesystemPath.
func IsAbs(p types.FilesystemPath) bool {
	return filepath.IsAbs(string(p))
}

// TrimTrailingSeparator removes trailing path separators (both '/' and the
// OS separator). A path made only of separators is reduced to a single one so
// the filesystem root stays addressable.
func TrimTrailingSeparator(p types.FilesystemPath) types.FilesystemPath {
	s := string(p)
	trimmed := strings.TrimRight(s, "/"+string(filepath.Separator))
	if trimmed == "" && s != "" {
		return types.FilesystemPath(s[:1])
	}
	return types.FilesystemPath(trimmed)
}

// Resolve makes p absolute relative to base. Absolute paths are returned
// unchanged; forward slashes are converted to the OS separator first.
func Resolve(base, p types.FilesystemPath) types.FilesystemPath {
	p = FromSlash(p)
	if IsAbs(p) || base == "" {
		return p
	}
	return Join(base, p)
}
