// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// NamespaceSeparator separates the segments of a qualified name.
const NamespaceSeparator = '\\'

// nsSep is NamespaceSeparator as a string, for strings package helpers.
const nsSep = string(NamespaceSeparator)

// ErrInvalidNamespacePrefix is the sentinel error wrapped by InvalidNamespacePrefixError.
var ErrInvalidNamespacePrefix = errors.New("invalid namespace prefix")

type (
	// NamespacePrefix is a leading, separator-terminated portion of a
	// qualified name, e.g. `Vendor\Package\`. A normalized prefix has no
	// leading separator, no empty segments and exactly one trailing separator.
	NamespacePrefix string

	// QualifiedName identifies a loadable unit, e.g. `Vendor\Package\Class`.
	QualifiedName string

	// InvalidNamespacePrefixError is returned when a NamespacePrefix is not
	// normalized or has no segments.
	InvalidNamespacePrefixError struct {
		Value  NamespacePrefix
		Reason string
	}
)

// NormalizePrefix trims surrounding separators and whitespace, collapses runs
// of separators and appends exactly one trailing separator. A value with no
// segments normalizes to the empty prefix.
func NormalizePrefix(s string) NamespacePrefix {
	segments := splitSegments(s)
	if len(segments) == 0 {
		return ""
	}
	return NamespacePrefix(strings.Join(segments, nsSep) + nsSep)
}

// JoinPrefix builds a prefix from individual segments. Empty segments are
// dropped.
func JoinPrefix(segments ...string) NamespacePrefix {
	return NormalizePrefix(strings.Join(segments, nsSep))
}

// String returns the string representation of the NamespacePrefix.
func (p NamespacePrefix) String() string { return string(p) }

// Segments returns the prefix split into its segments, without separators.
func (p NamespacePrefix) Segments() []string {
	return splitSegments(string(p))
}

// Child returns the prefix extended by one segment.
func (p NamespacePrefix) Child(segment string) NamespacePrefix {
	return NormalizePrefix(string(p) + nsSep + segment)
}

// Validate returns an error unless the prefix is already in normalized form.
func (p NamespacePrefix) Validate() error {
	s := string(p)
	switch {
	case s == "":
		return &InvalidNamespacePrefixError{Value: p, Reason: "must have at least one segment"}
	case strings.HasPrefix(s, nsSep):
		return &InvalidNamespacePrefixError{Value: p, Reason: "must not start with a separator"}
	case !strings.HasSuffix(s, nsSep):
		return &InvalidNamespacePrefixError{Value: p, Reason: "must end with a separator"}
	case strings.Contains(s, nsSep+nsSep):
		return &InvalidNamespacePrefixError{Value: p, Reason: "must not contain consecutive separators"}
	}
	return nil
}

// Error implements the error interface for InvalidNamespacePrefixError.
func (e *InvalidNamespacePrefixError) Error() string {
	return fmt.Sprintf("invalid namespace prefix %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidNamespacePrefix for errors.Is() compatibility.
func (e *InvalidNamespacePrefixError) Unwrap() error { return ErrInvalidNamespacePrefix }

// String returns the string representation of the QualifiedName.
func (n QualifiedName) String() string { return string(n) }

// Trimmed strips a single leading separator, so fully qualified references
// like `\Vendor\Class` resolve the same way as `Vendor\Class`.
func (n QualifiedName) Trimmed() QualifiedName {
	return QualifiedName(strings.TrimPrefix(string(n), nsSep))
}

// IsBare reports whether the name has no namespace segment at all.
func (n QualifiedName) IsBare() bool {
	return !strings.ContainsRune(string(n.Trimmed()), NamespaceSeparator)
}

func splitSegments(s string) []string {
	fields := strings.Split(strings.TrimSpace(s), nsSep)
	segments := fields[:0]
	for _, f := range fields {
		if f == "" {
			continue
		}
		segments = append(segments, f)
	}
	return segments
}
