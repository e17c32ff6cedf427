// SPDX-License-Identifier: MPL-2.0

// Package types defines the value types shared by the registry, resolver and
// tree generator: namespace prefixes, qualified names and filesystem paths.
// These carry validation and normalization but no domain dependencies.
//
// This package is a leaf dependency: it imports only the standard library.
// Domain packages import it; it never imports domain packages.
package types
