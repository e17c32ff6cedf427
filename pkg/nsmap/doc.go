// SPDX-License-Identifier: MPL-2.0

// Package nsmap holds the namespace registry: a mapping from a normalized
// namespace prefix to the ordered list of base directories searched for it.
//
// The registry is populated once during start-up (explicit declarations and
// tree generation) and read by the resolver afterwards. It is not safe for
// concurrent mutation; concurrent Lookup calls on a registry that is no longer
// being written are safe.
//
// Lookup is exact-match only. Longest-prefix matching belongs to the resolver.
package nsmap
