// SPDX-License-Identifier: MPL-2.0

// Package resolve turns a qualified name into a source file using a
// namespace registry.
//
// Resolution tries the most specific namespace prefix first. For a name
// `A\B\C` it looks up `A\B\` and probes `<dir>/C<ext>` in every base
// directory registered for it, in order; if none exists it falls back to `A\`
// and probes `<dir>/B/C<ext>`. The first existing file wins, and at most one
// file is loaded per resolution. A name without any namespace segment never
// resolves.
//
// A miss is a normal outcome: no function in this package returns an error
// for an unresolvable name, and Resolver.Load never panics.
package resolve
