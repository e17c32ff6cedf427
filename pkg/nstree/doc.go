// SPDX-License-Identifier: MPL-2.0

// Package nstree mirrors a directory tree into the namespace registry.
//
// Generating from root namespace `App` and directory `/srv/src` registers
// `App\` for `/srv/src` and, for every descendant directory such as
// `/srv/src/services/billing`, a synthesized prefix built from the
// capitalized path segments: `App\Services\Billing\`.
//
// The walk is eager, depth-first and pre-order with siblings in lexical
// order, driven by an explicit stack. Only real directories are descended:
// files, symbolic links and (by default) hidden entries are skipped.
// Unreadable directories are reported as diagnostics and do not stop the walk.
package nstree
