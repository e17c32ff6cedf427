// SPDX-License-Identifier: MPL-2.0

// Package autoload wires a manifest, a registry and a resolver into a host's
// lookup-failure mechanism.
//
// A Chain stands in for the host's list of "identifier not found" callbacks.
// Install loads a manifest, builds the registry and registers the resolver's
// hook on the chain. Configuration errors never reach the host: Install
// reports them through the logger and registers nothing.
package autoload
