// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the plugload CLI.
//
// The CLI inspects an autoload manifest: it lists the namespace map, resolves
// names, explains probe order, previews generated namespace trees and
// rebuilds the map when watched files change.
package cmd
