// SPDX-License-Identifier: MPL-2.0

// Package platform holds the few OS-specific facts the rest of plugload
// needs: GOOS names and the file names Windows refuses to create.
package platform
