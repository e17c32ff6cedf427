// SPDX-License-Identifier: MPL-2.0

// Package config handles plugload's own settings using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/plugload/config.cue (or the XDG equivalent on Linux,
// ~/Library/Application Support/plugload/config.cue on macOS, %APPDATA%\plugload\config.cue
// on Windows), then ./config.cue, then built-in defaults. Environment variables prefixed
// with PLUGLOAD_ override file values (e.g. PLUGLOAD_CACHE_SIZE, PLUGLOAD_GENERATOR_SKIP_HIDDEN).
//
// Files are validated against the embedded config_schema.cue before they reach Viper.
package config
