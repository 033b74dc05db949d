// SPDX-License-Identifier: MPL-2.0

// Package config handles atlasscan configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/atlasscan/config.cue (or $XDG_CONFIG_HOME on Linux,
// ~/Library/Application Support/atlasscan/config.cue on macOS, %APPDATA%\atlasscan\config.cue
// on Windows), from an explicit --config path, or from ./config.cue. Values may be overridden
// through ATLASSCAN_* environment variables (ATLASSCAN_UI_VERBOSE, ATLASSCAN_INCLUDE_SCOPE, ...).
//
// Files are validated against the embedded CUE schema (config_schema.cue) before they are
// merged over the defaults.
package config
