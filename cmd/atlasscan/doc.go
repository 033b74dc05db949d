// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the atlasscan CLI commands.
//
// Every command loads a workspace manifest, runs one traversal with a fresh
// collector and renders the result. Handlers receive an *App holding the
// injected config provider, manifest loader and output writers.
package cmd
