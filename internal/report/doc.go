// SPDX-License-Identifier: MPL-2.0

// Package report renders scan results as styled text, Markdown or JSON.
//
// Text output is styled with lipgloss and degrades to plain text when the
// writer is not a terminal. Markdown output is either the Markdown source or,
// when a glamour theme is set, its terminal rendering.
package report
