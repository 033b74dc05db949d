// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a scan when files under a set of root directories change.
//
// Events are filtered through doublestar ignore and match patterns, then
// coalesced: the callback fires once per quiet period with every path that
// changed. A callback still running when the next batch is due delays that
// batch instead of running concurrently.
package watch
