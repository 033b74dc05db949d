// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that fail fast on
// setup errors, reducing boilerplate around temporary files, directories and
// environment variables.
package testutil
