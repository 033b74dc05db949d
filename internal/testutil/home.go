// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir points the platform home directory variable at dir and returns a
// cleanup function restoring the original value. Config directory lookups use
// it to stay inside t.TempDir():
//
//	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		restore := MustSetenv(t, "USERPROFILE", dir)
		restoreAppData := MustSetenv(t, "APPDATA", dir)
		return func() {
			restoreAppData()
			restore()
		}
	default:
		restore := MustSetenv(t, "HOME", dir)
		restoreXDG := MustUnsetenv(t, "XDG_CONFIG_HOME")
		return func() {
			restoreXDG()
			restore()
		}
	}
}
