// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// Win32 error codes returned through ReadDirectoryChangesW.
const (
	errnoTooManyOpenFiles = syscall.Errno(4)
	errnoInvalidHandle    = syscall.Errno(6)
	errnoNotEnoughMemory  = syscall.Errno(8)
)

// exhaustionHint reports whether err leaves the watcher unable to deliver
// events. The hint names the cause.
func exhaustionHint(err error) (string, bool) {
	switch {
	case errors.Is(err, errnoTooManyOpenFiles):
		return "handle limit reached", true
	case errors.Is(err, errnoInvalidHandle):
		return "a watched directory was removed or unmounted", true
	case errors.Is(err, errnoNotEnoughMemory):
		return "not enough memory for the change notification buffer", true
	default:
		return "", false
	}
}
