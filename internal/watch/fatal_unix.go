// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// exhaustionHint reports whether err means the OS ran out of watch resources,
// in which case no further events will arrive. The hint names the limit.
func exhaustionHint(err error) (string, bool) {
	switch {
	case errors.Is(err, syscall.ENOSPC):
		return "inotify watch limit reached; raise fs.inotify.max_user_watches", true
	case errors.Is(err, syscall.EMFILE):
		return "per-process file descriptor limit reached; raise ulimit -n", true
	case errors.Is(err, syscall.ENFILE):
		return "system file descriptor limit reached", true
	default:
		return "", false
	}
}
