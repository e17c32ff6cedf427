// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// fatalErrnos stop inotify from delivering events for good: the per-user
// watch limit (ENOSPC) and descriptor exhaustion (EMFILE, ENFILE).
var fatalErrnos = []syscall.Errno{syscall.ENOSPC, syscall.EMFILE, syscall.ENFILE}

func isFatalFsnotifyError(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	for _, fatal := range fatalErrnos {
		if errno == fatal {
			return true
		}
	}
	return false
}
