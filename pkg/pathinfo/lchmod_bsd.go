//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package pathinfo

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

// SupportsLchmod reports whether the platform can change the mode of a
// symlink itself rather than its target.
const SupportsLchmod = true

// Lchmod changes the mode of path without following symlinks.
func Lchmod(path string, mode fs.FileMode) error {
	return unix.Fchmodat(unix.AT_FDCWD, path, syscallMode(mode), unix.AT_SYMLINK_NOFOLLOW)
}

// syscallMode converts a fs.FileMode into the syscall mode bits.
func syscallMode(mode fs.FileMode) (o uint32) {
	o |= uint32(mode.Perm())
	if mode&fs.ModeSetuid != 0 {
		o |= unix.S_ISUID
	}
	if mode&fs.ModeSetgid != 0 {
		o |= unix.S_ISGID
	}
	if mode&fs.ModeSticky != 0 {
		o |= unix.S_ISVTX
	}
	return o
}
