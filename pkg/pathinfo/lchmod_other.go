//go:build !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package pathinfo

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

// SupportsLchmod reports whether the platform can change the mode of a
// symlink itself rather than its target. Linux has no lchmod; symlink
// modes there are fixed and chmod on a link would touch the target, so
// symlink mode sync is skipped entirely.
const SupportsLchmod = false

// Lchmod changes the mode of path without following symlinks.
// It always fails on this platform; callers must check SupportsLchmod.
func Lchmod(path string, mode fs.FileMode) error {
	return &fs.PathError{Op: "lchmod", Path: path, Err: unix.ENOTSUP}
}
