// Package pathinfo provides the filesystem predicates the classifier and
// executor share: symlink-aware existence and directory tests, path
// containment, link target inspection, and mode/owner comparison.
//
// Every function here uses lstat semantics. A symlink is inspected as
// itself, never as its target, so broken links behave like any other
// filesystem entry.
package pathinfo

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// modeBits are the mode bits that stat synchronization compares and copies:
// permissions plus setuid, setgid and sticky.
const modeBits = fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky

// Exists reports whether path exists.
// Symlinks, broken or not, are considered existing.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsDir reports whether path is a real directory.
// Symlinks, regardless of their target, are not considered directories.
func IsDir(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.IsDir()
}

// IsSymlink reports whether path is a symlink.
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&fs.ModeSymlink != 0
}

// IsInside reports whether inner is a path inside or equal to outer.
// The test is lexical; no symlinks are resolved.
func IsInside(inner, outer string) bool {
	inner = filepath.Clean(inner)
	outer = filepath.Clean(outer)
	if inner == outer {
		return true
	}
	if outer == string(filepath.Separator) {
		return filepath.IsAbs(inner)
	}
	return strings.HasPrefix(inner, outer+string(filepath.Separator))
}

// linkTarget returns the normalized target of a symlink, resolved against
// the link's own directory when written relative.
func linkTarget(link string) (string, bool) {
	target, err := os.Readlink(link)
	if err != nil {
		return "", false
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(link), target)
	}
	return filepath.Clean(target), true
}

// PointsTo reports whether link is a symlink that points exactly to path.
func PointsTo(link, path string) bool {
	target, ok := linkTarget(link)
	return ok && target == filepath.Clean(path)
}

// PointsInto reports whether link is a symlink that points to or into dir.
func PointsInto(link, dir string) bool {
	target, ok := linkTarget(link)
	return ok && IsInside(target, dir)
}

// IsRelativeLink reports whether link is a symlink whose target is written
// as a relative path.
func IsRelativeLink(link string) bool {
	target, err := os.Readlink(link)
	return err == nil && !filepath.IsAbs(target)
}

// Mode returns the sync-relevant mode bits of path, without following
// symlinks.
func Mode(path string) (fs.FileMode, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, err
	}
	return info.Mode() & modeBits, nil
}

// Owner returns the uid and gid owning path, without following symlinks.
func Owner(path string) (uid, gid int, err error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, 0, err
	}
	st := info.Sys().(*syscall.Stat_t)
	return int(st.Uid), int(st.Gid), nil
}

// EqualMode reports whether a and b carry the same mode bits. Paths that
// cannot be inspected compare unequal.
func EqualMode(a, b string) bool {
	am, err := Mode(a)
	if err != nil {
		return false
	}
	bm, err := Mode(b)
	if err != nil {
		return false
	}
	return am == bm
}

// EqualOwner reports whether a and b are owned by the same uid and gid.
// Paths that cannot be inspected compare unequal.
func EqualOwner(a, b string) bool {
	auid, agid, err := Owner(a)
	if err != nil {
		return false
	}
	buid, bgid, err := Owner(b)
	if err != nil {
		return false
	}
	return auid == buid && agid == bgid
}
