// Package executor applies a reconciliation plan to the filesystem.
//
// Execution follows plan order strictly: backups and removals first,
// then link creation, then mode and owner syncs. Each step assumes the
// previous one completed, so a failed step aborts the run with the
// filesystem in a partially reconciled state. Re-running converges.
package executor

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/overlink/overlink/pkg/errors"
	"github.com/overlink/overlink/pkg/logging"
	"github.com/overlink/overlink/pkg/pathinfo"
	"github.com/overlink/overlink/pkg/plan"
)

// Options configures an Executor.
type Options struct {
	// RelativeLinks selects the on-disk form of created symlinks.
	RelativeLinks bool
	Logger        zerolog.Logger
}

// Executor applies plans.
type Executor struct {
	relativeLinks bool
	logger        zerolog.Logger
}

// New creates an executor.
func New(opts Options) *Executor {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("executor")
	}
	return &Executor{
		relativeLinks: opts.RelativeLinks,
		logger:        logger,
	}
}

// Execute applies the plan. It stops at the first failing operation.
func (e *Executor) Execute(p *plan.Plan) error {
	if err := e.removeTrees(p.Remove); err != nil {
		return err
	}
	if err := e.createLinks(p.Link); err != nil {
		return err
	}
	return e.syncStats(p.SyncStat)
}

// removeTrees deletes the planned paths, backing up conflicting ones
// that have a backup destination assigned.
func (e *Executor) removeTrees(removals []plan.Removal) error {
	for _, r := range removals {
		if r.Backup != "" {
			e.logger.Debug().
				Str("path", r.Path).
				Str("backup", r.Backup).
				Msg("Backing up before removal")
			if err := copyTree(r.Path, r.Backup); err != nil {
				return errors.Wrapf(err, errors.ErrBackupCreate,
					"cannot back up %s to %s", r.Path, r.Backup)
			}
		}

		e.logger.Debug().
			Str("path", r.Path).
			Bool("conflicting", r.Conflicting).
			Msg("Removing")
		if err := os.RemoveAll(r.Path); err != nil {
			return errors.Wrapf(err, errors.ErrRemove, "cannot remove %s", r.Path)
		}
	}
	return nil
}

// createLinks creates the planned symlinks, creating parent directories
// as needed. Parents created here get their mode fixed up afterwards by
// the stat sync step.
func (e *Executor) createLinks(links []plan.Symlink) error {
	for _, l := range links {
		if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate,
				"cannot create parent directories of %s", l.Path)
		}

		target := l.Target
		if e.relativeLinks {
			rel, err := filepath.Rel(filepath.Dir(l.Path), target)
			if err != nil {
				return errors.Wrapf(err, errors.ErrSymlinkCreate,
					"cannot relativize %s against %s", target, l.Path)
			}
			target = rel
		}

		e.logger.Debug().
			Str("path", l.Path).
			Str("target", target).
			Msg("Creating symlink")
		if err := os.Symlink(target, l.Path); err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate,
				"cannot create symlink %s", l.Path)
		}
	}
	return nil
}

// syncStats copies mode and owner from each sync source onto its path.
// Symlinks are only touched where the platform can address the link
// itself rather than its target.
func (e *Executor) syncStats(syncs []plan.StatSync) error {
	for _, s := range syncs {
		mode, err := pathinfo.Mode(s.Source)
		if err != nil {
			return errors.Wrapf(err, errors.ErrStatSync,
				"cannot read mode of %s", s.Source)
		}
		uid, gid, err := pathinfo.Owner(s.Source)
		if err != nil {
			return errors.Wrapf(err, errors.ErrStatSync,
				"cannot read owner of %s", s.Source)
		}

		e.logger.Debug().
			Str("path", s.Path).
			Str("source", s.Source).
			Msg("Syncing mode and owner")

		if pathinfo.IsSymlink(s.Path) {
			if pathinfo.SupportsLchmod {
				if err := pathinfo.Lchmod(s.Path, mode); err != nil {
					return errors.Wrapf(err, errors.ErrStatSync,
						"cannot change mode of %s", s.Path)
				}
			}
			if pathinfo.SupportsLchown {
				if err := os.Lchown(s.Path, uid, gid); err != nil {
					return errors.Wrapf(err, errors.ErrStatSync,
						"cannot change owner of %s", s.Path)
				}
			}
			continue
		}

		if err := os.Chmod(s.Path, mode); err != nil {
			return errors.Wrapf(err, errors.ErrStatSync,
				"cannot change mode of %s", s.Path)
		}
		if err := os.Chown(s.Path, uid, gid); err != nil {
			return errors.Wrapf(err, errors.ErrStatSync,
				"cannot change owner of %s", s.Path)
		}
	}
	return nil
}

// copyTree copies src to dst preserving symlinks, file modes and
// modification times. Sockets, devices and other special files cannot
// be copied portably and are skipped.
func copyTree(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return copyEntry(src, dst)
}

func copyEntry(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		return os.Symlink(target, dst)

	case info.IsDir():
		if err := os.Mkdir(dst, 0o700); err != nil {
			return err
		}
		entries, err := os.ReadDir(src)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := copyEntry(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
				return err
			}
		}
		// Mode goes on last so a read-only directory can be filled first.
		return os.Chmod(dst, info.Mode().Perm())

	case info.Mode().IsRegular():
		return copyFile(src, dst, info)

	default:
		return nil
	}
}

func copyFile(src, dst string, info os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
