// Package apply implements the apply command: reconcile a base
// directory with an overlay by removing stale paths, creating symlinks
// and syncing file metadata.
package apply

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/overlink/overlink/pkg/classify"
	"github.com/overlink/overlink/pkg/errors"
	"github.com/overlink/overlink/pkg/executor"
	"github.com/overlink/overlink/pkg/journal"
	"github.com/overlink/overlink/pkg/logging"
	"github.com/overlink/overlink/pkg/pathinfo"
	"github.com/overlink/overlink/pkg/plan"
	"github.com/overlink/overlink/pkg/tree"
	"github.com/overlink/overlink/pkg/types"
)

// backupStamp names the per-run subdirectory of the backup root.
const backupStamp = "2006-01-02_15-04-05"

// ApplyOptions defines the options for the Apply command
type ApplyOptions struct {
	// BaseDir is the directory the overlay is deployed onto
	BaseDir string
	// OverlayDir is the directory holding the overlay content
	OverlayDir string
	// RelativeLinks selects relative over absolute symlink targets
	RelativeLinks bool
	// Conflict decides what happens to paths occupied by unrelated content
	Conflict types.ConflictPolicy
	// WarnConflict reports conflicting paths as warnings under keep and replace
	WarnConflict bool
	// BackupDir is the backup root; a timestamped subdirectory is used per run
	BackupDir string
	// Collapse folds fully-overlaid directories into one symlink
	Collapse bool
	// JournalPath appends the surviving managed paths to a journal when set
	JournalPath string
	// DryRun reports planned actions without performing them
	DryRun bool
}

// Apply reconciles BaseDir with OverlayDir.
//
// The command:
//  1. Validates the directory layout
//  2. Builds and classifies the mapped overlay tree
//  3. Enforces the conflict policy
//  4. Executes the plan unless DryRun is set
func Apply(opts ApplyOptions) (*types.ApplyResult, error) {
	logger := logging.GetLogger("commands.apply")
	defer logging.LogOperationStart(logger, "apply")()

	logger.Debug().
		Str("baseDir", opts.BaseDir).
		Str("overlayDir", opts.OverlayDir).
		Str("conflict", string(opts.Conflict)).
		Bool("collapse", opts.Collapse).
		Bool("relativeLinks", opts.RelativeLinks).
		Bool("dryRun", opts.DryRun).
		Msg("Starting apply command")

	// The backup root is shared across runs; each run writes into its
	// own timestamped subdirectory. The stamp is applied before
	// validation so the emptiness check targets this run's directory.
	backupDir := opts.BackupDir
	if backupDir != "" {
		backupDir = filepath.Join(backupDir, time.Now().Format(backupStamp))
	}

	if err := validate(opts, backupDir); err != nil {
		return nil, err
	}

	result := &types.ApplyResult{
		BaseDir:    opts.BaseDir,
		OverlayDir: opts.OverlayDir,
		DryRun:     opts.DryRun,
		Timestamp:  time.Now(),
	}

	overlay, err := tree.FromPath(opts.OverlayDir)
	if err != nil {
		return nil, err
	}
	mapped, err := tree.Translate(overlay, opts.OverlayDir, opts.BaseDir)
	if err != nil {
		return nil, err
	}

	classify.Classify(mapped, opts.OverlayDir, classify.Options{
		RelativeLinks: opts.RelativeLinks,
		Conflict:      opts.Conflict,
		Collapse:      opts.Collapse,
	})

	p, err := plan.Build(mapped, opts.BaseDir, backupDir)
	if err != nil {
		return nil, err
	}

	result.Changed = p.Changed
	result.RemovedTrees = p.RemovedPaths()
	result.CreatedLinks = p.LinkedPaths()
	result.ChangedStats = p.SyncedPaths()
	result.Conflicts = p.Conflicts
	result.BackedUp = p.BackedUp()

	if len(p.Conflicts) > 0 {
		if opts.Conflict == types.ConflictError {
			return nil, errors.New(errors.ErrConflict,
				"Found conflicts:\n"+strings.Join(p.Conflicts, "\n"))
		}
		if opts.WarnConflict {
			result.Warnings = append(result.Warnings, "Found conflicts:")
			result.Warnings = append(result.Warnings, p.Conflicts...)
		}
	}

	if opts.DryRun {
		logger.Info().
			Bool("changed", result.Changed).
			Int("removals", len(result.RemovedTrees)).
			Int("links", len(result.CreatedLinks)).
			Int("stats", len(result.ChangedStats)).
			Msg("Dry run, no changes made")
		return result, nil
	}

	exec := executor.New(executor.Options{RelativeLinks: opts.RelativeLinks})
	if err := exec.Execute(p); err != nil {
		if opts.JournalPath != "" {
			name := fmt.Sprintf("apply %s onto %s", opts.OverlayDir, opts.BaseDir)
			if jerr := journal.AppendFailure(opts.JournalPath, name, "failed"); jerr != nil {
				logger.Warn().Err(jerr).Msg("Cannot record failure in journal")
			}
		}
		return nil, err
	}

	if opts.JournalPath != "" {
		if err := journal.Append(opts.JournalPath, managedPaths(mapped)); err != nil {
			return result, err
		}
	}

	logger.Info().
		Bool("changed", result.Changed).
		Int("removals", len(result.RemovedTrees)).
		Int("links", len(result.CreatedLinks)).
		Int("stats", len(result.ChangedStats)).
		Msg("Apply command completed")
	return result, nil
}

// managedPaths lists the base paths the overlay keeps present after a
// successful run: everything newly linked plus everything already
// correctly overlaid.
func managedPaths(mapped *tree.Node) []string {
	nodes := mapped.FilterBelow(func(n *tree.Node) bool {
		return n.Facts.Link() || n.Facts.Overlaid()
	})
	paths := make([]string, len(nodes))
	for i, n := range nodes {
		paths[i] = n.Path
	}
	return paths
}

// validate checks the directory layout before anything is touched.
func validate(opts ApplyOptions, backupDir string) error {
	if opts.BaseDir == "" {
		return errors.New(errors.ErrConfigValid, "base_dir is required")
	}
	if opts.OverlayDir == "" {
		return errors.New(errors.ErrConfigValid, "overlay_dir is required")
	}

	if !pathinfo.IsDir(opts.BaseDir) {
		return errors.New(errors.ErrConfigValid,
			"base_dir has to exist and be a directory")
	}
	if !pathinfo.IsDir(opts.OverlayDir) {
		return errors.New(errors.ErrConfigValid,
			"overlay_dir has to exist and be a directory")
	}

	if sameDir(opts.BaseDir, opts.OverlayDir) ||
		pathinfo.IsInside(opts.BaseDir, opts.OverlayDir) {
		return errors.New(errors.ErrConfigValid,
			"base_dir must not be (inside) overlay_dir")
	}

	if backupDir != "" {
		if pathinfo.Exists(backupDir) && !pathinfo.IsDir(backupDir) {
			return errors.New(errors.ErrConfigValid,
				"backup_dir has to be a directory")
		}
		if pathinfo.Exists(backupDir) {
			entries, err := os.ReadDir(backupDir)
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess,
					"cannot inspect backup_dir %s", backupDir)
			}
			if len(entries) > 0 {
				return errors.New(errors.ErrConfigValid, "backup_dir must be empty")
			}
		}
		if pathinfo.IsInside(backupDir, opts.OverlayDir) {
			return errors.New(errors.ErrConfigValid,
				"backup_dir must not be (inside) overlay_dir")
		}
	}
	return nil
}

// sameDir reports whether the two paths name the same directory on
// disk, regardless of how they are spelled.
func sameDir(a, b string) bool {
	aInfo, err := os.Stat(a)
	if err != nil {
		return false
	}
	bInfo, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(aInfo, bInfo)
}
