// Package clean implements the clean command: prune everything under a
// directory that is not protected by an exclusion list or the journal.
package clean

import (
	"time"

	cleaner "github.com/overlink/overlink/pkg/clean"
	"github.com/overlink/overlink/pkg/errors"
	"github.com/overlink/overlink/pkg/journal"
	"github.com/overlink/overlink/pkg/logging"
	"github.com/overlink/overlink/pkg/pathinfo"
	"github.com/overlink/overlink/pkg/types"
)

// CleanOptions defines the options for the Clean command
type CleanOptions struct {
	// Root is the directory to prune
	Root string
	// Exclude lists paths to keep, together with everything inside them
	Exclude []string
	// JournalPath adds the journaled paths to the exclusion list when set
	JournalPath string
	// DryRun reports what would be removed without removing it
	DryRun bool
}

// Clean removes everything under Root that neither is nor contains an
// excluded path.
func Clean(opts CleanOptions) (*types.CleanResult, error) {
	logger := logging.GetLogger("commands.clean")
	defer logging.LogOperationStart(logger, "clean")()

	logger.Debug().
		Str("root", opts.Root).
		Strs("exclude", opts.Exclude).
		Str("journal", opts.JournalPath).
		Bool("dryRun", opts.DryRun).
		Msg("Starting clean command")

	if opts.Root == "" {
		return nil, errors.New(errors.ErrConfigValid, "root is required")
	}
	if !pathinfo.IsDir(opts.Root) {
		return nil, errors.New(errors.ErrConfigValid,
			"root has to exist and be a directory")
	}

	exclude := append([]string(nil), opts.Exclude...)
	if opts.JournalPath != "" {
		journaled, err := journal.Read(opts.JournalPath)
		if err != nil {
			return nil, err
		}
		exclude = append(exclude, journaled...)
	}

	result := &types.CleanResult{
		Root:      opts.Root,
		DryRun:    opts.DryRun,
		Timestamp: time.Now(),
	}

	if opts.DryRun {
		removals, err := cleaner.Plan(opts.Root, exclude)
		if err != nil {
			return nil, err
		}
		result.Removed = removals
		result.Changed = len(removals) > 0
		logger.Info().Int("removals", len(removals)).Msg("Dry run, no changes made")
		return result, nil
	}

	removed, err := cleaner.Clean(opts.Root, exclude, logger)
	result.Removed = removed
	result.Changed = len(removed) > 0
	if err != nil {
		// Partial progress is reported alongside the failure.
		return result, err
	}

	logger.Info().
		Bool("changed", result.Changed).
		Int("removals", len(removed)).
		Msg("Clean command completed")
	return result, nil
}
