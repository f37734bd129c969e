package ui

import (
	"fmt"

	"github.com/overlink/overlink/pkg/style"
	"github.com/overlink/overlink/pkg/types"
)

// applyChanges flattens an apply result into report lines, ordered the
// way the run performs them: backups, removals, links, stat syncs.
// Conflicting paths that were not removed show up as kept.
func applyChanges(result *types.ApplyResult) []style.Change {
	removed := make(map[string]bool, len(result.RemovedTrees))
	for _, path := range result.RemovedTrees {
		removed[path] = true
	}

	var changes []style.Change
	for _, path := range result.BackedUp {
		changes = append(changes, style.Change{Action: style.ActionBackup, Path: path})
	}
	for _, path := range result.RemovedTrees {
		changes = append(changes, style.Change{Action: style.ActionRemove, Path: path})
	}
	for _, path := range result.Conflicts {
		if !removed[path] {
			changes = append(changes, style.Change{Action: style.ActionKeep, Path: path})
		}
	}
	for _, path := range result.CreatedLinks {
		changes = append(changes, style.Change{Action: style.ActionLink, Path: path})
	}
	for _, path := range result.ChangedStats {
		changes = append(changes, style.Change{Action: style.ActionSync, Path: path})
	}
	return changes
}

// cleanChanges flattens a clean result into removal lines.
func cleanChanges(result *types.CleanResult) []style.Change {
	changes := make([]style.Change, len(result.Removed))
	for i, path := range result.Removed {
		changes[i] = style.Change{Action: style.ActionRemove, Path: path}
	}
	return changes
}

func applyHeader(result *types.ApplyResult) string {
	header := fmt.Sprintf("overlay %s onto %s", result.OverlayDir, result.BaseDir)
	if result.DryRun {
		header += " (dry run)"
	}
	return header
}

func cleanHeader(result *types.CleanResult) string {
	header := fmt.Sprintf("clean %s", result.Root)
	if result.DryRun {
		header += " (dry run)"
	}
	return header
}

// applySummary sums up an apply run in one line.
func applySummary(result *types.ApplyResult) string {
	if !result.Changed {
		return "no changes"
	}
	return fmt.Sprintf("%d removed, %d linked, %d synced",
		len(result.RemovedTrees), len(result.CreatedLinks), len(result.ChangedStats))
}

// cleanSummary sums up a clean run in one line.
func cleanSummary(result *types.CleanResult) string {
	if !result.Changed {
		return "no changes"
	}
	return fmt.Sprintf("%d removed", len(result.Removed))
}
