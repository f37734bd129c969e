package types

import "time"

// ApplyResult is the outcome of one reconciliation run. The path lists
// describe what the run did, or would do when DryRun is set.
type ApplyResult struct {
	BaseDir      string    `json:"baseDir" yaml:"baseDir"`
	OverlayDir   string    `json:"overlayDir" yaml:"overlayDir"`
	Changed      bool      `json:"changed" yaml:"changed"`
	RemovedTrees []string  `json:"removedTrees" yaml:"removedTrees"`
	CreatedLinks []string  `json:"createdLinks" yaml:"createdLinks"`
	ChangedStats []string  `json:"changedStats" yaml:"changedStats"`
	BackedUp     []string  `json:"backedUp,omitempty" yaml:"backedUp,omitempty"`
	Conflicts    []string  `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	Warnings     []string  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	DryRun       bool      `json:"dryRun" yaml:"dryRun"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
}

// CleanResult is the outcome of pruning a directory down to an exclude set.
type CleanResult struct {
	Root      string    `json:"root" yaml:"root"`
	Changed   bool      `json:"changed" yaml:"changed"`
	Removed   []string  `json:"removed" yaml:"removed"`
	DryRun    bool      `json:"dryRun" yaml:"dryRun"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// GenConfigResult holds the result of the 'gen-config' command.
type GenConfigResult struct {
	ConfigContent string   `json:"configContent" yaml:"configContent"`
	FilesWritten  []string `json:"filesWritten" yaml:"filesWritten"`
}
