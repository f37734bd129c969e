// Package commands provides high-level command implementations for
// overlink.
//
// This package contains the orchestration layer that coordinates
// between the CLI interface and the reconciliation engine.
//
// Each command is implemented in its own subdirectory:
//   - apply/     - Apply command (reconcile a base directory with an overlay)
//   - clean/     - Clean command (prune unmanaged paths)
//   - genconfig/ - GenConfig command (emit configuration)
//
// This file re-exports the command functions as the package API.
package commands

import (
	"github.com/overlink/overlink/pkg/commands/apply"
	"github.com/overlink/overlink/pkg/commands/clean"
	"github.com/overlink/overlink/pkg/commands/genconfig"
	"github.com/overlink/overlink/pkg/types"
)

// Apply reconciles a base directory with an overlay directory.
type ApplyOptions = apply.ApplyOptions

func Apply(opts ApplyOptions) (*types.ApplyResult, error) {
	return apply.Apply(opts)
}

// Clean prunes a directory down to its protected paths.
type CleanOptions = clean.CleanOptions

func Clean(opts CleanOptions) (*types.CleanResult, error) {
	return clean.Clean(opts)
}

// GenConfig emits the default or resolved configuration.
type GenConfigOptions = genconfig.GenConfigOptions

func GenConfig(opts GenConfigOptions) (*types.GenConfigResult, error) {
	return genconfig.GenConfig(opts)
}
