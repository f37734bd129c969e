package overlink

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Deploy configuration trees by symlinking an overlay onto a base directory"
	MsgApplyShort      = "Reconcile the base directory with the overlay"
	MsgPlanShort       = "Preview what apply would change"
	MsgCleanShort      = "Remove unmanaged paths under a directory"
	MsgGenConfigShort  = "Generate the overlink configuration file"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose       = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun        = "Preview changes without executing them"
	MsgFlagFormat        = "Output format (auto, term, text, json, yaml)"
	MsgFlagConfig        = "Path to the configuration file"
	MsgFlagBaseDir       = "Directory the overlay is deployed onto"
	MsgFlagOverlayDir    = "Directory holding the overlay content"
	MsgFlagRelativeLinks = "Create relative instead of absolute symlinks"
	MsgFlagConflict      = "What to do with occupied paths (error, keep, replace)"
	MsgFlagWarnConflict  = "Report conflicting paths as warnings"
	MsgFlagBackupDir     = "Back up replaced trees into this directory"
	MsgFlagCollapse      = "Fold fully overlaid directories into a single symlink"
	MsgFlagJournal       = "Record managed paths in this journal file"
	MsgFlagExclude       = "Keep this path and everything inside it (repeatable)"
	MsgFlagWrite         = "Write the configuration file instead of printing it"
	MsgFlagEffective     = "Print the merged configuration currently in effect"
	MsgFlagPath          = "Target path for --write (defaults to the user config file)"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/apply-long.txt
	msgApplyLongRaw string
	MsgApplyLong    = strings.TrimSpace(msgApplyLongRaw)

	//go:embed msgs/apply-example.txt
	msgApplyExampleRaw string
	MsgApplyExample    = strings.TrimSpace(msgApplyExampleRaw)

	//go:embed msgs/plan-long.txt
	msgPlanLongRaw string
	MsgPlanLong    = strings.TrimSpace(msgPlanLongRaw)

	//go:embed msgs/plan-example.txt
	msgPlanExampleRaw string
	MsgPlanExample    = strings.TrimSpace(msgPlanExampleRaw)

	//go:embed msgs/clean-long.txt
	msgCleanLongRaw string
	MsgCleanLong    = strings.TrimSpace(msgCleanLongRaw)

	//go:embed msgs/clean-example.txt
	msgCleanExampleRaw string
	MsgCleanExample    = strings.TrimSpace(msgCleanExampleRaw)

	//go:embed msgs/gen-config-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/gen-config-example.txt
	msgGenConfigExampleRaw string
	MsgGenConfigExample    = strings.TrimSpace(msgGenConfigExampleRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
