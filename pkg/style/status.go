package style

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// Action identifies one kind of filesystem change in an apply or clean
// report.
type Action string

const (
	ActionRemove Action = "removed"   // tree removed from the base
	ActionBackup Action = "backed up" // conflicting tree copied aside before removal
	ActionLink   Action = "linked"    // symlink into the overlay created
	ActionSync   Action = "synced"    // mode and ownership copied from the overlay
	ActionKeep   Action = "kept"      // conflicting path left in place
)

// ActionStyle returns the pterm style for an action label.
func ActionStyle(action Action) *pterm.Style {
	switch action {
	case ActionLink:
		return pterm.NewStyle(pterm.FgGreen)
	case ActionRemove:
		return pterm.NewStyle(pterm.FgRed)
	case ActionBackup:
		return pterm.NewStyle(pterm.FgYellow)
	case ActionSync:
		return pterm.NewStyle(pterm.FgCyan)
	case ActionKeep:
		return pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// Change is one rendered line of an apply or clean report.
type Change struct {
	Action Action
	Path   string
	Detail string // link target or backup destination, when there is one
}

// RenderChange renders a single change line.
func RenderChange(c Change) string {
	// Pad to the widest action label so paths line up.
	label := fmt.Sprintf("%-9s", string(c.Action))
	styled := ActionStyle(c.Action).Sprint(label)

	if c.Detail != "" {
		return fmt.Sprintf("  %s %s -> %s", styled, c.Path, c.Detail)
	}
	return fmt.Sprintf("  %s %s", styled, c.Path)
}

// RenderChanges renders a list of change lines, one per row.
func RenderChanges(changes []Change) string {
	var result strings.Builder
	for _, c := range changes {
		result.WriteString(RenderChange(c) + "\n")
	}
	return strings.TrimRight(result.String(), "\n")
}
