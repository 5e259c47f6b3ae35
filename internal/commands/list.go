package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"duelist/internal/app"
	"duelist/internal/config"
	"duelist/internal/exitcode"
	"duelist/internal/output"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `duelist` (no args) and `duelist list`.
type ListCmd struct {
	status string
	format string
}

// SetStatus sets the status filter (for testing).
func (c *ListCmd) SetStatus(status string) {
	c.status = status
}

// SetFormat sets the output format (for testing).
func (c *ListCmd) SetFormat(format string) {
	c.format = format
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks sorted by due date" }
func (c *ListCmd) Usage() string {
	return "duelist list [--status all|completed|active] [--format text|json|yaml]"
}
func (c *ListCmd) NeedsStore() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "all", "")
	fs.StringVar(&c.status, "s", "all", "")
	fs.StringVar(&c.format, "format", "text", "")
	fs.StringVar(&c.format, "f", "text", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	format, err := output.ParseFormat(c.format)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if _, err := a.Dispatch(ctx, app.Event{Action: app.ActionFilterChanged, Status: c.status}); err != nil {
		return reportError(errOut, err)
	}
	snap := a.Snapshot()

	if format != output.FormatText {
		if err := output.Encode(out, format, snap.Visible); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return exitcode.Success
	}

	if len(snap.Visible) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	output.FormatTasks(out, snap.Visible)
	if !cfg.Quiet {
		output.FormatSummary(out, len(snap.Visible), snap.Total, snap.Completed, snap.Status)
	}
	return exitcode.Success
}
