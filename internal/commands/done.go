package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"duelist/internal/app"
	"duelist/internal/config"
	"duelist/internal/exitcode"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command. It flips the completed flag.
type ToggleCmd struct {
	status string
}

// SetStatus sets the status used to number rows (for testing).
func (c *ToggleCmd) SetStatus(status string) {
	c.status = status
}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return []string{"done", "complete"} }
func (c *ToggleCmd) Synopsis() string  { return "Mark a task completed or active again" }
func (c *ToggleCmd) Usage() string     { return "duelist toggle [--status <status>] <ref...>" }
func (c *ToggleCmd) NeedsStore() bool  { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "all", "")
	fs.StringVar(&c.status, "s", "all", "")
}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	return runTaskAction(ctx, cfg, a, app.KindComplete, c.status, args, out, errOut)
}

// runTaskAction resolves refs against the rows shown for status and sends one
// task-action per task.
func runTaskAction(ctx context.Context, cfg *config.Config, a *app.App, kind, status string, args []string, out, errOut io.Writer) int {
	if _, err := a.Dispatch(ctx, app.Event{Action: app.ActionFilterChanged, Status: status}); err != nil {
		return reportError(errOut, err)
	}

	targets, err := ResolveTaskRefs(args, a.Visible(), a.Store().All())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	for _, t := range targets {
		res, err := a.Dispatch(ctx, app.Event{Action: app.ActionTaskAction, Kind: kind, ID: t.ID})
		if err != nil {
			return reportError(errOut, err)
		}
		if !res.Changed {
			fmt.Fprintf(errOut, "error: task not found: %s\n", t.ID)
			return exitcode.UserError
		}
		if !cfg.Quiet {
			fmt.Fprintf(out, "%s %s\n", describe(kind, res), t.ID.Short())
		}
	}
	return exitcode.Success
}

func describe(kind string, res app.Result) string {
	switch {
	case kind == app.KindDelete:
		return "deleted"
	case res.Task.Completed:
		return "completed"
	default:
		return "reopened"
	}
}
