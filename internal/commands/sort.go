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
	Register(&SortCmd{})
}

// SortCmd implements the sort command. It rewrites the stored order by due
// date.
type SortCmd struct{}

func (c *SortCmd) Name() string      { return "sort" }
func (c *SortCmd) Aliases() []string { return nil }
func (c *SortCmd) Synopsis() string  { return "Save tasks in due date order" }
func (c *SortCmd) Usage() string     { return "duelist sort" }
func (c *SortCmd) NeedsStore() bool  { return true }

func (c *SortCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SortCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	res, err := a.Dispatch(ctx, app.Event{Action: app.ActionSortRequested})
	if err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		if res.Changed {
			fmt.Fprintln(out, "ok")
		} else {
			fmt.Fprintln(out, "already sorted")
		}
	}
	return exitcode.Success
}
