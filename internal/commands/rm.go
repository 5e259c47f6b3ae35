package commands

import (
	"context"
	"flag"
	"io"

	"duelist/internal/app"
	"duelist/internal/config"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	status string
}

// SetStatus sets the status used to number rows (for testing).
func (c *RmCmd) SetStatus(status string) {
	c.status = status
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete tasks" }
func (c *RmCmd) Usage() string     { return "duelist rm [--status <status>] <ref...>" }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "all", "")
	fs.StringVar(&c.status, "s", "all", "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	return runTaskAction(ctx, cfg, a, app.KindDelete, c.status, args, out, errOut)
}
