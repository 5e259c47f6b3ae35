package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"duelist/internal/app"
	"duelist/internal/config"
	"duelist/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "duelist help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, a *app.App, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	for _, cmd := range DefaultRegistry.All() {
		name := cmd.Name()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			name += " (" + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(out, "  %-24s %s\n", name, cmd.Synopsis())
	}
	return exitcode.Success
}

const helpText = `Usage:
  duelist                                        List all tasks
  duelist list [common flags] [--status <status>] [--format text|json|yaml]
  duelist add [common flags] [--due YYYY-MM-DD] <text...>
  duelist create [common flags] [--due YYYY-MM-DD] <text...>
  duelist toggle [common flags] [--status <status>] <ref...>
  duelist done [common flags] [--status <status>] <ref...>
  duelist rm [common flags] [--status <status>] <ref...>
  duelist delete [common flags] [--status <status>] <ref...>
  duelist sort [common flags]
  duelist tui [common flags]
  duelist login [common flags]
  duelist logout [common flags]
  duelist help
  duelist version

Status: all, completed, active (or pending). Rows are numbered as listed
for that status. A <ref> is a row number, a task id, or an id prefix of at
least 4 characters.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
