// Package setcmd implements the `bufmark set` command.
package setcmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/go-ports/bufmark/cmd/bufmark/shared"
)

// Command implements `bufmark set`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the set command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "set <mark> <path>",
		Short: "Bind a mark to a file, replacing any previous binding",
		Args:  shared.MarkArg(2),
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	svc, err := c.ctx.Open()
	if err != nil {
		return err
	}
	defer svc.Close()

	path := args[1]
	if !filepath.IsAbs(path) {
		path = filepath.Join(svc.Cwd, path)
	}
	path = filepath.Clean(path)

	if err := svc.Store.Set(args[0], path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Marked %s as '%s'\n", path, args[0])
	return nil
}
