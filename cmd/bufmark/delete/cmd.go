// Package deletecmd implements the `bufmark delete` command.
package deletecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/bufmark/cmd/bufmark/shared"
)

// Command implements `bufmark delete`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the delete command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "delete <mark>",
		Short: "Delete a mark",
		Args:  shared.MarkArg(1),
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

	if svc.Store.Delete(args[0]) {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted mark '%s'\n", args[0])
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Mark '%s' is not set\n", args[0])
	}
	return nil
}
