// Package getcmd implements the `bufmark get` command.
package getcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/bufmark/cmd/bufmark/shared"
)

// Command implements `bufmark get`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the get command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:     "get <mark>",
		Aliases: []string{"goto"},
		Short:   "Print the file a mark points to",
		Long: "Print the file a mark points to, for use outside the editor:\n\n" +
			"  $EDITOR \"$(bufmark get a)\"",
		Args: shared.MarkArg(1),
		RunE: c.run,
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

	path, ok := svc.Store.Get(args[0])
	if !ok {
		return fmt.Errorf("mark '%s' is not set", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
