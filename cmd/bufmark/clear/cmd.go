// Package clearcmd implements the `bufmark clear` command.
package clearcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/bufmark/cmd/bufmark/shared"
)

// Command implements `bufmark clear`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the clear command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:     "clear",
		Aliases: []string{"delete-all"},
		Short:   "Delete every mark of the working directory",
		Args:    cobra.NoArgs,
		RunE:    c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := c.ctx.Open()
	if err != nil {
		return err
	}
	defer svc.Close()

	n := svc.Store.Len()
	svc.Store.DeleteAll()
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d mark(s)\n", n)
	return nil
}
