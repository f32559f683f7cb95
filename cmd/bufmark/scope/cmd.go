// Package scopecmd implements the `bufmark scope` command.
package scopecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/bufmark/cmd/bufmark/shared"
	"github.com/go-ports/bufmark/internal/scope"
)

// Command implements `bufmark scope`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the scope command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "scope",
		Short: "Show where the marks of the working directory are stored",
		Args:  cobra.NoArgs,
		RunE:  c.run,
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

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "cwd:     %s\n", svc.Cwd)
	fmt.Fprintf(out, "scope:   %s\n", scope.ID(svc.Cwd))
	fmt.Fprintf(out, "file:    %s\n", svc.Store.Path())
	fmt.Fprintf(out, "persist: %t\n", svc.Store.Persistent())
	fmt.Fprintf(out, "marks:   %d\n", svc.Store.Len())
	return nil
}
