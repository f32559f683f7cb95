// Package mcpcmd implements the `bufmark mcp` command.
package mcpcmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/bufmark/cmd/bufmark/shared"
	internalmcp "github.com/go-ports/bufmark/internal/mcp"
)

// Command implements `bufmark mcp`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the mcp command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "mcp",
		Short: "Start the bufmark MCP server (stdio transport)",
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
	return internalmcp.Serve(cmd.Context(), svc)
}
