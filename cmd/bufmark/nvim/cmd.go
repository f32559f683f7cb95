// Package nvimcmd implements the `bufmark nvim` command.
package nvimcmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/bufmark/cmd/bufmark/shared"
	"github.com/go-ports/bufmark/internal/nvimhost"
	"github.com/go-ports/bufmark/internal/service"
)

// Command implements `bufmark nvim`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the nvim command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:    "nvim",
		Short:  "Run as a Neovim RPC plugin on stdin/stdout (started by the loader)",
		Args:   cobra.NoArgs,
		Hidden: true,
		RunE:   c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	// A broken config.yaml must not keep the editor from starting.
	svc, err := service.New(service.Options{
		DataDir:       c.ctx.DataDir,
		Cwd:           c.ctx.Cwd,
		LenientConfig: true,
	})
	if err != nil {
		return err
	}
	defer svc.Close()
	return nvimhost.Serve(cmd.Context(), svc)
}
