// Package uninstallcmd implements the `bufmark uninstall` command group.
package uninstallcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/bufmark/cmd/bufmark/shared"
	setupcmd "github.com/go-ports/bufmark/cmd/bufmark/setup"
	"github.com/go-ports/bufmark/internal/setup"
)

// Command implements `bufmark uninstall`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the uninstall command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "uninstall",
		Short: "Remove bufmark from an editor or agent",
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	c.cmd.AddCommand(
		newUninstallNeovim(),
		newUninstallClaudeCode(),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func newUninstallNeovim() *cobra.Command {
	var configDir string
	cmd := &cobra.Command{
		Use:     "nvim",
		Aliases: []string{"neovim"},
		Short:   "Remove the Neovim loader",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result := setup.UninstallNeovim(configDir)
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&configDir, "config-dir", "", "Path to the Neovim config directory")
	return cmd
}

func newUninstallClaudeCode() *cobra.Command {
	var configDir string
	var project bool
	cmd := &cobra.Command{
		Use:   "claude-code",
		Short: "Remove bufmark from Claude Code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := setupcmd.ResolveConfigDir(".claude", configDir, project)
			result := setup.UninstallClaudeCode(target, project)
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&configDir, "config-dir", "", "Path to .claude directory")
	cmd.Flags().BoolVar(&project, "project", false, "Uninstall from current project instead of globally")
	return cmd
}
