// Package setupcmd implements the `bufmark setup` command group.
package setupcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/go-ports/bufmark/cmd/bufmark/shared"
	"github.com/go-ports/bufmark/internal/setup"
)

// Command implements `bufmark setup`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the setup command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "setup",
		Short: "Install bufmark into an editor or agent",
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	c.cmd.AddCommand(
		newSetupNeovim(),
		newSetupClaudeCode(),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func newSetupNeovim() *cobra.Command {
	var configDir string
	cmd := &cobra.Command{
		Use:     "nvim",
		Aliases: []string{"neovim"},
		Short:   "Install the Neovim loader that starts bufmark as an RPC job",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return report(cmd, setup.SetupNeovim(configDir))
		},
	}
	cmd.Flags().StringVar(&configDir, "config-dir", "", "Path to the Neovim config directory")
	return cmd
}

func newSetupClaudeCode() *cobra.Command {
	var configDir string
	var project bool
	cmd := &cobra.Command{
		Use:   "claude-code",
		Short: "Install the bufmark MCP server into Claude Code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := ResolveConfigDir(".claude", configDir, project)
			return report(cmd, setup.SetupClaudeCode(target, project))
		},
	}
	cmd.Flags().StringVar(&configDir, "config-dir", "", "Path to .claude directory")
	cmd.Flags().BoolVar(&project, "project", false, "Install in current project instead of globally")
	return cmd
}

func report(cmd *cobra.Command, result setup.Result) error {
	if result.Status != "ok" {
		return fmt.Errorf("setup: %s", result.Message)
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Message)
	return nil
}

// ResolveConfigDir picks the agent config directory: an explicit path, the
// project directory, or the user's home.
//
//revive:disable:flag-parameter
func ResolveConfigDir(dotDir, configDir string, project bool) string {
	if configDir != "" {
		return configDir
	}
	if project {
		cwd, _ := os.Getwd()
		return filepath.Join(cwd, dotDir)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, dotDir)
}

//revive:enable:flag-parameter
