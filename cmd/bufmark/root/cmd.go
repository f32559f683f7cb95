// Package rootcmd wires the root cobra.Command for the bufmark binary.
package rootcmd

import (
	"github.com/spf13/cobra"

	clearcmd "github.com/go-ports/bufmark/cmd/bufmark/clear"
	configcmd "github.com/go-ports/bufmark/cmd/bufmark/config"
	deletecmd "github.com/go-ports/bufmark/cmd/bufmark/delete"
	getcmd "github.com/go-ports/bufmark/cmd/bufmark/get"
	listcmd "github.com/go-ports/bufmark/cmd/bufmark/list"
	mcpcmd "github.com/go-ports/bufmark/cmd/bufmark/mcp"
	nvimcmd "github.com/go-ports/bufmark/cmd/bufmark/nvim"
	scopecmd "github.com/go-ports/bufmark/cmd/bufmark/scope"
	setcmd "github.com/go-ports/bufmark/cmd/bufmark/set"
	setupcmd "github.com/go-ports/bufmark/cmd/bufmark/setup"
	"github.com/go-ports/bufmark/cmd/bufmark/shared"
	uninstallcmd "github.com/go-ports/bufmark/cmd/bufmark/uninstall"
	versioncmd "github.com/go-ports/bufmark/cmd/bufmark/version"
)

// New creates and returns the root cobra.Command for the bufmark CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "bufmark",
		Short:         "bufmark: single-character file marks for Neovim, per working directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	root.PersistentFlags().StringVar(
		&ctx.DataDir, "data-dir", "",
		"Override data directory (default: $BUFMARK_HOME env → persisted config → $XDG_DATA_HOME/nvim/bufmark)",
	)
	root.PersistentFlags().StringVar(
		&ctx.Cwd, "cwd", "",
		"Working directory whose marks to use (default: current directory)",
	)

	root.AddCommand(
		setcmd.New(ctx).Cmd(),
		deletecmd.New(ctx).Cmd(),
		clearcmd.New(ctx).Cmd(),
		getcmd.New(ctx).Cmd(),
		listcmd.New(ctx).Cmd(),
		scopecmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		setupcmd.New(ctx).Cmd(),
		uninstallcmd.New(ctx).Cmd(),
		nvimcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
		versioncmd.New(ctx).Cmd(),
	)

	return root
}
