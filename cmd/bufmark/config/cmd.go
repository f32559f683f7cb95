// Package configcmd implements the `bufmark config` command group.
package configcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/bufmark/cmd/bufmark/shared"
	"github.com/go-ports/bufmark/internal/config"
)

const configTemplate = `# bufmark configuration

# Save marks to <data_dir>/<scope>.json. When false marks live only as
# long as the editor session.
persist: true

# Reload marks when another editor instance in the same directory writes them.
watch: false

log:
  level: warn                   # trace | debug | info | warn | error | disabled
  # file: /tmp/bufmark.log      # default: <data_dir>/bufmark.log

statusline:
  current: BufMarkCurrent       # highlight group of the current buffer's mark
  other: BufMarkOther           # highlight group of every other mark
  unmarked: "[-]"               # shown when the current buffer has no mark

# Normal-mode mappings; the mark is read from the next key press.
keymaps:
  set: ""                       # e.g. "m"
  goto: ""                      # e.g. "'"
  delete: ""                    # e.g. "dm"
`

// Command implements `bufmark config`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the config command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		RunE:  c.runShow,
	}
	c.cmd.AddCommand(
		newConfigInit(ctx),
		newSetHome(),
		newClearHome(),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runShow(cmd *cobra.Command, _ []string) error {
	dataDir, source := config.ResolveDataDir()
	if c.ctx.DataDir != "" {
		dataDir = c.ctx.DataDir
		source = "flag"
	}
	cfg, err := config.Load(filepath.Join(dataDir, config.FileName))
	if err != nil {
		return err
	}
	data := map[string]any{
		"persist":         cfg.Persist,
		"watch":           cfg.Watch,
		"log":             cfg.Log,
		"statusline":      cfg.Statusline,
		"keymaps":         cfg.Keymaps,
		"data_dir":        dataDir,
		"data_dir_source": source,
	}
	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(b))
	return nil
}

// ---------------------------------------------------------------------------
// config init
// ---------------------------------------------------------------------------

func newConfigInit(ctx *shared.Context) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a starter config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dataDir := ctx.DataDir
			if dataDir == "" {
				dataDir = config.GetDataDir()
			}
			cfgPath := filepath.Join(dataDir, config.FileName)
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfgPath); err == nil && !force {
				fmt.Fprintf(out, "Config already exists at %s\n", cfgPath)
				fmt.Fprintln(out, "Use --force to overwrite.")
				return nil
			}
			if err := os.MkdirAll(dataDir, 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(cfgPath, []byte(configTemplate), 0o600); err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %s\n", cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config")
	return cmd
}

// ---------------------------------------------------------------------------
// config set-home
// ---------------------------------------------------------------------------

func newSetHome() *cobra.Command {
	return &cobra.Command{
		Use:   "set-home <path>",
		Short: "Persist the data directory (used when " + config.EnvDataDir + " is unset)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := config.SetPersistedDataDir(args[0])
			if err != nil {
				return err
			}
			if err := os.MkdirAll(resolved, 0o755); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Persisted data directory: %s\n", resolved)
			fmt.Fprintf(out, "Override anytime with %s.\n", config.EnvDataDir)
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// config clear-home
// ---------------------------------------------------------------------------

func newClearHome() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-home",
		Short: "Remove the persisted data directory from global config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed, err := config.ClearPersistedDataDir()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if changed {
				fmt.Fprintln(out, "Cleared persisted data directory setting.")
			} else {
				fmt.Fprintln(out, "No persisted data directory setting was found.")
			}
			return nil
		},
	}
}
