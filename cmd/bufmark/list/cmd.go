// Package listcmd implements the `bufmark list` command.
package listcmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/bufmark/cmd/bufmark/shared"
	"github.com/go-ports/bufmark/internal/listing"
)

// Command implements `bufmark list`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	tree    bool
	jsonOut bool
}

// New creates the list command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "list",
		Short: "List the marks of the working directory",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.BoolVar(&c.tree, "tree", false, "Show marks as a directory tree")
	f.BoolVar(&c.jsonOut, "json", false, "Print marks as JSON")

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
	marks := svc.Store.List()

	switch {
	case c.jsonOut:
		b, err := json.MarshalIndent(marks, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
	case len(marks) == 0:
		fmt.Fprintln(out, listing.Empty)
	case c.tree:
		fmt.Fprint(out, listing.Tree(marks, svc.Cwd))
	default:
		var style func(string) string
		if shared.IsTerminal(out) {
			style = shared.Bold
		}
		fmt.Fprintln(out, listing.PrettyStyled(marks, svc.Cwd, style))
	}
	return nil
}
