// Package shared holds the context passed to all CLI commands.
package shared

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/go-ports/bufmark/internal/markstore"
	"github.com/go-ports/bufmark/internal/service"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// DataDir overrides the data directory.
	// When empty, resolution falls through to BUFMARK_HOME env → persisted config → XDG data dir.
	DataDir string
	// Cwd selects the scope. When empty the process working directory is used.
	Cwd string
}

// Open builds the service for the selected scope.
func (c *Context) Open() (*service.Service, error) {
	return service.New(service.Options{DataDir: c.DataDir, Cwd: c.Cwd})
}

// MarkArg validates that the first positional argument is a single
// character, so bad input is rejected before any store is opened.
func MarkArg(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return err
		}
		if err := markstore.ValidateChar(args[0]); err != nil {
			return fmt.Errorf("invalid mark %q: %w", args[0], err)
		}
		return nil
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}

// Bold wraps s in ANSI bold.
func Bold(s string) string {
	return "\x1B[1m" + s + "\x1B[0m"
}
