// Package plugin is the layer the editor binds keys and commands to. It
// validates user input, turns store results into user-visible messages and
// drives goto resolution through the editor host.
package plugin

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/go-ports/bufmark/internal/editor"
	"github.com/go-ports/bufmark/internal/listing"
	"github.com/go-ports/bufmark/internal/markstore"
	"github.com/go-ports/bufmark/internal/statusline"
)

// User-visible messages.
const (
	msgInvalidChar = "Mark must be a single character"
	msgNoFile      = "Current buffer has no file"
)

// Controller exposes the mark operations on behalf of one editor.
type Controller struct {
	store *markstore.Store
	host  editor.Host
	style statusline.Style
	log   zerolog.Logger
}

// New returns a Controller over store and host.
func New(store *markstore.Store, host editor.Host, style statusline.Style, log zerolog.Logger) *Controller {
	return &Controller{
		store: store,
		host:  host,
		style: style,
		log:   log.With().Str("component", "plugin").Logger(),
	}
}

// Set marks the current buffer's file with char.
func (c *Controller) Set(char string) error {
	if !c.validChar(char) {
		return nil
	}
	path, err := c.host.CurrentPath()
	if err != nil {
		return fmt.Errorf("plugin.Set: current path: %w", err)
	}
	if path == "" {
		c.warn(msgNoFile)
		return nil
	}
	if err := c.store.Set(char, path); err != nil {
		// validChar already accepted char; anything else is unexpected.
		return fmt.Errorf("plugin.Set: %w", err)
	}
	c.info(fmt.Sprintf("Marked %s as '%s'", listing.Display(path, c.store.Cwd()), char))
	return nil
}

// Delete removes the mark char, warning when it was not set.
func (c *Controller) Delete(char string) error {
	if !c.validChar(char) {
		return nil
	}
	if !c.store.Delete(char) {
		c.warn(notSet(char))
		return nil
	}
	c.info(fmt.Sprintf("Deleted mark '%s'", char))
	return nil
}

// DeleteAll removes every mark of the scope.
func (c *Controller) DeleteAll() error {
	c.store.DeleteAll()
	c.info("Deleted all marks")
	return nil
}

// Goto switches to the file marked char.
func (c *Controller) Goto(char string) error {
	if !c.validChar(char) {
		return nil
	}
	path, ok := c.store.Get(char)
	if !ok {
		c.warn(notSet(char))
		return nil
	}
	if err := editor.Resolve(c.host, path); err != nil {
		return fmt.Errorf("plugin.Goto: %w", err)
	}
	return nil
}

// List returns the marks ordered by character.
func (c *Controller) List() []markstore.Mark {
	return c.store.List()
}

// ListPretty returns the marks formatted for display.
func (c *Controller) ListPretty() string {
	return listing.Pretty(c.store.List(), c.store.Cwd())
}

// ShowList sends the pretty list to the user.
func (c *Controller) ShowList() {
	c.info(c.ListPretty())
}

// Status renders the status line fragment for the current buffer.
func (c *Controller) Status() (string, error) {
	current, err := c.host.CurrentPath()
	if err != nil {
		return "", fmt.Errorf("plugin.Status: current path: %w", err)
	}
	return statusline.Render(c.store.List(), current, c.style), nil
}

func (c *Controller) validChar(char string) bool {
	if err := markstore.ValidateChar(char); err != nil {
		c.log.Debug().Str("input", char).Msg("rejected mark character")
		c.warn(msgInvalidChar)
		return false
	}
	return true
}

func (c *Controller) info(msg string) { c.notify(msg, editor.LevelInfo) }

func (c *Controller) warn(msg string) { c.notify(msg, editor.LevelWarn) }

// notify reports msg to the user. A failing host is only logged: the
// operation itself has already completed.
func (c *Controller) notify(msg string, level editor.Level) {
	if err := c.host.Notify(msg, level); err != nil {
		c.log.Warn().Err(err).Str("msg", msg).Msg("notify")
	}
}

func notSet(char string) string {
	return fmt.Sprintf("Mark '%s' is not set", char)
}
