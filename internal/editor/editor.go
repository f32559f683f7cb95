// Package editor defines the narrow surface bufmark needs from the host
// editor and the goto resolution built on top of it.
package editor

import (
	"fmt"
	"path/filepath"
)

// Level is the severity of a user-visible message.
type Level int

// Message levels, ordered by severity.
const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// View is a host handle to an open representation of a file (a buffer in
// Neovim). Only the host interprets it.
type View int

// Host is everything bufmark asks of the editor.
type Host interface {
	// FindOpenView reports the open view showing exactly path, if any.
	FindOpenView(path string) (View, bool, error)
	// Activate makes v the current view.
	Activate(v View) error
	// OpenPath opens path as a new view and makes it current.
	OpenPath(path string) error
	// CurrentPath returns the file of the current view, or "" when the view
	// has no file.
	CurrentPath() (string, error)
	// Notify shows msg to the user.
	Notify(msg string, level Level) error
}

// Resolve switches the host to path: an already open view is activated,
// otherwise the path is opened fresh.
func Resolve(h Host, path string) error {
	v, open, err := h.FindOpenView(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("editor.Resolve: find view: %w", err)
	}
	if open {
		if err := h.Activate(v); err != nil {
			return fmt.Errorf("editor.Resolve: activate: %w", err)
		}
		return nil
	}
	if err := h.OpenPath(path); err != nil {
		return fmt.Errorf("editor.Resolve: open: %w", err)
	}
	return nil
}

// SamePath reports whether two host paths name the same file.
func SamePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return filepath.Clean(a) == filepath.Clean(b)
}
