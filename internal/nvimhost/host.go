// Package nvimhost connects bufmark to Neovim over msgpack-RPC. Neovim starts
// the binary as an RPC job; the process answers requests from the user
// commands it defines and calls back into the Neovim API to switch buffers.
package nvimhost

import (
	"strings"

	"github.com/neovim/go-client/nvim"
	"github.com/rs/zerolog"

	"github.com/go-ports/bufmark/internal/editor"
)

// Buffer and global variables owned by bufmark.
const (
	cursorVar = "bufmark_cursor"
	statusVar = "bufmark_status"
)

// notifyLua forwards to vim.notify with the given vim.log.levels value.
const notifyLua = `local msg, level = ...
vim.notify(msg, level, { title = "bufmark" })`

// Host implements editor.Host on top of a Neovim API client.
type Host struct {
	v   *nvim.Nvim
	log zerolog.Logger
}

var _ editor.Host = (*Host)(nil)

// NewHost wraps v.
func NewHost(v *nvim.Nvim, log zerolog.Logger) *Host {
	return &Host{v: v, log: log.With().Str("component", "nvimhost").Logger()}
}

// FindOpenView implements editor.Host by scanning the buffer list for a
// buffer whose name is path.
func (h *Host) FindOpenView(path string) (editor.View, bool, error) {
	bufs, err := h.v.Buffers()
	if err != nil {
		return 0, false, err
	}
	for _, b := range bufs {
		name, err := h.v.BufferName(b)
		if err != nil {
			return 0, false, err
		}
		if editor.SamePath(name, path) {
			return editor.View(b), true, nil
		}
	}
	return 0, false, nil
}

// Activate implements editor.Host. The cursor position cached when the
// buffer was last left is restored when present.
func (h *Host) Activate(view editor.View) error {
	buf := nvim.Buffer(view)
	if err := h.v.SetCurrentBuffer(buf); err != nil {
		return err
	}

	var pos [2]int
	if err := h.v.BufferVar(buf, cursorVar, &pos); err != nil {
		// never left since it was opened
		return nil
	}
	win, err := h.v.CurrentWindow()
	if err != nil {
		return err
	}
	if err := h.v.SetWindowCursor(win, pos); err != nil {
		// The buffer may have shrunk since; keep Neovim's own position.
		h.log.Debug().Err(err).Ints("pos", pos[:]).Msg("restore cursor")
	}
	return nil
}

// OpenPath implements editor.Host with :edit.
func (h *Host) OpenPath(path string) error {
	var escaped string
	if err := h.v.Call("fnameescape", &escaped, path); err != nil {
		return err
	}
	return h.v.Command("edit " + escaped)
}

// CurrentPath implements editor.Host. Buffers without a file (scratch,
// terminal and other URI-named buffers) report "".
func (h *Host) CurrentPath() (string, error) {
	buf, err := h.v.CurrentBuffer()
	if err != nil {
		return "", err
	}
	name, err := h.v.BufferName(buf)
	if err != nil {
		return "", err
	}
	if strings.Contains(name, "://") {
		return "", nil
	}
	return name, nil
}

// Notify implements editor.Host through vim.notify.
func (h *Host) Notify(msg string, level editor.Level) error {
	return h.v.ExecLua(notifyLua, nil, msg, luaLevel(level))
}

// SaveCursor caches a cursor position on buf. line is 1-based, col is the
// 1-based value of col('.').
func (h *Host) SaveCursor(buf, line, col int) error {
	if line < 1 {
		return nil
	}
	return h.v.SetBufferVar(nvim.Buffer(buf), cursorVar, [2]int{line, max(col-1, 0)})
}

// PublishStatus stores the rendered status line in g:bufmark_status and
// redraws the status lines.
func (h *Host) PublishStatus(text string) error {
	if err := h.v.SetVar(statusVar, text); err != nil {
		return err
	}
	return h.v.Command("redrawstatus!")
}

// luaLevel maps a level to vim.log.levels.
func luaLevel(l editor.Level) int {
	switch l {
	case editor.LevelWarn:
		return 3
	case editor.LevelError:
		return 4
	default:
		return 2
	}
}
