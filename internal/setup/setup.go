// Package setup installs and uninstalls the bufmark integrations: the Neovim
// loader script and the MCP server entry for Claude Code.
package setup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Result is the return value from all Setup/Uninstall functions.
type Result struct {
	Status  string // "ok" or "error"
	Message string
}

func ok(msg string) Result          { return Result{Status: "ok", Message: msg} }
func okf(f string, a ...any) Result { return ok(fmt.Sprintf(f, a...)) }
func fail(err error) Result         { return Result{Status: "error", Message: err.Error()} }

// ---------------------------------------------------------------------------
// Neovim loader
// ---------------------------------------------------------------------------

// loaderMarker identifies a loader written by bufmark.
const loaderMarker = "-- bufmark: managed file"

const loaderLua = loaderMarker + `, reinstall with "bufmark setup nvim".
if vim.g.loaded_bufmark then
  return
end
vim.g.loaded_bufmark = true

local cmd = vim.g.bufmark_cmd or { "bufmark", "nvim" }
local chan = vim.fn.jobstart(cmd, { rpc = true })
if chan <= 0 then
  vim.notify("bufmark: failed to start " .. table.concat(cmd, " "), vim.log.levels.ERROR)
end
`

// DefaultNvimConfigDir returns Neovim's config directory.
func DefaultNvimConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "nvim")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "nvim")
}

func loaderPath(nvimDir string) string {
	return filepath.Join(nvimDir, "plugin", "bufmark.lua")
}

// SetupNeovim writes the loader that starts bufmark as an RPC job.
// nvimDir defaults to DefaultNvimConfigDir when empty.
func SetupNeovim(nvimDir string) Result {
	if nvimDir == "" {
		nvimDir = DefaultNvimConfigDir()
	}
	path := loaderPath(nvimDir)

	if data, err := os.ReadFile(path); err == nil {
		if !bytes.HasPrefix(data, []byte(loaderMarker)) {
			return okf("Left %s untouched: not written by bufmark", path)
		}
		if string(data) == loaderLua {
			return ok("Already installed")
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fail(err)
	}
	if err := os.WriteFile(path, []byte(loaderLua), 0o644); err != nil { // #nosec G306 -- editor plugin script, not a secret
		return fail(err)
	}
	return okf("Installed: %s", path)
}

// UninstallNeovim removes the loader if bufmark wrote it.
func UninstallNeovim(nvimDir string) Result {
	if nvimDir == "" {
		nvimDir = DefaultNvimConfigDir()
	}
	path := loaderPath(nvimDir)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ok("Nothing to uninstall")
	}
	if err != nil {
		return fail(err)
	}
	if !bytes.HasPrefix(data, []byte(loaderMarker)) {
		return okf("Left %s untouched: not written by bufmark", path)
	}
	if err := os.Remove(path); err != nil {
		return fail(err)
	}
	return okf("Removed: %s", path)
}

// ---------------------------------------------------------------------------
// MCP config entry
// ---------------------------------------------------------------------------

const serverName = "bufmark"

var mcpConfig = map[string]any{
	"command": "bufmark",
	"args":    []any{"mcp"},
	"type":    "stdio",
}

// DefaultClaudeHome returns the default ~/.claude directory.
func DefaultClaudeHome() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude")
}

//revive:disable:flag-parameter
func claudeMCPPath(claudeHome string, project bool) string {
	if project {
		return filepath.Join(filepath.Dir(claudeHome), ".mcp.json")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude.json")
}

// SetupClaudeCode registers the bufmark MCP server with Claude Code.
// claudeHome defaults to ~/.claude when empty.
func SetupClaudeCode(claudeHome string, project bool) Result {
	if claudeHome == "" {
		claudeHome = DefaultClaudeHome()
	}
	path := claudeMCPPath(claudeHome, project)
	added, err := installMCPServers(path)
	if err != nil {
		return fail(err)
	}
	if !added {
		return ok("Already installed")
	}
	return okf("Installed: mcpServers in %s", path)
}

// UninstallClaudeCode removes the bufmark MCP server entry.
func UninstallClaudeCode(claudeHome string, project bool) Result {
	if claudeHome == "" {
		claudeHome = DefaultClaudeHome()
	}
	path := claudeMCPPath(claudeHome, project)
	removed, err := uninstallMCPServers(path)
	if err != nil {
		return fail(err)
	}
	if !removed {
		return ok("Nothing to uninstall")
	}
	return okf("Removed: mcpServers entry in %s", path)
}

//revive:enable:flag-parameter

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func readJSON(path string) map[string]any {
	data, err := os.ReadFile(path)
	if err != nil {
		return make(map[string]any)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return make(map[string]any)
	}
	return m
}

func writeJSON(path string, data map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644) // #nosec G306 -- MCP server entries do not contain secrets
}

func installMCPServers(path string) (bool, error) {
	data := readJSON(path)
	servers, _ := data["mcpServers"].(map[string]any)
	if servers == nil {
		servers = make(map[string]any)
		data["mcpServers"] = servers
	}
	if _, exists := servers[serverName]; exists {
		return false, nil
	}
	servers[serverName] = mcpConfig
	return true, writeJSON(path, data)
}

func uninstallMCPServers(path string) (bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	data := readJSON(path)
	servers, _ := data["mcpServers"].(map[string]any)
	if _, exists := servers[serverName]; !exists {
		return false, nil
	}
	delete(servers, serverName)
	if len(servers) == 0 {
		delete(data, "mcpServers")
	}
	if len(data) == 0 {
		return true, os.Remove(path)
	}
	return true, writeJSON(path, data)
}
