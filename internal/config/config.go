// Package config handles configuration loading and data directory resolution.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvDataDir overrides the data directory.
const EnvDataDir = "BUFMARK_HOME"

// FileName is the per-data-dir configuration file.
const FileName = "config.yaml"

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// LogConfig controls the diagnostic log.
type LogConfig struct {
	Level string `yaml:"level"` // trace | debug | info | warn | error | disabled
	File  string `yaml:"file"`  // empty: <data_dir>/bufmark.log
}

// StatuslineConfig names the highlight groups used in the status line.
type StatuslineConfig struct {
	Current  string `yaml:"current"`
	Other    string `yaml:"other"`
	Unmarked string `yaml:"unmarked"`
}

// KeymapConfig holds optional normal-mode mappings. Each mapping reads the
// mark character as the next key press. Empty disables the mapping.
type KeymapConfig struct {
	Set    string `yaml:"set"`
	Goto   string `yaml:"goto"`
	Delete string `yaml:"delete"`
}

// Config is the root configuration.
type Config struct {
	Persist    bool             `yaml:"persist"`
	Watch      bool             `yaml:"watch"`
	Log        LogConfig        `yaml:"log"`
	Statusline StatuslineConfig `yaml:"statusline"`
	Keymaps    KeymapConfig     `yaml:"keymaps"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Persist: true,
		Watch:   false,
		Log: LogConfig{
			Level: "warn",
		},
		Statusline: StatuslineConfig{
			Current:  "BufMarkCurrent",
			Other:    "BufMarkOther",
			Unmarked: "[-]",
		},
	}
}

// Load reads config.yaml from path.
// If the file does not exist it returns Default() with no error.
// Missing keys retain their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	// Unmarshal into a plain map so we can apply only the keys that are present.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if v, ok := raw["persist"].(bool); ok {
		cfg.Persist = v
	}
	if v, ok := raw["watch"].(bool); ok {
		cfg.Watch = v
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		if v, ok := lg["level"].(string); ok && v != "" {
			cfg.Log.Level = v
		}
		if v, ok := lg["file"].(string); ok {
			cfg.Log.File = v
		}
	}

	if sl, ok := raw["statusline"].(map[string]any); ok {
		if v, ok := sl["current"].(string); ok {
			cfg.Statusline.Current = v
		}
		if v, ok := sl["other"].(string); ok {
			cfg.Statusline.Other = v
		}
		if v, ok := sl["unmarked"].(string); ok {
			cfg.Statusline.Unmarked = v
		}
	}

	if km, ok := raw["keymaps"].(map[string]any); ok {
		if v, ok := km["set"].(string); ok {
			cfg.Keymaps.Set = v
		}
		if v, ok := km["goto"].(string); ok {
			cfg.Keymaps.Goto = v
		}
		if v, ok := km["delete"].(string); ok {
			cfg.Keymaps.Delete = v
		}
	}

	return cfg, nil
}

// LogFile returns the configured log file, defaulting into dataDir.
func (c *Config) LogFile(dataDir string) string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(dataDir, "bufmark.log")
}

// ---------------------------------------------------------------------------
// Data directory resolution
// ---------------------------------------------------------------------------

// globalConfigPath returns the path to the global bufmark config file.
// This file stores only data_dir.
func globalConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bufmark", FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "bufmark", FileName), nil
}

// normalizePath expands ~ and makes the path absolute.
func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(os.ExpandEnv(path))
}

// defaultDataDir mirrors Neovim's stdpath("data") layout.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "nvim", "bufmark")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "nvim", "bufmark")
}

// ResolveDataDir returns the data directory and the source of the resolution.
// Priority: BUFMARK_HOME env → persisted global config → XDG data dir.
// source is one of "env", "config", or "default".
func ResolveDataDir() (path, source string) {
	if env := os.Getenv(EnvDataDir); env != "" {
		p, err := normalizePath(env)
		if err == nil {
			return p, "env"
		}
	}

	if persisted, ok, _ := GetPersistedDataDir(); ok {
		return persisted, "config"
	}

	return defaultDataDir(), "default"
}

// GetDataDir returns the resolved data directory.
func GetDataDir() string {
	path, _ := ResolveDataDir()
	return path
}

// globalDataDirKey is the only key bufmark reads from the global config.
const globalDataDirKey = "data_dir"

// readGlobal loads the global config as a raw map so keys written by other
// versions survive a rewrite. A missing or malformed file reads as empty.
func readGlobal() (path string, raw map[string]any, err error) {
	path, err = globalConfigPath()
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", nil, err
	}
	if err == nil {
		_ = yaml.Unmarshal(data, &raw)
	}
	if raw == nil {
		raw = make(map[string]any)
	}
	return path, raw, nil
}

// writeGlobal stores raw at path. An empty map removes the file.
func writeGlobal(path string, raw map[string]any) error {
	if len(raw) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}

// GetPersistedDataDir reads data_dir from the global config.
// Returns ("", false, nil) if not set.
func GetPersistedDataDir() (string, bool, error) {
	_, raw, err := readGlobal()
	if err != nil {
		return "", false, err
	}
	val, _ := raw[globalDataDirKey].(string)
	if val = strings.TrimSpace(val); val == "" {
		return "", false, nil
	}
	p, err := normalizePath(val)
	if err != nil {
		return "", false, err
	}
	return p, true, nil
}

// SetPersistedDataDir normalizes path and persists it in the global config.
// Returns the normalized path.
func SetPersistedDataDir(path string) (string, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return "", err
	}
	cfgPath, raw, err := readGlobal()
	if err != nil {
		return "", err
	}
	raw[globalDataDirKey] = normalized
	if err := writeGlobal(cfgPath, raw); err != nil {
		return "", err
	}
	return normalized, nil
}

// ClearPersistedDataDir removes data_dir from the global config and reports
// whether it was set. The file is deleted once nothing else is left in it.
func ClearPersistedDataDir() (bool, error) {
	cfgPath, raw, err := readGlobal()
	if err != nil {
		return false, err
	}
	if _, ok := raw[globalDataDirKey]; !ok {
		return false, nil
	}
	delete(raw, globalDataDirKey)
	return true, writeGlobal(cfgPath, raw)
}
