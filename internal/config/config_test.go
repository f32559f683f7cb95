package config_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/bufmark/internal/config"
)

func TestDefault_HappyPath(t *testing.T) {
	c := qt.New(t)
	cfg := config.Default()
	c.Assert(cfg, qt.IsNotNil)
	c.Assert(cfg.Persist, qt.IsTrue)
	c.Assert(cfg.Watch, qt.IsFalse)
	c.Assert(cfg.Log.Level, qt.Equals, "warn")
	c.Assert(cfg.Statusline.Current, qt.Equals, "BufMarkCurrent")
	c.Assert(cfg.Statusline.Other, qt.Equals, "BufMarkOther")
	c.Assert(cfg.Statusline.Unmarked, qt.Equals, "[-]")
	c.Assert(cfg.Keymaps, qt.Equals, config.KeymapConfig{})
}

func TestLoad_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("non-existent file returns defaults without error", func(c *qt.C) {
		cfg, err := config.Load("/nonexistent/config.yaml")
		c.Assert(err, qt.IsNil)
		c.Assert(cfg, qt.DeepEquals, config.Default())
	})

	tests := []struct {
		name    string
		yaml    string
		persist bool
		watch   bool
		level   string
		current string
		setKey  string
	}{
		{
			name:    "persistence disabled",
			yaml:    "persist: false\n",
			persist: false,
			level:   "warn",
			current: "BufMarkCurrent",
		},
		{
			name:    "watch and debug logging",
			yaml:    "watch: true\nlog:\n  level: debug\n",
			persist: true,
			watch:   true,
			level:   "debug",
			current: "BufMarkCurrent",
		},
		{
			name:    "statusline group override",
			yaml:    "statusline:\n  current: Search\n",
			persist: true,
			level:   "warn",
			current: "Search",
		},
		{
			name:    "keymaps",
			yaml:    "keymaps:\n  set: \"<leader>m\"\n",
			persist: true,
			level:   "warn",
			current: "BufMarkCurrent",
			setKey:  "<leader>m",
		},
		{
			name:    "empty level keeps default",
			yaml:    "log:\n  level: \"\"\n",
			persist: true,
			level:   "warn",
			current: "BufMarkCurrent",
		},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			c.Assert(os.WriteFile(path, []byte(tt.yaml), 0o600), qt.IsNil)

			cfg, err := config.Load(path)
			c.Assert(err, qt.IsNil)
			c.Assert(cfg.Persist, qt.Equals, tt.persist)
			c.Assert(cfg.Watch, qt.Equals, tt.watch)
			c.Assert(cfg.Log.Level, qt.Equals, tt.level)
			c.Assert(cfg.Statusline.Current, qt.Equals, tt.current)
			c.Assert(cfg.Keymaps.Set, qt.Equals, tt.setKey)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	c.Assert(os.WriteFile(path, []byte("persist: [\n"), 0o600), qt.IsNil)

	_, err := config.Load(path)
	c.Assert(err, qt.IsNotNil)
}

func TestLogFile(t *testing.T) {
	c := qt.New(t)
	cfg := config.Default()
	c.Assert(cfg.LogFile("/data"), qt.Equals, filepath.Join("/data", "bufmark.log"))
	cfg.Log.File = "/var/log/bufmark.log"
	c.Assert(cfg.LogFile("/data"), qt.Equals, "/var/log/bufmark.log")
}

// ---------------------------------------------------------------------------
// Data directory resolution
// ---------------------------------------------------------------------------

func TestResolveDataDir_EnvOverride(t *testing.T) {
	c := qt.New(t)

	tmp := t.TempDir()
	t.Setenv(config.EnvDataDir, tmp)

	path, source := config.ResolveDataDir()
	c.Assert(source, qt.Equals, "env")
	c.Assert(path, qt.Equals, tmp)
}

func TestResolveDataDir_Default(t *testing.T) {
	c := qt.New(t)

	xdgData := t.TempDir()
	t.Setenv(config.EnvDataDir, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", xdgData)

	path, source := config.ResolveDataDir()
	c.Assert(source, qt.Equals, "default")
	c.Assert(path, qt.Equals, filepath.Join(xdgData, "nvim", "bufmark"))
}

func TestPersistedDataDir_SetGetClear(t *testing.T) {
	c := qt.New(t)

	t.Setenv(config.EnvDataDir, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	target := t.TempDir()

	_, ok, err := config.GetPersistedDataDir()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)

	resolved, err := config.SetPersistedDataDir(target)
	c.Assert(err, qt.IsNil)
	c.Assert(resolved, qt.Equals, target)

	path, source := config.ResolveDataDir()
	c.Assert(source, qt.Equals, "config")
	c.Assert(path, qt.Equals, target)

	changed, err := config.ClearPersistedDataDir()
	c.Assert(err, qt.IsNil)
	c.Assert(changed, qt.IsTrue)

	changed, err = config.ClearPersistedDataDir()
	c.Assert(err, qt.IsNil)
	c.Assert(changed, qt.IsFalse)
}

func TestPersistedDataDir_KeepsOtherKeys(t *testing.T) {
	c := qt.New(t)

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	cfgPath := filepath.Join(xdg, "bufmark", config.FileName)
	c.Assert(os.MkdirAll(filepath.Dir(cfgPath), 0o755), qt.IsNil)
	c.Assert(os.WriteFile(cfgPath, []byte("theme: dark\n"), 0o600), qt.IsNil)

	target := t.TempDir()
	_, err := config.SetPersistedDataDir(target)
	c.Assert(err, qt.IsNil)

	data, err := os.ReadFile(cfgPath)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Contains, "theme: dark")
	c.Assert(string(data), qt.Contains, "data_dir: "+target)

	changed, err := config.ClearPersistedDataDir()
	c.Assert(err, qt.IsNil)
	c.Assert(changed, qt.IsTrue)

	data, err = os.ReadFile(cfgPath)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "theme: dark\n")
}

func TestPersistedDataDir_ClearRemovesEmptyFile(t *testing.T) {
	c := qt.New(t)

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	_, err := config.SetPersistedDataDir(t.TempDir())
	c.Assert(err, qt.IsNil)

	changed, err := config.ClearPersistedDataDir()
	c.Assert(err, qt.IsNil)
	c.Assert(changed, qt.IsTrue)

	_, err = os.Stat(filepath.Join(xdg, "bufmark", config.FileName))
	c.Assert(os.IsNotExist(err), qt.IsTrue)
}

func TestPersistedDataDir_MalformedGlobalConfig(t *testing.T) {
	c := qt.New(t)

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	cfgPath := filepath.Join(xdg, "bufmark", config.FileName)
	c.Assert(os.MkdirAll(filepath.Dir(cfgPath), 0o755), qt.IsNil)
	c.Assert(os.WriteFile(cfgPath, []byte("data_dir: [unclosed\n"), 0o600), qt.IsNil)

	_, ok, err := config.GetPersistedDataDir()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)

	changed, err := config.ClearPersistedDataDir()
	c.Assert(err, qt.IsNil)
	c.Assert(changed, qt.IsFalse)
}
