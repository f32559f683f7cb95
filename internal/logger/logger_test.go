package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/rs/zerolog"

	"github.com/go-ports/bufmark/internal/logger"
)

func TestNew_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("file output receives structured lines", func(c *qt.C) {
		path := filepath.Join(t.TempDir(), "logs", "bufmark.log")
		l, err := logger.New(logger.Config{Level: "debug", File: path})
		c.Assert(err, qt.IsNil)

		lg := l.Component("markstore")
		lg.Info().Str("char", "a").Msg("mark set")
		c.Assert(l.Close(), qt.IsNil)

		data, err := os.ReadFile(path)
		c.Assert(err, qt.IsNil)
		c.Assert(string(data), qt.Contains, `"component":"markstore"`)
		c.Assert(string(data), qt.Contains, `"message":"mark set"`)
	})

	c.Run("unknown level falls back to warn", func(c *qt.C) {
		l, err := logger.New(logger.Config{Level: "chatty"})
		c.Assert(err, qt.IsNil)
		c.Assert(l.GetLevel(), qt.Equals, zerolog.WarnLevel)
	})

	c.Run("levels below the threshold are dropped", func(c *qt.C) {
		path := filepath.Join(t.TempDir(), "bufmark.log")
		l, err := logger.New(logger.Config{Level: "error", File: path})
		c.Assert(err, qt.IsNil)
		l.Warn().Msg("ignored")
		c.Assert(l.Close(), qt.IsNil)

		data, err := os.ReadFile(path)
		c.Assert(err, qt.IsNil)
		c.Assert(string(data), qt.Equals, "")
	})
}

func TestNop_HappyPath(t *testing.T) {
	c := qt.New(t)
	l := logger.Nop()
	l.Error().Msg("nothing")
	c.Assert(l.Close(), qt.IsNil)
}
