package markstore_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/bufmark/internal/checkers"
	"github.com/go-ports/bufmark/internal/markstore"
	"github.com/go-ports/bufmark/internal/scope"
)

// openTestStore opens a persistent store for cwd in a fresh data dir.
func openTestStore(t *testing.T, cwd string) (*markstore.Store, string) {
	t.Helper()
	dataDir := t.TempDir()
	return markstore.Open(dataDir, cwd, markstore.Options{Persist: true}), dataDir
}

// ---------------------------------------------------------------------------
// ValidateChar
// ---------------------------------------------------------------------------

func TestValidateChar(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name string
		in   string
		ok   bool
	}{
		{"ascii letter", "a", true},
		{"digit", "1", true},
		{"punctuation", "'", true},
		{"multibyte rune", "ä", true},
		{"empty", "", false},
		{"two letters", "ab", false},
		{"control character", "\t", false},
		{"invalid utf8", "\xff", false},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			err := markstore.ValidateChar(tc.in)
			if tc.ok {
				c.Assert(err, qt.IsNil)
			} else {
				c.Assert(err, qt.ErrorIs, markstore.ErrInvalidChar)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Set / Get / Delete / DeleteAll / List
// ---------------------------------------------------------------------------

func TestSet_LastWriteWins(t *testing.T) {
	c := qt.New(t)
	s, _ := openTestStore(t, "/proj")

	c.Assert(s.Set("a", "/proj/one.go"), qt.IsNil)
	c.Assert(s.Set("a", "/proj/two.go"), qt.IsNil)

	got, ok := s.Get("a")
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.Equals, "/proj/two.go")
	c.Assert(s.Len(), qt.Equals, 1)
}

func TestSet_InvalidCharDoesNotMutate(t *testing.T) {
	c := qt.New(t)
	s, _ := openTestStore(t, "/proj")

	notified := 0
	s.OnChange(func() { notified++ })

	err := s.Set("ab", "/proj/x")
	c.Assert(err, qt.ErrorIs, markstore.ErrInvalidChar)
	c.Assert(s.Len(), qt.Equals, 0)
	c.Assert(notified, qt.Equals, 0)
	_, statErr := os.Stat(s.Path())
	c.Assert(os.IsNotExist(statErr), qt.IsTrue)
}

func TestDelete_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("set mark is removed", func(c *qt.C) {
		s, _ := openTestStore(t, "/proj")
		c.Assert(s.Set("a", "/proj/a"), qt.IsNil)
		c.Assert(s.Delete("a"), qt.IsTrue)
		_, ok := s.Get("a")
		c.Assert(ok, qt.IsFalse)
	})

	c.Run("unset mark is a no-op that still notifies", func(c *qt.C) {
		s, _ := openTestStore(t, "/proj")
		c.Assert(s.Set("b", "/proj/b"), qt.IsNil)

		notified := 0
		s.OnChange(func() { notified++ })

		c.Assert(s.Delete("z"), qt.IsFalse)
		c.Assert(s.List(), qt.DeepEquals, []markstore.Mark{{Char: "b", Path: "/proj/b"}})
		c.Assert(notified, qt.Equals, 1)
	})
}

func TestDeleteAll_ClearsEverything(t *testing.T) {
	c := qt.New(t)
	s, dataDir := openTestStore(t, "/proj")
	for _, ch := range []string{"x", "y", "z"} {
		c.Assert(s.Set(ch, "/proj/"+ch), qt.IsNil)
	}

	s.DeleteAll()
	c.Assert(s.List(), qt.HasLen, 0)

	reopened := markstore.Open(dataDir, "/proj", markstore.Options{Persist: true})
	c.Assert(reopened.List(), qt.HasLen, 0)
}

func TestList_SortedByChar(t *testing.T) {
	c := qt.New(t)
	s, _ := openTestStore(t, "/proj")

	for _, ch := range []string{"q", "B", "a", "1", "z"} {
		c.Assert(s.Set(ch, "/proj/"+ch), qt.IsNil)
	}

	var chars []string
	for _, m := range s.List() {
		chars = append(chars, m.Char)
	}
	c.Assert(chars, qt.DeepEquals, []string{"1", "B", "a", "q", "z"})
}

func TestList_IsSnapshot(t *testing.T) {
	c := qt.New(t)
	s, _ := openTestStore(t, "/proj")
	c.Assert(s.Set("a", "/proj/a"), qt.IsNil)

	list := s.List()
	list[0].Path = "/elsewhere"

	got, _ := s.Get("a")
	c.Assert(got, qt.Equals, "/proj/a")
}

func TestOnChange_FiresAfterEveryMutation(t *testing.T) {
	c := qt.New(t)
	s, _ := openTestStore(t, "/proj")

	var seen []int
	s.OnChange(func() { seen = append(seen, s.Len()) })

	c.Assert(s.Set("a", "/proj/a"), qt.IsNil)
	c.Assert(s.Set("b", "/proj/b"), qt.IsNil)
	s.Delete("a")
	s.DeleteAll()

	c.Assert(seen, qt.DeepEquals, []int{1, 2, 1, 0})
}

// ---------------------------------------------------------------------------
// Persistence
// ---------------------------------------------------------------------------

func TestPersist_RoundTrip(t *testing.T) {
	c := qt.New(t)
	s, dataDir := openTestStore(t, "/proj")

	c.Assert(s.Set("a", "/proj/config.lua"), qt.IsNil)
	c.Assert(s.Set("b", "/proj/README.md"), qt.IsNil)
	c.Assert(s.Set("ä", "/proj/ümlaut.txt"), qt.IsNil)

	reopened := markstore.Open(dataDir, "/proj", markstore.Options{Persist: true})
	c.Assert(reopened.List(), qt.DeepEquals, s.List())
}

func TestPersist_FileFormat(t *testing.T) {
	c := qt.New(t)
	s, dataDir := openTestStore(t, "/proj")
	c.Assert(s.Set("a", "/proj/config.lua"), qt.IsNil)

	c.Assert(s.Path(), qt.Equals, scope.FilePath(dataDir, "/proj"))
	data, err := os.ReadFile(s.Path())
	c.Assert(err, qt.IsNil)
	c.Assert(data, checkers.JSONPathEquals("$.cwd"), "/proj")
	c.Assert(data, checkers.JSONPathEquals("$.marks.a"), "/proj/config.lua")
}

func TestPersist_ScopeIsolation(t *testing.T) {
	c := qt.New(t)
	dataDir := t.TempDir()

	a := markstore.Open(dataDir, "/work/a", markstore.Options{Persist: true})
	b := markstore.Open(dataDir, "/work/b", markstore.Options{Persist: true})
	c.Assert(a.Path(), qt.Not(qt.Equals), b.Path())

	c.Assert(a.Set("x", "/work/a/main.go"), qt.IsNil)
	c.Assert(b.Set("y", "/work/b/main.go"), qt.IsNil)

	ra := markstore.Open(dataDir, "/work/a", markstore.Options{Persist: true})
	rb := markstore.Open(dataDir, "/work/b", markstore.Options{Persist: true})
	c.Assert(ra.List(), qt.DeepEquals, []markstore.Mark{{Char: "x", Path: "/work/a/main.go"}})
	c.Assert(rb.List(), qt.DeepEquals, []markstore.Mark{{Char: "y", Path: "/work/b/main.go"}})
}

func TestPersist_DisabledNeverTouchesDisk(t *testing.T) {
	c := qt.New(t)
	dataDir := t.TempDir()

	// A file left behind by an earlier persistent session is ignored.
	seeded := markstore.Open(dataDir, "/proj", markstore.Options{Persist: true})
	c.Assert(seeded.Set("a", "/proj/a"), qt.IsNil)

	s := markstore.Open(dataDir, "/proj", markstore.Options{Persist: false})
	c.Assert(s.List(), qt.HasLen, 0)
	c.Assert(s.Set("b", "/proj/b"), qt.IsNil)

	reopened := markstore.Open(dataDir, "/proj", markstore.Options{Persist: true})
	c.Assert(reopened.List(), qt.DeepEquals, []markstore.Mark{{Char: "a", Path: "/proj/a"}})
}

func TestPersist_WriteFailureKeepsMemoryState(t *testing.T) {
	c := qt.New(t)

	// The data dir is a regular file, so every write fails.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	c.Assert(os.WriteFile(blocker, []byte("x"), 0o600), qt.IsNil)

	s := markstore.Open(blocker, "/proj", markstore.Options{Persist: true})
	c.Assert(s.Set("a", "/proj/a"), qt.IsNil)

	got, ok := s.Get("a")
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.Equals, "/proj/a")
	c.Assert(s.Persist(), qt.IsNotNil)
}

func TestPersist_LeavesNoTempFiles(t *testing.T) {
	c := qt.New(t)
	s, dataDir := openTestStore(t, "/proj")
	c.Assert(s.Set("a", "/proj/a"), qt.IsNil)
	c.Assert(s.Set("b", "/proj/b"), qt.IsNil)

	entries, err := os.ReadDir(dataDir)
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 1)
}

func TestLoad_MalformedFiles(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name    string
		content string
		want    []markstore.Mark
	}{
		{"invalid json", `{"marks": {`, []markstore.Mark{}},
		{"empty file", ``, []markstore.Mark{}},
		{"whitespace only", "  \n", []markstore.Mark{}},
		{"missing marks field", `{"cwd": "/proj"}`, []markstore.Mark{}},
		{"marks is null", `{"cwd": "/proj", "marks": null}`, []markstore.Mark{}},
		{"marks is an array", `{"marks": ["a"]}`, []markstore.Mark{}},
		{"non-string path", `{"marks": {"a": 1}}`, []markstore.Mark{}},
		{"top-level array", `[]`, []markstore.Mark{}},
		{
			"invalid keys are dropped, valid ones kept",
			`{"marks": {"a": "/proj/a", "long": "/proj/long", "": "/proj/empty"}}`,
			[]markstore.Mark{{Char: "a", Path: "/proj/a"}},
		},
		{
			"cwd field is optional",
			`{"marks": {"k": "/proj/k"}}`,
			[]markstore.Mark{{Char: "k", Path: "/proj/k"}},
		},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			dataDir := t.TempDir()
			path := scope.FilePath(dataDir, "/proj")
			c.Assert(os.WriteFile(path, []byte(tc.content), 0o600), qt.IsNil)

			s := markstore.Open(dataDir, "/proj", markstore.Options{Persist: true})
			c.Assert(s.List(), qt.DeepEquals, tc.want)
		})
	}
}

func TestReload_FailureKeepsCurrentSet(t *testing.T) {
	c := qt.New(t)
	s, _ := openTestStore(t, "/proj")
	c.Assert(s.Set("a", "/proj/a"), qt.IsNil)

	c.Assert(os.WriteFile(s.Path(), []byte("not json"), 0o600), qt.IsNil)
	c.Assert(s.Reload(), qt.IsFalse)

	got, ok := s.Get("a")
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.Equals, "/proj/a")
}

func TestReload_PicksUpExternalChanges(t *testing.T) {
	c := qt.New(t)
	s, _ := openTestStore(t, "/proj")
	c.Assert(s.Set("a", "/proj/a"), qt.IsNil)

	doc := `{"cwd": "/proj", "marks": {"b": "/proj/b"}}`
	c.Assert(os.WriteFile(s.Path(), []byte(doc), 0o600), qt.IsNil)
	c.Assert(s.Reload(), qt.IsTrue)
	c.Assert(s.List(), qt.DeepEquals, []markstore.Mark{{Char: "b", Path: "/proj/b"}})
}
