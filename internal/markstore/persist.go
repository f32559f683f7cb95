package markstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// document is the on-disk shape of a scope file. Cwd is informational; the
// file is located by the hash of the directory, not by this field.
type document struct {
	Cwd   string            `json:"cwd"`
	Marks map[string]string `json:"marks"`
}

// documentSchema describes an acceptable scope file. Keys are checked
// separately so that one bad entry does not discard the rest.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["marks"],
  "properties": {
    "cwd":   {"type": "string"},
    "marks": {"type": "object", "additionalProperties": {"type": "string"}}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

var errEmptyFile = errors.New("empty file")

// Persist writes the whole mark set to the scope file, replacing its
// contents. The write goes through a temp file in the same directory and a
// rename.
func (s *Store) Persist() error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.write()
}

// write does the work of Persist; the caller holds wmu.
func (s *Store) write() error {
	doc := document{Cwd: s.cwd, Marks: s.snapshot()}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("markstore.Persist: marshal: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("markstore.Persist: create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".bufmark-*.tmp")
	if err != nil {
		return fmt.Errorf("markstore.Persist: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("markstore.Persist: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("markstore.Persist: close: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("markstore.Persist: rename: %w", err)
	}
	return nil
}

// Reload replaces the in-memory set with the contents of the scope file.
// On any failure the current set is left untouched and false is returned.
func (s *Store) Reload() bool {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.reload()
}

// reload does the work of Reload; the caller holds wmu.
func (s *Store) reload() bool {
	marks, err := readDocument(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Debug().Str("file", s.path).Msg("no saved marks")
		} else {
			s.log.Warn().Err(err).Str("file", s.path).Msg("ignoring unreadable marks file")
		}
		return false
	}

	for c := range marks {
		if ValidateChar(c) != nil {
			s.log.Debug().Str("char", c).Msg("dropping invalid mark from file")
			delete(marks, c)
		}
	}

	s.mu.Lock()
	s.marks = marks
	s.mu.Unlock()
	return true
}

// reloadAndNotify reloads from disk and notifies listeners when the set
// actually changed.
func (s *Store) reloadAndNotify() {
	s.wmu.Lock()
	before := s.snapshot()
	changed := s.reload() && !maps.Equal(before, s.snapshot())
	s.wmu.Unlock()

	if !changed {
		return
	}
	s.log.Debug().Msg("marks changed on disk")
	s.notify()
}

func readDocument(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errEmptyFile
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("invalid document: %s", strings.Join(msgs, "; "))
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if doc.Marks == nil {
		doc.Marks = make(map[string]string)
	}
	return doc.Marks, nil
}
