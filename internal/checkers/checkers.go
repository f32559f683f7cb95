// Package checkers provides quicktest checkers shared by the test suites.
package checkers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	qt "github.com/frankban/quicktest"
	"github.com/yalp/jsonpath"
)

// JSONPathEquals returns a checker that decodes got as JSON ([]byte or
// string), evaluates path against it and compares the result with want.
// want is normalised through JSON so Go literals compare like decoded values.
//
//	c.Assert(data, checkers.JSONPathEquals("$.marks.a"), "/proj/a")
func JSONPathEquals(path string) qt.Checker {
	return &jsonPathChecker{path: path}
}

type jsonPathChecker struct {
	path string
}

// ArgNames implements qt.Checker.
func (*jsonPathChecker) ArgNames() []string {
	return []string{"got", "want"}
}

// Check implements qt.Checker.
func (c *jsonPathChecker) Check(got any, args []any, note func(key string, value any)) error {
	var raw []byte
	switch v := got.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return qt.BadCheckf("first argument is not []byte or string (%T)", got)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		note("error", err)
		return errors.New("got is not valid JSON")
	}

	value, err := jsonpath.Read(doc, c.path)
	if err != nil {
		note("path", c.path)
		return fmt.Errorf("cannot evaluate JSON path: %w", err)
	}

	want, err := normalise(args[0])
	if err != nil {
		return qt.BadCheckf("want cannot be encoded as JSON: %v", err)
	}
	if !reflect.DeepEqual(value, want) {
		note("path", c.path)
		note("value at path", value)
		return errors.New("value at path does not match")
	}
	return nil
}

func normalise(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	return out, json.Unmarshal(b, &out)
}
