// Package listing formats mark sets for people: the one-line-per-mark view
// used by the editor and the directory tree used by the CLI.
package listing

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disiqueira/gotree/v3"

	"github.com/go-ports/bufmark/internal/markstore"
)

// Empty is printed when there are no marks.
const Empty = "No marks set"

// Pretty renders one "<char>  <path>" line per mark, with paths inside cwd
// shown relative to it.
func Pretty(marks []markstore.Mark, cwd string) string {
	return PrettyStyled(marks, cwd, nil)
}

// PrettyStyled is Pretty with style applied to each mark character. A nil
// style leaves characters as they are.
func PrettyStyled(marks []markstore.Mark, cwd string, style func(string) string) string {
	if len(marks) == 0 {
		return Empty
	}
	lines := make([]string, 0, len(marks))
	for _, m := range marks {
		char := m.Char
		if style != nil {
			char = style(char)
		}
		lines = append(lines, fmt.Sprintf("%s  %s", char, Display(m.Path, cwd)))
	}
	return strings.Join(lines, "\n")
}

// Display returns path relative to cwd when it lies inside cwd, and path
// unchanged otherwise.
func Display(path, cwd string) string {
	if cwd == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// Tree renders the marks as a directory tree rooted at cwd. Leaves are
// labelled "[<char>] <file>".
func Tree(marks []markstore.Mark, cwd string) string {
	t := newFileTree(cwd)
	for _, m := range marks {
		t.insert(Display(m.Path, cwd), "["+m.Char+"] ")
	}
	return t.render()
}

type fileTree struct {
	root gotree.Tree
	dirs map[string]gotree.Tree
}

func newFileTree(label string) fileTree {
	if label == "" {
		label = "."
	}
	return fileTree{root: gotree.New(label), dirs: make(map[string]gotree.Tree)}
}

func (t fileTree) dir(path string) gotree.Tree {
	if path == "." {
		return t.root
	}
	if d, ok := t.dirs[path]; ok {
		return d
	}
	parent := filepath.Dir(path)
	var d gotree.Tree
	if parent == path {
		// filesystem root of an absolute path outside cwd
		d = t.root.Add(path)
	} else {
		d = t.dir(parent).Add(filepath.Base(path))
	}
	t.dirs[path] = d
	return d
}

func (t fileTree) insert(path, prefix string) {
	t.dir(filepath.Dir(path)).Add(prefix + filepath.Base(path))
}

func (t fileTree) render() string {
	return t.root.Print()
}
