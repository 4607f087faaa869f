package document

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/FocuswithJustin/Typographe/core/errors"
)

// KnownFile reports whether the path has a processable extension.
func KnownFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".html", ".htm":
		return true
	}
	return false
}

// ListFiles returns the processable files under root in sorted order.
// A file root must itself have a known extension; a directory root is
// walked recursively.
func ListFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.NewIO("stat", root, err)
	}
	if !info.IsDir() {
		if !KnownFile(root) {
			return nil, errors.NewValidation("path",
				fmt.Sprintf("%q is not a markdown or HTML file", root))
		}
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && KnownFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewIO("walk", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// ProcessText dispatches content to the markdown or HTML flow by file
// extension. Markdown is the default for unknown extensions.
func (p *Processor) ProcessText(path, content string) (*Result, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return p.ProcessHTML(path, content)
	default:
		return p.ProcessMarkdown(path, content)
	}
}

// ProcessFile reads one file and runs it through the flow its extension
// selects.
func (p *Processor) ProcessFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	return p.ProcessText(path, string(data))
}
