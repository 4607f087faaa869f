// Package lexsource reads word lists for the lexicon builder from the
// supported source formats.
//
// Three formats are recognized: plain wordlist files, Morphalou-style
// TEI XML lexicons and SQLite databases. Detection combines content
// sniffing with the file extension so renamed files still resolve, and
// readers only extract raw forms; deduplication and filtering belong to
// the builder.
package lexsource

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/FocuswithJustin/Typographe/core/errors"
)

// Detection reports whether a reader recognizes a file and why.
type Detection struct {
	Detected bool
	Format   string
	Reason   string
}

// Source reads word forms from one lexicon source format.
type Source interface {
	// Name identifies the format ("wordlist", "tei", "sqlite").
	Name() string
	// Detect reports whether the file looks like this format.
	Detect(path string) Detection
	// Words extracts the raw word forms from the file.
	Words(path string) ([]string, error)
}

// Sources returns the registered readers in detection order. The
// wordlist reader accepts almost any text file, so it claims last.
func Sources() []Source {
	return []Source{NewSQLiteSource(), NewTEISource(), NewWordlistSource()}
}

// Resolve picks the first reader that recognizes the file.
func Resolve(path string) (Source, error) {
	for _, src := range Sources() {
		if d := src.Detect(path); d.Detected {
			return src, nil
		}
	}
	return nil, errors.NewValidation("source",
		fmt.Sprintf("%q is not a recognized lexicon source (wordlist, TEI XML or SQLite)", path))
}

// sniffLimit caps how much of a file detection reads.
const sniffLimit = 4096

// sniff reads at most sniffLimit bytes from the start of the file.
func sniff(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, sniffLimit))
}

// hasExtension reports whether the path carries one of the given
// lowercase extensions.
func hasExtension(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// looksLikeText reports whether sniffed bytes read as NUL-free UTF-8.
// A clipped read can split a trailing multi-byte rune, so up to three
// final bytes are forgiven.
func looksLikeText(data []byte) bool {
	if bytes.IndexByte(data, 0) >= 0 {
		return false
	}
	for i := 0; i < utf8.UTFMax-1 && len(data) > 0 && !utf8.Valid(data); i++ {
		data = data[:len(data)-1]
	}
	return utf8.Valid(data)
}
