package lexsource

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/FocuswithJustin/Typographe/core/errors"
)

// WordlistSource reads plain text word lists: one form per line, blank
// lines and # comments skipped, an optional UTF-8 BOM tolerated.
type WordlistSource struct{}

// NewWordlistSource returns the wordlist reader.
func NewWordlistSource() *WordlistSource {
	return &WordlistSource{}
}

// Name identifies the format.
func (s *WordlistSource) Name() string {
	return "wordlist"
}

// Detect accepts any NUL-free UTF-8 text file.
func (s *WordlistSource) Detect(path string) Detection {
	data, err := sniff(path)
	if err != nil {
		return Detection{Reason: fmt.Sprintf("cannot read: %v", err)}
	}
	if !looksLikeText(data) {
		return Detection{Reason: "not a text file"}
	}
	if hasExtension(path, ".txt", ".list", ".words") {
		return Detection{Detected: true, Format: s.Name(), Reason: "wordlist file extension detected"}
	}
	return Detection{Detected: true, Format: s.Name(), Reason: "plain text content"}
}

// Words reads the file line by line.
func (s *WordlistSource) Words(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var words []string
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	return words, nil
}
