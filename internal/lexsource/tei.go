package lexsource

import (
	"fmt"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/Typographe/core/errors"
)

// TEISource reads Morphalou-style TEI XML lexicons. Orthography values
// are collected from both lemmatized and inflected forms, plus classic
// TEI orth elements.
type TEISource struct{}

// teiQueries are the XPath expressions yielding word forms, compiled
// once so every source file reuses them.
var teiQueries = []*xpath.Expr{
	xpath.MustCompile("//lemmatizedForm/orthography"),
	xpath.MustCompile("//inflectedForm/orthography"),
	xpath.MustCompile("//orth"),
}

// teiMarkers identify TEI lexicon content during sniffing.
var teiMarkers = []string{"<TEI", "<lexicalResource", "<lexicalEntry", "<orthography"}

// NewTEISource returns the TEI XML reader.
func NewTEISource() *TEISource {
	return &TEISource{}
}

// Name identifies the format.
func (s *TEISource) Name() string {
	return "tei"
}

// Detect accepts files whose leading bytes carry TEI markers, or a .tei
// extension. A bare .xml extension is not enough: arbitrary XML is not a
// lexicon.
func (s *TEISource) Detect(path string) Detection {
	data, err := sniff(path)
	if err != nil {
		return Detection{Reason: fmt.Sprintf("cannot read: %v", err)}
	}
	content := string(data)
	for _, marker := range teiMarkers {
		if strings.Contains(content, marker) {
			return Detection{Detected: true, Format: s.Name(), Reason: "tei markers detected"}
		}
	}
	if hasExtension(path, ".tei") {
		return Detection{Detected: true, Format: s.Name(), Reason: "tei file extension detected"}
	}
	return Detection{Reason: "not a tei file"}
}

// Words parses the document and runs the orthography queries in order.
func (s *TEISource) Words(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	doc, err := xmlquery.Parse(f)
	if err != nil {
		return nil, &errors.ParseError{Format: "tei", Path: path, Message: "invalid XML", Err: err}
	}

	var words []string
	for _, expr := range teiQueries {
		for _, node := range xmlquery.QuerySelectorAll(doc, expr) {
			if w := strings.TrimSpace(node.InnerText()); w != "" {
				words = append(words, w)
			}
		}
	}
	return words, nil
}
