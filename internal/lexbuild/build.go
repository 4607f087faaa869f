// Package lexbuild assembles lexicon artifacts from local word sources.
//
// A build resolves each input through the lexsource registry, merges the
// raw forms with the safety fallback vocabulary, derives both correction
// indices and stamps a digest over the word list. The resulting artifact
// is the normalized fast-path payload the lexicon loader expects.
package lexbuild

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FocuswithJustin/Typographe/core/errors"
	"github.com/FocuswithJustin/Typographe/core/lexicon"
	"github.com/FocuswithJustin/Typographe/internal/lexsource"
)

// SourceCount reports how many raw forms one input contributed.
type SourceCount struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Words  int    `json:"words"`
}

// Report summarizes a build for display.
type Report struct {
	Sources         []SourceCount `json:"sources"`
	WordCount       int           `json:"word_count"`
	LigatureEntries int           `json:"ligature_entries"`
	AccentEntries   int           `json:"accent_entries"`
	Digest          string        `json:"digest"`
}

// Build reads every input and assembles a normalized artifact. The
// fallback vocabulary is always merged in, so a build with no inputs
// reproduces the embedded default.
func Build(paths []string) (*lexicon.Artifact, *Report, error) {
	report := &Report{}
	var all []string
	var names []string
	for _, path := range paths {
		src, err := lexsource.Resolve(path)
		if err != nil {
			return nil, nil, err
		}
		words, err := src.Words(path)
		if err != nil {
			return nil, nil, err
		}
		report.Sources = append(report.Sources, SourceCount{Path: path, Format: src.Name(), Words: len(words)})
		names = append(names, fmt.Sprintf("%s:%s", src.Name(), filepath.Base(path)))
		all = append(all, words...)
	}

	lx := lexicon.New(all)
	words := lx.Words()
	ligatures := lx.LigatureIndex()
	accents := lx.AccentIndex()
	digest := lexicon.WordsDigest(words)

	artifact := &lexicon.Artifact{
		SchemaVersion: lexicon.SchemaVersion,
		Normalized:    true,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Source:        strings.Join(names, ","),
		Digest:        digest,
		Stats: &lexicon.ArtifactStats{
			WordCount:       len(words),
			LigatureEntries: len(ligatures),
			AccentEntries:   len(accents),
		},
		Words:       words,
		LigatureMap: ligatures,
		AccentMap:   accents,
	}

	report.WordCount = len(words)
	report.LigatureEntries = len(ligatures)
	report.AccentEntries = len(accents)
	report.Digest = digest
	return artifact, report, nil
}

// CompressionForPath picks the artifact compression from the output
// file extension.
func CompressionForPath(path string) lexicon.CompressionType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return lexicon.CompressionGzip
	case ".xz":
		return lexicon.CompressionXZ
	default:
		return lexicon.CompressionNone
	}
}

// WriteArtifact encodes the artifact with the compression implied by
// the destination name and writes it out.
func WriteArtifact(a *lexicon.Artifact, path string) error {
	data, err := lexicon.EncodeArtifact(a, CompressionForPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}
