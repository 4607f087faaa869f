package lexicon

import (
	"bytes"
	"compress/gzip"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/FocuswithJustin/Typographe/core/errors"
	"github.com/FocuswithJustin/Typographe/internal/logging"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
)

// SchemaVersion is the current lexicon artifact schema version.
const SchemaVersion = 2

// CompressionType identifies how an artifact payload is compressed.
type CompressionType string

const (
	// CompressionXZ uses XZ/LZMA2 compression (best ratio).
	CompressionXZ CompressionType = "xz"
	// CompressionGzip uses gzip compression (stdlib, faster).
	CompressionGzip CompressionType = "gzip"
	// CompressionNone stores the JSON payload uncompressed.
	CompressionNone CompressionType = "none"
)

// ArtifactStats carries summary counts stamped into an artifact at build
// time.
type ArtifactStats struct {
	WordCount       int `json:"word_count"`
	LigatureEntries int `json:"ligature_entries"`
	AccentEntries   int `json:"accent_entries"`
}

// Artifact is the versioned on-disk lexicon payload: the flat word list
// plus the precomputed indices. Schema v1 carried only the word list;
// schema v2 adds the indices, the normalized flag and an optional blake3
// digest over the word list.
type Artifact struct {
	SchemaVersion int                 `json:"schema_version"`
	Normalized    bool                `json:"normalized,omitempty"`
	GeneratedAt   string              `json:"generated_at,omitempty"`
	Source        string              `json:"source,omitempty"`
	Digest        string              `json:"digest,omitempty"`
	Stats         *ArtifactStats      `json:"stats,omitempty"`
	Words         []string            `json:"words"`
	LigatureMap   map[string]string   `json:"ligature_map,omitempty"`
	AccentMap     map[string][]string `json:"accent_map,omitempty"`
}

// DetectCompression detects the compression of an artifact payload from
// its magic bytes.
func DetectCompression(data []byte) CompressionType {
	// gzip magic (1f 8b)
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		return CompressionGzip
	}
	// XZ magic (fd 37 7a 58 5a 00)
	if len(data) >= 6 && data[0] == 0xfd && data[1] == 0x37 && data[2] == 0x7a &&
		data[3] == 0x58 && data[4] == 0x5a && data[5] == 0x00 {
		return CompressionXZ
	}
	return CompressionNone
}

// decompress returns the raw JSON payload of an artifact body.
func decompress(data []byte) ([]byte, error) {
	switch DetectCompression(data) {
	case CompressionGzip:
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(err, "open gzip stream")
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case CompressionXZ:
		xr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(err, "open xz stream")
		}
		return io.ReadAll(xr)
	default:
		return data, nil
	}
}

// ParseArtifact decompresses and unmarshals an artifact payload. The
// source string is used in error messages only.
func ParseArtifact(data []byte, source string) (*Artifact, error) {
	payload, err := decompress(data)
	if err != nil {
		return nil, &errors.ParseError{Format: "artifact", Path: source, Message: "cannot decompress", Err: err}
	}
	var artifact Artifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return nil, &errors.ParseError{Format: "artifact", Path: source, Message: "invalid JSON", Err: err}
	}
	return &artifact, nil
}

// EncodeArtifact marshals an artifact and applies the requested
// compression.
func EncodeArtifact(a *Artifact, compression CompressionType) ([]byte, error) {
	payload, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal artifact")
	}
	switch compression {
	case CompressionGzip:
		var buf bytes.Buffer
		zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
		if err != nil {
			return nil, errors.Wrap(err, "create gzip writer")
		}
		if _, err := zw.Write(payload); err != nil {
			return nil, errors.Wrap(err, "compress artifact")
		}
		if err := zw.Close(); err != nil {
			return nil, errors.Wrap(err, "finish gzip stream")
		}
		return buf.Bytes(), nil
	case CompressionXZ:
		var buf bytes.Buffer
		xw, err := xz.NewWriter(&buf)
		if err != nil {
			return nil, errors.Wrap(err, "create xz writer")
		}
		if _, err := xw.Write(payload); err != nil {
			return nil, errors.Wrap(err, "compress artifact")
		}
		if err := xw.Close(); err != nil {
			return nil, errors.Wrap(err, "finish xz stream")
		}
		return buf.Bytes(), nil
	default:
		return payload, nil
	}
}

// WordsDigest computes the blake3 digest of the newline-joined sorted word
// list, hex encoded.
func WordsDigest(words []string) string {
	sorted := append([]string{}, words...)
	sort.Strings(sorted)
	sum := blake3.Sum256([]byte(strings.Join(sorted, "\n")))
	return hex.EncodeToString(sum[:])
}

// VerifyDigest recomputes the word-list digest and compares it with the
// stamped one. Artifacts without a digest pass.
func (a *Artifact) VerifyDigest() error {
	if a.Digest == "" {
		return nil
	}
	if got := WordsDigest(a.Words); got != a.Digest {
		return &errors.ParseError{
			Format:  "artifact",
			Message: fmt.Sprintf("digest mismatch: stamped %s, computed %s", a.Digest, got),
		}
	}
	return nil
}

// NewFromArtifact builds a Lexicon from a parsed artifact.
//
// Schema v2 payloads flagged normalized use the precomputed indices
// directly (after digest verification); v2 payloads without the flag and
// v1 payloads rebuild both indices from the flat word list. Unknown schema
// versions are rejected. The safety fallback words are merged in on every
// path.
func NewFromArtifact(a *Artifact) (*Lexicon, error) {
	if len(a.Words) == 0 {
		return nil, &errors.ParseError{Format: "artifact", Message: "no usable words"}
	}

	switch a.SchemaVersion {
	case SchemaVersion:
		if !a.Normalized {
			return New(a.Words), nil
		}
		if err := a.VerifyDigest(); err != nil {
			return nil, err
		}
		lx := &Lexicon{
			words:    make(map[string]struct{}, len(a.Words)+len(fallbackWords)),
			ligature: make(map[string]string, len(a.LigatureMap)),
			accent:   make(map[string][]string, len(a.AccentMap)),
		}
		for _, w := range a.Words {
			lx.words[w] = struct{}{}
		}
		for _, w := range fallbackWords {
			lx.words[w] = struct{}{}
		}
		for k, v := range a.LigatureMap {
			lx.ligature[k] = v
		}
		for k, v := range a.AccentMap {
			lx.accent[k] = append([]string{}, v...)
		}
		lx.augmentWithFallbacks()
		return lx, nil
	case 1:
		// Older schema: rebuild the indices instead of trusting the maps.
		return New(a.Words), nil
	default:
		return nil, &errors.UnsupportedError{
			Feature: "artifact schema",
			Reason:  fmt.Sprintf("version %d, expected %d", a.SchemaVersion, SchemaVersion),
		}
	}
}

// Load reads an artifact file and builds a Lexicon from it. Any failure
// (missing file, bad compression, bad JSON, unknown schema, digest
// mismatch) degrades to the safety fallback lexicon; failures are logged,
// never returned.
func Load(path string) *Lexicon {
	data, err := os.ReadFile(path)
	if err != nil {
		logging.ArtifactFallback("unreadable artifact", path, "error", err.Error())
		return NewFallback()
	}
	return LoadBytes(data, path)
}

// LoadBytes builds a Lexicon from an in-memory artifact payload with the
// same degrade-to-fallback semantics as Load.
func LoadBytes(data []byte, source string) *Lexicon {
	artifact, err := ParseArtifact(data, source)
	if err != nil {
		logging.ArtifactFallback("unparseable artifact", source, "error", err.Error())
		return NewFallback()
	}
	lx, err := NewFromArtifact(artifact)
	if err != nil {
		logging.ArtifactFallback("rejected artifact", source, "error", err.Error())
		return NewFallback()
	}
	logging.LexiconEvent("loaded", source, lx.WordCount())
	return lx
}
