package lexicon

import _ "embed"

// defaultArtifact is the built-in word list shipped with the binary. It is
// a plain JSON schema v1 artifact so the loader exercises the same rebuild
// path as user-supplied v1 files.
//
//go:embed data/default.json
var defaultArtifact []byte

// LoadDefault builds a Lexicon from the embedded default artifact.
func LoadDefault() *Lexicon {
	return LoadBytes(defaultArtifact, "builtin")
}
