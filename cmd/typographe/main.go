// Command typographe is the CLI for the French typographic correction
// toolkit. It provides commands for checking and fixing documents,
// building lexicon artifacts and serving the check API.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/Typographe/core/lexicon"
	"github.com/FocuswithJustin/Typographe/core/rules"
	"github.com/FocuswithJustin/Typographe/internal/config"
	"github.com/FocuswithJustin/Typographe/internal/document"
	"github.com/FocuswithJustin/Typographe/internal/lexbuild"
	"github.com/FocuswithJustin/Typographe/internal/logging"
	"github.com/FocuswithJustin/Typographe/internal/server"
)

const version = "0.1.0"

// CLI defines the command-line interface for typographe.
var CLI struct {
	// Global flags
	LexiconPath string `name:"lexicon" help:"Lexicon artifact path (default: embedded)" env:"TYPOGRAPHE_LEXICON" type:"path"`
	Rules       string `help:"Severity overrides, e.g. \"all=warn,quotes=fix\"" placeholder:"name=level,..."`
	Config      string `help:"JSON configuration file" type:"path"`
	LogLevel    string `name:"log-level" help:"Log level (debug, info, warn, error; default info)"`
	LogFormat   string `name:"log-format" help:"Log format (text, json; default text)"`

	Check   CheckCmd     `cmd:"" help:"List pending corrections without modifying files"`
	Fix     FixCmd       `cmd:"" help:"Apply corrections in place"`
	Lexicon LexiconGroup `cmd:"" help:"Lexicon artifact operations (build, info, verify)"`
	Serve   ServeCmd     `cmd:"" help:"Start the HTTP check service"`
	Version VersionCmd   `cmd:"" help:"Print version information"`
}

// LexiconGroup contains lexicon artifact operations.
type LexiconGroup struct {
	Build  LexiconBuildCmd  `cmd:"" help:"Build an artifact from wordlist, TEI XML or SQLite sources"`
	Info   LexiconInfoCmd   `cmd:"" help:"Print artifact schema, stats and digest"`
	Verify LexiconVerifyCmd `cmd:"" help:"Recompute and check the artifact digest"`
}

// settings is the effective configuration once the optional file and
// the global flags are resolved. Flags win over file values.
type settings struct {
	lexiconPath  string
	lexicon      *lexicon.Lexicon
	levels       config.Map
	translations map[string]string
}

func resolveSettings() (*settings, error) {
	var file *config.File
	if CLI.Config != "" {
		f, err := config.LoadFile(CLI.Config)
		if err != nil {
			return nil, err
		}
		file = f
	}

	logLevel := CLI.LogLevel
	logFormat := CLI.LogFormat
	if file != nil {
		if logLevel == "" {
			logLevel = file.LogLevel
		}
		if logFormat == "" {
			logFormat = file.LogFormat
		}
	}
	if logFormat == "" {
		logFormat = "text"
	}
	logging.InitLogger(logging.ParseLevel(logLevel), logging.ParseFormat(logFormat))

	levels := config.Map{}
	fileLevels, err := file.SeverityMap()
	if err != nil {
		return nil, err
	}
	levels.Apply(fileLevels)
	flagLevels, err := config.ParseSeverities(CLI.Rules)
	if err != nil {
		return nil, err
	}
	levels.Apply(flagLevels)

	st := &settings{
		lexiconPath: CLI.LexiconPath,
		levels:      levels,
	}
	if file != nil {
		if st.lexiconPath == "" {
			st.lexiconPath = file.Lexicon
		}
		st.translations = file.AdmonitionTranslations
	}
	if st.lexiconPath != "" {
		st.lexicon = lexicon.Load(st.lexiconPath)
	} else {
		st.lexicon = lexicon.LoadDefault()
	}
	return st, nil
}

// standaloneLevels returns the severity overrides for check and fix
// runs. Casing and diacritics default to fix here: with no rendering
// pipeline to surface warnings, the tool applies every correction it
// can. Config file and flags still override.
func standaloneLevels(st *settings) config.Map {
	levels := config.Map{
		"casing":     rules.SeverityFix,
		"diacritics": rules.SeverityFix,
	}
	levels.Apply(st.levels)
	return levels
}

// listAll expands the path arguments into the processable files.
func listAll(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		found, err := document.ListFiles(root)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// formatDiagnostic renders one diagnostic for terminal output.
func formatDiagnostic(d document.Diagnostic) string {
	location := d.File
	switch {
	case d.Line > 0:
		location = fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column)
	case d.Where != "":
		location = fmt.Sprintf("%s (%s)", d.File, d.Where)
	}
	out := fmt.Sprintf("%s [%s] %s", location, d.Rule, d.Message)
	if d.Preview != "" {
		out += fmt.Sprintf(" → «%s»", d.Preview)
	}
	return out
}

// CheckCmd lists the corrections a fix run would apply.
type CheckCmd struct {
	Paths   []string `arg:"" help:"Files or directories to analyze" type:"path"`
	Summary bool     `help:"Print per-rule totals"`
}

func (c *CheckCmd) Run() error {
	st, err := resolveSettings()
	if err != nil {
		return err
	}
	proc := document.NewProcessor(document.Options{
		Lexicon:      st.lexicon,
		Levels:       standaloneLevels(st),
		Translations: st.translations,
	})

	files, err := listAll(c.Paths)
	if err != nil {
		return err
	}

	findings := 0
	wouldFix := 0
	summary := make(map[string]int)
	for _, file := range files {
		res, err := proc.ProcessFile(file)
		if err != nil {
			return err
		}
		for _, d := range res.Diagnostics {
			fmt.Println(formatDiagnostic(d))
			summary[d.Rule]++
		}
		findings += len(res.Diagnostics)
		if res.Changed {
			wouldFix++
		}
	}

	if c.Summary && len(summary) > 0 {
		names := make([]string, 0, len(summary))
		for name := range summary {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("Résumé des avertissements typographiques")
		for _, name := range names {
			fmt.Printf("  %s: %d\n", name, summary[name])
		}
	}

	if findings == 0 && wouldFix == 0 {
		fmt.Println("Aucune correction nécessaire.")
		return nil
	}
	if wouldFix > 0 {
		fmt.Printf("%d fichier(s) seraient corrigés.\n", wouldFix)
	}
	return fmt.Errorf("corrections en attente: %d signalement(s), %d fichier(s) à corriger", findings, wouldFix)
}

// FixCmd applies corrections in place.
type FixCmd struct {
	Paths []string `arg:"" help:"Files or directories to correct" type:"path"`
}

func (c *FixCmd) Run() error {
	st, err := resolveSettings()
	if err != nil {
		return err
	}
	proc := document.NewProcessor(document.Options{
		Lexicon:      st.lexicon,
		Levels:       standaloneLevels(st),
		Translations: st.translations,
	})

	files, err := listAll(c.Paths)
	if err != nil {
		return err
	}

	updated := 0
	for _, file := range files {
		res, err := proc.ProcessFile(file)
		if err != nil {
			return err
		}
		if !res.Changed {
			continue
		}
		if err := writeAtomic(file, []byte(res.Output)); err != nil {
			return err
		}
		updated++
		if n := len(res.Diagnostics); n > 0 {
			fmt.Printf("Corrigé: %s (%d modification(s))\n", file, n)
		} else {
			fmt.Printf("Corrigé: %s\n", file)
		}
	}

	if updated == 0 {
		fmt.Println("Aucune correction appliquée : les fichiers étaient déjà conformes.")
	} else {
		fmt.Printf("%d fichier(s) mis à jour.\n", updated)
	}
	return nil
}

// writeAtomic replaces path via a temp file and rename so a crash never
// leaves a half-written document.
func writeAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, info.Mode()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// LexiconBuildCmd builds a lexicon artifact from source files.
type LexiconBuildCmd struct {
	Sources []string `arg:"" help:"Source files (wordlist, TEI XML or SQLite)" type:"existingfile"`
	Out     string   `short:"o" required:"" help:"Output artifact path (.json, .json.gz or .json.xz)" type:"path"`
}

func (c *LexiconBuildCmd) Run() error {
	if _, err := resolveSettings(); err != nil {
		return err
	}

	artifact, report, err := lexbuild.Build(c.Sources)
	if err != nil {
		return err
	}
	if err := lexbuild.WriteArtifact(artifact, c.Out); err != nil {
		return err
	}

	fmt.Printf("Generated artifact: %s\n", c.Out)
	for _, src := range report.Sources {
		fmt.Printf("  %s (%s): %d forme(s)\n", src.Path, src.Format, src.Words)
	}
	fmt.Printf("  Words: %d\n", report.WordCount)
	fmt.Printf("  Ligatures: %d\n", report.LigatureEntries)
	fmt.Printf("  Accents: %d\n", report.AccentEntries)
	fmt.Printf("  Digest: %s\n", report.Digest)
	return nil
}

// LexiconInfoCmd prints artifact metadata.
type LexiconInfoCmd struct {
	Artifact string `arg:"" help:"Artifact path" type:"existingfile"`
}

func (c *LexiconInfoCmd) Run() error {
	data, err := os.ReadFile(c.Artifact)
	if err != nil {
		return fmt.Errorf("failed to read artifact: %w", err)
	}
	artifact, err := lexicon.ParseArtifact(data, c.Artifact)
	if err != nil {
		return err
	}

	fmt.Printf("Artifact: %s\n", c.Artifact)
	fmt.Printf("  Schema: v%d\n", artifact.SchemaVersion)
	fmt.Printf("  Normalized: %t\n", artifact.Normalized)
	fmt.Printf("  Compression: %s\n", lexicon.DetectCompression(data))
	if artifact.GeneratedAt != "" {
		fmt.Printf("  Generated: %s\n", artifact.GeneratedAt)
	}
	if artifact.Source != "" {
		fmt.Printf("  Source: %s\n", artifact.Source)
	}
	fmt.Printf("  Words: %d\n", len(artifact.Words))
	fmt.Printf("  Ligatures: %d\n", len(artifact.LigatureMap))
	fmt.Printf("  Accents: %d\n", len(artifact.AccentMap))
	if artifact.Digest != "" {
		fmt.Printf("  Digest: %s\n", artifact.Digest)
	} else {
		fmt.Println("  Digest: (none)")
	}
	return nil
}

// LexiconVerifyCmd recomputes the artifact digest.
type LexiconVerifyCmd struct {
	Artifact string `arg:"" help:"Artifact path" type:"existingfile"`
}

func (c *LexiconVerifyCmd) Run() error {
	data, err := os.ReadFile(c.Artifact)
	if err != nil {
		return fmt.Errorf("failed to read artifact: %w", err)
	}
	artifact, err := lexicon.ParseArtifact(data, c.Artifact)
	if err != nil {
		return err
	}
	if artifact.Digest == "" {
		return fmt.Errorf("artifact %s carries no digest", c.Artifact)
	}
	if err := artifact.VerifyDigest(); err != nil {
		return err
	}

	fmt.Printf("Digest OK: %s (%d forme(s))\n", artifact.Digest, len(artifact.Words))
	return nil
}

// ServeCmd starts the HTTP check service.
type ServeCmd struct {
	Port    int      `help:"HTTP server port" default:"8080"`
	Origins []string `name:"origin" help:"Allowed CORS origins (default: allow all)"`
}

func (c *ServeCmd) Run() error {
	st, err := resolveSettings()
	if err != nil {
		return err
	}
	cfg := server.Config{
		Port:           c.Port,
		Lexicon:        st.lexiconPath,
		Levels:         st.levels,
		Translations:   st.translations,
		AllowedOrigins: c.Origins,
	}
	return server.Start(cfg)
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("typographe version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("typographe"),
		kong.Description("Typographe - French typographic correction toolkit"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
