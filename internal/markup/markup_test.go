package markup

import (
	"strings"
	"testing"
)

// parseFragment is a test helper that fails on parse errors.
func parseFragment(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := ParseFragment([]byte(src))
	if err != nil {
		t.Fatalf("ParseFragment(%q): %v", src, err)
	}
	return doc
}

// activeTexts collects the text content of every active node.
func activeTexts(doc *Document) []string {
	var out []string
	for _, n := range doc.ActiveTextNodes() {
		out = append(out, n.Text())
	}
	return out
}

// TestParseFragmentRoundTrip tests that fragments render without being
// wrapped into a full document.
func TestParseFragmentRoundTrip(t *testing.T) {
	src := `<p>Bonjour le monde.</p><p>Deuxième paragraphe.</p>`
	doc := parseFragment(t, src)

	out, err := doc.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(out) != src {
		t.Errorf("Render = %q, want %q", out, src)
	}
}

// TestParseFullDocument tests the full-document path.
func TestParseFullDocument(t *testing.T) {
	src := `<html><head><title>t</title></head><body><p>contenu</p></body></html>`
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	texts := activeTexts(doc)
	if len(texts) != 2 || texts[0] != "t" || texts[1] != "contenu" {
		t.Errorf("active texts = %q", texts)
	}

	out, err := doc.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), "<p>contenu</p>") {
		t.Errorf("Render = %q", out)
	}
}

// TestActiveTextNodesSkips tests the skip-tag, skip-parent and
// whitespace filters.
func TestActiveTextNodesSkips(t *testing.T) {
	doc := parseFragment(t, strings.Join([]string{
		`<p>actif un</p>`,
		`<pre>jamais: code</pre>`,
		`<p>lien <a href="#">non</a> reste</p>`,
		`<p><em>profond</em></p>`,
		`<span>direct</span>`,
		`<p><code>inline</code> fin</p>`,
	}, "\n"))

	got := activeTexts(doc)
	want := []string{"actif un", "lien ", " reste", "profond", " fin"}
	if len(got) != len(want) {
		t.Fatalf("active texts = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("active[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestResolveIgnoresPairedDirectives tests sibling-scoped start/end
// pairing and the fail-open behavior of an unmatched start.
func TestResolveIgnoresPairedDirectives(t *testing.T) {
	doc := parseFragment(t,
		`<p>avant</p><!-- fr-typo-ignore-start --><p>cache</p><!-- fr-typo-ignore-end --><p>apres</p>`)
	doc.ResolveIgnores()
	got := activeTexts(doc)
	if len(got) != 2 || got[0] != "avant" || got[1] != "apres" {
		t.Errorf("active texts = %q, want [avant apres]", got)
	}

	doc = parseFragment(t, `<p>un</p><!-- fr-typo-ignore-start --><p>deux</p>`)
	doc.ResolveIgnores()
	got = activeTexts(doc)
	if len(got) != 2 {
		t.Errorf("unmatched start must protect nothing, active = %q", got)
	}
}

// TestResolveIgnoresSingleShot tests that the single-shot directive
// marks the next meaningful sibling across whitespace.
func TestResolveIgnoresSingleShot(t *testing.T) {
	doc := parseFragment(t, "<p>un</p><!-- fr-typo-ignore -->\n<p>cible</p><p>suite</p>")
	doc.ResolveIgnores()
	got := activeTexts(doc)
	if len(got) != 2 || got[0] != "un" || got[1] != "suite" {
		t.Errorf("active texts = %q, want [un suite]", got)
	}
}

// TestResolveIgnoresDirectiveCase tests case-insensitive markers.
func TestResolveIgnoresDirectiveCase(t *testing.T) {
	doc := parseFragment(t,
		`<!-- FR-TYPO-IGNORE-START --><p>cache</p><!-- FR-Typo-Ignore-End --><p>ok</p>`)
	doc.ResolveIgnores()
	got := activeTexts(doc)
	if len(got) != 1 || got[0] != "ok" {
		t.Errorf("active texts = %q, want [ok]", got)
	}
}

// TestResolveIgnoresOptOuts tests class and attribute opt-outs on whole
// subtrees.
func TestResolveIgnoresOptOuts(t *testing.T) {
	doc := parseFragment(t, strings.Join([]string{
		`<div class="fr-typo-ignore"><p>non un</p></div>`,
		`<div data-fr-typo="ignore"><p>non deux</p></div>`,
		`<p class="autre fr-typo-ignore">non trois</p>`,
		`<p>oui</p>`,
	}, ""))
	doc.ResolveIgnores()

	got := activeTexts(doc)
	if len(got) != 1 || got[0] != "oui" {
		t.Errorf("active texts = %q, want [oui]", got)
	}
}

// TestReplaceWith tests text-node replacement by a node sequence.
func TestReplaceWith(t *testing.T) {
	doc := parseFragment(t, `<p>Il a agi de facto.</p>`)
	nodes := doc.ActiveTextNodes()
	if len(nodes) != 1 {
		t.Fatalf("active nodes = %d", len(nodes))
	}

	nodes[0].ReplaceWith(NewText("Il a agi "), NewEmphasis("de facto"), NewText("."))
	out, err := doc.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if want := `<p>Il a agi <em>de facto</em>.</p>`; string(out) != want {
		t.Errorf("Render = %q, want %q", out, want)
	}
}

// TestCounterSpanRender tests the upright-style span markup.
func TestCounterSpanRender(t *testing.T) {
	doc := parseFragment(t, `<p><em>texte de facto ici</em></p>`)
	nodes := doc.ActiveTextNodes()
	if len(nodes) != 1 {
		t.Fatalf("active nodes = %d", len(nodes))
	}
	if !nodes[0].HasAncestor("em", "i") {
		t.Fatal("expected italic ancestor")
	}

	nodes[0].ReplaceWith(NewText("texte "), NewCounterSpan("de facto"), NewText(" ici"))
	out, err := doc.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `<p><em>texte <span style="font-style: normal;">de facto</span> ici</em></p>`
	if string(out) != want {
		t.Errorf("Render = %q, want %q", out, want)
	}
}

// TestCounterSpanStaysProtected tests that a previous run's wrap is not
// reprocessed, keeping the fix idempotent.
func TestCounterSpanStaysProtected(t *testing.T) {
	doc := parseFragment(t,
		`<p><em>texte <span style="font-style: normal;">de facto</span> ici</em></p>`)
	got := activeTexts(doc)
	if len(got) != 2 || got[0] != "texte " || got[1] != " ici" {
		t.Errorf("active texts = %q, the span content must stay protected", got)
	}
}

// TestPath tests the diagnostic element chain.
func TestPath(t *testing.T) {
	doc := parseFragment(t, `<div><p>un <em>mot</em></p></div>`)
	nodes := doc.ActiveTextNodes()
	if len(nodes) != 2 {
		t.Fatalf("active nodes = %d", len(nodes))
	}
	if got := nodes[1].Path(); got != "div > p > em" {
		t.Errorf("Path = %q, want div > p > em", got)
	}
	if got := nodes[1].Parent().Tag(); got != "em" {
		t.Errorf("Parent tag = %q, want em", got)
	}
}
