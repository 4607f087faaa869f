// Package markup wraps the HTML tree consumed by the document
// processors: parsing, text-node traversal with skip semantics, ignore
// marking, and node replacement. Rule code never touches the underlying
// parser types directly.
package markup

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Tags whose entire subtree is never processed.
var skipTags = map[string]struct{}{
	"code": {}, "pre": {}, "kbd": {}, "samp": {},
	"var": {}, "script": {}, "style": {}, "math": {},
}

// Tags whose direct text children are never processed. span is included
// so counter-style wraps produced by an earlier run stay untouched.
var skipParents = map[string]struct{}{
	"a": {}, "time": {}, "data": {}, "span": {},
}

// Directive markers recognized in comment nodes.
const (
	directiveIgnore      = "fr-typo-ignore"
	directiveIgnoreStart = "fr-typo-ignore-start"
	directiveIgnoreEnd   = "fr-typo-ignore-end"
)

// Document is a parsed HTML document or fragment with its ignore marks.
type Document struct {
	root     *html.Node
	fragment bool
	marked   map[*html.Node]struct{}
}

// Node wraps one tree node. Identity follows the underlying pointer, so
// a Node fetched twice compares equal through Same.
type Node struct {
	node *html.Node
	doc  *Document
}

// Parse parses a complete HTML document.
func Parse(data []byte) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return &Document{root: root, marked: make(map[*html.Node]struct{})}, nil
}

// ParseFragment parses body content without wrapping it in a full
// document, preserving fragment inputs across a render round trip.
func ParseFragment(data []byte) (*Document, error) {
	context := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(bytes.NewReader(data), context)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML fragment: %w", err)
	}
	root := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return &Document{root: root, fragment: true, marked: make(map[*html.Node]struct{})}, nil
}

// Render serializes the document. Fragments render their content only.
func (d *Document) Render() ([]byte, error) {
	var buf bytes.Buffer
	if d.fragment {
		for c := d.root.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return nil, fmt.Errorf("rendering HTML: %w", err)
			}
		}
		return buf.Bytes(), nil
	}
	if err := html.Render(&buf, d.root); err != nil {
		return nil, fmt.Errorf("rendering HTML: %w", err)
	}
	return buf.Bytes(), nil
}

// ResolveIgnores applies comment directives and structural opt-outs,
// marking every node the author excluded from processing.
func (d *Document) ResolveIgnores() {
	d.applyDirectives()
	d.applyOptOuts()
}

// applyDirectives walks comments in document order. A start marker
// protects its following siblings up to the first end marker among them;
// a start with no end protects nothing. A single-shot marker protects
// the next sibling that is not whitespace-only text.
func (d *Document) applyDirectives() {
	walk(d.root, func(n *html.Node) {
		if n.Type != html.CommentNode {
			return
		}
		switch strings.ToLower(strings.TrimSpace(n.Data)) {
		case directiveIgnoreStart:
			var end *html.Node
			for sib := n.NextSibling; sib != nil; sib = sib.NextSibling {
				if isDirectiveComment(sib, directiveIgnoreEnd) {
					end = sib
					break
				}
			}
			if end == nil {
				return
			}
			for sib := n.NextSibling; sib != end; sib = sib.NextSibling {
				d.marked[sib] = struct{}{}
			}
		case directiveIgnore:
			sib := n.NextSibling
			for sib != nil && sib.Type == html.TextNode && strings.TrimSpace(sib.Data) == "" {
				sib = sib.NextSibling
			}
			if sib != nil {
				d.marked[sib] = struct{}{}
			}
		}
	})
}

// applyOptOuts marks elements excluded by class or attribute: the
// fr-typo-ignore class, data-fr-typo="ignore", and the nohighlight class
// on code and span.
func (d *Document) applyOptOuts() {
	walk(d.root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if hasClass(n, "fr-typo-ignore") || attrValue(n, "data-fr-typo") == "ignore" {
			d.marked[n] = struct{}{}
			return
		}
		if (n.Data == "code" || n.Data == "span") && hasClass(n, "nohighlight") {
			d.marked[n] = struct{}{}
		}
	})
}

// isDirectiveComment reports whether the node is a comment carrying the
// given marker.
func isDirectiveComment(n *html.Node, marker string) bool {
	return n.Type == html.CommentNode && strings.ToLower(strings.TrimSpace(n.Data)) == marker
}

// walk visits every node depth-first in document order.
func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// Marked reports whether the node or one of its ancestors carries an
// ignore mark.
func (d *Document) Marked(n *Node) bool {
	if n == nil {
		return false
	}
	return d.markedNode(n.node)
}

func (d *Document) markedNode(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if _, ok := d.marked[cur]; ok {
			return true
		}
	}
	return false
}

// ActiveTextNodes returns, in document order, the text nodes rule
// processing may touch: unmarked, outside skip-tag subtrees, not a
// direct child of a skip-parent tag, and not whitespace-only. The result
// is a snapshot; replacing one node does not disturb the others.
func (d *Document) ActiveTextNodes() []*Node {
	var out []*Node
	walk(d.root, func(n *html.Node) {
		if n.Type != html.TextNode {
			return
		}
		if strings.TrimSpace(n.Data) == "" {
			return
		}
		parent := n.Parent
		if parent == nil || parent.Type != html.ElementNode {
			return
		}
		if _, skip := skipParents[parent.Data]; skip {
			return
		}
		for anc := parent; anc != nil; anc = anc.Parent {
			if anc.Type != html.ElementNode {
				continue
			}
			if _, skip := skipTags[anc.Data]; skip {
				return
			}
		}
		if d.markedNode(n) {
			return
		}
		out = append(out, &Node{node: n, doc: d})
	})
	return out
}

// Text returns the node's text content.
func (n *Node) Text() string {
	if n.node == nil {
		return ""
	}
	return n.node.Data
}

// SetText replaces the node's text content in place.
func (n *Node) SetText(text string) {
	if n.node != nil {
		n.node.Data = text
	}
}

// Tag returns the element name, or the empty string for non-elements.
func (n *Node) Tag() string {
	if n.node == nil || n.node.Type != html.ElementNode {
		return ""
	}
	return n.node.Data
}

// Parent returns the parent node, or nil at the root.
func (n *Node) Parent() *Node {
	if n.node == nil || n.node.Parent == nil {
		return nil
	}
	return &Node{node: n.node.Parent, doc: n.doc}
}

// Same reports whether both wrappers point at the same tree node.
func (n *Node) Same(other *Node) bool {
	return n != nil && other != nil && n.node == other.node
}

// HasAncestor reports whether any ancestor element carries one of the
// given tag names.
func (n *Node) HasAncestor(tags ...string) bool {
	if n.node == nil {
		return false
	}
	for anc := n.node.Parent; anc != nil; anc = anc.Parent {
		if anc.Type != html.ElementNode {
			continue
		}
		for _, tag := range tags {
			if anc.Data == tag {
				return true
			}
		}
	}
	return false
}

// Path renders the element chain above the node, outermost first, for
// diagnostics: "body > p > em".
func (n *Node) Path() string {
	if n.node == nil {
		return ""
	}
	var tags []string
	for anc := n.node.Parent; anc != nil; anc = anc.Parent {
		if anc.Type != html.ElementNode {
			continue
		}
		if n.doc != nil && n.doc.fragment && anc == n.doc.root {
			continue
		}
		tags = append(tags, anc.Data)
	}
	for i, j := 0, len(tags)-1; i < j; i, j = i+1, j-1 {
		tags[i], tags[j] = tags[j], tags[i]
	}
	return strings.Join(tags, " > ")
}

// hasClass reports whether the element's class attribute contains the
// given class.
func hasClass(n *html.Node, class string) bool {
	for _, field := range strings.Fields(attrValue(n, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

// attrValue returns the value of the named attribute, or "".
func attrValue(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// Attr returns the value of the named attribute, or "".
func (n *Node) Attr(name string) string {
	if n.node == nil {
		return ""
	}
	return attrValue(n.node, name)
}

// HasClass reports whether the element carries the given class.
func (n *Node) HasClass(class string) bool {
	if n.node == nil {
		return false
	}
	return hasClass(n.node, class)
}

// NewText builds a detached text node.
func NewText(text string) *Node {
	return &Node{node: &html.Node{Type: html.TextNode, Data: text}}
}

// NewEmphasis builds a detached <em> element holding the given text.
func NewEmphasis(text string) *Node {
	em := &html.Node{Type: html.ElementNode, DataAtom: atom.Em, Data: "em"}
	em.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return &Node{node: em}
}

// NewCounterSpan builds a detached span that locally cancels italics.
func NewCounterSpan(text string) *Node {
	span := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Span,
		Data:     "span",
		Attr:     []html.Attribute{{Key: "style", Val: "font-style: normal;"}},
	}
	span.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return &Node{node: span}
}

// ReplaceWith substitutes the node with the given sequence, preserving
// document order. The node must have a parent.
func (n *Node) ReplaceWith(replacements ...*Node) {
	if n.node == nil || n.node.Parent == nil {
		return
	}
	parent := n.node.Parent
	for _, r := range replacements {
		parent.InsertBefore(r.node, n.node)
		if r.doc == nil {
			r.doc = n.doc
		}
	}
	parent.RemoveChild(n.node)
}
