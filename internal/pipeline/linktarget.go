package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-coursebook/internal/notebook"
)

// NewTabTarget is the anchor target that opens a link in a new browsing context.
const NewTabTarget = "_blank"

// OpenLinksInNewTab rewrites every anchor on the first source line of the
// first cell so it opens in a new tab. This is where the "Open in Colab" and
// "Open in Kaggle" badges live.
//
// The cells are returned as a new slice; the input is not modified.
// Nothing changes when the notebook is empty, the first line has no anchors,
// or the line cannot be parsed as HTML.
func OpenLinksInNewTab(cells []notebook.Cell) []notebook.Cell {
	out := cloneCells(cells)
	if len(out) == 0 || len(out[0].Source) == 0 {
		return out
	}

	rewritten, ok := rewriteAnchorTargets(out[0].Source[0])
	if ok {
		out[0].Source[0] = rewritten
	}
	return out
}

// rewriteAnchorTargets parses line as an HTML fragment and sets target on
// every <a>. Returns false if the line has no anchors or fails to parse.
func rewriteAnchorTargets(line string) (string, bool) {
	doc, err := parseFragment(line)
	if err != nil {
		return "", false
	}

	if setAnchorTargets(doc) == 0 {
		return "", false
	}

	rendered, err := renderFragment(doc)
	if err != nil {
		return "", false
	}
	return rendered, true
}

// parseFragment parses content with a body context so no <html><body>
// wrapper is added, and wraps the resulting nodes in a container for
// uniform traversal.
func parseFragment(content string) (*html.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

// renderFragment renders only the container's children.
func renderFragment(doc *html.Node) (string, error) {
	var buf strings.Builder
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// setAnchorTargets traverses the tree and returns the number of anchors updated.
func setAnchorTargets(n *html.Node) int {
	count := 0
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		setAttr(n, "target", NewTabTarget)
		count++
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count += setAnchorTargets(c)
	}
	return count
}

// setAttr replaces the attribute value, or appends it if absent.
func setAttr(n *html.Node, key, val string) {
	for i, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
