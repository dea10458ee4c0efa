// HTML to DocBook conversion for rich-text fields carrying an <html> document.
package docbook

import (
	"strings"
	"unicode"

	"github.com/JohannesKaufmann/dom"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// HTMLMarker is the substring that flags a value as an embedded HTML document.
const HTMLMarker = "<html>"

var (
	informalTableSel = cascadia.MustCompile("table.informal")
	tableSel         = cascadia.MustCompile("table")
	paragraphSel     = cascadia.MustCompile("p")
	mediaSel         = cascadia.MustCompile("img, svg")
	spanSel          = cascadia.MustCompile("span")
)

// Html2Docbook converts s to DocBook markup when it contains HTMLMarker and
// returns it unchanged otherwise. The result holds only the body content,
// without any enclosing document tags.
func Html2Docbook(s string) string {
	if !strings.Contains(s, HTMLMarker) {
		return s
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// x/net/html only fails on reader errors, which a string reader never has.
		return s
	}

	fixTables(doc)
	removeEmptyParagraphs(doc)
	highlightSpansToPhrases(doc)

	var b strings.Builder
	render(&b, doc)
	return applyRules(extractBody(b.String()))
}

// fixTables renames informal tables and drops fixed widths from every table
// so PDF output sizes them automatically instead of clipping.
func fixTables(doc *html.Node) {
	for _, t := range informalTableSel.MatchAll(doc) {
		renameElement(t, "informaltable")
		removeAttr(t, "width")
	}
	for _, t := range tableSel.MatchAll(doc) {
		removeAttr(t, "width")
	}
}

// removeEmptyParagraphs drops <p> elements without visible text, whatever
// inline markup they hold. Whitespace, <br> and non-breaking spaces count as
// blank. A paragraph holding an image or SVG is kept.
func removeEmptyParagraphs(doc *html.Node) {
	for _, p := range paragraphSel.MatchAll(doc) {
		if !hasVisibleText(p) && mediaSel.MatchFirst(p) == nil {
			dom.RemoveNode(p)
		}
	}
}

// highlightSpansToPhrases turns background-color spans into <phrase> elements
// whose role carries the hex colour.
func highlightSpansToPhrases(doc *html.Node) {
	for _, span := range spanSel.MatchAll(doc) {
		style, ok := dom.GetAttribute(span, "style")
		if !ok || !strings.HasPrefix(style, "background-color") {
			continue
		}
		renameElement(span, "phrase")
		removeAttr(span, "style")
		setAttr(span, "role", colorRole(style))
	}
}

// colorRole returns the part of a style value after '#', without a trailing
// declaration separator. A style with no '#' is returned whole.
func colorRole(style string) string {
	color := style[strings.IndexByte(style, '#')+1:]
	return strings.TrimRight(color, "; \t")
}

// extractBody returns the content between the first <body> and </body>, or s
// itself when either marker is missing.
func extractBody(s string) string {
	start := strings.Index(s, "<body>")
	end := strings.Index(s, "</body>")
	if start < 0 || end < start+len("<body>") {
		return s
	}
	return s[start+len("<body>") : end]
}

// hasVisibleText reports whether any text node under n holds something other
// than whitespace. unicode.IsSpace covers U+00A0.
func hasVisibleText(n *html.Node) bool {
	if n.Type == html.TextNode {
		return strings.TrimFunc(n.Data, unicode.IsSpace) != ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasVisibleText(c) {
			return true
		}
	}
	return false
}

func renameElement(n *html.Node, name string) {
	n.Data = name
	n.DataAtom = 0
}

func removeAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
