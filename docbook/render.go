package docbook

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// voidElements are HTML elements that render self-closing in XML output.
var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Source: true, atom.Wbr: true,
}

// textEscaper writes non-breaking space and the superscript digits as named
// entities so the rule table can map them to DocBook forms.
var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\u00a0", "&nbsp;",
	"\u00b2", "&sup2;",
	"\u00b3", "&sup3;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// render serializes the tree as XML-compatible markup. Doctypes and comments
// are dropped.
func render(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.DocumentNode:
		renderChildren(b, n)
	case html.TextNode:
		b.WriteString(textEscaper.Replace(n.Data))
	case html.RawNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		b.WriteByte('<')
		b.WriteString(n.Data)
		for _, a := range n.Attr {
			b.WriteByte(' ')
			if a.Namespace != "" {
				b.WriteString(a.Namespace)
				b.WriteByte(':')
			}
			b.WriteString(a.Key)
			b.WriteString(`="`)
			b.WriteString(attrEscaper.Replace(a.Val))
			b.WriteByte('"')
		}
		if n.FirstChild == nil && selfClosing(n) {
			b.WriteString("/>")
			return
		}
		b.WriteByte('>')
		renderChildren(b, n)
		b.WriteString("</")
		b.WriteString(n.Data)
		b.WriteByte('>')
	}
}

// selfClosing reports whether an empty element renders as <name/>. The svg
// root always gets a closing tag for the mediaobject rule to match.
func selfClosing(n *html.Node) bool {
	if n.Namespace != "" {
		return n.Data != "svg"
	}
	return voidElements[n.DataAtom]
}

func renderChildren(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		render(b, c)
	}
}
