package docbook

import "strings"

const (
	// IndentBlock is one indentation level: four non-breaking spaces, since
	// DocBook table cells collapse ordinary whitespace.
	IndentBlock = "&#xA0;&#xA0;&#xA0;&#xA0;"

	// ZeroWidthSpace is an invisible line-break opportunity for renderers.
	ZeroWidthSpace = "&#x200B;"
)

// breakAfter lists the sequences AddInvisibleSpace marks, in pass order.
var breakAfter = []string{";", ".", "(", ")", ",", "/", "_", "::"}

// AddDocbook converts s and wraps the result in <para> unless it already
// contains one.
func AddDocbook(s string) string {
	out := Html2Docbook(s)
	if strings.Contains(out, "<para>") {
		return out
	}
	return "<para>" + out + "</para>"
}

// GetIndented prefixes name with depth-1 indentation blocks.
func GetIndented(name string, depth int) string {
	if depth <= 1 {
		return name
	}
	return strings.Repeat(IndentBlock, depth-1) + name
}

// AddInvisibleSpace inserts ZeroWidthSpace after punctuation so PDF output
// can wrap long identifiers and paths. Each sequence is handled in its own
// pass over the already rewritten string.
func AddInvisibleSpace(s string) string {
	for _, seq := range breakAfter {
		s = strings.ReplaceAll(s, seq, seq+ZeroWidthSpace)
	}
	return s
}
