// XML escaping for plain text and named-entity cleanup for DocBook output.
package docbook

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
	"golang.org/x/net/html"
)

var (
	// bareAmpRe matches an ampersand that does not start a reference.
	bareAmpRe = regexp2.MustCompile(`&(?![A-Za-z#0-9]+;)`, regexp2.None)
	// strayLtRe matches '<' directly followed by '>', '=' or whitespace.
	strayLtRe = regexp.MustCompile(`<([>=\s])`)
	// unterminatedLtRe matches '<' with no closing '>' after it.
	unterminatedLtRe = regexp2.MustCompile(`<(?![^>]+>)`, regexp2.None)

	namedEntityRe = regexp.MustCompile(`&([A-Za-z][A-Za-z0-9]*);`)
)

// xmlEntities are the named references XML defines without a DTD.
var xmlEntities = map[string]bool{
	"amp": true, "lt": true, "gt": true, "quot": true, "apos": true,
}

// EscapeText makes plain text safe as XML character data. It is a heuristic:
// bare ampersands and stray '<' are escaped, while tag-like sequences such as
// <b>bold</b> are left alone.
func EscapeText(s string) string {
	s = replace2(bareAmpRe, s, "&amp;")
	s = strayLtRe.ReplaceAllString(s, "&lt;${1}")
	s = strings.ReplaceAll(s, "<<", "&lt;&lt;")
	return replace2(unterminatedLtRe, s, "&lt;")
}

// replace2 substitutes every match of re. The patterns have no timeout, so
// Replace cannot fail; s is returned unchanged if it ever does.
func replace2(re *regexp2.Regexp, s, repl string) string {
	out, err := re.Replace(s, repl, -1, -1)
	if err != nil {
		return s
	}
	return out
}

// ReplaceHTMLEntities rewrites HTML named entities into forms an XML parser
// accepts: the five XML entities are kept, known HTML entities become numeric
// character references, and unknown names have their '&' escaped.
func ReplaceHTMLEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return namedEntityRe.ReplaceAllStringFunc(s, func(ref string) string {
		name := ref[1 : len(ref)-1]
		if xmlEntities[name] {
			return ref
		}
		decoded := html.UnescapeString(ref)
		if decoded == ref || (len(decoded) > 1 && strings.HasSuffix(decoded, ";")) {
			// Unknown, or only a legacy prefix such as &not in &notit; matched.
			return "&amp;" + ref[1:]
		}
		var b strings.Builder
		for _, r := range decoded {
			b.WriteString("&#")
			b.WriteString(strconv.Itoa(int(r)))
			b.WriteByte(';')
		}
		return b.String()
	})
}
