// Rule table: ordered regex rewrites from serialized HTML to DocBook markup.
package docbook

import "regexp"

// Rule is one rewrite applied to serialized HTML. Replacement may reference
// capture groups with ${n}.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// rules is applied top to bottom. Order matters: the generic <span> strip
// must run after background-color spans were retagged as <phrase>, and
// closing emphasis tags are mapped only after every opening form.
var rules = []Rule{
	rule(`<p>|<p [^>]*>`, `<para>`),
	rule(`</p>`, `</para>`),
	rule(`<ul>|<ul [^>]*>`, `<itemizedlist spacing="compact">`),
	rule(`</ul>`, `</itemizedlist>`),
	rule(`<ol>|<ol [^>]*>`, `<orderedlist spacing="compact">`),
	rule(`</ol>`, `</orderedlist>`),
	rule(`<li>|<li [^>]*>`, `<listitem><para>`),
	rule(`</li>`, `</para></listitem>`),
	rule(`<b>|<b [^>]*>|<em>|<em [^>]*>|<strong>|<strong [^>]*>`, `<emphasis role="bold">`),
	rule(`<s>|<strike>|<s [^>]*>|<strike [^>]*>`, `<emphasis role="strikethrough">`),
	rule(`<i>|<i [^>]*>`, `<emphasis>`),
	rule(`<u>|<u [^>]*>`, `<emphasis role="underline">`),
	rule(`<span>|<span [^>]*>|</span>|<br>|<br/>|</br>|<br />`, ``),
	rule(`</b>|</i>|</u>|</strong>|</em>|</s>|</strike>`, `</emphasis>`),
	rule(`<font [^>]*>|</font>`, ``),
	rule(`<sup>|<sup [^>]*>`, `<superscript>`),
	rule(`<sub>|<sub [^>]*>`, `<subscript>`),
	rule(`</sup>`, `</superscript>`),
	rule(`</sub>`, `</subscript>`),
	rule(`<a href="(http[^"]+)">([^<]*)</a>`, `<link xl:href="${1}">${2}</link>`),
	rule(`<a href="(file[^"]+)">([^<]*)</a>`, `<link xl:href="${1}">${2}</link>`),
	rule(`<a href="(mailto[^"]+)">([^<]*)</a>`, `<link xl:href="${1}">${2}</link>`),
	rule(`<a href="mdel://([^"&^?]+)(\?[^"]*)?">([^<]*)</a>`, `<link linkend="${1}">${3}</link>`),
	rule(`<pre>|<pre [^>]*>`, `<screen>`),
	rule(`</pre>`, `</screen>`),
	rule(`<svg([\s/>])`, `<mediaobject><imageobject><imagedata><svg${1}`),
	rule(`</svg>`, `</svg></imagedata></imageobject></mediaobject>`),
	rule(`&nbsp;`, `&#160;`),
	rule(`&sup2;`, `<superscript>2</superscript>`),
	rule(`&sup3;`, `<superscript>3</superscript>`),
}

func rule(pattern, replacement string) Rule {
	return Rule{Pattern: regexp.MustCompile(pattern), Replacement: replacement}
}

// Rules returns a copy of the rule table in application order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// applyRules runs every rule once over the whole string, in table order.
func applyRules(s string) string {
	for _, r := range rules {
		s = r.Pattern.ReplaceAllString(s, r.Replacement)
	}
	return s
}
