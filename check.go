// Output verification: parse converted DocBook as XML and gather element
// statistics with XPath.
package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// statQueries count DocBook elements regardless of namespace prefix.
// Compiled per call; an evaluated xpath.Expr is not safe for concurrent use.
var statQueries = []struct {
	name string
	expr string
}{
	{"para", "count(//*[local-name()='para'])"},
	{"link", "count(//*[local-name()='link'])"},
	{"emphasis", "count(//*[local-name()='emphasis'])"},
	{"listitem", "count(//*[local-name()='listitem'])"},
	{"screen", "count(//*[local-name()='screen'])"},
	{"mediaobject", "count(//*[local-name()='mediaobject'])"},
}

// emptyLinkExpr selects links with no visible text. Select clones the query
// before iterating.
var emptyLinkExpr = xpath.MustCompile("//*[local-name()='link'][normalize-space(.)='']")

// docStats holds element counts keyed by local name.
type docStats map[string]int

func (s docStats) String() string {
	parts := make([]string, 0, len(statQueries))
	for _, q := range statQueries {
		parts = append(parts, fmt.Sprintf("%s=%d", q.name, s[q.name]))
	}
	return strings.Join(parts, " ")
}

// checkDocBook verifies that doc is well-formed XML. Fragments are wrapped
// in a namespaced <section> first so prefixed xl:href attributes resolve.
func checkDocBook(doc string, log *slog.Logger) (docStats, error) {
	if !strings.HasPrefix(doc, "<?xml") {
		doc = fmt.Sprintf(`<section xmlns="%s" xmlns:xl="%s">%s</section>`, docbookNS, xlinkNS, doc)
	}
	root, err := xmlquery.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotWellFormed, err)
	}

	stats := docStats{}
	for _, q := range statQueries {
		expr, err := xpath.Compile(q.expr)
		if err != nil {
			return nil, fmt.Errorf("compiling %s query: %w", q.name, err)
		}
		if n, ok := expr.Evaluate(xmlquery.CreateXPathNavigator(root)).(float64); ok {
			stats[q.name] = int(n)
		}
	}
	for _, link := range xmlquery.QuerySelectorAll(root, emptyLinkExpr) {
		target := link.SelectAttr("linkend")
		if target == "" {
			target = link.SelectAttr("xl:href")
		}
		log.Warn("link without text", "target", target)
	}
	return stats, nil
}
