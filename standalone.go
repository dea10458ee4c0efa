// Standalone output: wrap converted fragments in a DocBook 5 root element.
package main

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

const (
	docbookNS = "http://docbook.org/ns/docbook"
	xlinkNS   = "http://www.w3.org/1999/xlink"
)

// standaloneElements lists the root elements --standalone accepts.
var standaloneElements = []string{"section", "chapter", "article"}

var (
	titleTagRe   = regexp.MustCompile(`(?i)<title[^>]*>([^<]+)</title>`)
	firstHeadRe  = regexp.MustCompile(`(?is)<h([1-6])[^>]*>(.*?)</h[1-6]>`)
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	spaceRunRe   = regexp.MustCompile(`\s+`)
	titleSplitRe = regexp.MustCompile(`\s*[-|\x{2013}\x{2014}]\s+`)
)

func validStandalone(element string) bool {
	for _, e := range standaloneElements {
		if e == element {
			return true
		}
	}
	return false
}

// extractTitle returns the document title from its <title> tag or, failing
// that, the text of its first heading. Returns "" when neither exists.
func extractTitle(text string) string {
	if m := titleTagRe.FindStringSubmatch(text); m != nil {
		if title := cleanTitle(html.UnescapeString(strings.TrimSpace(m[1]))); title != "" {
			return title
		}
	}
	if m := firstHeadRe.FindStringSubmatch(text); m != nil {
		inner := html.UnescapeString(htmlTagRe.ReplaceAllString(m[2], ""))
		return strings.TrimSpace(spaceRunRe.ReplaceAllString(inner, " "))
	}
	return ""
}

// cleanTitle removes common site name suffixes like "Article - Site Name".
func cleanTitle(title string) string {
	parts := titleSplitRe.Split(title, -1)
	return strings.TrimSpace(parts[0])
}

// pickTitle chooses the first non-empty candidate, falling back to "Untitled".
func pickTitle(candidates ...string) string {
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return "Untitled"
}

// wrapStandalone places a converted fragment inside a DocBook 5 root
// element declaring the DocBook and XLink namespaces. The title is plain
// text; every markup character in it is escaped.
func wrapStandalone(element, title, body string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&b, `<%s xmlns="%s" xmlns:xl="%s" version="5.0">`+"\n", element, docbookNS, xlinkNS)
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString(body)
	fmt.Fprintf(&b, "\n</%s>\n", element)
	return b.String()
}
