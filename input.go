// Input loading: local files, stdin, and fetched pages.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/adammathes/html2docbook/docbook"
)

// stdin is read for the "-" input. Replaced in tests.
var stdin io.Reader = os.Stdin

// input is one document ready for conversion.
type input struct {
	source  string // argument as given
	name    string // base name for batch output files
	content string // text or an HTML document carrying the marker
	title   string // title found while loading, if any
	isHTML  bool
}

// htmlExts are file extensions treated as HTML without --assume-html.
var htmlExts = map[string]bool{".html": true, ".htm": true, ".xhtml": true}

// loadInput reads one argument. URLs are fetched and reduced to their main
// article; HTML files and HTML-looking input are normalized into a document
// carrying the conversion marker.
func loadInput(ctx context.Context, arg string, cfg cliConfig, log *slog.Logger) (input, error) {
	in := input{source: arg, name: inputName(arg)}

	switch {
	case isRemote(arg):
		body, pageURL, err := fetchHTML(ctx, arg, cfg.fetch, log)
		if err != nil {
			return in, err
		}
		content, title, err := extractArticle(body, pageURL)
		if err != nil {
			return in, err
		}
		log.Debug("extracted article", "url", arg, "title", title)
		in.content = wrapDocument(stripInvalidXMLChars(content))
		in.title = cleanTitle(title)
		in.isHTML = true
		return in, nil

	case arg == "-":
		data, err := readLimited(stdin, cfg.fetch.maxBytes)
		if err != nil {
			return in, fmt.Errorf("reading stdin: %w", err)
		}
		in.content = stripInvalidXMLChars(string(data))

	default:
		f, err := os.Open(arg)
		if err != nil {
			return in, err
		}
		defer f.Close()
		data, err := readLimited(f, cfg.fetch.maxBytes)
		if err != nil {
			return in, fmt.Errorf("reading %s: %w", arg, err)
		}
		in.content = stripInvalidXMLChars(string(data))
	}

	switch {
	case strings.Contains(in.content, docbook.HTMLMarker) && !looksLikeDocument(in.content):
		in.isHTML = true
	case cfg.assumeHTML || htmlExts[strings.ToLower(filepath.Ext(arg))] || looksLikeDocument(in.content):
		in.title = extractTitle(in.content)
		in.content = wrapDocument(extractBodyContent(in.content))
		in.isHTML = true
	}
	return in, nil
}

// looksLikeDocument reports whether s opens like a full HTML page, with a
// doctype, an <html> tag carrying attributes, or a <head>.
func looksLikeDocument(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(lower, "<!doctype html") ||
		strings.HasPrefix(lower, "<html ") ||
		strings.Contains(lower, "<head>") || strings.Contains(lower, "<head ")
}

// wrapDocument places an HTML fragment in a minimal document starting with
// the conversion marker.
func wrapDocument(fragment string) string {
	return docbook.HTMLMarker + "<body>" + fragment + "</body></html>"
}

// extractBodyContent extracts the content between <body> and </body> tags.
// If no body tags are found, returns the full HTML.
func extractBodyContent(html string) string {
	lower := strings.ToLower(html)
	start := strings.Index(lower, "<body")
	if start < 0 {
		return html
	}
	// Skip past the <body...> tag
	end := strings.Index(html[start:], ">")
	if end < 0 {
		return html
	}
	start = start + end + 1

	bodyEnd := strings.Index(lower[start:], "</body>")
	if bodyEnd < 0 {
		return html[start:]
	}
	return html[start : start+bodyEnd]
}

// stripInvalidXMLChars removes characters not allowed in XML 1.0 content.
// Valid XML chars: #x9 | #xA | #xD | [#x20-#xD7FF] | [#xE000-#xFFFD] | [#x10000-#x10FFFF]
func stripInvalidXMLChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0x9 || r == 0xA || r == 0xD ||
			(r >= 0x20 && r <= 0xD7FF) ||
			(r >= 0xE000 && r <= 0xFFFD) ||
			(r >= 0x10000 && r <= 0x10FFFF) {
			return r
		}
		return -1
	}, s)
}

// inputName derives an output base name: the file name without extension,
// the last URL path segment, or the host for bare URLs.
func inputName(arg string) string {
	if arg == "-" {
		return "stdin"
	}
	if isRemote(arg) {
		u, _ := url.Parse(arg)
		base := strings.TrimSuffix(path.Base(strings.TrimSuffix(u.Path, "/")), path.Ext(u.Path))
		if base == "" || base == "." || base == "/" {
			base = u.Hostname()
		}
		return sanitizeName(base)
	}
	base := filepath.Base(arg)
	return sanitizeName(strings.TrimSuffix(base, filepath.Ext(base)))
}

// sanitizeName keeps letters, digits, dot, dash and underscore.
func sanitizeName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
	if s == "" {
		return "document"
	}
	return s
}
