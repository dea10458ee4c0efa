package main

import (
	"strings"
	"testing"
)

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"title tag", "<title>Hello</title>", "Hello"},
		{"title with site suffix", "<title>Article Name - Example Site</title>", "Article Name"},
		{"title with pipe", "<title>Article | Site</title>", "Article"},
		{"title entities", "<title>Tom &amp; Jerry</title>", "Tom & Jerry"},
		{"first heading", "<p>x</p><h2 id=\"a\">Sub <b>title</b></h2><h1>Later</h1>", "Sub title"},
		{"heading whitespace collapsed", "<h1>\n  Spread\n  out </h1>", "Spread out"},
		{"empty title falls back to heading", "<title> </title><h1>Head</h1>", "Head"},
		{"nothing", "<p>no title</p>", ""},
		{"head is not a heading", "<head></head><hr>", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTitle(tt.in); got != tt.want {
				t.Errorf("extractTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Simple", "Simple"},
		{"Part One - Site", "Part One"},
		{"Well-known words", "Well-known words"},
		{"A \u2014 B", "A"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cleanTitle(tt.in); got != tt.want {
			t.Errorf("cleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPickTitle(t *testing.T) {
	if got := pickTitle("", "  ", "second", "third"); got != "second" {
		t.Errorf("got %q", got)
	}
	if got := pickTitle("", ""); got != "Untitled" {
		t.Errorf("got %q", got)
	}
}

func TestValidStandalone(t *testing.T) {
	for _, e := range []string{"section", "chapter", "article"} {
		if !validStandalone(e) {
			t.Errorf("%q should be valid", e)
		}
	}
	for _, e := range []string{"", "book", "Section", "para"} {
		if validStandalone(e) {
			t.Errorf("%q should be invalid", e)
		}
	}
}

func TestWrapStandalone(t *testing.T) {
	got := wrapStandalone("section", "A < B", "<para>x</para>")
	want := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<section xmlns="http://docbook.org/ns/docbook" xmlns:xl="http://www.w3.org/1999/xlink" version="5.0">` + "\n" +
		"<title>A &lt; B</title>\n" +
		"<para>x</para>\n" +
		"</section>\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestWrapStandalone_TagLikeTitle(t *testing.T) {
	title := extractTitle("<title>Use &lt;b&gt; tags</title>")
	if title != "Use <b> tags" {
		t.Fatalf("extractTitle = %q", title)
	}
	doc := wrapStandalone("section", title, "<para>x</para>")
	if !strings.Contains(doc, "<title>Use &lt;b&gt; tags</title>") {
		t.Errorf("title not escaped:\n%s", doc)
	}
	if _, err := checkDocBook(doc, quietLogger()); err != nil {
		t.Errorf("not well-formed: %v\n%s", err, doc)
	}
}

func TestWrapStandalone_WellFormed(t *testing.T) {
	body := convertText(input{
		content: wrapDocument(`<p>a <a href="mailto:x@y.z">mail</a> <span style="background-color: #00ff00">hi</span></p><table class="informal"><tr><td>1</td></tr></table>`),
		isHTML:  true,
	}, defaultConfig())
	doc := wrapStandalone("article", "T", body)
	stats, err := checkDocBook(doc, quietLogger())
	if err != nil {
		t.Fatalf("standalone document not well-formed: %v\n%s", err, doc)
	}
	if stats["para"] != 1 || stats["link"] != 1 {
		t.Errorf("stats = %v", stats)
	}
	if !strings.Contains(doc, `<phrase role="00ff00">hi</phrase>`) {
		t.Errorf("expected highlight phrase in:\n%s", doc)
	}
	if !strings.Contains(doc, `<informaltable class="informal">`) {
		t.Errorf("expected informaltable in:\n%s", doc)
	}
}
