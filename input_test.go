package main

import (
	"context"
	"strings"
	"testing"
)

func TestLoadInput(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name      string
		file      string
		content   string
		assume    bool
		wantHTML  bool
		wantTitle string
		want      string
	}{
		{"plain text", "a.txt", "x < y", false, false, "", "x < y"},
		{"html fragment by extension", "a.html", "<p>x</p>", false, true, "", "<html><body><p>x</p></body></html>"},
		{"htm extension", "a.HTM", "<p>x</p>", false, true, "", "<html><body><p>x</p></body></html>"},
		{"assume html", "a.txt", "<p>x</p>", true, true, "", "<html><body><p>x</p></body></html>"},
		{"marker kept as is", "a.txt", "<html><body><i>x</i></body></html>", false, true, "", "<html><body><i>x</i></body></html>"},
		{
			"full document",
			"page.txt",
			"<!DOCTYPE html>\n<html lang=\"en\"><head><title>Doc - Site</title></head><body class=\"b\"><p>x</p></body></html>",
			false, true, "Doc",
			"<html><body><p>x</p></body></html>",
		},
		{"invalid xml chars stripped", "c.txt", "a\x00b\x1fc", false, false, "", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, dir, tt.file, tt.content)
			cfg := defaultConfig()
			cfg.assumeHTML = tt.assume
			in, err := loadInput(context.Background(), p, cfg, quietLogger())
			if err != nil {
				t.Fatal(err)
			}
			if in.isHTML != tt.wantHTML {
				t.Errorf("isHTML = %v, want %v", in.isHTML, tt.wantHTML)
			}
			if in.title != tt.wantTitle {
				t.Errorf("title = %q, want %q", in.title, tt.wantTitle)
			}
			if in.content != tt.want {
				t.Errorf("content = %q, want %q", in.content, tt.want)
			}
		})
	}
}

func TestLoadInput_SizeLimit(t *testing.T) {
	p := writeFile(t, t.TempDir(), "big.txt", strings.Repeat("x", 64))
	cfg := defaultConfig()
	cfg.fetch.maxBytes = 32
	if _, err := loadInput(context.Background(), p, cfg, quietLogger()); err == nil {
		t.Error("expected error for oversized input")
	}
}

func TestInputName(t *testing.T) {
	tests := []struct {
		arg, want string
	}{
		{"docs/intro.html", "intro"},
		{"notes", "notes"},
		{"-", "stdin"},
		{"https://example.com/blog/post-1.html", "post-1"},
		{"https://example.com/blog/post/", "post"},
		{"https://example.com/", "example.com"},
		{"http://127.0.0.1:8080", "127.0.0.1"},
		{"my file (1).htm", "my_file__1_"},
	}
	for _, tt := range tests {
		if got := inputName(tt.arg); got != tt.want {
			t.Errorf("inputName(%q) = %q, want %q", tt.arg, got, tt.want)
		}
	}
}

func TestLooksLikeDocument(t *testing.T) {
	yes := []string{
		"<!DOCTYPE html><p>x</p>",
		"  <!doctype HTML>",
		`<html lang="en"><body></body></html>`,
		"<html><head></head><body></body></html>",
	}
	no := []string{"<p>x</p>", "<html><body>x</body></html>", "plain", ""}
	for _, s := range yes {
		if !looksLikeDocument(s) {
			t.Errorf("looksLikeDocument(%q) = false", s)
		}
	}
	for _, s := range no {
		if looksLikeDocument(s) {
			t.Errorf("looksLikeDocument(%q) = true", s)
		}
	}
}

func TestExtractBodyContent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"<html><body><p>x</p></body></html>", "<p>x</p>"},
		{`<BODY class="a">y</BODY>`, "y"},
		{"<body>open", "open"},
		{"<p>no body</p>", "<p>no body</p>"},
	}
	for _, tt := range tests {
		if got := extractBodyContent(tt.in); got != tt.want {
			t.Errorf("extractBodyContent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripInvalidXMLChars(t *testing.T) {
	in := "ok\tline\n\r\x01\x08\x0b\uFFFE\U0001F600"
	want := "ok\tline\n\r\U0001F600"
	if got := stripInvalidXMLChars(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
