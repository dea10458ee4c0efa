package docbook

import (
	"strings"
	"testing"
)

type label string

func (l label) String() string { return string(l) }

type note struct{ body string }

func (n *note) String() string { return n.body }

func TestFixString(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"absent", Absent(), ""},
		{"zero value", Value{}, ""},
		{"integer", Integer(42), "42"},
		{"negative integer", Integer(-7), "-7"},
		{"plain text", Text("plain"), "plain"},
		{"escaped text", Text("a & b < c"), "a &amp; b &lt; c"},
		{"named entity in text", Text("caf&eacute;"), "caf&#233;"},
		{"other", Other(label("x<y & z")), "x&lt;y &amp; z"},
		{"nil other", Other(nil), ""},
		{"typed nil other", ValueOf((*note)(nil)), ""},
		{"pointer other", ValueOf(&note{"a & b"}), "a &amp; b"},
		{
			"html",
			Text(`<html><body><p>Hello <b>world</b></p></body></html>`),
			`<para>Hello <emphasis role="bold">world</emphasis></para>`,
		},
		{
			"html entities cleaned",
			Text(`<html><body><p>a&mdash;b&nbsp;c</p></body></html>`),
			"<para>a\u2014b&#160;c</para>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FixString(tt.in); got != tt.want {
				t.Errorf("FixString(%v) = %q, want %q", tt.in.Kind(), got, tt.want)
			}
		})
	}
}

func TestFixStringHTML_NoConvertIsEmpty(t *testing.T) {
	got := FixStringHTML(Text(`<html><body><p>x</p></body></html>`), false)
	if got != "" {
		t.Errorf("HTML with conversion disabled should yield empty string, got %q", got)
	}
}

func TestFixStringHTML_NoConvertPlainTextStillEscaped(t *testing.T) {
	if got := FixStringHTML(Text("a & b"), false); got != "a &amp; b" {
		t.Errorf("got %q", got)
	}
}

func TestFixString_OtherReentersHTMLPath(t *testing.T) {
	got := FixStringHTML(Other(label(`<html><body><p>x</p></body></html>`)), false)
	if got != "<para>x</para>" {
		t.Errorf("other values convert their text form with HTML enabled, got %q", got)
	}
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind Kind
		want string
	}{
		{"nil", nil, KindAbsent, ""},
		{"string", "s & t", KindText, "s &amp; t"},
		{"int", 12, KindInteger, "12"},
		{"stringer", label("lbl"), KindOther, "lbl"},
		{"float", 3.5, KindOther, "3.5"},
		{"bool", true, KindOther, "true"},
		{"value", Integer(3), KindInteger, "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValueOf(tt.in)
			if v.Kind() != tt.kind {
				t.Errorf("ValueOf(%v).Kind() = %v, want %v", tt.in, v.Kind(), tt.kind)
			}
			if got := FixString(v); got != tt.want {
				t.Errorf("FixString(ValueOf(%v)) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	names := []string{KindAbsent.String(), KindText.String(), KindInteger.String(), KindOther.String()}
	if got := strings.Join(names, ","); got != "absent,text,integer,other" {
		t.Errorf("got %q", got)
	}
}
