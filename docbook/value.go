package docbook

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which of the supported value shapes a Value holds.
type Kind int

const (
	KindAbsent Kind = iota
	KindText
	KindInteger
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindOther:
		return "other"
	}
	return "absent"
}

// Value is an input to FixString. The zero Value is absent.
type Value struct {
	kind  Kind
	text  string
	num   int
	other fmt.Stringer
}

// Text wraps a string.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Integer wraps an int.
func Integer(n int) Value { return Value{kind: KindInteger, num: n} }

// Other wraps any value with a text representation. A nil v is absent.
func Other(v fmt.Stringer) Value {
	if v == nil {
		return Value{}
	}
	return Value{kind: KindOther, other: v}
}

// Absent is the missing value.
func Absent() Value { return Value{} }

// ValueOf classifies v: nil is absent, strings are text, ints are integers,
// and everything else is other, represented by its fmt default format.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Absent()
	case Value:
		return x
	case string:
		return Text(x)
	case int:
		return Integer(x)
	case fmt.Stringer:
		return Other(x)
	default:
		return Other(formatted{x})
	}
}

// Kind reports what v holds.
func (v Value) Kind() Kind { return v.kind }

type formatted struct{ v any }

func (f formatted) String() string { return fmt.Sprint(f.v) }

// FixString returns v as text suitable for DocBook body content, converting
// embedded HTML documents.
func FixString(v Value) string {
	return FixStringHTML(v, true)
}

// FixStringHTML is FixString with control over HTML conversion. Text carrying
// HTMLMarker converts to DocBook when convertHTML is set and yields "" when it
// is not; that empty result is deliberate, not an error. Other text is XML
// escaped.
func FixStringHTML(v Value, convertHTML bool) string {
	switch v.kind {
	case KindText:
		if strings.Contains(v.text, HTMLMarker) {
			if convertHTML {
				return ReplaceHTMLEntities(Html2Docbook(v.text))
			}
			return ""
		}
		return ReplaceHTMLEntities(EscapeText(v.text))
	case KindInteger:
		return strconv.Itoa(v.num)
	case KindOther:
		return FixString(Text(stringOf(v.other)))
	}
	return ""
}

// stringOf returns s.String(), or "" when that panics, as a typed nil
// pointer whose method dereferences its receiver does.
func stringOf(s fmt.Stringer) (out string) {
	defer func() {
		if recover() != nil {
			out = ""
		}
	}()
	return s.String()
}
