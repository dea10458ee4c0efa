// Package docbook converts rich-text values into DocBook XML content.
//
// Values carrying an embedded HTML document (detected by the literal
// "<html>" marker) are parsed, cleaned up, and rewritten into DocBook
// elements:
//
//	out := docbook.FixString(docbook.Text(`<html><body><p>Hello <b>world</b></p></body></html>`))
//	// <para>Hello <emphasis role="bold">world</emphasis></para>
//
// Plain text is escaped so it is safe as XML character data. Conversion is
// best effort: unknown tags pass through, malformed markup is recovered by the
// HTML parser, and no function in this package returns an error.
//
// # Conversion Pipeline
//
//  1. Parse into a tree (golang.org/x/net/html).
//  2. Rename table.informal to informaltable and drop table widths.
//  3. Remove paragraphs holding only whitespace or non-breaking spaces.
//  4. Turn background-color spans into <phrase role="COLOR">.
//  5. Serialize, keep the <body> content, and apply the ordered rule table.
//
// All package state is immutable after init and safe for concurrent use.
package docbook
