// Markdown preview: renders the same input as CommonMark for review next to
// the DocBook output.
package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"golang.org/x/net/html"
)

var (
	mdConverter     *converter.Converter
	mdConverterOnce sync.Once
)

// getMarkdownConverter returns a shared converter. Highlight spans are
// rendered as ==marked== text so the preview shows what becomes a
// <phrase role> in DocBook.
func getMarkdownConverter() *converter.Converter {
	mdConverterOnce.Do(func() {
		mdConverter = converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		)
		mdConverter.Register.RendererFor("span", converter.TagTypeInline,
			func(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
				style := dom.GetAttributeOr(n, "style", "")
				if !strings.HasPrefix(style, "background-color") {
					return converter.RenderTryNext
				}
				w.WriteString("==")
				ctx.RenderChildNodes(ctx, w, n)
				w.WriteString("==")
				return converter.RenderSuccess
			},
			converter.PriorityEarly,
		)
	})
	return mdConverter
}

// convertToMarkdown renders an HTML input's body as CommonMark. Plain text
// inputs are returned trimmed.
func convertToMarkdown(in input) (string, error) {
	if !in.isHTML {
		return strings.TrimSpace(in.content), nil
	}
	md, err := getMarkdownConverter().ConvertString(extractBodyContent(in.content))
	if err != nil {
		return "", fmt.Errorf("markdown conversion: %w", err)
	}
	return strings.TrimSpace(md), nil
}
