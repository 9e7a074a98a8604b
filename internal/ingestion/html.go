package ingestion

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var htmlTag = regexp.MustCompile(`(?i)</?(p|div|br|ul|ol|li|h[1-6]|span|strong|em|b|i|a|section|article|table|tr|td)\b[^>]*>`)

// noiseSelector lists elements that never carry description text.
const noiseSelector = "script, style, noscript, iframe, nav, footer, header, form, button, .ad, .advertisement, .cookie-banner"

// LooksLikeHTML reports whether s contains common HTML markup.
func LooksLikeHTML(s string) bool {
	return htmlTag.MatchString(s)
}

// HTMLToText renders the readable text of an HTML fragment. Block elements become lines,
// list items become "- " bullets and headings become markdown headings.
func HTMLToText(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", &ParseError{Message: "failed to parse HTML", Cause: err}
	}

	doc.Find(noiseSelector).Remove()

	var b strings.Builder
	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			render(&b, n)
		}
	})
	return b.String(), nil
}

func render(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(strings.ReplaceAll(n.Data, "\n", " "))
		return
	case html.ElementNode:
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			render(b, c)
		}
		return
	}

	switch n.Data {
	case "br":
		b.WriteString("\n")
		return
	case "li":
		b.WriteString("\n- ")
	case "h1", "h2", "h3", "h4", "h5", "h6":
		b.WriteString("\n\n" + strings.Repeat("#", int(n.Data[1]-'0')) + " ")
	case "p", "div", "section", "article", "ul", "ol", "table", "tr":
		b.WriteString("\n\n")
	case "td":
		b.WriteString(" ")
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		render(b, c)
	}

	switch n.Data {
	case "p", "div", "section", "article", "ul", "ol", "table", "tr",
		"h1", "h2", "h3", "h4", "h5", "h6":
		b.WriteString("\n\n")
	}
}
