// Package insighttext cleans backend-supplied insight text. Pipeline
// backends emit rich-text fragments; only the plain text survives
// canonicalization and display.
package insighttext

import (
	"strings"

	"golang.org/x/net/html"
)

// Strip returns the plain text of a possibly-HTML fragment. Input without
// markup passes through with whitespace collapsed. A fragment that fails to
// parse is returned as-is.
func Strip(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return collapse(s)
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return collapse(s)
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return collapse(buf.String())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
