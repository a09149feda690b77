package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// DefaultSnapshotLength caps the text captured into a DOM snapshot.
const DefaultSnapshotLength = 200_000

// DOMSnapshot is a reduced copy of the page markup kept as a failure artifact.
// Only the attributes the locator strategies target survive.
type DOMSnapshot struct {
	HTML      string
	Title     string
	Truncated bool

	// Hooks counts elements carrying a data-testid, aria-label or id, the
	// attributes stable locators depend on
	Hooks int
}

var droppedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"svg":      true,
	"path":     true,
	"link":     true,
	"meta":     true,
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// CleanDOM parses raw page markup and renders the locator-relevant skeleton.
// A maxLength of zero or less means DefaultSnapshotLength.
func CleanDOM(raw string, maxLength int) (*DOMSnapshot, error) {
	if maxLength <= 0 {
		maxLength = DefaultSnapshotLength
	}
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	w := &domWriter{max: maxLength}
	w.walk(doc, 0)

	return &DOMSnapshot{
		HTML:      w.b.String(),
		Title:     documentTitle(doc),
		Truncated: w.truncated,
		Hooks:     w.hooks,
	}, nil
}

type domWriter struct {
	b         strings.Builder
	max       int
	truncated bool
	hooks     int
}

func (w *domWriter) full() bool {
	if w.b.Len() >= w.max {
		w.truncated = true
	}
	return w.truncated
}

func (w *domWriter) walk(n *html.Node, depth int) {
	if w.full() {
		return
	}
	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return
	case html.TextNode:
		w.text(n.Data)
		return
	case html.ElementNode:
		w.element(n, depth)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, depth)
	}
}

func (w *domWriter) text(data string) {
	text := strings.Join(strings.Fields(data), " ")
	if text == "" {
		return
	}
	if remaining := w.max - w.b.Len(); len(text) > remaining {
		w.b.WriteString(text[:remaining])
		w.b.WriteString("...")
		w.truncated = true
		return
	}
	w.b.WriteString(html.EscapeString(text))
}

func (w *domWriter) element(n *html.Node, depth int) {
	tag := strings.ToLower(n.Data)
	if droppedElements[tag] {
		return
	}

	w.b.WriteString("\n")
	w.b.WriteString(strings.Repeat("  ", depth))
	w.b.WriteString("<")
	w.b.WriteString(tag)

	hooked := false
	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		if !keepAttribute(key) {
			continue
		}
		if key == "id" || key == "data-testid" || key == "aria-label" {
			hooked = true
		}
		fmt.Fprintf(&w.b, ` %s="%s"`, key, html.EscapeString(attr.Val))
	}
	if hooked {
		w.hooks++
	}
	w.b.WriteString(">")

	if voidElements[tag] {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, depth+1)
	}
	if w.truncated {
		return
	}
	w.b.WriteString("</")
	w.b.WriteString(tag)
	w.b.WriteString(">")
}

func keepAttribute(key string) bool {
	switch key {
	case "id", "class", "role", "open", "type", "disabled":
		return true
	}
	return strings.HasPrefix(key, "aria-") || strings.HasPrefix(key, "data-")
}

func documentTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		var b strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
		return strings.TrimSpace(b.String())
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := documentTitle(c); title != "" {
			return title
		}
	}
	return ""
}
