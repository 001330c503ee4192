package source

import (
	"bytes"
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// containerSelector is the element holding the announcement body on the
// publisher's article pages.
const containerSelector = `td.b12c`

const containerClass = "b12c"

// paragraphIndent starts every paragraph of the article body.
const paragraphIndent = "　　"

// ErrNoContainer is returned when a page has no article container.
var ErrNoContainer = errors.New("source: article container not found")

// ErrEmptyText is returned when the article container holds no text.
var ErrEmptyText = errors.New("source: article container is empty")

// ExtractText returns the announcement text of an article page, one
// paragraph per line.
func ExtractText(page []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", err
	}

	container := findContainer(doc)
	if container == nil {
		return "", ErrNoContainer
	}

	var sb strings.Builder
	collectText(container, &sb)

	lines := strings.Split(strings.ReplaceAll(sb.String(), paragraphIndent, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text := strings.Join(lines, "\n")
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

func findContainer(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "td" && hasClass(n, containerClass) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findContainer(c); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func collectText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript":
			return
		case "br":
			sb.WriteString("\n")
			return
		case "p", "div", "tr":
			defer sb.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
