package chart

import (
	"bytes"
	"strings"

	"github.com/timewarpfm/timewarp/internal/models"
	"golang.org/x/net/html"
)

// Billboard marks up the ranked rows with these attributes. The coupling is
// fragile but intentional: the page offers no stable semantic structure, so
// the extractor targets the same class names a CSS selector would.
const (
	titleNodeID   = "title-of-a-story"
	titleClass    = "c-title"
	artistClass   = "c-label"
	noTrucateFlag = "a-no-trucate"
)

// Parse extracts ordered chart entries from a chart HTML document.
//
// Titles and artists are collected in two independent document-order passes
// and paired by positional index, truncated to the shorter sequence. If the
// two selector passes ever diverge in length, the surplus of the longer pass
// is dropped silently; the pairing policy trusts document order, not row
// structure. A malformed or empty document returns an empty slice.
func Parse(doc []byte) []models.ChartEntry {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil
	}

	titles := collectText(root, isTitleNode)
	artists := collectText(root, isArtistNode)

	n := len(artists)
	if len(titles) < n {
		n = len(titles)
	}

	entries := make([]models.ChartEntry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, models.ChartEntry{
			Rank:   i + 1,
			Title:  titles[i],
			Artist: artists[i],
		})
	}

	return entries
}

// collectText walks the tree in document order and returns the trimmed text
// content of every node matching the predicate. Nodes whose text trims to
// empty are skipped.
func collectText(root *html.Node, match func(*html.Node) bool) []string {
	var out []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			if text := strings.TrimSpace(nodeText(n)); text != "" {
				out = append(out, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return out
}

// nodeText concatenates all text descendants of a node.
func nodeText(n *html.Node) string {
	var sb strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return sb.String()
}

// isTitleNode matches h3#title-of-a-story.c-title.a-no-trucate
func isTitleNode(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "h3" &&
		attrValue(n, "id") == titleNodeID &&
		hasClass(n, titleClass) && hasClass(n, noTrucateFlag)
}

// isArtistNode matches span.c-label.a-no-trucate
func isArtistNode(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "span" &&
		hasClass(n, artistClass) && hasClass(n, noTrucateFlag)
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
