package fetch

import (
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	// maxContentBytes caps extracted text so a single page cannot flood
	// the cache or an MCP client.
	maxContentBytes = 100 << 10

	truncationNote = "\n\n[Content truncated]"
)

var (
	blankRunPattern = regexp.MustCompile(`\n\s*\n\s*\n`)
	spaceRunPattern = regexp.MustCompile(`[ \t]+`)
)

// extractText parses an HTML page and returns the readable text of its main
// content region. Selectors are tried in order; the first one matching at
// least one node wins, falling back to the document body. Script, style and
// chrome elements are dropped.
func extractText(r io.Reader, selectors []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	content := pickContent(doc, selectors)
	content.Find("script, style, nav, footer, header").Remove()

	return cleanupText(selectionText(content)), nil
}

// pickContent returns the first node matched by the first selector that
// matches anything, or the document body.
func pickContent(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if found := doc.Find(sel); found.Length() > 0 {
			return found.First()
		}
	}
	return doc.Find("body").First()
}

// selectionText flattens a selection to text, one line per text node.
// Whitespace-only nodes are dropped.
func selectionText(sel *goquery.Selection) string {
	var parts []string
	for _, node := range sel.Nodes {
		collectText(node, &parts)
	}
	return strings.Join(parts, "\n")
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// cleanupText collapses runs of blank lines to a single blank line and runs
// of spaces and tabs to a single space.
func cleanupText(s string) string {
	s = blankRunPattern.ReplaceAllString(s, "\n\n")
	s = spaceRunPattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// truncateText cuts s at limit bytes without splitting a rune, reporting
// whether anything was dropped.
func truncateText(s string, limit int) (string, bool) {
	if len(s) <= limit {
		return s, false
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}
