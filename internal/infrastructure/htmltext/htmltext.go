package htmltext

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

type Config struct {
	TagsToRemove  []string
	MaxOutputSize int
}

var DefaultConfig = Config{
	TagsToRemove: []string{
		"script", "style", "noscript", "svg", "iframe",
		"link", "meta", "head", "title",
	},
	MaxOutputSize: 4000,
}

// PlainText strips markup from a search snippet and returns its readable
// text with whitespace collapsed. Input without markup comes back trimmed.
func PlainText(raw string, cfg *Config) string {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	if !strings.ContainsAny(raw, "<&") {
		return truncate(collapse(raw), cfg.MaxOutputSize)
	}

	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return truncate(collapse(raw), cfg.MaxOutputSize)
	}

	var sb strings.Builder
	collectText(doc, cfg, &sb)
	return truncate(collapse(sb.String()), cfg.MaxOutputSize)
}

func collectText(n *html.Node, cfg *Config, sb *strings.Builder) {
	switch n.Type {
	case html.CommentNode:
		return
	case html.TextNode:
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
		return
	case html.ElementNode:
		if isOneOf(n.Data, cfg.TagsToRemove...) {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, cfg, sb)
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, maxSize int) string {
	if maxSize <= 0 || len(s) <= maxSize {
		return s
	}
	for maxSize > 0 && !utf8.RuneStart(s[maxSize]) {
		maxSize--
	}
	return s[:maxSize] + "..."
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
