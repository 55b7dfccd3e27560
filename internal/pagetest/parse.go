// Package pagetest parses rendered storefront pages for assertions in tests.
package pagetest

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// Card is one parsed product card
type Card struct {
	Key   string
	Name  string
	Price string
}

// Link is one parsed anchor
type Link struct {
	Href  string
	Label string
}

// Page is the parsed structure of a rendered page
type Page struct {
	Heading string
	Cards   []Card
	Links   []Link
}

// Parse extracts headings, cards and links from an HTML document, failing
// the test if it cannot be parsed
func Parse(t *testing.T, doc string) Page {
	t.Helper()

	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("failed to parse page: %v", err)
	}

	var page Page
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "div" && hasClass(n, "card"):
				page.Cards = append(page.Cards, parseCard(n))
				return
			case (n.Data == "h2" || n.Data == "h3") && page.Heading == "":
				page.Heading = text(n)
			case n.Data == "a":
				page.Links = append(page.Links, Link{Href: attr(n, "href"), Label: text(n)})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return page
}

func parseCard(n *html.Node) Card {
	card := Card{Key: attr(n, "data-key")}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "h4":
			card.Name = text(c)
		case "p":
			card.Price = text(c)
		}
	}
	return card
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
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
	return strings.TrimSpace(sb.String())
}
