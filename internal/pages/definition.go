// Package pages composes the fetch primitive and the card renderer into the
// two storefront pages.
package pages

// ProductsLocator is the resource both pages read from
const ProductsLocator = "/api/products.json"

// Link is a navigation link to a sibling page
type Link struct {
	To    string
	Label string
}

// Definition describes one page: where it lives, what it fetches and what
// static chrome surrounds the cards
type Definition struct {
	Name    string
	Route   string
	Heading string
	// HeadingLevel is the HTML heading rank, 2 for <h2>
	HeadingLevel int
	Locator      string
	Link         Link
}

var (
	// Home is the landing page at /
	Home = Definition{
		Name:         "home",
		Route:        "/",
		Heading:      "Homepage",
		HeadingLevel: 2,
		Locator:      ProductsLocator,
		Link:         Link{To: "/products", Label: "Browse products"},
	}

	// Browse is the product listing at /products
	Browse = Definition{
		Name:         "browse",
		Route:        "/products",
		Heading:      "Browse products",
		HeadingLevel: 3,
		Locator:      ProductsLocator,
		Link:         Link{To: "/", Label: "Home"},
	}
)
