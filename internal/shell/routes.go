// Package shell implements the two-route navigation surface.
package shell

import (
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/pages"
)

var (
	ErrUnknownRoute = errors.New("unknown route")
)

// Route maps a path to the page mounted there
type Route struct {
	Path string
	Page pages.Definition
}

// Routes is the declarative route table: no guards, redirects or params
var Routes = []Route{
	{Path: pages.Home.Route, Page: pages.Home},
	{Path: pages.Browse.Route, Page: pages.Browse},
}

// Lookup finds the page for path by exact match
func Lookup(path string) (pages.Definition, error) {
	for _, r := range Routes {
		if r.Path == path {
			return r.Page, nil
		}
	}
	return pages.Definition{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
}
