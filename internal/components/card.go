// Package components holds stateless presentation fragments.
package components

import (
	"bytes"
	"html/template"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

var cardTemplate = template.Must(template.New("card").Parse(
	`<div class="card" data-key="{{.ID}}"><h4>{{.Name}}</h4><p>{{.Price}}</p></div>`,
))

// Card renders one product as an HTML fragment showing its name and price.
// Missing fields render as empty elements.
func Card(p models.Product) template.HTML {
	var buf bytes.Buffer
	// Executing a parsed template over plain strings cannot fail
	_ = cardTemplate.Execute(&buf, p)
	return template.HTML(buf.String())
}
