package pages

import (
	"fmt"
	"html/template"
	"io"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/components"
)

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"card": components.Card,
	"heading": func(level int, text string) template.HTML {
		if level < 1 || level > 6 {
			level = 2
		}
		return template.HTML(fmt.Sprintf("<h%d>%s</h%d>", level, template.HTMLEscapeString(text), level))
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Heading}}</title>
<style>.card { border: 1px solid; }</style>
</head>
<body>
<div>
{{heading .HeadingLevel .Heading}}
{{range .Cards}}{{card .}}
{{end}}<a href="{{.Link.To}}">{{.Link.Label}}</a>
</div>
</body>
</html>
`))

// Render writes the view as a complete HTML document
func (v View) Render(w io.Writer) error {
	if err := pageTemplate.Execute(w, v); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

// Render writes the instance's current view
func (p *Instance) Render(w io.Writer) error {
	return p.View().Render(w)
}
