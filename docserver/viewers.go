package docserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"maps"
)

// pageData is rendered into every viewer template.
type pageData struct {
	Title   string
	SpecURL string
	Options template.JS
}

var viewerTemplates = map[Viewer]*template.Template{
	ViewerSwaggerUI: template.Must(template.New("swagger-ui").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
  <script>
    window.onload = function () {
      window.ui = SwaggerUIBundle({{.Options}});
    };
  </script>
</body>
</html>
`)),
	ViewerRedoc: template.Must(template.New("redoc").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>body { margin: 0; padding: 0; }</style>
</head>
<body>
  <redoc spec-url="{{.SpecURL}}"></redoc>
  <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>
`)),
	ViewerRapiDoc: template.Must(template.New("rapidoc").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <script type="module" src="https://unpkg.com/rapidoc/dist/rapidoc-min.js"></script>
</head>
<body>
  <rapi-doc spec-url="{{.SpecURL}}"></rapi-doc>
</body>
</html>
`)),
	ViewerScalar: template.Must(template.New("scalar").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
</head>
<body>
  <div id="app"></div>
  <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
  <script>
    Scalar.createApiReference('#app', {{.Options}});
  </script>
</body>
</html>
`)),
}

// renderViewer renders the page for v. The document is always loaded from
// specURL; the page never embeds it.
func renderViewer(v Viewer, title, specURL string, swaggerOptions map[string]any) ([]byte, error) {
	tmpl, ok := viewerTemplates[v]
	if !ok {
		return nil, fmt.Errorf("docserver: no template for viewer %q", v)
	}

	var options map[string]any
	switch v {
	case ViewerSwaggerUI:
		options = map[string]any{"dom_id": "#swagger-ui", "deepLinking": true}
		maps.Copy(options, swaggerOptions)
		options["url"] = specURL
	case ViewerScalar:
		options = map[string]any{"url": specURL}
	}
	data := pageData{Title: title, SpecURL: specURL}
	if options != nil {
		encoded, err := json.Marshal(options)
		if err != nil {
			return nil, fmt.Errorf("docserver: encode %s options: %w", v, err)
		}
		data.Options = template.JS(encoded)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("docserver: render %s: %w", v, err)
	}
	return buf.Bytes(), nil
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
</head>
<body>
  <h1>{{.Title}}</h1>
  <ul>
{{- range .Links}}
    <li><a href="{{.Href}}">{{.Name}}</a></li>
{{- end}}
  </ul>
</body>
</html>
`))

type indexLink struct {
	Name string
	Href string
}

func renderIndex(title string, links []indexLink) ([]byte, error) {
	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, struct {
		Title string
		Links []indexLink
	}{title, links})
	if err != nil {
		return nil, fmt.Errorf("docserver: render index: %w", err)
	}
	return buf.Bytes(), nil
}
