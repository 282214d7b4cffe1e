// Package swagger serves the OpenAPI description of the status API.
package swagger

import (
	"context"
	"html/template"
	"net/http"
)

// DefaultRedocURL is the pinned ReDoc bundle the docs page loads. The
// YAML itself is always served locally, so /openapi.yaml stays usable
// offline even when the bundle cannot be fetched.
const DefaultRedocURL = "https://cdn.redoc.ly/redoc/v2.1.5/bundles/redoc.standalone.js"

type options struct {
	redocURL string
}

// Option configures Register.
type Option func(*options)

// WithRedocURL loads ReDoc from url instead of the public CDN, e.g. a copy
// hosted next to the service on an isolated network.
func WithRedocURL(url string) Option {
	return func(o *options) {
		if url != "" {
			o.redocURL = url
		}
	}
}

// Register attaches the API docs routes to mux.
// Routes:
//
//	GET /api-docs      -> ReDoc HTML
//	GET /openapi.yaml  -> Embedded OpenAPI spec
func Register(_ context.Context, mux *http.ServeMux, opts ...Option) {
	if mux == nil {
		panic("mux is nil")
	}
	o := options{redocURL: DefaultRedocURL}
	for _, opt := range opts {
		opt(&o)
	}

	mux.HandleFunc("/api-docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = indexTemplate.Execute(w, struct{ RedocURL string }{o.redocURL})
	})

	mux.HandleFunc("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	})
}

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>triplog API</title>
    <style>body{margin:0;padding:0}#fallback{font-family:sans-serif;padding:1em}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <p id="fallback" hidden>The API viewer could not be loaded. The raw description is at <a href="/openapi.yaml">/openapi.yaml</a>.</p>
    <noscript><p id="noscript">The raw API description is at <a href="/openapi.yaml">/openapi.yaml</a>.</p></noscript>
    <script src="{{.RedocURL}}" onerror="document.getElementById('fallback').hidden=false"></script>
    <script>if (window.Redoc) { Redoc.init('/openapi.yaml', { suppressWarnings: true }, document.getElementById('redoc-container')); }</script>
  </body>
</html>`))
