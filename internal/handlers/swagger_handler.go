package handlers

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed openapi.yaml
var embeddedSpec []byte

const specRoute = "/openapi.yaml"

// SwaggerHandler serves the account API reference. The document compiled
// into the binary is used unless specPath names a file.
type SwaggerHandler struct {
	specPath string
	page     []byte
}

func NewSwaggerHandler(specPath string) *SwaggerHandler {
	var page bytes.Buffer
	docsPage.Execute(&page, struct {
		Title   string
		SpecURL string
	}{
		Title:   "Accounts API",
		SpecURL: specRoute,
	})
	return &SwaggerHandler{specPath: specPath, page: page.Bytes()}
}

func (h *SwaggerHandler) ServeSwaggerUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(h.page)
}

func (h *SwaggerHandler) ServeSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	if h.specPath != "" {
		http.ServeFile(w, r, h.specPath)
		return
	}
	w.Write(embeddedSpec)
}

func (h *SwaggerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/docs", h.ServeSwaggerUI)
	r.Get("/docs/", h.ServeSwaggerUI)
	r.Get(specRoute, h.ServeSpec)
}

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css">
  <style>body { margin: 0; } .swagger-ui .topbar { display: none; }</style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function () {
      window.ui = SwaggerUIBundle({
        url: {{.SpecURL}},
        dom_id: "#swagger-ui",
        persistAuthorization: true
      });
    };
  </script>
</body>
</html>`))
