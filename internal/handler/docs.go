package handler

import (
	"html/template"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
)

const openAPIRoute = "/openapi.yaml"

var docsPage = template.Must(template.New("docs").Parse(`<!doctype html>
<html>
  <head>
    <title>{{.Title}}</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.onload = () => {
        SwaggerUIBundle({ url: {{.SpecURL}}, dom_id: '#swagger-ui' });
      };
    </script>
  </body>
</html>`))

// DocsHandler serves the OpenAPI document at OpenAPIPath and a Swagger UI
// page that loads it.
type DocsHandler struct {
	OpenAPIPath string
	Title       string
}

func (h DocsHandler) RegisterRoutes(r chi.Router) {
	r.Get(openAPIRoute, h.serveDocument)
	r.Get("/docs", h.serveUI)
}

func (h DocsHandler) serveDocument(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(h.OpenAPIPath); err != nil {
		writeError(w, http.StatusNotFound, "api document not available")
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	http.ServeFile(w, r, h.OpenAPIPath)
}

func (h DocsHandler) serveUI(w http.ResponseWriter, r *http.Request) {
	title := h.Title
	if title == "" {
		title = "Cosmetic POS API Docs"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = docsPage.Execute(w, struct{ Title, SpecURL string }{title, openAPIRoute})
}
