package frontend

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"

	"github.com/gin-gonic/gin"
)

// Page names.
const (
	PageIndex       = "index"
	PageUnavailable = "unavailable"
	PageError       = "error"
)

// Result is the rendered outcome of one assessment.
type Result struct {
	Finding     string
	High        bool
	Probability string
	Gauge       Gauge
}

// PageData is passed to every page template.
type PageData struct {
	Nonce     string
	RequestID string
	Form      *Form
	Result    *Result
	// Alert is a visible failure shown above the form.
	Alert string
	// Message is the body of the blocking error pages.
	Message string
}

// Renderer executes the embedded page templates inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	return newRenderer(templateFS)
}

func newRenderer(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{PageIndex, PageUnavailable, PageError} {
		tmpl, err := template.ParseFS(fsys, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// Render writes page with status. Output is buffered so a template error
// never leaves a half-written response.
func (r *Renderer) Render(c *gin.Context, status int, page string, data PageData) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
	return nil
}
