package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/folio-hub/portfolio-service/internal/models"
	"github.com/folio-hub/portfolio-service/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutTemplate = "layout.html"

// mdRenderer escapes raw HTML in its input (WithUnsafe is not set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

var templateFuncs = template.FuncMap{
	"markdown":    renderMarkdown,
	"statusLabel": func(s models.ProfileStatus) string { return services.StatusLabel(s) },
	"lines": func(s string) []string {
		var out []string
		for _, line := range strings.Split(s, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
		return out
	},
	"safeURL": func(s string) template.URL {
		// only data URIs produced by the photo normalizer reach img src
		if strings.HasPrefix(s, "data:image/jpeg;base64,") {
			return template.URL(s)
		}
		return ""
	},
	"year": func() int { return time.Now().Year() },
}

// pageRenderer holds one template set per page, each combining the shared
// layout and partials with that page's blocks.
type pageRenderer struct {
	pages map[string]*template.Template
}

var _ render.HTMLRender = (*pageRenderer)(nil)

func newPageRenderer() (*pageRenderer, error) {
	base, err := template.New(layoutTemplate).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/_*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &pageRenderer{pages: make(map[string]*template.Template)}
	for _, file := range files {
		name := path.Base(file)
		if name == layoutTemplate || strings.HasPrefix(name, "_") {
			continue
		}
		t, err := template.Must(base.Clone()).ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Instance implements render.HTMLRender. Unknown pages panic, which
// gin.Recovery turns into a 500.
func (r *pageRenderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		panic(fmt.Sprintf("unknown page template %q", name))
	}
	return render.HTML{Template: t, Name: layoutTemplate, Data: data}
}
