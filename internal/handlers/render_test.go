package handlers

import (
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		notWant []string
	}{
		{name: "emphasis", in: "**bold** and *soft*", want: []string{"<strong>bold</strong>", "<em>soft</em>"}},
		{name: "hard wraps", in: "line one\nline two", want: []string{"line one<br>"}},
		{name: "raw html dropped", in: "hi <script>alert(1)</script>", notWant: []string{"<script>"}},
		{name: "list", in: "- go\n- sql", want: []string{"<li>go</li>", "<li>sql</li>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(renderMarkdown(tt.in))
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, out, w)
			}
		})
	}
}

func TestPageRenderer(t *testing.T) {
	r, err := newPageRenderer()
	require.NoError(t, err)

	for _, page := range []string{
		"login.html", "register.html", "user.html", "portfolio_form.html",
		"portfolio.html", "resume.html", "admin.html", "admin_edit.html", "error.html",
	} {
		assert.Contains(t, r.pages, page)
	}
	assert.NotContains(t, r.pages, "layout.html")
	assert.NotContains(t, r.pages, "_profile_form.html")

	assert.Panics(t, func() { r.Instance("missing.html", nil) })
}

func TestTemplateFuncs(t *testing.T) {
	lines := templateFuncs["lines"].(func(string) []string)
	assert.Equal(t, []string{"Go", "SQL"}, lines(" Go \n\n SQL\n"))

	safeURL := templateFuncs["safeURL"].(func(string) template.URL)
	assert.Equal(t, template.URL("data:image/jpeg;base64,AAAA"), safeURL("data:image/jpeg;base64,AAAA"))
	assert.Empty(t, safeURL("javascript:alert(1)"))
}
