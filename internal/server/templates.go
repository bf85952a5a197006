package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed templates
var templateFS embed.FS

var pageNames = []string{"home", "letter", "guestbook", "menu", "upload", "notfound"}

type navLink struct {
	Path  string
	Label string
}

var nav = []navLink{
	{"/", "Home"},
	{"/letter", "Letter"},
	{"/guestbook", "Guestbook"},
	{"/menu", "Menu"},
	{"/upload", "Upload"},
}

// renderer holds one parsed template set per page, each combining the shared
// layout with the page's "content" block.
type renderer struct {
	pages map[string]*template.Template
	home  template.HTML
}

func newRenderer() (*renderer, error) {
	r := &renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New("layout.html").ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		r.pages[name] = t
	}

	src, err := templateFS.ReadFile("templates/home.md")
	if err != nil {
		return nil, fmt.Errorf("reading home page: %w", err)
	}
	home, err := renderMarkdown(src)
	if err != nil {
		return nil, err
	}
	r.home = home
	return r, nil
}

// renderMarkdown converts trusted, embedded markdown to HTML.
func renderMarkdown(src []byte) (template.HTML, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func (r *renderer) render(w io.Writer, page string, data *pageData) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	data.Nav = nav
	return t.Execute(w, data)
}
