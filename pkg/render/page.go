package render

import (
	"embed"
	"io"
	"sync"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"
	"github.com/google/safehtml/uncheckedconversions"

	"github.com/vango-dev/dgrid/pkg/vdom"
)

//go:embed templates/*
var templateFS embed.FS

var (
	pageTemplate     *template.Template
	pageTemplateErr  error
	pageTemplateOnce sync.Once
)

func loadPageTemplate() (*template.Template, error) {
	pageTemplateOnce.Do(func() {
		trustedFS := template.TrustedFSFromEmbed(templateFS)
		pageTemplate, pageTemplateErr = template.New("page.html").ParseFS(trustedFS, "templates/page.html")
	})
	return pageTemplate, pageTemplateErr
}

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content.
	Body *vdom.VNode

	// Title is the page title.
	Title string

	// Live enables the websocket client that streams events back to the
	// server and swaps in re-rendered markup.
	Live bool
}

// pageView is the value handed to the page template.
type pageView struct {
	Title string
	Body  safehtml.HTML
	Live  bool
}

// RenderPage renders a complete HTML document around page.Body.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	tmpl, err := loadPageTemplate()
	if err != nil {
		return err
	}

	body, err := r.RenderToString(page.Body)
	if err != nil {
		return err
	}

	title := page.Title
	if title == "" {
		title = "dgrid"
	}

	return tmpl.Execute(w, pageView{
		Title: title,
		// The renderer escapes every text node and attribute value.
		Body: uncheckedconversions.HTMLFromStringKnownToSatisfyTypeContract(body),
		Live: page.Live,
	})
}
