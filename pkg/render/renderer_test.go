package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vango-dev/dgrid/pkg/vdom"
)

func TestRenderText(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(vdom.Text("Hello, World!"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "Hello, World!" {
		t.Errorf("got %q, want %q", html, "Hello, World!")
	}
}

func TestRenderTextEscaping(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(vdom.Td(vdom.Text("<script>alert('xss')</script>")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("HTML should be escaped, got %q", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("should contain escaped script tag, got %q", html)
	}
}

func TestRenderTable(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Table(vdom.Class("grid"),
		vdom.Tbody(
			vdom.Tr(vdom.Role("row"), vdom.Key("1"),
				vdom.Td(vdom.Text("a")),
				vdom.Td(vdom.Text("b")),
			),
		),
	)
	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<table class="grid"><tbody><tr role="row"><td>a</td><td>b</td></tr></tbody></table>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderAttributesSorted(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Th(vdom.Scope("col"), vdom.AriaSort("ascending"), vdom.Class("h"))
	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<th aria-sort="ascending" class="h" scope="col"></th>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderVoidAndBoolean(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Input(vdom.Type("text"), vdom.Disabled(), vdom.Value(""))
	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<input disabled type="text" value="">`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderAttributeEscaping(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(vdom.Div(vdom.TitleAttr("a\"b\nc")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "a\"b") {
		t.Errorf("quote should be escaped, got %q", html)
	}
	if !strings.Contains(html, "&#10;") {
		t.Errorf("newline should be encoded, got %q", html)
	}
}

func TestRenderHydrationMarkers(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Div(
		vdom.Button(vdom.OnClick(func() {}), vdom.Text("next")),
		vdom.Input(vdom.OnChange(func(string) {})),
	)
	vdom.AssignHIDs(node, vdom.NewHIDGenerator())

	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		`<button data-hid="h1" data-on-click="true">next</button>`,
		`<input data-hid="h2" data-on-change="true">`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q in %q", want, html)
		}
	}
}

func TestRenderComponentAndFragment(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	comp := vdom.Func(func() *vdom.VNode {
		return vdom.Fragment(vdom.Span(vdom.Text("x")), "y")
	})
	html, err := renderer.RenderToString(vdom.Div(comp))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "<div><span>x</span>y</div>" {
		t.Errorf("got %q", html)
	}
}

func TestRenderPretty(t *testing.T) {
	renderer := NewRenderer(RendererConfig{Pretty: true})

	html, err := renderer.RenderToString(vdom.Tr(vdom.Td(vdom.Text("a"))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "\n  <td>a</td>\n") {
		t.Errorf("expected indented child, got %q", html)
	}
}

func TestRenderPage(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	var buf bytes.Buffer
	err := renderer.RenderPage(&buf, PageData{
		Title: "People & Places",
		Body:  vdom.Div(vdom.Class("dgrid"), vdom.Text("<b>")),
		Live:  true,
	})
	if err != nil {
		t.Fatalf("RenderPage error: %v", err)
	}
	html := buf.String()

	if !strings.HasPrefix(html, "<!DOCTYPE html>") {
		t.Errorf("expected doctype, got %q", html[:20])
	}
	if !strings.Contains(html, `<div id="dgrid-root"><div class="dgrid">&lt;b&gt;</div></div>`) {
		t.Errorf("body not embedded verbatim: %s", html)
	}
	if !strings.Contains(html, "People &amp; Places") {
		t.Errorf("title not escaped: %s", html)
	}
	if !strings.Contains(html, "new WebSocket") {
		t.Error("live page should include the client script")
	}
}

func TestRenderPageStatic(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	var buf bytes.Buffer
	if err := renderer.RenderPage(&buf, PageData{Body: vdom.Div()}); err != nil {
		t.Fatalf("RenderPage error: %v", err)
	}
	if strings.Contains(buf.String(), "new WebSocket") {
		t.Error("static page should not include the client script")
	}
	if !strings.Contains(buf.String(), "<title>dgrid</title>") {
		t.Error("expected default title")
	}
}
