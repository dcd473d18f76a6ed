package hxtag

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/a-h/templ"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestOutput_Component(t *testing.T) {
	tests := []struct {
		name string
		out  *Output
		want string
	}{
		{
			name: "element with content",
			out:  &Output{TagName: "p", Content: Text("hi")},
			want: "<p>hi</p>",
		},
		{
			name: "sorted attributes",
			out:  &Output{TagName: "a", Attributes: templ.Attributes{"href": "/x", "class": "btn"}},
			want: `<a class="btn" href="/x"></a>`,
		},
		{
			name: "boolean and nil attributes",
			out:  &Output{TagName: "input", TagMode: TagModeStartTagOnly, Attributes: templ.Attributes{"disabled": true, "hidden": false, "value": nil}},
			want: "<input disabled>",
		},
		{
			name: "self closing",
			out:  &Output{TagName: "br", TagMode: TagModeSelfClosing},
			want: "<br />",
		},
		{
			name: "non-string value",
			out:  &Output{TagName: "td", Attributes: templ.Attributes{"colspan": 2}},
			want: `<td colspan="2"></td>`,
		},
		{
			name: "escaped attribute",
			out:  &Output{TagName: "div", Attributes: templ.Attributes{"title": `"><script>`}},
			want: `<div title="&#34;&gt;&lt;script&gt;"></div>`,
		},
		{
			name: "pre and post content",
			out:  &Output{TagName: "li", PreContent: Text("["), Content: Text("x"), PostContent: Text("]")},
			want: "<li>[x]</li>",
		},
		{
			name: "no tag name writes content only",
			out:  &Output{Content: Text("bare")},
			want: "bare",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderString(t, tt.out.Component()); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutput_Suppress(t *testing.T) {
	out := &Output{TagName: "div", Content: Text("gone")}
	out.SuppressOutput()

	if !out.IsSuppressed() {
		t.Error("IsSuppressed() = false after SuppressOutput()")
	}
	if got := renderString(t, out.Component()); got != "" {
		t.Errorf("suppressed output rendered %q", got)
	}
}

func TestOutput_ContentError(t *testing.T) {
	boom := errors.New("boom")
	out := &Output{TagName: "div", Content: templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return boom
	})}

	err := out.Component().Render(context.Background(), io.Discard)
	if !errors.Is(err, boom) {
		t.Errorf("Render() error = %v, want %v", err, boom)
	}
}

func TestRegistry_Render(t *testing.T) {
	reg := NewRegistry()
	links, _ := NewElementNames("a", []string{"area"})
	_ = reg.Register("ExternalLink", &mockHelper{process: func(tc *Context, out *Output) {
		out.Attributes["rel"] = "noopener"
		out.Attributes["target"] = "_blank"
	}}, links)

	result, err := TestRender(reg, "a", templ.Attributes{"href": "https://example.com"}, Text("docs"))
	if err != nil {
		t.Fatalf("TestRender() error = %v", err)
	}

	want := `<a href="https://example.com" rel="noopener" target="_blank">docs</a>`
	if result.HTML != want {
		t.Errorf("HTML = %q, want %q", result.HTML, want)
	}
	if !result.Ran("ExternalLink") {
		t.Error("ExternalLink should have run")
	}
}

func TestRegistry_RenderSharedOutput(t *testing.T) {
	reg := NewRegistry()
	card, _ := NewElementName("card")

	_ = reg.Register("Card", &mockHelper{process: func(tc *Context, out *Output) {
		out.TagName = "div"
		out.Attributes["class"] = "card"
		tc.Items["seen"] = true
	}}, card)
	_ = reg.Register("CardTitle", &mockHelper{process: func(tc *Context, out *Output) {
		if tc.Items["seen"] == true {
			out.PreContent = Text(tc.Attributes["title"].(string))
		}
	}}, card)

	result, err := TestRender(reg, "card", templ.Attributes{"title": "Hello"}, Text(" body"))
	if err != nil {
		t.Fatal(err)
	}
	if !result.HTMLContainsAll(`<div class="card" title="Hello">`, "Hello body", "</div>") {
		t.Errorf("unexpected HTML: %s", result.HTML)
	}
}

func TestRegistry_RenderOptOut(t *testing.T) {
	reg := NewRegistry()
	helper := &mockHelper{process: func(tc *Context, out *Output) { out.SuppressOutput() }}
	_ = reg.Register("Hide", helper, mustElementName(t, "div"))

	result, err := TestRender(reg, "!div", templ.Attributes{"id": "x"}, Text("kept"))
	if err != nil {
		t.Fatal(err)
	}
	if result.HTML != `<div id="x">kept</div>` {
		t.Errorf("HTML = %q", result.HTML)
	}
	if helper.calls != 0 {
		t.Errorf("opted-out element ran %d helpers", helper.calls)
	}
}

func TestRegistry_RenderNoHelpers(t *testing.T) {
	result, err := TestRender(NewRegistry(), "span", nil, Text("<plain>"))
	if err != nil {
		t.Fatal(err)
	}
	if result.HTML != "<span>&lt;plain&gt;</span>" {
		t.Errorf("HTML = %q", result.HTML)
	}
	if len(result.Matched) != 0 {
		t.Errorf("Matched = %q", result.Matched)
	}
}

func TestRegistry_RenderHelperError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	reg := NewRegistry(WithLogger(zap.New(core)))

	boom := errors.New("boom")
	second := &mockHelper{}
	_ = reg.Register("Failing", &mockHelper{err: boom}, mustElementName(t, "div"))
	_ = reg.Register("Second", second, mustElementName(t, "div"))

	_, err := TestRender(reg, "div", nil, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("TestRender() error = %v, want %v", err, boom)
	}
	if got := err.Error(); got != "hxtag: Failing: boom" {
		t.Errorf("error = %q", got)
	}
	if second.calls != 0 {
		t.Error("processing should stop at the first error")
	}
	if logs.FilterField(zap.String("component", "Failing")).Len() != 1 {
		t.Error("expected an error log for the failing helper")
	}
}

func TestRegistry_RenderDoesNotMutateInput(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register("Mutator", &mockHelper{process: func(tc *Context, out *Output) {
		out.Attributes["added"] = "yes"
	}}, mustElementName(t, "div"))

	attrs := templ.Attributes{"id": "x"}
	if _, err := TestRender(reg, "div", attrs, nil); err != nil {
		t.Fatal(err)
	}
	if _, ok := attrs["added"]; ok {
		t.Error("caller's attributes were modified")
	}
}

func TestTagHelperFunc(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register("Upper", TagHelperFunc(func(ctx context.Context, tc *Context, out *Output) error {
		out.TagName = "strong"
		return nil
	}), mustElementName(t, "b"))

	result, err := TestRender(reg, "b", nil, Text("x"))
	if err != nil {
		t.Fatal(err)
	}
	if result.HTML != "<strong>x</strong>" {
		t.Errorf("HTML = %q", result.HTML)
	}
}

func TestOutput_InvalidTagName(t *testing.T) {
	tests := []string{
		`div onclick="x"`,
		"a><script>",
		"p/",
		"x\ty",
	}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			err := (&Output{TagName: name, Content: Text("x")}).Component().Render(context.Background(), &buf)
			if !IsInvalidArgument(err) {
				t.Fatalf("Render() error = %v, want ErrInvalidArgument", err)
			}
			if buf.Len() != 0 {
				t.Errorf("invalid tag name wrote %q", buf.String())
			}
		})
	}
}

func TestRegistry_RenderRejectsInjectedTagName(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register("Bad", &mockHelper{process: func(tc *Context, out *Output) {
		out.TagName = "div><script>alert(1)</script"
	}}, mustElementName(t, "div"))

	if _, err := TestRender(reg, "div", nil, nil); !IsInvalidArgument(err) {
		t.Errorf("TestRender() error = %v, want ErrInvalidArgument", err)
	}
}
