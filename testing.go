package hxtag

import (
	"bytes"
	"context"
	"strings"

	"github.com/a-h/templ"
)

// TestResult holds the result of rendering an element for testing.
type TestResult struct {
	HTML    string
	Matched []string // names of the helpers that ran, in order
}

// TestRender runs the registry's tag helpers for one element and returns
// testable output.
//
//	result, err := hxtag.TestRender(reg, "a", templ.Attributes{"href": "/x"}, nil)
//	if !result.HTMLContains(`rel="noopener"`) {
//	    t.Fatal("missing rel attribute")
//	}
func TestRender(reg *Registry, element string, attrs templ.Attributes, children templ.Component) (*TestResult, error) {
	return TestRenderWithContext(context.Background(), reg, element, attrs, children)
}

// TestRenderWithContext is TestRender with a caller-supplied context, for
// helpers that read request-scoped values.
func TestRenderWithContext(ctx context.Context, reg *Registry, element string, attrs templ.Attributes, children templ.Component) (*TestResult, error) {
	var buf bytes.Buffer
	if err := reg.Render(element, attrs, children).Render(ctx, &buf); err != nil {
		return nil, err
	}

	var names []string
	for _, d := range reg.Match(element) {
		names = append(names, d.Name)
	}

	return &TestResult{
		HTML:    buf.String(),
		Matched: names,
	}, nil
}

// HTMLContains checks if the rendered HTML contains substr.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the rendered HTML contains every substring.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HTMLContainsAny checks if the rendered HTML contains at least one substring.
func (r *TestResult) HTMLContainsAny(substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(r.HTML, s) {
			return true
		}
	}
	return false
}

// Ran reports whether the named helper matched the element.
func (r *TestResult) Ran(name string) bool {
	for _, n := range r.Matched {
		if n == name {
			return true
		}
	}
	return false
}
