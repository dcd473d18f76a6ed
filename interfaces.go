package hxtag

import "context"

// TagHelper is implemented by components that take part in rendering an
// element whose name they target.
//
// Process receives the element's context and the output being built. It may
// rewrite the tag name and attributes, wrap or replace content, or suppress
// the element entirely:
//
//	func (h *ExternalLinkTagHelper) Process(ctx context.Context, tc *hxtag.Context, out *hxtag.Output) error {
//	    out.Attributes["target"] = "_blank"
//	    out.Attributes["rel"] = "noopener"
//	    return nil
//	}
//
// Helpers matching the same element share one Output and run in order (see
// Orderer). Returning an error stops processing for that element.
type TagHelper interface {
	Process(ctx context.Context, tc *Context, out *Output) error
}

// Orderer is optionally implemented by tag helpers that need to run before
// or after others on the same element. Lower values run first; helpers
// without an Order run at 0. Ties keep registration order.
type Orderer interface {
	Order() int
}

// TagHelperFunc adapts a function to the TagHelper interface.
type TagHelperFunc func(ctx context.Context, tc *Context, out *Output) error

// Process calls f.
func (f TagHelperFunc) Process(ctx context.Context, tc *Context, out *Output) error {
	return f(ctx, tc, out)
}
