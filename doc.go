// Package hxtag provides tag helpers for server-rendered Go applications
// built with Templ.
//
// A tag helper is a component that takes part in rendering every element
// whose name it targets. Helpers can rewrite attributes, wrap or replace
// content, or suppress an element.
//
// # Element Names
//
// By default a helper targets the element named after its type:
// AnchorTagHelper targets <anchor>, InputGroupTagHelper targets
// <input-group> (see ConventionName). An ElementName declaration overrides
// the convention:
//
//	links, err := hxtag.NewElementNames("a", []string{"area"})
//	if err != nil {
//	    return err
//	}
//	reg.Register("ExternalLink", &ExternalLinkTagHelper{}, links)
//
// Declarations are validated when constructed and immutable afterwards.
// The name "!" is reserved: in a document, a leading "!" opts an element out
// of tag helper processing (<!a> renders as a plain <a>), so no declaration
// may target it. "*" targets every element.
//
// # Registration
//
// Helpers are registered explicitly with a Registry. There is no discovery
// and no init() side effects:
//
//	reg := hxtag.NewRegistry(hxtag.WithLogger(logger))
//	reg.Add(&CardTagHelper{}, &BadgeTagHelper{})
//
// Element names may also be overridden from a YAML file (lib/config) and
// pinned in a signed manifest (lib/manifest).
//
// # Rendering
//
// Registry.Render runs the helpers matching one element and returns a
// templ.Component:
//
//	@reg.Render("a", templ.Attributes{"href": url}, hxtag.Text("docs"))
//
// Element names match case-insensitively. Helpers run in Order, then
// registration order, and share a single Output.
package hxtag
