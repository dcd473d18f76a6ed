package hxtag

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/a-h/templ"
)

// TagMode controls how an Output's element tags are written.
type TagMode int

const (
	// TagModeStartTagAndEndTag writes <tag ...>content</tag>.
	TagModeStartTagAndEndTag TagMode = iota
	// TagModeStartTagOnly writes <tag ...> with no content or end tag.
	// Use for void elements such as input or br.
	TagModeStartTagOnly
	// TagModeSelfClosing writes <tag ... />.
	TagModeSelfClosing
)

// Context is the read side of an element being processed: what the
// document author wrote.
type Context struct {
	// Element is the element name as written, including any "!" prefix.
	Element string

	// Attributes are the attributes written on the element. Helpers should
	// treat them as read-only and modify Output.Attributes instead.
	Attributes templ.Attributes

	// Items carries values between helpers running on the same element.
	Items map[any]any
}

// Output is the element being produced. Every helper matching the element
// receives the same Output in turn.
type Output struct {
	TagName    string
	Attributes templ.Attributes
	TagMode    TagMode

	PreContent  templ.Component
	Content     templ.Component
	PostContent templ.Component

	suppressed bool
}

func newOutput(tagName string, attrs templ.Attributes, content templ.Component) *Output {
	return &Output{
		TagName:    tagName,
		Attributes: cloneAttributes(attrs),
		Content:    content,
	}
}

// SuppressOutput discards the element and all of its content.
func (o *Output) SuppressOutput() {
	o.suppressed = true
}

// IsSuppressed reports whether SuppressOutput was called.
func (o *Output) IsSuppressed() bool {
	return o.suppressed
}

// Component returns a templ component writing the element in its current
// state. An empty TagName writes the content without surrounding tags.
func (o *Output) Component() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if o.suppressed {
			return nil
		}

		if o.TagName != "" {
			if err := validateOutputTagName(o.TagName); err != nil {
				return err
			}
			if err := writeStartTag(w, o.TagName, o.Attributes, o.TagMode == TagModeSelfClosing); err != nil {
				return err
			}
			if o.TagMode != TagModeStartTagAndEndTag {
				return nil
			}
		}

		for _, c := range []templ.Component{o.PreContent, o.Content, o.PostContent} {
			if c == nil {
				continue
			}
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}

		if o.TagName != "" {
			_, err := io.WriteString(w, "</"+o.TagName+">")
			return err
		}
		return nil
	})
}

// validateOutputTagName rejects names that would break out of the tag when
// written verbatim.
func validateOutputTagName(name string) error {
	if strings.ContainsAny(name, "<>\"'/=& \t\n\r\f") {
		return &ArgumentError{Param: "TagName", Value: name, Reason: "invalid tag name"}
	}
	return nil
}

// writeStartTag writes the opening tag with attributes in sorted key order.
// true booleans are written as bare attributes; false booleans and nil
// values are omitted.
func writeStartTag(w io.Writer, name string, attrs templ.Attributes, selfClosing bool) error {
	if _, err := io.WriteString(w, "<"+name); err != nil {
		return err
	}
	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		var s string
		switch v := attrs[key].(type) {
		case nil:
			continue
		case bool:
			if !v {
				continue
			}
			s = " " + templ.EscapeString(key)
		case string:
			s = fmt.Sprintf(` %s="%s"`, templ.EscapeString(key), templ.EscapeString(v))
		default:
			s = fmt.Sprintf(` %s="%s"`, templ.EscapeString(key), templ.EscapeString(fmt.Sprint(v)))
		}
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
	}
	end := ">"
	if selfClosing {
		end = " />"
	}
	_, err := io.WriteString(w, end)
	return err
}

func cloneAttributes(attrs templ.Attributes) templ.Attributes {
	out := make(templ.Attributes, len(attrs))
	maps.Copy(out, attrs)
	return out
}

// Text returns a templ component that writes s, escaped.
func Text(s string) templ.Component {
	return templ.Raw(templ.EscapeString(s))
}
