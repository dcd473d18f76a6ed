package hxtag

import (
	"slices"
	"strings"
)

// OptOut is the reserved element name. In a document, an element written
// with a leading "!" is excluded from tag helper processing, so no
// declaration may claim it.
const OptOut = "!"

// CatchAll targets every element.
const CatchAll = "*"

// ElementName overrides a tag helper's conventional element name.
//
// A component with no ElementName is bound to the name derived from its
// type (see ConventionName). Attaching one or more declarations at
// registration replaces that convention:
//
//	anchor, err := hxtag.NewElementNames("a", []string{"area"})
//	reg.Register("Anchor", &AnchorTagHelper{}, anchor)
//
// An ElementName is immutable once constructed. Only the constructors
// produce usable values; a zero ElementName is rejected by Registry.Register.
type ElementName struct {
	tags []string
}

// NewElementName declares a single target element.
func NewElementName(tag string) (*ElementName, error) {
	return newElementName(&tag, nil, false)
}

// NewElementNames declares a primary element plus additional elements.
// The stored order is additionalTags as given, followed by tag.
// additionalTags must not be nil; pass an empty slice for none.
func NewElementNames(tag string, additionalTags []string) (*ElementName, error) {
	if additionalTags == nil {
		return newElementName(&tag, nil, true)
	}
	ptrs := make([]*string, len(additionalTags))
	for i := range additionalTags {
		ptrs[i] = &additionalTags[i]
	}
	return newElementName(&tag, ptrs, true)
}

// newElementName is the single validation path for every declaration,
// including those decoded from config files and manifests, where entries
// may be missing. withAdditional selects the multi-tag form, in which a nil
// additionalTags container is an error.
func newElementName(tag *string, additionalTags []*string, withAdditional bool) (*ElementName, error) {
	if tag == nil {
		return nil, &ArgumentError{Param: "tag", Reason: "cannot be nil"}
	}

	var all []string
	if withAdditional {
		if additionalTags == nil {
			return nil, &ArgumentError{Param: "additionalTags", Reason: "cannot be nil"}
		}
		if slices.Contains(additionalTags, nil) {
			return nil, &ArgumentError{
				Param:  "additionalTags",
				Reason: "cannot contain a nil entry",
			}
		}
		all = make([]string, 0, len(additionalTags)+1)
		for _, t := range additionalTags {
			all = append(all, *t)
		}
	}
	all = append(all, *tag)

	for i, t := range all {
		param := "additionalTags"
		if i == len(all)-1 {
			param = "tag"
		}
		if err := validateTagName(param, t); err != nil {
			return nil, err
		}
	}

	return &ElementName{tags: all}, nil
}

func validateTagName(param, tag string) error {
	if strings.EqualFold(tag, OptOut) {
		return &ArgumentError{
			Param:  param,
			Value:  tag,
			Reason: "invalid element name",
		}
	}
	return nil
}

// Tags returns the declared element names in stored order.
// The returned slice is a copy.
func (e *ElementName) Tags() []string {
	return slices.Clone(e.tags)
}

// ElementNameFromList builds a declaration from an ordered list of element
// names as found in config files and manifests, where a nil entry marks a
// missing value. The last entry is the primary tag and the rest are
// additional tags, so the stored order equals the list order.
func ElementNameFromList(tags []*string) (*ElementName, error) {
	if len(tags) == 0 {
		return nil, &ArgumentError{Param: "tags", Reason: "cannot be empty"}
	}
	last := len(tags) - 1
	return newElementName(tags[last], tags[:last:last], true)
}
