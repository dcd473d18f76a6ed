package hxtag

import (
	"fmt"

	"github.com/pthm/hxtag/lib/manifest"
)

// Manifest serializes the registry's resolved descriptors.
//
// A manifest lets a deployment pin the element names that were reviewed at
// build time and restore them with LoadManifest.
func (reg *Registry) Manifest(enc *manifest.Encoder) (string, error) {
	descs := reg.Descriptors()
	entries := make([]manifest.Entry, len(descs))
	for i, d := range descs {
		entries[i] = manifest.Entry{
			Name:   d.Name,
			Tags:   stringPointers(d.Tags),
			Source: string(d.Source),
		}
	}
	return enc.Encode(entries)
}

// LoadManifest registers helpers using the element names recorded in a
// manifest. The recorded tags are already resolved, so overrides are not
// applied again and each entry keeps its recorded Source.
//
// The load is all-or-nothing: every entry is validated, including name
// collisions within the manifest and with helpers already registered,
// before anything is registered.
func (reg *Registry) LoadManifest(enc *manifest.Encoder, data string, helpers map[string]TagHelper) error {
	entries, err := enc.Decode(data)
	if err != nil {
		return wrapManifestError(err)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	descs := make([]*Descriptor, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		helper, ok := helpers[e.Name]
		if !ok {
			return fmt.Errorf("%w: no helper for manifest entry %q", ErrNotFound, e.Name)
		}
		if err := checkRegistration(e.Name, helper, nil); err != nil {
			return fmt.Errorf("manifest entry %q: %w", e.Name, err)
		}
		if _, exists := reg.byName[e.Name]; exists || seen[e.Name] {
			return &ArgumentError{Param: "name", Value: e.Name, Reason: "already registered"}
		}
		seen[e.Name] = true

		decl, err := ElementNameFromList(e.Tags)
		if err != nil {
			return fmt.Errorf("manifest entry %q: %w", e.Name, err)
		}
		descs[i] = newDescriptor(e.Name, helper, decl.tags, manifestSource(e.Source))
	}

	for _, d := range descs {
		reg.insertLocked(d)
	}
	return nil
}

// manifestSource maps a recorded source back to a Source. Unknown or
// missing values count as declared.
func manifestSource(s string) Source {
	switch src := Source(s); src {
	case SourceDeclared, SourceConfig, SourceConvention:
		return src
	default:
		return SourceDeclared
	}
}

func stringPointers(ss []string) []*string {
	out := make([]*string, len(ss))
	for i := range ss {
		out[i] = &ss[i]
	}
	return out
}
