package hxtag

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"go.uber.org/zap"
)

// Source records where a tag helper's element names came from.
type Source string

const (
	SourceDeclared   Source = "declared"
	SourceConfig     Source = "config"
	SourceConvention Source = "convention"
)

// Overrides maps component names to element name declarations that
// replace whatever the component declares in code. See lib/config.
type Overrides map[string][]*ElementName

// Descriptor describes a registered tag helper and the elements it targets.
type Descriptor struct {
	Name   string
	Tags   []string
	Source Source
	Order  int

	helper TagHelper
	seq    int
}

// Helper returns the registered tag helper.
func (d Descriptor) Helper() TagHelper {
	return d.helper
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry's logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(reg *Registry) {
		if logger != nil {
			reg.logger = logger
		}
	}
}

// WithOverrides applies element name overrides, typically loaded from a
// config file, to components as they register.
func WithOverrides(o Overrides) Option {
	return func(reg *Registry) {
		reg.overrides = o
	}
}

// Registry manages tag helper registration and element matching.
type Registry struct {
	mu        sync.RWMutex
	logger    *zap.Logger
	overrides Overrides
	ordered   []*Descriptor            // registration order
	byName    map[string]*Descriptor   // map[name]descriptor
	byTag     map[string][]*Descriptor // map[lowercase tag]descriptors
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	reg := &Registry{
		logger: zap.NewNop(),
		byName: make(map[string]*Descriptor),
		byTag:  make(map[string][]*Descriptor),
	}
	for _, opt := range opts {
		opt(reg)
	}
	return reg
}

// Register associates a tag helper with the elements it targets.
//
// Element names are resolved in this order:
//  1. overrides supplied through WithOverrides for name
//  2. decls
//  3. ConventionName(name)
//
// Names must be unique within a registry.
func (reg *Registry) Register(name string, helper TagHelper, decls ...*ElementName) error {
	if err := checkRegistration(name, helper, decls); err != nil {
		return err
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	desc, err := reg.resolveLocked(name, helper, decls)
	if err != nil {
		return err
	}
	reg.insertLocked(desc)
	return nil
}

func checkRegistration(name string, helper TagHelper, decls []*ElementName) error {
	if name == "" {
		return &ArgumentError{Param: "name", Reason: "cannot be empty"}
	}
	if helper == nil {
		return &ArgumentError{Param: "helper", Reason: "cannot be nil"}
	}
	return checkDeclarations("decls", decls)
}

// checkDeclarations rejects nil declarations and zero-value ElementNames,
// which carry no tags because they did not come from a constructor.
func checkDeclarations(param string, decls []*ElementName) error {
	for _, d := range decls {
		if d == nil {
			return &ArgumentError{Param: param, Reason: "cannot contain a nil entry"}
		}
		if len(d.tags) == 0 {
			return &ArgumentError{Param: param, Reason: "cannot contain an empty declaration"}
		}
	}
	return nil
}

// resolveLocked builds the descriptor for name without modifying the
// registry. reg.mu must be held.
func (reg *Registry) resolveLocked(name string, helper TagHelper, decls []*ElementName) (*Descriptor, error) {
	if _, exists := reg.byName[name]; exists {
		return nil, &ArgumentError{Param: "name", Value: name, Reason: "already registered"}
	}

	source := SourceDeclared
	if o, ok := reg.overrides[name]; ok && len(o) > 0 {
		if err := checkDeclarations("overrides["+name+"]", o); err != nil {
			return nil, err
		}
		decls = o
		source = SourceConfig
	}

	if len(decls) == 0 {
		decl, err := NewElementName(ConventionName(name))
		if err != nil {
			return nil, fmt.Errorf("convention name for %q: %w", name, err)
		}
		decls = []*ElementName{decl}
		source = SourceConvention
	}

	var tags []string
	for _, d := range decls {
		tags = append(tags, d.tags...)
	}
	return newDescriptor(name, helper, tags, source), nil
}

func newDescriptor(name string, helper TagHelper, tags []string, source Source) *Descriptor {
	desc := &Descriptor{
		Name:   name,
		Tags:   tags,
		Source: source,
		helper: helper,
	}
	if o, ok := helper.(Orderer); ok {
		desc.Order = o.Order()
	}
	return desc
}

// insertLocked adds a resolved descriptor to the indexes. reg.mu must be
// held and desc.Name must not be registered.
func (reg *Registry) insertLocked(desc *Descriptor) {
	desc.seq = len(reg.ordered)
	reg.ordered = append(reg.ordered, desc)
	reg.byName[desc.Name] = desc
	for _, tag := range desc.Tags {
		key := strings.ToLower(tag)
		if !slices.Contains(reg.byTag[key], desc) {
			reg.byTag[key] = append(reg.byTag[key], desc)
		}
	}

	reg.logger.Debug("registered tag helper",
		zap.String("component", desc.Name),
		zap.Strings("tags", desc.Tags),
		zap.String("source", string(desc.Source)),
	)
}

// Add registers tag helpers under their Go type names, using the naming
// convention or overrides for their element names.
// Panics if a helper is nil or a name is already registered.
func (reg *Registry) Add(helpers ...TagHelper) {
	for _, h := range helpers {
		if err := reg.Register(typeName(h), h); err != nil {
			panic(err.Error())
		}
	}
}

// Match returns the tag helpers targeting element, in execution order.
// Element names compare case-insensitively. Elements written with a leading
// "!" are opted out and match nothing.
func (reg *Registry) Match(element string) []Descriptor {
	if strings.HasPrefix(element, OptOut) {
		return nil
	}

	reg.mu.RLock()
	defer reg.mu.RUnlock()

	matched := slices.Clone(reg.byTag[strings.ToLower(element)])
	for _, d := range reg.byTag[CatchAll] {
		if !slices.Contains(matched, d) {
			matched = append(matched, d)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Order != matched[j].Order {
			return matched[i].Order < matched[j].Order
		}
		return matched[i].seq < matched[j].seq
	})

	out := make([]Descriptor, len(matched))
	for i, d := range matched {
		out[i] = d.clone()
	}
	return out
}

// Lookup returns the descriptor registered under name.
func (reg *Registry) Lookup(name string) (Descriptor, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	d, ok := reg.byName[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return d.clone(), nil
}

// Descriptors returns every registered tag helper in registration order.
func (reg *Registry) Descriptors() []Descriptor {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	out := make([]Descriptor, len(reg.ordered))
	for i, d := range reg.ordered {
		out[i] = d.clone()
	}
	return out
}

// Unused returns the names of overrides that no registered component used,
// logging a warning for each. Call it once registration is complete.
func (reg *Registry) Unused() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	var unused []string
	for name := range reg.overrides {
		if _, ok := reg.byName[name]; !ok {
			unused = append(unused, name)
		}
	}
	sort.Strings(unused)
	for _, name := range unused {
		reg.logger.Warn("element name override for unregistered component", zap.String("component", name))
	}
	return unused
}

// Render returns a component that runs every tag helper matching element
// and writes the result. children become the output's initial content.
//
// An opted-out element ("!div") is written without its "!" and without
// running any helpers.
func (reg *Registry) Render(element string, attrs templ.Attributes, children templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		tc := &Context{
			Element:    element,
			Attributes: cloneAttributes(attrs),
			Items:      make(map[any]any),
		}
		out := newOutput(strings.TrimPrefix(element, OptOut), attrs, children)

		for _, d := range reg.Match(element) {
			if err := d.helper.Process(ctx, tc, out); err != nil {
				reg.logger.Error("tag helper failed",
					zap.String("component", d.Name),
					zap.String("element", element),
					zap.Error(err),
				)
				return fmt.Errorf("hxtag: %s: %w", d.Name, err)
			}
		}

		return out.Component().Render(ctx, w)
	})
}

func (d *Descriptor) clone() Descriptor {
	c := *d
	c.Tags = slices.Clone(d.Tags)
	return c
}
