// Package config loads element name overrides from YAML.
//
// An overrides file rebinds registered tag helpers to different elements
// without touching their code:
//
//	elements:
//	  Anchor: [a, area]
//	  Catch: ["*"]
//
// Each list becomes one hxtag.ElementName, stored in list order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/pthm/hxtag"
	"github.com/pthm/hxtag/lib/manifest"
)

// ErrInvalidConfig is returned when an overrides file cannot be decoded.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds element name overrides keyed by component name.
type Config struct {
	Elements map[string][]*string `yaml:"elements,omitempty"`

	overrides hxtag.Overrides
	// path is the file this config was loaded from
	path string
}

// Load reads and validates an overrides file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

// Parse decodes and validates overrides from YAML. Unknown keys are
// rejected. An empty document yields an empty config.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg.overrides = make(hxtag.Overrides, len(cfg.Elements))
	for _, name := range cfg.Names() {
		decl, err := hxtag.ElementNameFromList(cfg.Elements[name])
		if err != nil {
			return nil, fmt.Errorf("elements.%s: %w", name, err)
		}
		cfg.overrides[name] = []*hxtag.ElementName{decl}
	}
	return cfg, nil
}

// Path returns the file the config was loaded from, if any.
func (c *Config) Path() string {
	return c.path
}

// Names returns the overridden component names in sorted order.
func (c *Config) Names() []string {
	return slices.Sorted(maps.Keys(c.Elements))
}

// Overrides returns the validated declarations for use with
// hxtag.WithOverrides.
func (c *Config) Overrides() hxtag.Overrides {
	return maps.Clone(c.overrides)
}

// Entries converts the overrides into manifest entries, sorted by name.
func (c *Config) Entries() []manifest.Entry {
	entries := make([]manifest.Entry, 0, len(c.overrides))
	for _, name := range c.Names() {
		var tags []*string
		for _, decl := range c.overrides[name] {
			for _, t := range decl.Tags() {
				tags = append(tags, &t)
			}
		}
		entries = append(entries, manifest.Entry{
			Name:   name,
			Tags:   tags,
			Source: string(hxtag.SourceConfig),
		})
	}
	return entries
}
