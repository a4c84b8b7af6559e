/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Variants []variantDef `yaml:"variants"`
}

type variantDef struct {
	ID         string         `yaml:"id"`
	Kind       string         `yaml:"kind"`
	Name       string         `yaml:"name"`
	Order      int            `yaml:"order"`
	Aliases    []string       `yaml:"aliases"`
	Companions []string       `yaml:"companions"`
	Defaults   map[string]any `yaml:"defaults"`
}

// LoadYAML reads variant definitions from r. Definitions are validated for
// kind but not registered; pass the result to Catalog.RegisterAll.
func LoadYAML(r io.Reader) ([]Metadata, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	out := make([]Metadata, 0, len(file.Variants))
	for i, def := range file.Variants {
		kind, err := ParseKind(def.Kind)
		if err != nil {
			return nil, fmt.Errorf("variant %d (%q): %w", i, def.ID, err)
		}
		out = append(out, Metadata{
			TypeID:      def.ID,
			Kind:        kind,
			DisplayName: def.Name,
			Order:       def.Order,
			Aliases:     def.Aliases,
			Companions:  def.Companions,
			Defaults:    def.Defaults,
		})
	}
	return out, nil
}

// LoadCatalogFile builds a sealed catalog from a YAML file.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	defs, err := LoadYAML(f)
	if err != nil {
		return nil, err
	}
	c := NewCatalog()
	if err := c.RegisterAll(defs); err != nil {
		return nil, fmt.Errorf("register %s: %w", path, err)
	}
	c.Seal()
	return c, nil
}
