// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog provides the static flyer template catalog. Templates are
// defined in an embedded YAML document and are read-only at runtime.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"flyerly/internal/flyer"
)

//go:embed templates.yaml
var defaultYAML []byte

// Catalog is an ordered, immutable list of templates. Safe for concurrent use.
type Catalog struct {
	templates []flyer.Template
	byID      map[string]int
}

type document struct {
	Templates []flyer.Template `yaml:"templates"`
}

// Default returns the catalog embedded in the binary. It panics if the
// embedded document is invalid, which is a build defect.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded templates: %v", err))
	}
	return c
}

// Parse builds a catalog from a YAML document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog parse: %w", err)
	}
	return New(doc.Templates)
}

// New builds a catalog from a template list. Ids must be unique and non-empty.
func New(templates []flyer.Template) (*Catalog, error) {
	c := &Catalog{
		templates: make([]flyer.Template, 0, len(templates)),
		byID:      make(map[string]int, len(templates)),
	}
	for _, t := range templates {
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" {
			return nil, fmt.Errorf("catalog: template %q has no id", t.Name)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate template id %q", t.ID)
		}
		c.byID[t.ID] = len(c.templates)
		c.templates = append(c.templates, t)
	}
	return c, nil
}

// All returns a copy of every template in catalog order.
func (c *Catalog) All() []flyer.Template {
	out := make([]flyer.Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// Lookup finds a template by id.
func (c *Catalog) Lookup(id string) (flyer.Template, bool) {
	i, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return flyer.Template{}, false
	}
	return c.templates[i], true
}

// Categories returns the distinct category names, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range c.templates {
		if t.Category != "" && !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	sort.Strings(out)
	return out
}
