package selection

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is one of the four fixed metric groups.
type Category string

const (
	Standard   Category = "Standard"
	Passing    Category = "Passing"
	Possession Category = "Possession"
	Defense    Category = "Defense"
)

// Categories lists the groups in chart order.
var Categories = []Category{Standard, Passing, Possession, Defense}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), ":")
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// CategoryOptions is the menu for one category.
type CategoryOptions struct {
	Name     Category `yaml:"name"`
	Options  []string `yaml:"options"`
	Defaults []string `yaml:"defaults"`
}

// Catalog holds the selectable metrics per category.
type Catalog struct {
	Categories []CategoryOptions `yaml:"categories"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic("selection: embedded catalog: " + err.Error())
	}
	return c
}

// LoadCatalog reads a catalog file; an empty path yields the built-in one.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := ParseCatalog(b)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes and validates a YAML catalog. Every category must be
// present and each default must be one of its category's options.
func ParseCatalog(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	seen := map[Category]bool{}
	for _, co := range c.Categories {
		if _, err := ParseCategory(string(co.Name)); err != nil {
			return nil, err
		}
		if seen[co.Name] {
			return nil, fmt.Errorf("category %s listed twice", co.Name)
		}
		seen[co.Name] = true
		opts := toSet(co.Options)
		for _, d := range co.Defaults {
			if _, ok := opts[d]; !ok {
				return nil, fmt.Errorf("category %s: default %q is not an option", co.Name, d)
			}
		}
	}
	for _, cat := range Categories {
		if !seen[cat] {
			return nil, fmt.Errorf("category %s missing", cat)
		}
	}
	return &c, nil
}

func (c *Catalog) category(cat Category) *CategoryOptions {
	for i := range c.Categories {
		if c.Categories[i].Name == cat {
			return &c.Categories[i]
		}
	}
	return nil
}

// Options returns the selectable metrics for cat.
func (c *Catalog) Options(cat Category) []string {
	if co := c.category(cat); co != nil {
		return append([]string(nil), co.Options...)
	}
	return nil
}

// Defaults returns the preselected metrics for cat.
func (c *Catalog) Defaults(cat Category) []string {
	if co := c.category(cat); co != nil {
		return append([]string(nil), co.Defaults...)
	}
	return nil
}

// Unknown returns the selected metrics that are not options of their
// category. They are still allowed through; a scrape simply won't find them.
func (c *Catalog) Unknown(sel []CategorySelection) []string {
	var out []string
	for _, s := range sel {
		opts := toSet(c.Options(s.Category))
		for _, m := range s.Metrics {
			if _, ok := opts[m]; !ok {
				out = append(out, fmt.Sprintf("%s/%s", s.Category, m))
			}
		}
	}
	return out
}

// Selections builds the request in category order. Categories absent from
// chosen fall back to their defaults; a present but empty list stays empty.
func (c *Catalog) Selections(chosen map[Category][]string) []CategorySelection {
	out := make([]CategorySelection, 0, len(Categories))
	for _, cat := range Categories {
		metrics, ok := chosen[cat]
		if !ok {
			metrics = c.Defaults(cat)
		}
		out = append(out, CategorySelection{Category: cat, Metrics: metrics})
	}
	return out
}

// Marshal renders the catalog as YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func toSet(ss []string) map[string]struct{} {
	m := make(map[string]struct{}, len(ss))
	for _, s := range ss {
		m[s] = struct{}{}
	}
	return m
}
