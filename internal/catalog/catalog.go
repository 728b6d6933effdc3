// Package catalog holds the experience and salary range catalogs and the
// lookup values seeded into a fresh database.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ahscorp/hiring-hive-platform/internal/model"
)

//go:embed default.yaml
var defaultCatalog []byte

// SeedLocation is a location listed in the catalog file.
type SeedLocation struct {
	City  string `yaml:"city" json:"city"`
	State string `yaml:"state" json:"state"`
}

// Catalog is the decoded catalog file.
type Catalog struct {
	Experience []model.ExperienceRange `yaml:"experience" json:"experience"`
	Salary     []model.SalaryRange     `yaml:"salary" json:"salary"`
	Industries []string                `yaml:"industries" json:"industries"`
	Locations  []SeedLocation          `yaml:"locations" json:"locations"`
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog file, an empty path yields Default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

func (c *Catalog) validate() error {
	seen := map[string]bool{}
	for _, e := range c.Experience {
		if e.ID == "" || seen[e.ID] {
			return fmt.Errorf("experience range id %q is empty or duplicated", e.ID)
		}
		if e.MaxYears != nil && *e.MaxYears < e.MinYears {
			return fmt.Errorf("experience range %q has max below min", e.ID)
		}
		seen[e.ID] = true
	}
	seen = map[string]bool{}
	for _, s := range c.Salary {
		if s.ID == "" || seen[s.ID] {
			return fmt.Errorf("salary range id %q is empty or duplicated", s.ID)
		}
		if s.Max != nil && *s.Max < s.Min {
			return fmt.Errorf("salary range %q has max below min", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// ExperienceByID finds an experience range.
func (c *Catalog) ExperienceByID(id string) (model.ExperienceRange, bool) {
	for _, e := range c.Experience {
		if e.ID == id {
			return e, true
		}
	}
	return model.ExperienceRange{}, false
}

// SalaryByID finds a salary range.
func (c *Catalog) SalaryByID(id string) (model.SalaryRange, bool) {
	for _, s := range c.Salary {
		if s.ID == id {
			return s, true
		}
	}
	return model.SalaryRange{}, false
}

// Seeder inserts lookup rows, ignoring ones that already exist.
type Seeder interface {
	EnsureLocation(ctx context.Context, city, state string) error
	EnsureIndustry(ctx context.Context, name string) error
}

// Seed inserts the catalog's industries and locations.
func (c *Catalog) Seed(ctx context.Context, s Seeder) error {
	for _, name := range c.Industries {
		if err := s.EnsureIndustry(ctx, name); err != nil {
			return fmt.Errorf("seed industry %q: %w", name, err)
		}
	}
	for _, l := range c.Locations {
		if err := s.EnsureLocation(ctx, l.City, l.State); err != nil {
			return fmt.Errorf("seed location %q: %w", l.City, err)
		}
	}
	return nil
}

// Holder shares a catalog that admins can reload at runtime.
type Holder struct {
	mu   sync.RWMutex
	path string
	cat  *Catalog
}

// NewHolder wraps an initial catalog loaded from path.
func NewHolder(path string, c *Catalog) *Holder {
	return &Holder{path: path, cat: c}
}

// Get returns the current catalog.
func (h *Holder) Get() *Catalog {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cat
}

// Reload re-reads the catalog file. The previous catalog stays on error.
func (h *Holder) Reload() (*Catalog, error) {
	c, err := Load(h.path)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	h.cat = c
	h.mu.Unlock()
	return c, nil
}
