// Package roles holds the static role catalog and builds execution plans from
// requirement records.
//
// The catalog is serializable data embedded from catalog.yaml and is never
// mutated at runtime. Lookup is stateless. A role id missing from the catalog
// is a catalog defect, not a user error.
package roles

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/forge/internal/domain"
	forgeerrors "github.com/mrz1836/forge/internal/errors"
)

// Role ids of the built-in catalog.
const (
	Architect     = "architect"
	Designer      = "designer"
	Developer     = "developer"
	Backend       = "backend"
	Security      = "security"
	SEO           = "seo"
	Performance   = "performance"
	Mobile        = "mobile"
	QA            = "qa"
	Documentation = "documentation"
	Accessibility = "accessibility"
)

// CatalogVersion is the catalog schema this package understands.
const CatalogVersion = 1

//go:embed catalog.yaml
var catalogYAML []byte

type catalogFile struct {
	Version int           `yaml:"version"`
	Roles   []domain.Role `yaml:"roles"`
}

// Catalog is an immutable, id-indexed set of roles.
type Catalog struct {
	roles []domain.Role
	byID  map[string]int
}

// ParseCatalog decodes and validates a catalog document. Roles are kept sorted
// by ascending priority; ids must be unique and non-empty.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: decode role catalog: %w", forgeerrors.ErrCatalogInvalid, err)
	}
	if f.Version != CatalogVersion {
		return nil, fmt.Errorf("%w: role catalog version %d, want %d", forgeerrors.ErrCatalogInvalid, f.Version, CatalogVersion)
	}
	if len(f.Roles) == 0 {
		return nil, fmt.Errorf("%w: role catalog is empty", forgeerrors.ErrCatalogInvalid)
	}

	roles := append([]domain.Role(nil), f.Roles...)
	sort.SliceStable(roles, func(i, j int) bool { return roles[i].Priority < roles[j].Priority })

	c := &Catalog{roles: roles, byID: make(map[string]int, len(roles))}
	for i, r := range roles {
		if r.ID == "" || r.DisplayName == "" {
			return nil, fmt.Errorf("%w: role %d is missing an id or display name", forgeerrors.ErrCatalogInvalid, i)
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate role id %q", forgeerrors.ErrCatalogInvalid, r.ID)
		}
		c.byID[r.ID] = i
	}
	return c, nil
}

// Roles returns a copy of every role in ascending priority.
func (c *Catalog) Roles() []domain.Role {
	return append([]domain.Role(nil), c.roles...)
}

// Lookup returns the role with id or ErrUnknownRole.
func (c *Catalog) Lookup(id string) (domain.Role, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Role{}, fmt.Errorf("%w: %q", forgeerrors.ErrUnknownRole, id)
	}
	return c.roles[i], nil
}

// MustLookup is Lookup for ids the scheduler itself requests. A miss means the
// catalog and the scheduling rules disagree, which is a build defect.
func (c *Catalog) MustLookup(id string) domain.Role {
	r, err := c.Lookup(id)
	if err != nil {
		panic(err)
	}
	return r
}

//nolint:gochecknoglobals // parsed once from embedded data
var builtin = sync.OnceValues(func() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
})

// Builtin returns the embedded catalog. It panics if the embedded data is invalid.
func Builtin() *Catalog {
	c, err := builtin()
	if err != nil {
		panic(err)
	}
	return c
}

// All returns a copy of the built-in roles.
func All() []domain.Role {
	return Builtin().Roles()
}

// Lookup finds a role in the built-in catalog.
func Lookup(id string) (domain.Role, error) {
	return Builtin().Lookup(id)
}

// MustLookup finds a role in the built-in catalog or panics with ErrUnknownRole.
func MustLookup(id string) domain.Role {
	return Builtin().MustLookup(id)
}
