package requirements

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/forge/internal/domain"
	forgeerrors "github.com/mrz1836/forge/internal/errors"
)

// TablesVersion is the keyword table schema this package understands.
const TablesVersion = 1

// Intent table tags.
const (
	IntentTagCreate   = "create"
	IntentTagModify   = "modify"
	IntentTagQuestion = "question"
)

//go:embed keywords.yaml
var keywordsYAML []byte

// Entry maps one tag to the keywords that select it.
type Entry struct {
	Tag      string   `yaml:"tag"`
	Keywords []string `yaml:"keywords"`
}

// Tables holds every keyword table. Single-valued tables are ordered by
// ascending priority.
type Tables struct {
	Version          int     `yaml:"version"`
	AppTypes         []Entry `yaml:"app_types"`
	Designs          []Entry `yaml:"designs"`
	Features         []Entry `yaml:"features"`
	Stack            []Entry `yaml:"stack"`
	DatabaseProducts []Entry `yaml:"database_products"`
	PaymentProviders []Entry `yaml:"payment_providers"`
	Intents          []Entry `yaml:"intents"`
}

// ParseTables decodes and validates a keyword table document.
func ParseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: decode keyword tables: %w", forgeerrors.ErrCatalogInvalid, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks the schema version and that every tag belongs to its vocabulary.
func (t *Tables) Validate() error {
	if t.Version != TablesVersion {
		return fmt.Errorf("%w: keyword tables version %d, want %d", forgeerrors.ErrCatalogInvalid, t.Version, TablesVersion)
	}
	for _, e := range t.AppTypes {
		if !domain.AppType(e.Tag).IsValid() {
			return fmt.Errorf("%w: unknown app type %q", forgeerrors.ErrCatalogInvalid, e.Tag)
		}
	}
	for _, e := range t.Designs {
		if !domain.DesignStyle(e.Tag).IsValid() {
			return fmt.Errorf("%w: unknown design %q", forgeerrors.ErrCatalogInvalid, e.Tag)
		}
	}
	for _, e := range t.Features {
		if !domain.Feature(e.Tag).IsValid() {
			return fmt.Errorf("%w: unknown feature %q", forgeerrors.ErrCatalogInvalid, e.Tag)
		}
	}
	for _, e := range t.Intents {
		switch e.Tag {
		case IntentTagCreate, IntentTagModify, IntentTagQuestion:
		default:
			return fmt.Errorf("%w: unknown intent %q", forgeerrors.ErrCatalogInvalid, e.Tag)
		}
	}
	return nil
}

// Keywords returns the keywords of tag in table, or nil.
func Keywords(table []Entry, tag string) []string {
	for _, e := range table {
		if e.Tag == tag {
			return e.Keywords
		}
	}
	return nil
}

//nolint:gochecknoglobals // parsed once from embedded data
var defaultTables = sync.OnceValues(func() (*Tables, error) {
	return ParseTables(keywordsYAML)
})

// MustDefaultTables returns the embedded keyword tables. A broken embedded
// table is a build defect, so it panics.
func MustDefaultTables() *Tables {
	t, err := defaultTables()
	if err != nil {
		panic(err)
	}
	return t
}
