package prompts

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/common/*.tmpl templates/generation/*.tmpl
var templateFS embed.FS

const (
	templateRoot = "templates"
	commonDir    = "common"
	templateExt  = ".tmpl"
)

// entry is one parsed prompt.
type entry struct {
	tmpl *template.Template
}

// registry maps prompt ids to parsed templates. It is built once and never
// mutated, so lookups need no locking.
type registry map[PromptID]entry

//nolint:gochecknoglobals // parsed once from embedded templates
var loadRegistry = sync.OnceValues(func() (registry, error) {
	return parseTemplates(templateFS)
})

// funcs are available to every prompt.
func funcs() template.FuncMap {
	return template.FuncMap{
		"join":       strings.Join,
		"trim":       strings.TrimSpace,
		"hasContent": func(s string) bool { return strings.TrimSpace(s) != "" },
	}
}

// parseTemplates parses the shared partials under templates/common, then every
// other template with those partials attached as "common/<name>".
func parseTemplates(fsys fs.FS) (registry, error) {
	base := template.New("").Funcs(funcs())
	partials, err := fs.Glob(fsys, path.Join(templateRoot, commonDir, "*"+templateExt))
	if err != nil {
		return nil, err
	}
	for _, file := range partials {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("reading partial %s: %w", file, err)
		}
		if _, err := base.New(promptIDFromPath(file).String()).Parse(string(data)); err != nil {
			return nil, fmt.Errorf("parsing partial %s: %w", file, err)
		}
	}

	reg := make(registry)
	err = fs.WalkDir(fsys, templateRoot, func(file string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(file, templateExt) || slices.Contains(partials, file) {
			return nil
		}

		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", file, err)
		}

		id := promptIDFromPath(file)
		tmpl, err := base.Clone()
		if err != nil {
			return err
		}
		if _, err := tmpl.New(id.String()).Parse(string(data)); err != nil {
			return fmt.Errorf("parsing template %s: %w", file, err)
		}
		reg[id] = entry{tmpl: tmpl.Lookup(id.String())}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// promptIDFromPath maps templates/generation/assembly.tmpl to generation/assembly.
func promptIDFromPath(file string) PromptID {
	id := strings.TrimPrefix(file, templateRoot+"/")
	return PromptID(strings.TrimSuffix(id, templateExt))
}

// builtin returns the embedded registry. The templates are compiled into the
// binary, so a parse failure is a build defect.
func builtin() registry {
	reg, err := loadRegistry()
	if err != nil {
		panic(fmt.Sprintf("failed to load embedded templates: %v", err))
	}
	return reg
}

func (r registry) lookup(id PromptID) (entry, error) {
	e, ok := r[id]
	if !ok {
		return entry{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return e, nil
}
