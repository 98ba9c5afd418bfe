// Package merge folds the outputs of several roles into one document. It backs
// the direct-merge delivery mode, where role outputs are concatenated instead
// of being assembled into a single classified response.
package merge

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mrz1836/forge/internal/domain"
)

// Lookup resolves a role id to its catalog entry.
type Lookup func(id string) (domain.Role, error)

// PlaceholderTitle heads the document returned when no role succeeded.
const PlaceholderTitle = "# Generation failed"

type section struct {
	role   domain.Role
	result domain.RoleResult
	index  int
}

// Merge concatenates succeeded results in ascending role priority, each under a
// "## <DisplayName> (<elapsed> ms)" header. Ties keep input order. Failed roles
// are dropped. With zero successes Merge returns a placeholder document that
// names the failed roles; it never returns an empty document.
func Merge(results []domain.RoleResult, lookup Lookup) *domain.SingleDocument {
	sections := make([]section, 0, len(results))
	var failed []domain.RoleResult
	for i, r := range results {
		if !r.Succeeded {
			failed = append(failed, r)
			continue
		}
		sections = append(sections, section{role: resolve(lookup, r.RoleID), result: r, index: i})
	}

	if len(sections) == 0 {
		return placeholder(failed)
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].role.Priority < sections[j].role.Priority
	})

	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "## %s (%d ms)\n\n", s.role.DisplayName, s.result.ElapsedMs)
		b.WriteString(strings.TrimSpace(s.result.Output))
	}
	return &domain.SingleDocument{Content: b.String()}
}

// resolve falls back to the raw id, sorted last, when the lookup fails.
func resolve(lookup Lookup, id string) domain.Role {
	if lookup != nil {
		if role, err := lookup(id); err == nil {
			return role
		}
	}
	return domain.Role{ID: id, DisplayName: id, Priority: math.MaxInt}
}

func placeholder(failed []domain.RoleResult) *domain.SingleDocument {
	var b strings.Builder
	b.WriteString(PlaceholderTitle)
	b.WriteString("\n\nNo role produced output.")
	if len(failed) > 0 {
		b.WriteString(" Failed roles:\n")
		for _, r := range failed {
			detail := r.Error
			if detail == "" {
				detail = "unknown error"
			}
			fmt.Fprintf(&b, "\n- %s: %s", r.RoleID, detail)
		}
	}
	return &domain.SingleDocument{Content: b.String()}
}
