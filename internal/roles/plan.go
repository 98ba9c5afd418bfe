package roles

import (
	"sort"

	"github.com/mrz1836/forge/internal/constants"
	"github.com/mrz1836/forge/internal/domain"
)

// PlanOptions tunes plan construction.
type PlanOptions struct {
	// ForceMode overrides the complexity-derived execution mode when set.
	ForceMode domain.ExecutionMode
}

// Plan builds the execution plan for r with the built-in catalog.
func Plan(r domain.RequirementRecord, opts PlanOptions) domain.ExecutionPlan {
	return Builtin().Plan(r, opts)
}

// Plan selects roles for r:
//
//  1. architect, designer and developer always;
//  2. backend for database or api; security for authentication; seo and
//     performance for the seo feature or a landing page; mobile for mobile or
//     responsive; security and backend for payments or e-commerce;
//  3. qa, documentation and accessibility always.
//
// Roles are de-duplicated and stable-sorted by ascending priority. Complex
// records run sequentially, everything else in parallel.
func (c *Catalog) Plan(r domain.RequirementRecord, opts PlanOptions) domain.ExecutionPlan {
	ids := []string{Architect, Designer, Developer}

	if r.Database || r.HasFeature(domain.FeatureAPI) {
		ids = append(ids, Backend)
	}
	if r.Authentication {
		ids = append(ids, Security)
	}
	if r.HasFeature(domain.FeatureSEO) || r.AppType == domain.AppTypeLanding {
		ids = append(ids, SEO, Performance)
	}
	if r.HasFeature(domain.FeatureMobile) || r.HasFeature(domain.FeatureResponsive) {
		ids = append(ids, Mobile)
	}
	if r.HasFeature(domain.FeaturePayment) || r.AppType == domain.AppTypeEcommerce {
		ids = append(ids, Security, Backend)
	}

	ids = append(ids, QA, Documentation, Accessibility)

	seen := make(map[string]bool, len(ids))
	selected := make([]domain.Role, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		selected = append(selected, c.MustLookup(id))
	}
	sort.SliceStable(selected, func(i, j int) bool { return selected[i].Priority < selected[j].Priority })

	mode := domain.ModeParallel
	if r.Complexity == domain.ComplexityComplex {
		mode = domain.ModeSequential
	}
	if opts.ForceMode.IsValid() {
		mode = opts.ForceMode
	}

	return domain.ExecutionPlan{
		Roles:                    selected,
		Mode:                     mode,
		EstimatedDurationSeconds: Estimate(mode, len(selected)),
	}
}

// Estimate is a UX hint, not a measurement: a flat figure for parallel plans
// and a per-role figure for sequential ones.
func Estimate(mode domain.ExecutionMode, roles int) int {
	if mode == domain.ModeSequential {
		return constants.SequentialSecondsPerRole * roles
	}
	return constants.ParallelEstimateSeconds
}
