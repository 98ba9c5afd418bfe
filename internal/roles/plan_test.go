package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/forge/internal/domain"
	"github.com/mrz1836/forge/internal/requirements"
)

func record(app domain.AppType, features ...domain.Feature) domain.RequirementRecord {
	r := domain.RequirementRecord{AppType: app}
	for _, f := range features {
		r.AddFeature(f)
	}
	requirements.Derive(&r)
	return r
}

func TestPlan_RoleSelection(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.RequirementRecord
		want []string
	}{
		{
			"baseline",
			record(domain.AppTypeUnset),
			[]string{Architect, Designer, Developer, QA, Documentation, Accessibility},
		},
		{
			"database adds backend",
			record(domain.AppTypeBlog, domain.FeatureDatabase),
			[]string{Architect, Designer, Developer, Backend, QA, Documentation, Accessibility},
		},
		{
			"api adds backend",
			record(domain.AppTypeBlog, domain.FeatureAPI),
			[]string{Architect, Designer, Developer, Backend, QA, Documentation, Accessibility},
		},
		{
			"auth adds security",
			record(domain.AppTypeBlog, domain.FeatureAuth),
			[]string{Architect, Designer, Developer, Security, QA, Documentation, Accessibility},
		},
		{
			"landing adds seo and performance",
			record(domain.AppTypeLanding),
			[]string{Architect, Designer, Developer, SEO, Performance, QA, Documentation, Accessibility},
		},
		{
			"responsive adds mobile",
			record(domain.AppTypeBlog, domain.FeatureResponsive),
			[]string{Architect, Designer, Developer, Mobile, QA, Documentation, Accessibility},
		},
		{
			"ecommerce adds security and backend once",
			record(domain.AppTypeEcommerce, domain.FeatureAuth, domain.FeatureDatabase, domain.FeaturePayment),
			[]string{Architect, Designer, Developer, Backend, Security, QA, Documentation, Accessibility},
		},
		{
			"everything",
			record(domain.AppTypeLanding, domain.FeatureAuth, domain.FeatureAPI, domain.FeatureSEO, domain.FeatureMobile, domain.FeaturePayment),
			[]string{Architect, Designer, Developer, Backend, Security, SEO, Performance, Mobile, QA, Documentation, Accessibility},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Plan(tc.rec, PlanOptions{}).RoleIDs())
		})
	}
}

func TestPlan_AlwaysContainsFoundationalTrio(t *testing.T) {
	for _, app := range []domain.AppType{domain.AppTypeUnset, domain.AppTypeBlog, domain.AppTypeSaaS, domain.AppTypeChat} {
		ids := Plan(record(app), PlanOptions{}).RoleIDs()
		assert.Equal(t, []string{Architect, Designer, Developer}, ids[:3], app)
	}
}

func TestPlan_IsSortedByPriority(t *testing.T) {
	p := Plan(record(domain.AppTypeEcommerce, domain.FeatureSEO, domain.FeatureMobile), PlanOptions{})
	for i := 1; i < len(p.Roles); i++ {
		assert.Less(t, p.Roles[i-1].Priority, p.Roles[i].Priority)
	}
}

func TestPlan_ModeAndEstimate(t *testing.T) {
	simple := Plan(record(domain.AppTypeBlog), PlanOptions{})
	assert.Equal(t, domain.ModeParallel, simple.Mode)
	assert.Equal(t, 30, simple.EstimatedDurationSeconds)

	complexPlan := Plan(record(domain.AppTypeSaaS), PlanOptions{})
	assert.Equal(t, domain.ModeSequential, complexPlan.Mode)
	assert.Equal(t, 10*len(complexPlan.Roles), complexPlan.EstimatedDurationSeconds)

	forced := Plan(record(domain.AppTypeSaaS), PlanOptions{ForceMode: domain.ModeParallel})
	assert.Equal(t, domain.ModeParallel, forced.Mode)
	assert.Equal(t, 30, forced.EstimatedDurationSeconds)

	ignored := Plan(record(domain.AppTypeBlog), PlanOptions{ForceMode: "burst"})
	assert.Equal(t, domain.ModeParallel, ignored.Mode)
}

func TestEstimate(t *testing.T) {
	assert.Equal(t, 30, Estimate(domain.ModeParallel, 11))
	assert.Equal(t, 110, Estimate(domain.ModeSequential, 11))
}
