package clarify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/forge/internal/domain"
	"github.com/mrz1836/forge/internal/requirements"
)

var create = domain.Intent{Kind: domain.IntentCreate, Confidence: 0.9}

func fields(b *Bundle) []Field {
	if b == nil {
		return nil
	}
	out := make([]Field, len(b.Questions))
	for i, q := range b.Questions {
		out[i] = q.Field
	}
	return out
}

func TestDecide_Rules(t *testing.T) {
	payment := domain.RequirementRecord{AppType: domain.AppTypeEcommerce, Design: domain.DesignModern}
	payment.AddFeature(domain.FeaturePayment)

	database := domain.RequirementRecord{AppType: domain.AppTypeBlog, Design: domain.DesignModern, Database: true}

	tests := []struct {
		name   string
		intent domain.Intent
		record domain.RequirementRecord
		want   []Field
	}{
		{"empty create asks app type and design", create, domain.RequirementRecord{}, []Field{FieldAppType, FieldDesign}},
		{"complete record asks nothing", create, domain.RequirementRecord{AppType: domain.AppTypeBlog, Design: domain.DesignDark}, nil},
		{"payment without provider", create, payment, []Field{FieldPaymentProvider}},
		{"database without product", create, database, []Field{FieldDatabaseProduct}},
		{"modify intent skips app type and design", domain.Intent{Kind: domain.IntentModify}, domain.RequirementRecord{}, nil},
		{"question intent still asks about payment", domain.Intent{Kind: domain.IntentQuestion}, payment, []Field{FieldPaymentProvider}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := Decide(tc.intent, tc.record)
			assert.Equal(t, len(tc.want) > 0, d.NeedsClarification)
			assert.Equal(t, tc.want, fields(d.Bundle))
			assert.Equal(t, SuggestedDefaults(), d.SuggestedDefaults)
		})
	}
}

func TestDecide_AllRulesComposeOneBundle(t *testing.T) {
	r := domain.RequirementRecord{Database: true}
	r.AddFeature(domain.FeaturePayment)

	d := Decide(create, r)

	require.NotNil(t, d.Bundle)
	assert.Equal(t, []Field{FieldAppType, FieldPaymentProvider, FieldDatabaseProduct, FieldDesign}, fields(d.Bundle))
	assert.Equal(t, 1, strings.Count(d.Bundle.Message, "Before I start"))
	for i, q := range d.Bundle.Questions {
		assert.Contains(t, d.Bundle.Message, q.Prompt, "question %d missing from message", i)
		assert.NotEmpty(t, q.Default)
		assert.Contains(t, q.Options, q.Default)
	}
	assert.Contains(t, d.Bundle.Message, "par défaut")
}

func TestDecision_Annotate(t *testing.T) {
	d := Decide(create, domain.RequirementRecord{})
	got := d.Annotate(create)

	assert.True(t, got.NeedsClarification)
	assert.Len(t, got.Questions, 2)
	assert.Equal(t, domain.IntentCreate, got.Kind)

	ready := Decide(create, domain.RequirementRecord{AppType: domain.AppTypeBlog, Design: domain.DesignDark}).Annotate(got)
	assert.False(t, ready.NeedsClarification)
	assert.Empty(t, ready.Questions)
}

func TestTodoListScenario(t *testing.T) {
	record := requirements.Extract("crée une todo list", nil)
	intent := requirements.ClassifyIntent("crée une todo list")

	d := Decide(intent, record)
	require.True(t, d.NeedsClarification)
	require.NotNil(t, d.Bundle)
	assert.Equal(t, FieldAppType, d.Bundle.Questions[0].Field)

	res := NewResolver(1).Resolve(record, "par défaut", intent)

	require.True(t, res.Ready())
	assert.True(t, res.UsedDefaults)
	assert.Equal(t, domain.AppTypeWebApp, res.Record.AppType)
	assert.Equal(t, domain.DesignModern, res.Record.Design)
	assert.True(t, res.Record.HasFeature(domain.FeatureResponsive))
	assert.True(t, res.Record.HasFeature(domain.FeatureSEO))
	assert.Equal(t, 1, res.Record.ClarificationRounds)

	assert.False(t, Decide(intent, res.Record).NeedsClarification)
}
