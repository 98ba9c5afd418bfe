// Package clarify decides whether a request needs a clarifying question before
// generation, and folds the user's answer back into the requirement record.
//
// The turn protocol is stateless beyond the record itself: the caller keeps the
// prior record and hands it back with the next reply. Every question comes with
// a documented default so a "use defaults" reply can settle all of them at once.
package clarify

import (
	"fmt"
	"strings"

	"github.com/mrz1836/forge/internal/domain"
)

// Field names a record field a question is about.
type Field string

// Fields that can trigger a question.
const (
	FieldAppType         Field = "app_type"
	FieldPaymentProvider Field = "payment_provider"
	FieldDatabaseProduct Field = "database_product"
	FieldDesign          Field = "design"
)

// Question is one item of a bundle.
type Question struct {
	Field   Field    `json:"field"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Default string   `json:"default"`
}

// Bundle is the single composed message surfaced in one turn, however many
// rules fired.
type Bundle struct {
	Message   string     `json:"message"`
	Questions []Question `json:"questions"`
}

// Defaults are the values applied to unresolved fields.
type Defaults struct {
	AppType         domain.AppType     `json:"app_type"`
	Design          domain.DesignStyle `json:"design"`
	PaymentProvider string             `json:"payment_provider"`
	DatabaseProduct string             `json:"database_product"`
	ExtraFeatures   []domain.Feature   `json:"extra_features"`
}

// SuggestedDefaults returns the documented defaults: a modern, responsive,
// SEO-friendly web app with Stripe payments and PostgreSQL storage.
func SuggestedDefaults() Defaults {
	return Defaults{
		AppType:         domain.AppTypeWebApp,
		Design:          domain.DesignModern,
		PaymentProvider: "stripe",
		DatabaseProduct: "postgresql",
		ExtraFeatures:   []domain.Feature{domain.FeatureResponsive, domain.FeatureSEO},
	}
}

// Decision is the outcome of Decide.
type Decision struct {
	NeedsClarification bool     `json:"needs_clarification"`
	Bundle             *Bundle  `json:"bundle,omitempty"`
	SuggestedDefaults  Defaults `json:"suggested_defaults"`
}

// Annotate copies the decision onto intent.
func (d Decision) Annotate(intent domain.Intent) domain.Intent {
	intent.NeedsClarification = d.NeedsClarification
	intent.Questions = nil
	if d.Bundle != nil {
		for _, q := range d.Bundle.Questions {
			intent.Questions = append(intent.Questions, q.Prompt)
		}
	}
	return intent
}

// Decide applies the independent trigger rules and composes every triggered
// question into one bundle.
func Decide(intent domain.Intent, record domain.RequirementRecord) Decision {
	defaults := SuggestedDefaults()
	questions := pendingQuestions(intent, record, defaults)

	d := Decision{SuggestedDefaults: defaults}
	if len(questions) > 0 {
		d.NeedsClarification = true
		d.Bundle = compose(questions, defaults)
	}
	return d
}

func pendingQuestions(intent domain.Intent, r domain.RequirementRecord, def Defaults) []Question {
	creating := intent.Kind == domain.IntentCreate
	var qs []Question

	if creating && r.AppType == domain.AppTypeUnset {
		qs = append(qs, Question{
			Field:  FieldAppType,
			Prompt: "What kind of application should I build?",
			Options: []string{
				"landing", "ecommerce", "dashboard", "blog", "portfolio", "saas", "social", "chat", "webapp",
			},
			Default: string(def.AppType),
		})
	}
	if r.HasFeature(domain.FeaturePayment) && r.PaymentProvider == "" {
		qs = append(qs, Question{
			Field:   FieldPaymentProvider,
			Prompt:  "Which payment provider should handle checkout?",
			Options: []string{"stripe", "paypal"},
			Default: def.PaymentProvider,
		})
	}
	if r.Database && r.DatabaseProduct == "" {
		qs = append(qs, Question{
			Field:   FieldDatabaseProduct,
			Prompt:  "Which database should store your data?",
			Options: []string{"postgresql", "mysql", "sqlite", "mongodb", "supabase", "firebase"},
			Default: def.DatabaseProduct,
		})
	}
	if creating && r.Design == domain.DesignUnset {
		qs = append(qs, Question{
			Field:   FieldDesign,
			Prompt:  "Which visual style do you prefer?",
			Options: []string{"modern", "minimal", "corporate", "playful", "dark"},
			Default: string(def.Design),
		})
	}
	return qs
}

func compose(questions []Question, def Defaults) *Bundle {
	var b strings.Builder
	b.WriteString("Before I start, a few quick questions:\n")
	for i, q := range questions {
		fmt.Fprintf(&b, "\n%d. %s (%s)", i+1, q.Prompt, strings.Join(q.Options, ", "))
	}
	fmt.Fprintf(&b, "\n\nReply with your choices, or say \"use defaults\" (\"par défaut\") for: %s.", describeDefaults(questions, def))
	return &Bundle{Message: b.String(), Questions: questions}
}

func describeDefaults(questions []Question, def Defaults) string {
	parts := make([]string, 0, len(questions)+1)
	for _, q := range questions {
		parts = append(parts, fmt.Sprintf("%s %s", strings.ReplaceAll(string(q.Field), "_", " "), q.Default))
	}
	extras := make([]string, len(def.ExtraFeatures))
	for i, f := range def.ExtraFeatures {
		extras[i] = string(f)
	}
	parts = append(parts, strings.Join(extras, " and ")+" included")
	return strings.Join(parts, ", ")
}
