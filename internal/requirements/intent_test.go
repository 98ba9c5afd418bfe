package requirements

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/forge/internal/domain"
)

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		text       string
		kind       domain.IntentKind
		confidence float64
	}{
		{"crée une todo list", domain.IntentCreate, ConfidenceExplicit},
		{"Build me a portfolio", domain.IntentCreate, ConfidenceExplicit},
		{"a portfolio", domain.IntentCreate, ConfidenceDefault},
		{"Add a dark mode to the app", domain.IntentModify, ConfidenceExplicit},
		{"I want to create a blog and add a login", domain.IntentCreate, ConfidenceExplicit},
		{"How do I deploy this", domain.IntentQuestion, ConfidenceExplicit},
		{"is this responsive?", domain.IntentQuestion, ConfidenceExplicit},
		{"pourquoi ça ne marche pas", domain.IntentQuestion, ConfidenceExplicit},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			got := ClassifyIntent(tc.text)
			assert.Equal(t, tc.kind, got.Kind)
			assert.InDelta(t, tc.confidence, got.Confidence, 0.0001)
			assert.False(t, got.NeedsClarification)
		})
	}
}

func TestIntentTable_EachKeywordSelectsItsTag(t *testing.T) {
	tables := MustDefaultTables()
	for _, e := range tables.Intents {
		for _, kw := range e.Keywords {
			t.Run(e.Tag+"/"+kw, func(t *testing.T) {
				got := ClassifyIntent("please " + strings.TrimSpace(kw) + " please")
				assert.Equal(t, domain.IntentKind(e.Tag), got.Kind)
			})
		}
	}
}
