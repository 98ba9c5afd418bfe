package requirements

import (
	"strings"

	"github.com/mrz1836/forge/internal/domain"
)

// Intent confidence levels.
const (
	ConfidenceExplicit = 0.9
	ConfidenceDefault  = 0.6
)

// ClassifyIntent decides what the user wants done. Question keywords or a
// trailing question mark win, then create keywords, then modify keywords. With
// no keyword at all the intent is create at default confidence.
func ClassifyIntent(text string) domain.Intent {
	return New(nil).ClassifyIntent(text)
}

// ClassifyIntent is the package-level ClassifyIntent over e's tables.
func (e *Extractor) ClassifyIntent(text string) domain.Intent {
	haystack := normalize(text, nil)

	switch {
	case strings.HasSuffix(strings.TrimSpace(text), "?"),
		matches(haystack, Keywords(e.tables.Intents, IntentTagQuestion)):
		return domain.Intent{Kind: domain.IntentQuestion, Confidence: ConfidenceExplicit}
	case matches(haystack, Keywords(e.tables.Intents, IntentTagCreate)):
		return domain.Intent{Kind: domain.IntentCreate, Confidence: ConfidenceExplicit}
	case matches(haystack, Keywords(e.tables.Intents, IntentTagModify)):
		return domain.Intent{Kind: domain.IntentModify, Confidence: ConfidenceExplicit}
	default:
		return domain.Intent{Kind: domain.IntentCreate, Confidence: ConfidenceDefault}
	}
}
