package clarify

import (
	"strings"
	"unicode"

	"github.com/mrz1836/forge/internal/constants"
	"github.com/mrz1836/forge/internal/domain"
	"github.com/mrz1836/forge/internal/requirements"
)

// maxDefaultsReplyWords keeps long answers that merely mention "default" from
// being read as a blanket "use defaults".
const maxDefaultsReplyWords = 8

//nolint:gochecknoglobals // read-only phrase table
var defaultsPhrases = []string{
	"peu importe", "comme tu veux", "comme vous voulez", "à toi de voir", "a toi de voir",
	"je te laisse choisir", "n'importe", "whatever", "you choose", "you decide",
	"up to you", "surprise me", "don't care", "dont care", "doesn't matter", "no preference",
}

// defaultWords name the defaults directly. Unlike defaultsPhrases they can be
// negated ("not the default style").
//
//nolint:gochecknoglobals // read-only phrase table
var defaultWords = []string{"défaut", "defaut", "default"}

//nolint:gochecknoglobals // read-only word set
var negations = map[string]bool{
	"not": true, "no": true, "non": true, "never": true, "without": true,
	"don't": true, "dont": true, "isn't": true, "instead": true, "but": true,
	"pas": true, "sans": true, "jamais": true, "ni": true, "plutôt": true, "plutot": true,
}

// IsUseDefaults reports whether reply is a short "just pick for me" answer. A
// clause that mentions the defaults after a negation ("not the default style")
// does not count.
func IsUseDefaults(reply string) bool {
	norm := strings.ToLower(strings.TrimSpace(reply))
	norm = strings.ReplaceAll(norm, "’", "'")
	if norm == "" || len(strings.Fields(norm)) > maxDefaultsReplyWords {
		return false
	}
	norm = strings.TrimFunc(norm, func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSpace(r) })
	for _, p := range defaultsPhrases {
		if strings.Contains(norm, p) {
			return true
		}
	}

	accepted := false
	for _, clause := range strings.FieldsFunc(norm, isClauseBreak) {
		for _, w := range defaultWords {
			i := strings.Index(clause, w)
			if i < 0 {
				continue
			}
			if negated(clause[:i]) {
				return false
			}
			accepted = true
		}
	}
	return accepted
}

func isClauseBreak(r rune) bool {
	switch r {
	case ',', ';', '.', '!', '?', ':':
		return true
	}
	return false
}

// negated reports whether prefix contains a negation word.
func negated(prefix string) bool {
	words := strings.FieldsFunc(prefix, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	for _, w := range words {
		if negations[w] || strings.HasPrefix(w, "n'") {
			return true
		}
	}
	return false
}

// ApplyDefaults fills every unresolved field of a copy of r with its default
// and adds the default features. The input is never mutated.
func ApplyDefaults(r domain.RequirementRecord) domain.RequirementRecord {
	def := SuggestedDefaults()
	out := r.Clone()
	if out.AppType == domain.AppTypeUnset {
		out.AppType = def.AppType
	}
	if out.Design == domain.DesignUnset {
		out.Design = def.Design
	}
	if out.HasFeature(domain.FeaturePayment) && out.PaymentProvider == "" {
		out.PaymentProvider = def.PaymentProvider
	}
	if out.Database && out.DatabaseProduct == "" {
		out.DatabaseProduct = def.DatabaseProduct
	}
	for _, f := range def.ExtraFeatures {
		out.AddFeature(f)
	}
	requirements.Derive(&out)
	return out
}

// Resolution is the outcome of one clarification turn: either another bundle
// or a record ready for generation.
type Resolution struct {
	Record       domain.RequirementRecord `json:"record"`
	Bundle       *Bundle                  `json:"bundle,omitempty"`
	UsedDefaults bool                     `json:"used_defaults"`
}

// Ready reports whether generation can start.
func (r Resolution) Ready() bool {
	return r.Bundle == nil
}

// Resolver runs clarification turns.
type Resolver struct {
	maxRounds int
}

// NewResolver creates a Resolver that asks at most maxRounds question turns
// before defaulting. A negative maxRounds uses the default.
func NewResolver(maxRounds int) *Resolver {
	if maxRounds < 0 {
		maxRounds = constants.DefaultMaxClarificationRounds
	}
	return &Resolver{maxRounds: maxRounds}
}

// Resolve folds reply into a copy of prior. A defaults reply settles every
// pending question. Any other reply is read with the requirement extractor and
// fills fields that are still unset. When questions remain and the round limit
// has been reached, the remaining fields take their defaults.
func (res *Resolver) Resolve(prior domain.RequirementRecord, reply string, intent domain.Intent) Resolution {
	if IsUseDefaults(reply) {
		rec := ApplyDefaults(prior)
		rec.ClarificationRounds = prior.ClarificationRounds + 1
		return Resolution{Record: rec, UsedDefaults: true}
	}

	rec := mergeAnswer(prior, requirements.Extract(reply, nil))
	rec.ClarificationRounds = prior.ClarificationRounds + 1

	d := Decide(intent, rec)
	if !d.NeedsClarification {
		return Resolution{Record: rec}
	}
	if rec.ClarificationRounds >= res.maxRounds {
		rounds := rec.ClarificationRounds
		rec = ApplyDefaults(rec)
		rec.ClarificationRounds = rounds
		return Resolution{Record: rec, UsedDefaults: true}
	}
	return Resolution{Record: rec, Bundle: d.Bundle}
}

// mergeAnswer copies answer values into unset fields of prior and unions the
// feature set and stack.
func mergeAnswer(prior, answer domain.RequirementRecord) domain.RequirementRecord {
	out := prior.Clone()
	if out.AppType == domain.AppTypeUnset {
		out.AppType = answer.AppType
	}
	if out.Design == domain.DesignUnset {
		out.Design = answer.Design
	}
	if out.DatabaseProduct == "" {
		out.DatabaseProduct = answer.DatabaseProduct
	}
	if out.PaymentProvider == "" {
		out.PaymentProvider = answer.PaymentProvider
	}
	for _, f := range answer.FeatureList() {
		out.AddFeature(f)
	}
	for _, s := range answer.Stack {
		out.AddStack(s)
	}
	requirements.Derive(&out)
	return out
}
