// Package requirements turns free request text into a structured requirement
// record. Classification is deterministic keyword matching against the
// embedded, versioned tables in keywords.yaml; there is no language model here.
//
// Everything in this package is pure and reentrant: the same input always
// yields the same record, and concurrent calls need no locking.
package requirements

import (
	"sort"
	"strings"
	"unicode"

	"github.com/mrz1836/forge/internal/domain"
)

// Complexity thresholds on the score features + stack entries + documents.
const (
	complexScore = 6
	mediumScore  = 3
)

// Extractor matches text against a set of keyword tables.
type Extractor struct {
	tables *Tables
}

// New creates an Extractor over tables. A nil tables uses the embedded defaults.
func New(tables *Tables) *Extractor {
	if tables == nil {
		tables = MustDefaultTables()
	}
	return &Extractor{tables: tables}
}

// Extract reads text and the attached documents with the embedded tables.
func Extract(text string, docs []domain.Document) domain.RequirementRecord {
	return New(nil).Extract(text, docs)
}

// Extract builds a record from text and docs. Attachment text takes part in
// matching. Fields nothing matched stay unset. Extract never fails.
func (e *Extractor) Extract(text string, docs []domain.Document) domain.RequirementRecord {
	haystack := normalize(text, docs)

	record := domain.RequirementRecord{
		AppType:         domain.AppType(lastMatch(haystack, e.tables.AppTypes)),
		Design:          domain.DesignStyle(lastMatch(haystack, e.tables.Designs)),
		DatabaseProduct: lastMatch(haystack, e.tables.DatabaseProducts),
		PaymentProvider: lastMatch(haystack, e.tables.PaymentProviders),
		Documents:       append([]domain.Document(nil), docs...),
	}

	for _, tag := range allMatches(haystack, e.tables.Features) {
		record.AddFeature(domain.Feature(tag))
	}
	for _, tag := range orderedMatches(haystack, e.tables.Stack) {
		record.AddStack(tag)
	}

	Derive(&record)
	return record
}

// Derive recomputes the flags and complexity that follow from the other fields.
// A database product implies the database feature and a payment provider
// implies the payment feature. A frozen record is left as is.
func Derive(r *domain.RequirementRecord) {
	if r.Frozen {
		return
	}
	if r.DatabaseProduct != "" {
		r.AddFeature(domain.FeatureDatabase)
	}
	if r.PaymentProvider != "" {
		r.AddFeature(domain.FeaturePayment)
	}
	r.Database = r.HasFeature(domain.FeatureDatabase)
	r.Authentication = r.HasFeature(domain.FeatureAuth)
	r.Complexity = ComplexityOf(*r)
}

// ComplexityOf scores a record: complex for e-commerce, SaaS and social apps or
// a score of six or more, medium from three, simple otherwise.
func ComplexityOf(r domain.RequirementRecord) domain.Complexity {
	switch r.AppType {
	case domain.AppTypeEcommerce, domain.AppTypeSaaS, domain.AppTypeSocial:
		return domain.ComplexityComplex
	}
	score := len(r.FeatureList()) + len(r.Stack) + len(r.Documents)
	switch {
	case score >= complexScore:
		return domain.ComplexityComplex
	case score >= mediumScore:
		return domain.ComplexityMedium
	default:
		return domain.ComplexitySimple
	}
}

// normalize lower-cases text and attachment text, turns separators into spaces
// and pads the result so keywords can anchor on word edges.
func normalize(text string, docs []domain.Document) string {
	var b strings.Builder
	b.WriteByte(' ')
	writeNormalized(&b, text)
	for _, d := range docs {
		b.WriteByte(' ')
		writeNormalized(&b, d.Text)
	}
	b.WriteByte(' ')
	return b.String()
}

func writeNormalized(b *strings.Builder, s string) {
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '\'' || r == '+' || r == '#':
			b.WriteRune(r)
		case r == '’':
			b.WriteByte('\'')
		default:
			b.WriteByte(' ')
		}
	}
}

func matches(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// lastMatch returns the tag of the highest-priority (last) matching entry.
func lastMatch(haystack string, table []Entry) string {
	tag := ""
	for _, e := range table {
		if matches(haystack, e.Keywords) {
			tag = e.Tag
		}
	}
	return tag
}

// allMatches returns every matching tag in table order.
func allMatches(haystack string, table []Entry) []string {
	var tags []string
	for _, e := range table {
		if matches(haystack, e.Keywords) {
			tags = append(tags, e.Tag)
		}
	}
	return tags
}

// orderedMatches returns matching tags ordered by where they first appear in
// haystack. Ties keep table order.
func orderedMatches(haystack string, table []Entry) []string {
	type hit struct {
		tag string
		at  int
	}
	var hits []hit
	for _, e := range table {
		first := -1
		for _, kw := range e.Keywords {
			if i := strings.Index(haystack, strings.ToLower(kw)); i >= 0 && (first < 0 || i < first) {
				first = i
			}
		}
		if first >= 0 {
			hits = append(hits, hit{tag: e.Tag, at: first})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].at < hits[j].at })

	tags := make([]string, len(hits))
	for i, h := range hits {
		tags[i] = h.tag
	}
	return tags
}
