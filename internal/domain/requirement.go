package domain

import (
	"slices"
	"sort"
)

// AppType is the kind of application the user asked for. The zero value means unset.
type AppType string

// Recognized application types.
const (
	AppTypeUnset     AppType = ""
	AppTypeLanding   AppType = "landing"
	AppTypeEcommerce AppType = "ecommerce"
	AppTypeDashboard AppType = "dashboard"
	AppTypeBlog      AppType = "blog"
	AppTypePortfolio AppType = "portfolio"
	AppTypeSaaS      AppType = "saas"
	AppTypeSocial    AppType = "social"
	AppTypeChat      AppType = "chat"
	AppTypeWebApp    AppType = "webapp"
)

// String returns the string representation of the AppType.
func (a AppType) String() string {
	return string(a)
}

// IsValid reports whether a is a recognized, set application type.
func (a AppType) IsValid() bool {
	switch a {
	case AppTypeLanding, AppTypeEcommerce, AppTypeDashboard, AppTypeBlog, AppTypePortfolio,
		AppTypeSaaS, AppTypeSocial, AppTypeChat, AppTypeWebApp:
		return true
	}
	return false
}

// DesignStyle is the requested visual direction. The zero value means unset.
type DesignStyle string

// Recognized design styles.
const (
	DesignUnset     DesignStyle = ""
	DesignModern    DesignStyle = "modern"
	DesignMinimal   DesignStyle = "minimal"
	DesignCorporate DesignStyle = "corporate"
	DesignPlayful   DesignStyle = "playful"
	DesignDark      DesignStyle = "dark"
)

// String returns the string representation of the DesignStyle.
func (d DesignStyle) String() string {
	return string(d)
}

// IsValid reports whether d is a recognized, set design style.
func (d DesignStyle) IsValid() bool {
	switch d {
	case DesignModern, DesignMinimal, DesignCorporate, DesignPlayful, DesignDark:
		return true
	}
	return false
}

// Feature is one tag of the fixed feature vocabulary.
type Feature string

// The feature vocabulary. Tokens outside it are ignored.
const (
	FeatureAuth          Feature = "auth"
	FeatureDatabase      Feature = "database"
	FeatureAPI           Feature = "api"
	FeaturePayment       Feature = "payment"
	FeatureSEO           Feature = "seo"
	FeatureResponsive    Feature = "responsive"
	FeatureMobile        Feature = "mobile"
	FeatureRealtime      Feature = "realtime"
	FeatureSearch        Feature = "search"
	FeatureUpload        Feature = "upload"
	FeatureAnalytics     Feature = "analytics"
	FeatureI18n          Feature = "i18n"
	FeatureNotifications Feature = "notifications"
)

// IsValid reports whether f belongs to the feature vocabulary.
func (f Feature) IsValid() bool {
	switch f {
	case FeatureAuth, FeatureDatabase, FeatureAPI, FeaturePayment, FeatureSEO,
		FeatureResponsive, FeatureMobile, FeatureRealtime, FeatureSearch, FeatureUpload,
		FeatureAnalytics, FeatureI18n, FeatureNotifications:
		return true
	}
	return false
}

// Complexity is derived from the requirement record.
type Complexity string

// Complexity levels.
const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// String returns the string representation of the Complexity.
func (c Complexity) String() string {
	return string(c)
}

// Document is an attachment already converted to plain text.
type Document struct {
	Name string `json:"name"`
	MIME string `json:"mime"`
	Text string `json:"text"`
}

// RequirementRecord is the structured reading of a request. It is built per
// request, filled in while clarification answers arrive, and frozen once
// generation starts.
type RequirementRecord struct {
	AppType         AppType          `json:"app_type"`
	Design          DesignStyle      `json:"design"`
	Features        map[Feature]bool `json:"features"`
	Stack           []string         `json:"stack"`
	DatabaseProduct string           `json:"database_product,omitempty"`
	PaymentProvider string           `json:"payment_provider,omitempty"`
	Database        bool             `json:"database"`
	Authentication  bool             `json:"authentication"`
	Documents       []Document       `json:"documents,omitempty"`
	Complexity      Complexity       `json:"complexity"`

	// ClarificationRounds counts answered question turns.
	ClarificationRounds int `json:"clarification_rounds"`

	// Frozen is set when generation starts. AddFeature and AddStack ignore a
	// frozen record; callers that need changes work on a Clone.
	Frozen bool `json:"frozen"`
}

// HasFeature reports whether f is in the feature set.
func (r *RequirementRecord) HasFeature(f Feature) bool {
	return r.Features[f]
}

// AddFeature adds f to the feature set. Tags outside the vocabulary and frozen
// records are ignored.
func (r *RequirementRecord) AddFeature(f Feature) {
	if r.Frozen || !f.IsValid() {
		return
	}
	if r.Features == nil {
		r.Features = make(map[Feature]bool)
	}
	r.Features[f] = true
}

// FeatureList returns the feature set sorted alphabetically.
func (r *RequirementRecord) FeatureList() []Feature {
	out := make([]Feature, 0, len(r.Features))
	for f, on := range r.Features {
		if on {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AddStack appends a stack entry unless it is already present or the record
// is frozen.
func (r *RequirementRecord) AddStack(entry string) {
	if r.Frozen || entry == "" || slices.Contains(r.Stack, entry) {
		return
	}
	r.Stack = append(r.Stack, entry)
}

// Freeze marks the record as consumed by generation.
func (r *RequirementRecord) Freeze() {
	r.Frozen = true
}

// Clone returns a deep copy with Frozen cleared.
func (r RequirementRecord) Clone() RequirementRecord {
	out := r
	out.Frozen = false
	if r.Features != nil {
		out.Features = make(map[Feature]bool, len(r.Features))
		for f, on := range r.Features {
			out.Features[f] = on
		}
	}
	out.Stack = slices.Clone(r.Stack)
	out.Documents = slices.Clone(r.Documents)
	return out
}
