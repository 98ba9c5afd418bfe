// Package extract classifies a raw generation response as a single document or
// a multi-file project and pulls the artifact out of it.
//
// Responses are expected to follow one of two formats but are never guaranteed
// to be well formed. Extraction therefore always produces an artifact: it walks
// a ladder of strategies (fenced payload, unfenced payload, salvage, document)
// and degrades to the raw text as a SingleDocument in the worst case. Nothing in
// this package returns an error or panics on malformed input.
package extract

import (
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/forge/internal/domain"
	"github.com/mrz1836/forge/internal/jsonscan"
)

// Method names the ladder step that produced an artifact.
type Method string

// Extraction methods.
const (
	MethodFenced   Method = "fenced"
	MethodUnfenced Method = "unfenced"
	MethodSalvage  Method = "salvage"
	MethodDocument Method = "document"
)

// Confidence per method. A document is fully trusted when nothing suggested a
// project was wanted.
const (
	ConfidenceFenced        = 0.95
	ConfidenceUnfenced      = 0.85
	ConfidenceSalvage       = 0.4
	ConfidenceDocument      = 0.7
	ConfidenceDocumentPlain = 1.0
)

// maxAnchors bounds how many discriminator occurrences the unfenced step tries.
const maxAnchors = 8

// maxUnclosedCandidates bounds how many openings the walk-back scans to the end
// of the text without finding a close. An opening that does not close is
// usually a truncated payload, and every opening before it would rescan the
// same tail.
const maxUnclosedCandidates = 4

// Result is the outcome of one extraction.
type Result struct {
	Artifact        domain.Artifact `json:"-"`
	Method          Method          `json:"method"`
	Confidence      float64         `json:"confidence"`
	ExpectMultiFile bool            `json:"expect_multi_file"`
	Warnings        []string        `json:"warnings,omitempty"`
}

// Extractor runs the classification ladder. The zero value is usable and logs
// nothing.
type Extractor struct {
	logger zerolog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for diagnostic messages.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract classifies response using a silent Extractor.
func Extract(response, request string) Result {
	return New().Extract(response, request)
}

// Extract classifies response. request is the user's original text and only
// serves as the multi-file hint.
func (e *Extractor) Extract(response, request string) Result {
	res := Result{ExpectMultiFile: ExpectMultiFile(request)}

	if strings.TrimSpace(response) == "" {
		res.warn("empty response")
		return e.document(res, response)
	}

	discriminated := hasDiscriminators(response)
	if !discriminated && !res.ExpectMultiFile {
		return e.document(res, response)
	}

	regions := FencedRegions(response)

	if discriminated {
		if project, ok := e.fenced(&res, regions); ok {
			return e.project(res, project, MethodFenced, ConfidenceFenced)
		}
		if project, ok := e.unfenced(&res, response); ok {
			return e.project(res, project, MethodUnfenced, ConfidenceUnfenced)
		}
	}

	if res.ExpectMultiFile && len(regions) > 0 {
		if project, source := salvage(response, regions); project != nil {
			res.warn("multi-file payload not found; salvaged " + source)
			return e.project(res, project, MethodSalvage, ConfidenceSalvage)
		}
	}

	return e.document(res, response)
}

// fenced tries the first fenced region that opens with a brace and carries
// both discriminators.
func (e *Extractor) fenced(res *Result, regions []Fence) (*domain.MultiFileProject, bool) {
	for _, r := range regions {
		body := strings.TrimSpace(r.Body)
		if !strings.HasPrefix(body, "{") || !hasDiscriminators(body) {
			continue
		}
		candidate := body
		if sp, ok := jsonscan.Object(body, 0); ok {
			candidate = sp.Text(body)
		}
		project, notes, err := decodePayload(candidate)
		res.warn(notes...)
		if err != nil {
			e.logger.Debug().Err(err).Str("lang", r.Lang).Msg("fenced payload rejected")
			res.warn("fenced payload rejected: " + err.Error())
			return nil, false
		}
		return project, true
	}
	return nil, false
}

// unfenced locates a raw discriminator and walks back to each preceding '{',
// nearest first, brace-walking forward to a candidate object that encloses the
// discriminator.
func (e *Extractor) unfenced(res *Result, response string) (*domain.MultiFileProject, bool) {
	for _, anchor := range discriminatorAnchors(response) {
		spans, _ := enclosingObjects(response, anchor)
		for _, sp := range spans {
			candidate := sp.Text(response)
			if !hasDiscriminators(candidate) {
				continue
			}
			project, notes, err := decodePayload(candidate)
			if err != nil {
				e.logger.Debug().Err(err).Int("offset", sp.Start).Msg("unfenced candidate rejected")
				continue
			}
			res.warn(notes...)
			return project, true
		}
	}
	res.warn("no complete multi-file payload found")
	return nil, false
}

// enclosingObjects returns the complete objects that open before anchor and
// close after it, nearest opening first, along with the number of openings
// scanned. The walk stops after maxUnclosedCandidates openings fail to close.
func enclosingObjects(s string, anchor int) ([]jsonscan.Span, int) {
	var (
		spans    []jsonscan.Span
		scanned  int
		unclosed int
	)
	for _, open := range jsonscan.OpenBracesBefore(s, anchor) {
		scanned++
		sp, ok := jsonscan.Object(s, open)
		if !ok {
			unclosed++
			if unclosed >= maxUnclosedCandidates {
				break
			}
			continue
		}
		if sp.End > anchor {
			spans = append(spans, sp)
		}
	}
	return spans, scanned
}

// discriminatorAnchors returns the offsets of the first few discriminator
// occurrences in ascending order.
func discriminatorAnchors(s string) []int {
	var anchors []int
	for _, marker := range []string{FormatDiscriminator, FilesDiscriminator} {
		from := 0
		for n := 0; n < maxAnchors; n++ {
			i := strings.Index(s[from:], marker)
			if i < 0 {
				break
			}
			anchors = append(anchors, from+i)
			from += i + len(marker)
		}
	}
	slices.Sort(anchors)
	if len(anchors) > maxAnchors {
		anchors = anchors[:maxAnchors]
	}
	return anchors
}

func (e *Extractor) project(res Result, p *domain.MultiFileProject, m Method, confidence float64) Result {
	res.Artifact = p
	res.Method = m
	res.Confidence = confidence
	e.logger.Debug().
		Str("method", string(m)).
		Int("files", len(p.Files)).
		Float64("confidence", confidence).
		Msg("extracted multi-file project")
	return res
}

func (e *Extractor) document(res Result, response string) Result {
	res.Artifact = &domain.SingleDocument{Content: StripFence(response)}
	res.Method = MethodDocument
	res.Confidence = ConfidenceDocument
	if !res.ExpectMultiFile && !hasDiscriminators(response) {
		res.Confidence = ConfidenceDocumentPlain
	}
	e.logger.Debug().
		Bool("expect_multi_file", res.ExpectMultiFile).
		Float64("confidence", res.Confidence).
		Msg("extracted single document")
	return res
}

func (r *Result) warn(msgs ...string) {
	r.Warnings = append(r.Warnings, msgs...)
}
