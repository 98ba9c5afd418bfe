package review

import (
	"regexp"
	"strings"

	"github.com/mrz1836/forge/internal/domain"
)

// Rule is one pattern check. Match returns how many times the problem occurs.
type Rule struct {
	Category     string
	Severity     domain.Severity
	Description  string
	SuggestedFix string
	AutoFixable  bool
	Match        func(content string) int
}

//nolint:gochecknoglobals // Compiled once
var (
	imgTagRe        = regexp.MustCompile(`(?i)<img\b[^>]*>`)
	altAttrRe       = regexp.MustCompile(`(?i)\balt\s*=`)
	loadingAttrRe   = regexp.MustCompile(`(?i)\bloading\s*=`)
	blankTargetRe   = regexp.MustCompile(`(?i)<a\b[^>]*target\s*=\s*["']_blank["'][^>]*>`)
	relNoopenerRe   = regexp.MustCompile(`(?i)\brel\s*=\s*["'][^"']*noopener`)
	htmlTagRe       = regexp.MustCompile(`(?i)<html\b[^>]*>`)
	langAttrRe      = regexp.MustCompile(`(?i)\blang\s*=`)
	doctypeRe       = regexp.MustCompile(`(?i)<!doctype\s+html`)
	consoleLogRe    = regexp.MustCompile(`(?m)^[ \t]*console\.log\([^\n]*\);?[ \t]*\n?`)
	testOnlyRe      = regexp.MustCompile(`\b(describe|it|test)\.only\(`)
	testSkipRe      = regexp.MustCompile(`\b(describe|it|test)\.skip\(`)
	testBlockRe     = regexp.MustCompile(`\b(describe|it|test)\(`)
	evalRe          = regexp.MustCompile(`\beval\s*\(`)
	innerHTMLRe     = regexp.MustCompile(`\.innerHTML\s*\+?=`)
	docWriteRe      = regexp.MustCompile(`\bdocument\.write\s*\(`)
	secretRe        = regexp.MustCompile(`(?i)\b(api[_-]?key|secret|password|token)\s*[:=]\s*["'][A-Za-z0-9_\-]{8,}["']`)
	insecureURLRe   = regexp.MustCompile(`(?i)(src|href)\s*=\s*["']http://`)
	emptyCatchRe    = regexp.MustCompile(`catch\s*(\([^)]*\))?\s*\{\s*\}`)
	debuggerRe      = regexp.MustCompile(`(?m)^\s*debugger;?\s*$`)
	todoRe          = regexp.MustCompile(`\b(TODO|FIXME|XXX)\b`)
	syncXHRRe       = regexp.MustCompile(`\.open\([^)]*,\s*false\s*\)`)
	blockingScript  = regexp.MustCompile(`(?i)<script\b[^>]*\bsrc\s*=[^>]*>`)
	asyncDeferRe    = regexp.MustCompile(`(?i)\b(async|defer)\b`)
	viewportRe      = regexp.MustCompile(`(?i)<meta[^>]+name\s*=\s*["']viewport["']`)
	importantRe     = regexp.MustCompile(`!important`)
	wideFixedRe     = regexp.MustCompile(`(?i)\bwidth\s*:\s*\d{4,}px`)
	titleRe         = regexp.MustCompile(`(?i)<title>\s*\S`)
	h1Re            = regexp.MustCompile(`(?i)<h1\b`)
	emptyButtonRe   = regexp.MustCompile(`(?i)<button\b[^>]*>\s*</button>`)
	clickableDivRe  = regexp.MustCompile(`(?i)<(div|span)\b[^>]*\bonclick\s*=`)
	inputTagRe      = regexp.MustCompile(`(?i)<input\b[^>]*>`)
	inputLabelledRe = regexp.MustCompile(`(?i)\b(aria-label|aria-labelledby|id)\s*=|type\s*=\s*["'](hidden|submit|button)["']`)
)

func count(re *regexp.Regexp) func(string) int {
	return func(s string) int {
		return len(re.FindAllStringIndex(s, -1))
	}
}

// countTags counts tags matched by tag that do not satisfy has.
func countTags(tag, has *regexp.Regexp) func(string) int {
	return func(s string) int {
		n := 0
		for _, t := range tag.FindAllString(s, -1) {
			if !has.MatchString(t) {
				n++
			}
		}
		return n
	}
}

// whenHTML only reports a problem for content that contains an html element.
func whenHTML(fn func(string) int) func(string) int {
	return func(s string) int {
		if !htmlTagRe.MatchString(s) {
			return 0
		}
		return fn(s)
	}
}

func absent(re *regexp.Regexp) func(string) int {
	return func(s string) int {
		if re.MatchString(s) {
			return 0
		}
		return 1
	}
}

func above(limit int, fn func(string) int) func(string) int {
	return func(s string) int {
		if n := fn(s); n > limit {
			return n
		}
		return 0
	}
}

// Shared rules appear in more than one domain.
//
//nolint:gochecknoglobals // Static rule definitions
var (
	ruleMissingDoctype = Rule{
		Category:     "missing-doctype",
		Severity:     domain.SeverityLow,
		Description:  "HTML document has no <!DOCTYPE html> declaration",
		SuggestedFix: "Add <!DOCTYPE html> as the first line",
		AutoFixable:  true,
		Match:        whenHTML(absent(doctypeRe)),
	}
	ruleMissingLang = Rule{
		Category:     "missing-html-lang",
		Severity:     domain.SeverityMedium,
		Description:  "<html> element has no lang attribute",
		SuggestedFix: `Add lang="en" (or the content language) to <html>`,
		AutoFixable:  true,
		Match:        countTags(htmlTagRe, langAttrRe),
	}
	ruleMissingAlt = Rule{
		Category:     "missing-alt-text",
		Severity:     domain.SeverityMedium,
		Description:  "<img> elements without an alt attribute",
		SuggestedFix: "Describe each image in an alt attribute, or use alt=\"\" for decorative images",
		AutoFixable:  true,
		Match:        countTags(imgTagRe, altAttrRe),
	}
	ruleEval = Rule{
		Category:     "eval-usage",
		Severity:     domain.SeverityCritical,
		Description:  "eval() executes arbitrary strings as code",
		SuggestedFix: "Replace eval() with explicit parsing such as JSON.parse",
		Match:        count(evalRe),
	}
	ruleConsoleLog = Rule{
		Category:     "console-log",
		Severity:     domain.SeverityLow,
		Description:  "console.log statements left in code",
		SuggestedFix: "Remove debug logging or route it through a logger",
		AutoFixable:  true,
		Match:        count(consoleLogRe),
	}
)

//nolint:gochecknoglobals // Static rule tables per domain
var domainRules = map[Domain][]Rule{
	DomainStructure: {
		ruleMissingDoctype,
		{
			Category:     "missing-title",
			Severity:     domain.SeverityMedium,
			Description:  "HTML document has no non-empty <title>",
			SuggestedFix: "Add a descriptive <title> inside <head>",
			Match:        whenHTML(absent(titleRe)),
		},
		{
			Category:     "missing-h1",
			Severity:     domain.SeverityLow,
			Description:  "HTML document has no top-level <h1> heading",
			SuggestedFix: "Give the page one <h1> that names it",
			Match:        whenHTML(absent(h1Re)),
		},
		{
			Category:    "unfinished-work",
			Severity:    domain.SeverityLow,
			Description: "TODO or FIXME markers left in the output",
			Match:       count(todoRe),
		},
	},
	DomainVisual: {
		{
			Category:     "missing-viewport",
			Severity:     domain.SeverityMedium,
			Description:  "HTML document has no viewport meta tag, so it will not scale on mobile",
			SuggestedFix: `Add <meta name="viewport" content="width=device-width, initial-scale=1">`,
			Match:        whenHTML(absent(viewportRe)),
		},
		{
			Category:     "important-overuse",
			Severity:     domain.SeverityLow,
			Description:  "Heavy use of !important makes styles hard to override",
			SuggestedFix: "Raise selector specificity instead of using !important",
			Match:        above(5, count(importantRe)),
		},
		{
			Category:     "fixed-wide-layout",
			Severity:     domain.SeverityLow,
			Description:  "Fixed pixel widths of 1000px or more break small screens",
			SuggestedFix: "Use max-width or relative units",
			Match:        count(wideFixedRe),
		},
		ruleMissingAlt,
	},
	DomainLogic: {
		ruleEval,
		{
			Category:     "empty-catch",
			Severity:     domain.SeverityMedium,
			Description:  "Empty catch block silently swallows errors",
			SuggestedFix: "Handle or at least log the caught error",
			Match:        count(emptyCatchRe),
		},
		{
			Category:     "debugger-statement",
			Severity:     domain.SeverityMedium,
			Description:  "debugger statement left in code",
			SuggestedFix: "Remove the debugger statement",
			Match:        count(debuggerRe),
		},
		ruleConsoleLog,
		{
			Category:    "unfinished-work",
			Severity:    domain.SeverityLow,
			Description: "TODO or FIXME markers left in the output",
			Match:       count(todoRe),
		},
	},
	DomainSecurity: {
		ruleEval,
		{
			Category:     "hardcoded-secret",
			Severity:     domain.SeverityCritical,
			Description:  "Credential-like value hardcoded in source",
			SuggestedFix: "Read secrets from environment variables or a secret store",
			Match:        count(secretRe),
		},
		{
			Category:     "inner-html",
			Severity:     domain.SeverityHigh,
			Description:  "Assigning innerHTML can inject untrusted markup",
			SuggestedFix: "Use textContent or sanitize the markup first",
			Match:        count(innerHTMLRe),
		},
		{
			Category:     "document-write",
			Severity:     domain.SeverityHigh,
			Description:  "document.write can inject untrusted markup and blocks parsing",
			SuggestedFix: "Build nodes with the DOM API instead",
			Match:        count(docWriteRe),
		},
		{
			Category:     "missing-noopener",
			Severity:     domain.SeverityMedium,
			Description:  `Links with target="_blank" lack rel="noopener noreferrer"`,
			SuggestedFix: `Add rel="noopener noreferrer" to each target="_blank" link`,
			AutoFixable:  true,
			Match:        countTags(blankTargetRe, relNoopenerRe),
		},
		{
			Category:     "insecure-resource",
			Severity:     domain.SeverityMedium,
			Description:  "Resources loaded over plain http://",
			SuggestedFix: "Load every resource over https://",
			Match:        count(insecureURLRe),
		},
	},
	DomainPerformance: {
		{
			Category:     "sync-xhr",
			Severity:     domain.SeverityHigh,
			Description:  "Synchronous XMLHttpRequest blocks the main thread",
			SuggestedFix: "Use fetch or an asynchronous request",
			Match:        count(syncXHRRe),
		},
		{
			Category:     "render-blocking-script",
			Severity:     domain.SeverityMedium,
			Description:  "External scripts without async or defer block rendering",
			SuggestedFix: "Add defer (or async for independent scripts)",
			Match:        countTags(blockingScript, asyncDeferRe),
		},
		{
			Category:     "missing-lazy-loading",
			Severity:     domain.SeverityLow,
			Description:  "Images load eagerly",
			SuggestedFix: `Add loading="lazy" to below-the-fold images`,
			AutoFixable:  true,
			Match:        countTags(imgTagRe, loadingAttrRe),
		},
	},
	DomainTesting: {
		{
			Category:     "focused-test",
			Severity:     domain.SeverityHigh,
			Description:  ".only() restricts the suite to one test",
			SuggestedFix: "Remove .only so the whole suite runs",
			AutoFixable:  true,
			Match:        count(testOnlyRe),
		},
		{
			Category:     "skipped-test",
			Severity:     domain.SeverityMedium,
			Description:  ".skip() disables tests",
			SuggestedFix: "Fix or delete skipped tests",
			Match:        count(testSkipRe),
		},
		{
			Category:     "missing-assertions",
			Severity:     domain.SeverityMedium,
			Description:  "Test blocks without any assertion",
			SuggestedFix: "Assert on the behavior under test",
			Match: func(s string) int {
				if !testBlockRe.MatchString(s) {
					return 0
				}
				if strings.Contains(s, "expect(") || strings.Contains(s, "assert") {
					return 0
				}
				return 1
			},
		},
	},
	DomainAccessibility: {
		withSeverity(ruleMissingAlt, domain.SeverityHigh),
		ruleMissingLang,
		{
			Category:     "empty-button",
			Severity:     domain.SeverityMedium,
			Description:  "Buttons without an accessible name",
			SuggestedFix: "Give each button visible text or an aria-label",
			Match:        count(emptyButtonRe),
		},
		{
			Category:     "clickable-non-interactive",
			Severity:     domain.SeverityMedium,
			Description:  "onclick on div or span is not keyboard accessible",
			SuggestedFix: "Use a <button> element",
			Match:        count(clickableDivRe),
		},
		{
			Category:     "unlabelled-input",
			Severity:     domain.SeverityMedium,
			Description:  "Form inputs without a label or aria-label",
			SuggestedFix: "Associate a <label for> or add aria-label",
			Match:        countTags(inputTagRe, inputLabelledRe),
		},
	},
}

func withSeverity(r Rule, s domain.Severity) Rule {
	r.Severity = s
	return r
}

// RulesFor returns the rules checked for d. DomainNone has none.
func RulesFor(d Domain) []Rule {
	return domainRules[d]
}
