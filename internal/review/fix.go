package review

import (
	"regexp"
	"strings"

	"github.com/mrz1836/forge/internal/collab"
	"github.com/mrz1836/forge/internal/domain"
)

// Fix is one automatic correction: the first occurrence of Before in the
// content becomes After.
type Fix struct {
	Category string `json:"category"`
	collab.Change
}

// fixer proposes changes against the current content.
type fixer func(content string) []collab.Change

//nolint:gochecknoglobals // Static fixer table
var fixers = map[string]fixer{
	"missing-alt-text":     tagFixer(imgTagRe, altAttrRe, `alt=""`),
	"missing-lazy-loading": tagFixer(imgTagRe, loadingAttrRe, `loading="lazy"`),
	"missing-noopener":     noopenerFixer,
	"missing-html-lang":    tagFixer(htmlTagRe, langAttrRe, `lang="en"`),
	"missing-doctype":      doctypeFixer,
	"console-log":          removeFixer(consoleLogRe),
	"focused-test":         focusedTestFixer,
}

//nolint:gochecknoglobals // Compiled once
var relAttrRe = regexp.MustCompile(`(?i)\brel\s*=\s*["']([^"']*)["']`)

// insertAttr adds attr before the closing bracket of tag.
func insertAttr(tag, attr string) string {
	if strings.HasSuffix(tag, "/>") {
		return strings.TrimRight(strings.TrimSuffix(tag, "/>"), " ") + " " + attr + " />"
	}
	return strings.TrimRight(strings.TrimSuffix(tag, ">"), " ") + " " + attr + ">"
}

func tagFixer(tag, has *regexp.Regexp, attr string) fixer {
	return func(content string) []collab.Change {
		var out []collab.Change
		for _, t := range tag.FindAllString(content, -1) {
			if has.MatchString(t) {
				continue
			}
			out = append(out, collab.Change{Before: t, After: insertAttr(t, attr)})
		}
		return out
	}
}

func noopenerFixer(content string) []collab.Change {
	var out []collab.Change
	for _, t := range blankTargetRe.FindAllString(content, -1) {
		if relNoopenerRe.MatchString(t) {
			continue
		}
		after := insertAttr(t, `rel="noopener noreferrer"`)
		if m := relAttrRe.FindStringSubmatchIndex(t); m != nil {
			existing := t[m[2]:m[3]]
			after = t[:m[2]] + strings.TrimSpace(existing+" noopener noreferrer") + t[m[3]:]
		}
		out = append(out, collab.Change{Before: t, After: after})
	}
	return out
}

func doctypeFixer(content string) []collab.Change {
	if doctypeRe.MatchString(content) {
		return nil
	}
	tag := htmlTagRe.FindString(content)
	if tag == "" {
		return nil
	}
	return []collab.Change{{Before: tag, After: "<!DOCTYPE html>\n" + tag}}
}

func removeFixer(re *regexp.Regexp) fixer {
	return func(content string) []collab.Change {
		var out []collab.Change
		for _, m := range re.FindAllString(content, -1) {
			out = append(out, collab.Change{Before: m, After: ""})
		}
		return out
	}
}

func focusedTestFixer(content string) []collab.Change {
	var out []collab.Change
	for _, m := range testOnlyRe.FindAllStringSubmatch(content, -1) {
		out = append(out, collab.Change{Before: m[0], After: m[1] + "("})
	}
	return out
}

// AutoFix applies the fixers for every auto-fixable issue in issues to content
// and returns the fixed content with the changes made, in order. Each change
// applies to the content as left by the previous ones.
func AutoFix(content string, issues []domain.IssueReport) (string, []Fix) {
	var fixes []Fix
	seen := make(map[string]bool)

	for _, issue := range issues {
		if !issue.AutoFixable || seen[issue.Category] {
			continue
		}
		seen[issue.Category] = true

		fn, ok := fixers[issue.Category]
		if !ok {
			continue
		}
		for _, change := range fn(content) {
			if !strings.Contains(content, change.Before) {
				continue
			}
			content = strings.Replace(content, change.Before, change.After, 1)
			fixes = append(fixes, Fix{Category: issue.Category, Change: change})
		}
	}
	return content, fixes
}
