package extract

import (
	"regexp"
	"strings"
)

// hintNouns are generic request terms that suggest a project tree rather than
// one document. They also match in the plural ("APIs", "servers").
//
//nolint:gochecknoglobals // read-only keyword table
var hintNouns = []string{
	"backend", "back-end", "server", "serveur", "runtime",
	"database", "base de données", "base de donnees",
	"api", "project", "projet",
}

// hintNames are frameworks, runtimes and products. They also match with a
// "js" or version suffix ("ReactJS", "Vue3").
//
//nolint:gochecknoglobals // read-only keyword table
var hintNames = []string{
	"react", "vue", "angular", "svelte", "next.js", "nextjs", "nuxt", "remix", "astro",
	"node", "node.js", "nodejs", "express", "deno", "bun", "nestjs",
	"postgres", "postgresql", "mysql", "mongodb", "sqlite", "supabase", "firebase", "prisma",
	"graphql",
	"django", "flask", "fastapi", "laravel", "php", "python", "typescript", "golang", "rails",
}

const (
	pluralSuffix  = `(?:e?s)?`
	versionSuffix = `(?:\.?js|\d+)?`
)

//nolint:gochecknoglobals // compiled once
var hintPattern = compileHintPattern(hintNouns, hintNames)

func compileHintPattern(nouns, names []string) *regexp.Regexp {
	alts := make([]string, 0, len(nouns)+len(names))
	for _, w := range nouns {
		alts = append(alts, regexp.QuoteMeta(w)+pluralSuffix)
	}
	for _, w := range names {
		alts = append(alts, regexp.QuoteMeta(w)+versionSuffix)
	}
	return regexp.MustCompile(`(?i)(^|[^\pL\pN])(?:` + strings.Join(alts, "|") + `)([^\pL\pN]|$)`)
}

// ExpectMultiFile reports whether the request text names any multi-file hint.
// The left edge of a keyword must be a word boundary so "api" does not fire on
// "rapide"; the right edge allows a plural or a version suffix.
func ExpectMultiFile(request string) bool {
	return hintPattern.MatchString(request)
}
