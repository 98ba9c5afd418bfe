package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mrz1836/forge/internal/domain"
	"github.com/mrz1836/forge/internal/jsonscan"
)

// Salvaged projects get fixed names for the first manifest-like and the first
// markup-like region.
const (
	SalvageManifestName = "package.json"
	SalvageEntryName    = "index.html"
	salvageProjectName  = "salvaged-project"
)

//nolint:gochecknoglobals // read-only lookup table
var extensionByLang = map[string]string{
	"":           "txt",
	"text":       "txt",
	"txt":        "txt",
	"plaintext":  "txt",
	"js":         "js",
	"javascript": "js",
	"mjs":        "js",
	"jsx":        "jsx",
	"ts":         "ts",
	"typescript": "ts",
	"tsx":        "tsx",
	"html":       "html",
	"htm":        "html",
	"css":        "css",
	"scss":       "scss",
	"json":       "json",
	"python":     "py",
	"py":         "py",
	"go":         "go",
	"golang":     "go",
	"sh":         "sh",
	"bash":       "sh",
	"shell":      "sh",
	"yaml":       "yml",
	"yml":        "yml",
	"md":         "md",
	"markdown":   "md",
	"sql":        "sql",
	"php":        "php",
	"vue":        "vue",
	"svelte":     "svelte",
	"dockerfile": "dockerfile",
	"toml":       "toml",
	"xml":        "xml",
}

// extensionFor maps a fence language tag to a file extension. Unknown short
// alphanumeric tags are used as-is.
func extensionFor(lang string) string {
	if ext, ok := extensionByLang[lang]; ok {
		return ext
	}
	if len(lang) <= 10 && isAlnum(lang) {
		return lang
	}
	return "txt"
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func looksLikeJSON(f Fence) bool {
	if f.Lang == "json" {
		return true
	}
	return f.Lang == "" && strings.HasPrefix(strings.TrimSpace(f.Body), "{")
}

func looksLikeHTML(f Fence) bool {
	if f.Lang == "html" || f.Lang == "htm" {
		return true
	}
	body := strings.ToLower(strings.TrimSpace(f.Body))
	return f.Lang == "" && (strings.HasPrefix(body, "<!doctype html") || strings.HasPrefix(body, "<html"))
}

// salvageEntries recovers complete {"path","content"} objects from a payload
// whose outer object never closes.
func salvageEntries(text string) []domain.ProjectFile {
	at := strings.Index(text, FilesDiscriminator)
	if at < 0 {
		return nil
	}
	tail := text[at:]

	var entries []payloadFile
	for _, sp := range jsonscan.Objects(tail) {
		var f payloadFile
		if err := json.Unmarshal([]byte(sp.Text(tail)), &f); err != nil {
			continue
		}
		entries = append(entries, f)
	}
	files, _ := usableFiles(entries)
	return files
}

// salvageRegions turns fenced regions into files. The first JSON-like region is
// named package.json, the first HTML-like region index.html, and every other
// region file-<position>.<ext>, where position is its 1-based order among all
// regions. Regions with the same language tag are therefore named in order of
// appearance. Regions carrying the broken payload itself are skipped unless
// nothing else is available.
func salvageRegions(regions []Fence) []domain.ProjectFile {
	usable := make([]int, 0, len(regions))
	for i, r := range regions {
		if strings.TrimSpace(r.Body) == "" || hasDiscriminators(r.Body) {
			continue
		}
		usable = append(usable, i)
	}
	if len(usable) == 0 {
		for i, r := range regions {
			if strings.TrimSpace(r.Body) != "" {
				usable = append(usable, i)
			}
		}
	}

	var (
		files        []domain.ProjectFile
		haveManifest bool
		haveEntry    bool
	)
	for _, i := range usable {
		r := regions[i]
		var name string
		switch {
		case !haveManifest && looksLikeJSON(r):
			name = SalvageManifestName
			haveManifest = true
		case !haveEntry && looksLikeHTML(r):
			name = SalvageEntryName
			haveEntry = true
		default:
			name = fmt.Sprintf("file-%d.%s", i+1, extensionFor(r.Lang))
		}
		files = append(files, domain.ProjectFile{Path: name, Content: r.Body})
	}
	return files
}

// salvage builds a best-effort project from a response whose payload could not
// be decoded. Complete file entries of a truncated payload win over raw regions.
func salvage(response string, regions []Fence) (*domain.MultiFileProject, string) {
	files := salvageEntries(response)
	source := "recovered payload entries"
	if len(files) == 0 {
		files = salvageRegions(regions)
		source = "fenced regions"
	}
	if len(files) == 0 {
		return nil, ""
	}
	return &domain.MultiFileProject{
		Name:       salvageProjectName,
		Files:      files,
		EntryFile:  defaultEntry(files),
		SetupNotes: outsideFences(response),
	}, source
}
