package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mrz1836/forge/internal/domain"
)

// Discriminators are the literal substrings that mark the multi-file payload
// inside free-form text. Both must be present.
const (
	FormatDiscriminator = `"multi-file-project"`
	FilesDiscriminator  = `"files"`

	// PayloadFormat is the value of the payload's "format" field.
	PayloadFormat = "multi-file-project"
)

var (
	errNotPayload = errors.New("not a multi-file payload")
	errNoFiles    = errors.New("multi-file payload has no usable files")
)

// payload is the wire shape of a multi-file response:
//
//	{"format":"multi-file-project","name":"todo","entryFile":"index.html",
//	 "setupNotes":"npm install","files":[{"path":"index.html","content":"..."}]}
type payload struct {
	Format     string        `json:"format"`
	Name       string        `json:"name"`
	EntryFile  string        `json:"entryFile"`
	SetupNotes string        `json:"setupNotes"`
	Files      []payloadFile `json:"files"`
}

type payloadFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// hasDiscriminators reports whether s contains both discriminator substrings.
func hasDiscriminators(s string) bool {
	return strings.Contains(s, FormatDiscriminator) && strings.Contains(s, FilesDiscriminator)
}

// decodePayload parses candidate into a project. It fails when the candidate is
// not JSON, does not declare the multi-file format, or yields zero usable files.
// Non-fatal oddities (duplicate paths, missing entry file) come back as notes.
func decodePayload(candidate string) (*domain.MultiFileProject, []string, error) {
	var p payload
	if err := json.Unmarshal([]byte(candidate), &p); err != nil {
		return nil, nil, fmt.Errorf("decode payload: %w", err)
	}
	if p.Format != PayloadFormat || p.Files == nil {
		return nil, nil, errNotPayload
	}

	files, notes := usableFiles(p.Files)
	if len(files) == 0 {
		return nil, notes, errNoFiles
	}

	project := &domain.MultiFileProject{
		Name:       strings.TrimSpace(p.Name),
		Files:      files,
		EntryFile:  cleanPath(p.EntryFile),
		SetupNotes: strings.TrimSpace(p.SetupNotes),
	}
	if project.Name == "" {
		project.Name = "project"
	}
	if !containsPath(files, project.EntryFile) {
		if project.EntryFile != "" {
			notes = append(notes, fmt.Sprintf("entry file %q is not in the file list", project.EntryFile))
		}
		project.EntryFile = defaultEntry(files)
	}
	return project, notes, nil
}

// usableFiles drops entries without a path and keeps the first of duplicate paths.
func usableFiles(in []payloadFile) ([]domain.ProjectFile, []string) {
	var (
		out   []domain.ProjectFile
		notes []string
		seen  = make(map[string]bool, len(in))
	)
	for i, f := range in {
		p := cleanPath(f.Path)
		if p == "" {
			notes = append(notes, fmt.Sprintf("file %d has no path", i+1))
			continue
		}
		if seen[p] {
			notes = append(notes, fmt.Sprintf("duplicate path %q ignored", p))
			continue
		}
		seen[p] = true
		out = append(out, domain.ProjectFile{Path: p, Content: f.Content})
	}
	return out, notes
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, `\`, "/")
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

func containsPath(files []domain.ProjectFile, p string) bool {
	if p == "" {
		return false
	}
	for _, f := range files {
		if f.Path == p {
			return true
		}
	}
	return false
}

// defaultEntry prefers a root index.html, then the first file.
func defaultEntry(files []domain.ProjectFile) string {
	for _, f := range files {
		if f.Path == "index.html" {
			return f.Path
		}
	}
	return files[0].Path
}
