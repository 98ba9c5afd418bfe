package cli

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrz1836/forge/internal/constants"
	"github.com/mrz1836/forge/internal/domain"
	"github.com/mrz1836/forge/internal/errors"
	"github.com/mrz1836/forge/internal/flock"
	"github.com/mrz1836/forge/internal/requirements"
)

// File names used when a single document is written to --out.
const (
	htmlDocumentName     = "index.html"
	markdownDocumentName = "document.md"
)

// artifactManifest is written next to an exported project.
type artifactManifest struct {
	Name       string   `json:"name"`
	EntryFile  string   `json:"entry_file,omitempty"`
	SetupNotes string   `json:"setup_notes,omitempty"`
	Files      []string `json:"files"`
}

// readDocuments loads --doc attachments. The MIME type comes from the file
// extension and defaults to text/plain.
func readDocuments(paths []string) ([]requirements.RawDocument, error) {
	docs := make([]requirements.RawDocument, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path) //nolint:gosec // user-selected attachment
		if err != nil {
			return nil, fmt.Errorf("failed to read document %s: %w", path, err)
		}
		mimeType := mime.TypeByExtension(filepath.Ext(path))
		if mimeType == "" {
			mimeType = "text/plain"
		}
		docs = append(docs, requirements.RawDocument{
			Name: filepath.Base(path),
			MIME: mimeType,
			Text: string(data),
		})
	}
	return docs, nil
}

// confirmOverwrite guards a non-empty output directory. It passes when dir is
// empty or missing, when force is set, or when the user confirms on a
// terminal. Otherwise it returns an exit-code-2 ErrOutputNotEmpty.
func (a *app) confirmOverwrite(dir string, force bool) error {
	if dir == "" || force {
		return nil
	}
	n, err := occupiedEntries(dir)
	if err != nil || n == 0 {
		return err
	}

	refused := errors.NewExitCode2Error(fmt.Errorf("%w: %s has %d entries", errors.ErrOutputNotEmpty, dir, n))
	if a.jsonOutput() || !a.interactive() {
		return refused
	}
	ok, err := a.prompter.Confirm(fmt.Sprintf("%s already has %d entries. Overwrite matching files?", dir, n), false)
	switch {
	case isMenuCanceled(err):
		return refused
	case err != nil:
		return err
	case !ok:
		return refused
	}
	return nil
}

// occupiedEntries counts the entries of dir other than the lock file. A
// missing directory has none.
func occupiedEntries(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if stderrors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read output directory %s: %w", dir, err)
	}
	n := 0
	for _, e := range entries {
		if e.Name() != flock.LockFileName {
			n++
		}
	}
	return n, nil
}

// deliverArtifact writes the artifact under dir while holding the directory
// lock. Nothing is written when dir is empty.
func deliverArtifact(dir string, artifact domain.Artifact) (written []string, err error) {
	if dir == "" || artifact == nil {
		return nil, nil
	}

	lock, err := flock.Acquire(dir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := lock.Release(); releaseErr != nil && err == nil {
			err = fmt.Errorf("failed to release output lock: %w", releaseErr)
		}
	}()

	switch v := artifact.(type) {
	case *domain.MultiFileProject:
		return writeProject(dir, v)
	case *domain.SingleDocument:
		name := markdownDocumentName
		if looksLikeHTML(v.Content) {
			name = htmlDocumentName
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(v.Content), 0o600); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		return []string{path}, nil
	default:
		return nil, nil
	}
}

// writeProject writes every file of p under dir plus a manifest. Every path is
// checked before anything is written, so a traversal attempt or a file that
// would clobber the manifest or lock writes nothing.
func writeProject(dir string, p *domain.MultiFileProject) ([]string, error) {
	targets := make([]string, len(p.Files))
	for i, f := range p.Files {
		rel := filepath.FromSlash(f.Path)
		if !filepath.IsLocal(rel) {
			return nil, fmt.Errorf("%w: %q", errors.ErrPathTraversal, f.Path)
		}
		if isReservedName(filepath.Clean(rel)) {
			return nil, fmt.Errorf("%w: %q", errors.ErrReservedPath, f.Path)
		}
		targets[i] = filepath.Join(dir, rel)
	}

	written := make([]string, 0, len(p.Files)+1)
	for i, f := range p.Files {
		if err := os.MkdirAll(filepath.Dir(targets[i]), 0o750); err != nil {
			return written, fmt.Errorf("failed to create directory for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(targets[i], []byte(f.Content), 0o600); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
		written = append(written, targets[i])
	}

	manifest := artifactManifest{
		Name:       p.Name,
		EntryFile:  p.EntryFile,
		SetupNotes: p.SetupNotes,
		Files:      make([]string, len(p.Files)),
	}
	for i, f := range p.Files {
		manifest.Files[i] = f.Path
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return written, fmt.Errorf("failed to encode manifest: %w", err)
	}
	manifestPath := filepath.Join(dir, constants.ArtifactManifestName)
	if err := os.WriteFile(manifestPath, data, 0o600); err != nil {
		return written, fmt.Errorf("failed to write manifest: %w", err)
	}
	return append(written, manifestPath), nil
}

// isReservedName reports whether rel names a file forge writes at the top of
// the output directory. File systems may fold case, so the check does too.
func isReservedName(rel string) bool {
	return strings.EqualFold(rel, constants.ArtifactManifestName) || strings.EqualFold(rel, flock.LockFileName)
}

// looksLikeHTML reports whether a document is an HTML page.
func looksLikeHTML(content string) bool {
	head := strings.ToLower(strings.TrimSpace(content))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}
