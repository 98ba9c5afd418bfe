package domain

import "fmt"

// ArtifactKind tags the variant carried by an ArtifactEnvelope.
type ArtifactKind string

// Artifact kinds.
const (
	KindSingleDocument   ArtifactKind = "single-document"
	KindMultiFileProject ArtifactKind = "multi-file-project"
)

// Artifact is the terminal output of the pipeline: either a *SingleDocument or
// a *MultiFileProject. Consumers must switch on the concrete type.
type Artifact interface {
	Kind() ArtifactKind
	artifact()
}

// SingleDocument is a returnable text artifact.
type SingleDocument struct {
	Content string `json:"content"`
}

// Kind implements Artifact.
func (*SingleDocument) Kind() ArtifactKind { return KindSingleDocument }

func (*SingleDocument) artifact() {}

// ProjectFile is one file of a multi-file project.
type ProjectFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// MultiFileProject is a project tree. A valid project has at least one file.
type MultiFileProject struct {
	Name       string        `json:"name"`
	Files      []ProjectFile `json:"files"`
	EntryFile  string        `json:"entry_file,omitempty"`
	SetupNotes string        `json:"setup_notes,omitempty"`
}

// Kind implements Artifact.
func (*MultiFileProject) Kind() ArtifactKind { return KindMultiFileProject }

func (*MultiFileProject) artifact() {}

// ArtifactEnvelope is the JSON shape of an Artifact. Exactly one of Document and
// Project is set.
type ArtifactEnvelope struct {
	Kind     ArtifactKind      `json:"kind"`
	Document *SingleDocument   `json:"document,omitempty"`
	Project  *MultiFileProject `json:"project,omitempty"`
}

// Envelope wraps a for serialization. A nil artifact yields an empty document.
func Envelope(a Artifact) ArtifactEnvelope {
	switch v := a.(type) {
	case *MultiFileProject:
		return ArtifactEnvelope{Kind: KindMultiFileProject, Project: v}
	case *SingleDocument:
		return ArtifactEnvelope{Kind: KindSingleDocument, Document: v}
	default:
		return ArtifactEnvelope{Kind: KindSingleDocument, Document: &SingleDocument{}}
	}
}

// Artifact unwraps the envelope.
func (e ArtifactEnvelope) Artifact() (Artifact, error) {
	switch {
	case e.Kind == KindMultiFileProject && e.Project != nil && e.Document == nil:
		return e.Project, nil
	case e.Kind == KindSingleDocument && e.Document != nil && e.Project == nil:
		return e.Document, nil
	default:
		return nil, fmt.Errorf("malformed artifact envelope: kind %q", e.Kind)
	}
}
