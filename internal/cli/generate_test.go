package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/forge/internal/constants"
	"github.com/mrz1836/forge/internal/domain"
	"github.com/mrz1836/forge/internal/errors"
	"github.com/mrz1836/forge/internal/extract"
	"github.com/mrz1836/forge/internal/flock"
	"github.com/mrz1836/forge/internal/generation"
)

func echoRole(roleID string) string {
	return "output from " + roleID
}

func projectPayload(t *testing.T) string {
	t.Helper()
	payload := map[string]any{
		"format":    extract.PayloadFormat,
		"name":      "todo-api",
		"entryFile": "src/server.js",
		"files": []map[string]string{
			{"path": "package.json", "content": `{"name":"todo-api"}`},
			{"path": "src/server.js", "content": "console.info('listening')"},
		},
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return "```json\n" + string(data) + "\n```"
}

func TestGenerate_MergeWithDefaults(t *testing.T) {
	isolateHome(t)
	runner := &fakeRunner{answer: echoRole}

	stdout, stderr, err := execute(t,
		[]string{"generate", "build a portfolio", "--defaults", "--delivery", "merge"},
		WithRunnerFactory(runner.factory()),
	)
	require.NoError(t, err)

	assert.Positive(t, runner.count())
	assert.Contains(t, stdout, "role(s) succeeded")
	assert.Contains(t, stdout, "output from developer")
	assert.Contains(t, stderr, "succeeded", "role progress goes to stderr")
}

func TestGenerate_PendingQuestionWithoutTerminal(t *testing.T) {
	isolateHome(t)
	runner := &fakeRunner{answer: echoRole}

	stdout, _, err := execute(t,
		[]string{"generate", "crée une todo list"},
		WithRunnerFactory(runner.factory()),
	)
	require.ErrorIs(t, err, errors.ErrUserInputRequired)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
	assert.Contains(t, stdout, "Before I start")
	assert.Zero(t, runner.count(), "no provider call before the question is answered")
}

func TestGenerate_AnswerFlagSettlesQuestion(t *testing.T) {
	isolateHome(t)
	runner := &fakeRunner{answer: echoRole}

	_, _, err := execute(t,
		[]string{"generate", "crée une todo list", "--answer", "par défaut", "--delivery", "merge", "--quiet"},
		WithRunnerFactory(runner.factory()),
	)
	require.NoError(t, err)
	assert.Positive(t, runner.count())
}

func TestGenerate_AnswerAndDefaultsExclusive(t *testing.T) {
	isolateHome(t)

	_, _, err := execute(t, []string{"generate", "a blog", "--answer", "x", "--defaults"})
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestGenerate_JSONPendingQuestion(t *testing.T) {
	isolateHome(t)
	runner := &fakeRunner{answer: echoRole}

	stdout, _, err := execute(t,
		[]string{"generate", "crée une todo list", "--output", "json"},
		WithRunnerFactory(runner.factory()),
	)
	require.ErrorIs(t, err, errors.ErrJSONErrorOutput)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))

	var got struct {
		Bundle *struct {
			Questions []struct {
				Field string `json:"field"`
			} `json:"questions"`
		} `json:"bundle"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.NotNil(t, got.Bundle)
	assert.NotEmpty(t, got.Bundle.Questions)
}

func TestGenerate_ClassifiedProjectWrittenToOut(t *testing.T) {
	isolateHome(t)
	payload := projectPayload(t)
	runner := &fakeRunner{answer: func(roleID string) string {
		if roleID == generation.AssemblyRoleID {
			return "Here is the project:\n" + payload
		}
		return echoRole(roleID)
	}}
	dir := t.TempDir()

	stdout, _, err := execute(t,
		[]string{"generate", "Build a node express API with a postgresql database", "--defaults", "--out", dir, "--output", "json", "--no-review"},
		WithRunnerFactory(runner.factory()),
	)
	require.NoError(t, err)

	var got struct {
		Artifact domain.ArtifactEnvelope `json:"artifact"`
		Written  []string                `json:"written"`
		Reviews  []json.RawMessage       `json:"reviews"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, domain.KindMultiFileProject, got.Artifact.Kind)
	require.NotNil(t, got.Artifact.Project)
	assert.Len(t, got.Artifact.Project.Files, 2)
	assert.Len(t, got.Written, 3, "two files and the manifest")
	assert.Empty(t, got.Reviews, "review disabled")

	data, err := os.ReadFile(filepath.Join(dir, "src", "server.js"))
	require.NoError(t, err)
	assert.Equal(t, "console.info('listening')", string(data))

	manifest, err := os.ReadFile(filepath.Join(dir, constants.ArtifactManifestName))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), `"entry_file": "src/server.js"`)
}

func TestWriteProject_RejectsTraversal(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	for _, path := range []string{"../escape.txt", "/etc/passwd", "a/../../b.txt"} {
		project := &domain.MultiFileProject{
			Name: "bad",
			Files: []domain.ProjectFile{
				{Path: "ok.txt", Content: "fine"},
				{Path: path, Content: "nope"},
			},
		}
		written, err := writeProject(dir, project)
		require.ErrorIs(t, err, errors.ErrPathTraversal, path)
		assert.Empty(t, written)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written when any path escapes")
}

func TestWriteProject_RejectsReservedNames(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	for _, path := range []string{constants.ArtifactManifestName, "./Forge-Artifact.JSON", flock.LockFileName} {
		project := &domain.MultiFileProject{
			Name: "clash",
			Files: []domain.ProjectFile{
				{Path: "index.html", Content: "<p></p>"},
				{Path: path, Content: `{"mine":true}`},
			},
		}
		written, err := writeProject(dir, project)
		require.ErrorIs(t, err, errors.ErrReservedPath, path)
		assert.Empty(t, written)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	nested := &domain.MultiFileProject{
		Name:  "nested",
		Files: []domain.ProjectFile{{Path: "docs/" + constants.ArtifactManifestName, Content: "{}"}},
	}
	_, err = writeProject(dir, nested)
	require.NoError(t, err, "only the top-level name is reserved")
}

func TestDeliverArtifact_SingleDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"html page", "<!DOCTYPE html><html></html>", htmlDocumentName},
		{"markdown", "# Notes\n\nhello", markdownDocumentName},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()

			written, err := deliverArtifact(dir, &domain.SingleDocument{Content: tc.content})
			require.NoError(t, err)
			require.Equal(t, []string{filepath.Join(dir, tc.want)}, written)

			data, err := os.ReadFile(written[0])
			require.NoError(t, err)
			assert.Equal(t, tc.content, string(data))
		})
	}
}

func TestDeliverArtifact_NoDirWritesNothing(t *testing.T) {
	t.Parallel()

	written, err := deliverArtifact("", &domain.SingleDocument{Content: "x"})
	require.NoError(t, err)
	assert.Nil(t, written)
}

func TestReadDocuments(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	md := filepath.Join(dir, "brief.md")
	raw := filepath.Join(dir, "notes")
	require.NoError(t, os.WriteFile(md, []byte("# brief"), 0o600))
	require.NoError(t, os.WriteFile(raw, []byte("plain"), 0o600))

	docs, err := readDocuments([]string{md, raw})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "brief.md", docs[0].Name)
	assert.Equal(t, "# brief", docs[0].Text)
	assert.Equal(t, "text/plain", docs[1].MIME)

	_, err = readDocuments([]string{filepath.Join(dir, "missing.txt")})
	require.Error(t, err)
}

func TestBundleMarkdown(t *testing.T) {
	t.Parallel()

	assert.Empty(t, bundleMarkdown(nil))
	md := bundleMarkdown(sampleBundle())
	assert.True(t, strings.HasPrefix(md, "## Before I start"))
	assert.Contains(t, md, "`web-app`")
	assert.Contains(t, md, "(default **web-app**)")
	assert.Contains(t, md, "--defaults")
}

func TestDeliverArtifact_LockedDirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	held, err := flock.Acquire(dir)
	require.NoError(t, err)
	defer func() { _ = held.Release() }()

	_, err = deliverArtifact(dir, &domain.SingleDocument{Content: "x"})
	require.ErrorIs(t, err, flock.ErrLocked)
	assert.NoFileExists(t, filepath.Join(dir, markdownDocumentName))
}

func TestGenerate_NonEmptyOutNeedsForce(t *testing.T) {
	isolateHome(t)
	payload := projectPayload(t)
	runner := &fakeRunner{answer: func(roleID string) string {
		if roleID == generation.AssemblyRoleID {
			return payload
		}
		return echoRole(roleID)
	}}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep me"), 0o600))
	args := []string{"generate", "Build a node express API with a postgresql database", "--defaults", "--out", dir, "--no-review"}

	_, _, err := execute(t, args, WithRunnerFactory(runner.factory()))
	require.ErrorIs(t, err, errors.ErrOutputNotEmpty)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
	assert.Zero(t, runner.count(), "nothing is generated for a refused directory")

	_, _, err = execute(t, append(args, "--force"), WithRunnerFactory(runner.factory()))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "package.json"))
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
}

func TestConfirmOverwrite(t *testing.T) {
	t.Parallel()

	occupied := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(occupied, "index.html"), []byte("<p></p>"), 0o600))
	lockedOnly := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(lockedOnly, flock.LockFileName), nil, 0o600))

	tests := []struct {
		name         string
		dir          string
		force        bool
		interactive  bool
		confirm      bool
		wantErr      bool
		wantConfirms int
	}{
		{name: "no out", dir: ""},
		{name: "missing dir", dir: filepath.Join(occupied, "new")},
		{name: "lock file only", dir: lockedOnly},
		{name: "forced", dir: occupied, force: true},
		{name: "no terminal", dir: occupied, wantErr: true},
		{name: "confirmed", dir: occupied, interactive: true, confirm: true, wantConfirms: 1},
		{name: "declined", dir: occupied, interactive: true, wantErr: true, wantConfirms: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			prompts := &fakePrompter{confirm: tc.confirm}
			a := &app{
				flags:       &GlobalFlags{Output: OutputText},
				interactive: func() bool { return tc.interactive },
				prompter:    prompts,
			}

			err := a.confirmOverwrite(tc.dir, tc.force)

			if tc.wantErr {
				require.ErrorIs(t, err, errors.ErrOutputNotEmpty)
				assert.True(t, errors.IsExitCode2Error(err))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantConfirms, prompts.confirms)
		})
	}
}
