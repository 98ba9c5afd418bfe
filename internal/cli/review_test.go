package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/forge/internal/collab"
	"github.com/mrz1836/forge/internal/errors"
)

const inaccessiblePage = `<html><body><img src="hero.png"><p>hi</p></body></html>`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReview_EscalatesHighFinding(t *testing.T) {
	isolateHome(t)
	path := writeTemp(t, "index.html", inaccessiblePage)

	stdout, _, err := execute(t, []string{"review", path, "--role", "accessibility", "--output", "json"})
	require.NoError(t, err)

	var got reviewResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "accessibility", got.Report.RoleID)
	require.NotEmpty(t, got.Report.Issues)
	assert.Equal(t, "missing-alt-text", got.Report.Issues[0].Category)
	assert.True(t, got.Report.Escalate)

	require.NotNil(t, got.Session)
	assert.True(t, got.Session.Resolved)
	assert.Contains(t, got.Session.Participants, "qa")
	assert.NotEmpty(t, got.Session.Decision)
	assert.Empty(t, got.Fixes)
}

func TestReview_FixRewritesFile(t *testing.T) {
	isolateHome(t)
	path := writeTemp(t, "index.html", inaccessiblePage)

	stdout, _, err := execute(t, []string{"review", path, "--role", "accessibility", "--fix"})
	require.NoError(t, err)
	assert.Contains(t, stdout, "missing-alt-text")
	assert.Contains(t, stdout, "Applied 2 fix(es)")

	data, err := os.ReadFile(path) //nolint:gosec // test file
	require.NoError(t, err)
	assert.Contains(t, string(data), `alt=""`)
	assert.Contains(t, string(data), `lang="en"`)
}

func TestReview_CleanContent(t *testing.T) {
	isolateHome(t)
	path := writeTemp(t, "notes.md", "All good here.")

	stdout, _, err := execute(t, []string{"review", path, "--role", "documentation"})
	require.NoError(t, err)
	assert.Contains(t, stdout, "No issues found for documentation")
}

func TestReview_UnknownRole(t *testing.T) {
	isolateHome(t)
	path := writeTemp(t, "x.js", "x")

	_, _, err := execute(t, []string{"review", path, "--role", "wizard"})
	require.ErrorIs(t, err, errors.ErrUnknownRole)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestReview_MissingFile(t *testing.T) {
	isolateHome(t)

	_, _, err := execute(t, []string{"review", filepath.Join(t.TempDir(), "nope.js")})
	require.Error(t, err)
	assert.Equal(t, ExitError, ExitCodeForError(err))
}

// recordingOutput keeps what a command printed, unrendered.
type recordingOutput struct {
	infos    []string
	markdown []string
}

func (r *recordingOutput) Success(string)             {}
func (r *recordingOutput) Error(error)                {}
func (r *recordingOutput) Warning(string)             {}
func (r *recordingOutput) Info(msg string)            { r.infos = append(r.infos, msg) }
func (r *recordingOutput) Table([]string, [][]string) {}
func (r *recordingOutput) Markdown(md string)         { r.markdown = append(r.markdown, md) }
func (r *recordingOutput) JSON(any) error             { return nil }

func TestPrintSession_ListsProposedChanges(t *testing.T) {
	t.Parallel()

	store := collab.NewStore()
	sess := store.Open("accessibility output", "", "accessibility", "qa")
	_, err := sess.Post("accessibility", collab.KindEscalation, "2 issues")
	require.NoError(t, err)
	_, err = sess.Propose("accessibility", "automatic fix for missing-alt-text", collab.Change{
		Before: `<img src="a.png">`,
		After:  `<img src="a.png" alt="">`,
	})
	require.NoError(t, err)
	require.NoError(t, sess.Close("apply the fixes"))

	out := &recordingOutput{}
	printSession(out, sess)

	require.Len(t, out.markdown, 1)
	md := out.markdown[0]
	assert.Contains(t, md, "**Decision:** apply the fixes")
	assert.Contains(t, md, "### Proposed changes")
	assert.Contains(t, md, "2. from **accessibility**")
	assert.Contains(t, md, "-<img src=\"a.png\">\n+<img src=\"a.png\" alt=\"\">\n")
}

func TestPrintSession_NoProposals(t *testing.T) {
	t.Parallel()

	sess := collab.NewStore().Open("qa output", "", "qa")
	_, err := sess.Post("qa", collab.KindEscalation, "1 issue")
	require.NoError(t, err)

	out := &recordingOutput{}
	printSession(out, sess)

	require.Len(t, out.markdown, 1)
	assert.NotContains(t, out.markdown[0], "Proposed changes")
}

func TestDiffLines(t *testing.T) {
	t.Parallel()

	assert.Empty(t, diffLines("+", ""))
	assert.Equal(t, "+a\n+b\n", diffLines("+", "a\nb\n"))
}
