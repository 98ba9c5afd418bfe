package extract

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/forge/internal/domain"
)

// buildPayload encodes a multi-file payload the way a well-behaved provider would.
func buildPayload(t *testing.T, name, entry string, files []domain.ProjectFile) string {
	t.Helper()
	type file struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	out := struct {
		Format     string `json:"format"`
		Name       string `json:"name"`
		EntryFile  string `json:"entryFile"`
		SetupNotes string `json:"setupNotes"`
		Files      []file `json:"files"`
	}{Format: PayloadFormat, Name: name, EntryFile: entry, SetupNotes: "npm install && npm start"}
	out.Files = make([]file, 0, len(files))
	for _, f := range files {
		out.Files = append(out.Files, file(f))
	}
	data, err := json.MarshalIndent(out, "", "  ")
	require.NoError(t, err)
	return string(data)
}

func sampleFiles() []domain.ProjectFile {
	return []domain.ProjectFile{
		{Path: "package.json", Content: `{"name":"api","scripts":{"start":"node server.js"}}`},
		{Path: "server.js", Content: "const express = require('express');\napp.get('/', (req, res) => { res.send('{ not structural }'); });"},
		{Path: "db/schema.sql", Content: "CREATE TABLE todos (id SERIAL PRIMARY KEY);"},
	}
}

func requireProject(t *testing.T, res Result) *domain.MultiFileProject {
	t.Helper()
	p, ok := res.Artifact.(*domain.MultiFileProject)
	require.Truef(t, ok, "expected project, got %T (warnings %v)", res.Artifact, res.Warnings)
	return p
}

func requireDocument(t *testing.T, res Result) *domain.SingleDocument {
	t.Helper()
	d, ok := res.Artifact.(*domain.SingleDocument)
	require.Truef(t, ok, "expected document, got %T", res.Artifact)
	return d
}

func TestExtract_PlainRequestYieldsDocument(t *testing.T) {
	responses := []string{
		"Roses are red.",
		"```\nA fenced poem\n```",
		`Here is some JSON {"a": 1} but nothing else.`,
		`It mentions "files" only.`,
	}

	for _, resp := range responses {
		res := Extract(resp, "write me a short poem about autumn")
		doc := requireDocument(t, res)
		assert.NotEmpty(t, doc.Content)
		assert.Equal(t, MethodDocument, res.Method)
		assert.InDelta(t, ConfidenceDocumentPlain, res.Confidence, 0.0001)
		assert.False(t, res.ExpectMultiFile)
	}
}

func TestExtract_FencedPayloadAnyLanguageTag(t *testing.T) {
	files := sampleFiles()
	payload := buildPayload(t, "todo-api", "server.js", files)

	for _, tag := range []string{"json", "", "javascript", "text", "JSON", "jsonc"} {
		t.Run("tag="+tag, func(t *testing.T) {
			resp := "Sure! Here is the project.\n\n```" + tag + "\n" + payload + "\n```\n\nRun it locally."
			res := Extract(resp, "a landing page")

			p := requireProject(t, res)
			assert.Equal(t, MethodFenced, res.Method)
			assert.InDelta(t, ConfidenceFenced, res.Confidence, 0.0001)
			assert.Len(t, p.Files, len(files))
		})
	}
}

func TestExtract_BackendScenarioMatchesInputFiles(t *testing.T) {
	files := sampleFiles()
	resp := "```json\n" + buildPayload(t, "todo-api", "server.js", files) + "\n```"

	res := Extract(resp, "Build a Node.js backend for my todos with PostgreSQL")

	assert.True(t, res.ExpectMultiFile)
	p := requireProject(t, res)
	want := &domain.MultiFileProject{
		Name:       "todo-api",
		Files:      files,
		EntryFile:  "server.js",
		SetupNotes: "npm install && npm start",
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("project mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_UnfencedPayloadWithBracesInStrings(t *testing.T) {
	files := []domain.ProjectFile{
		{Path: "a.txt", Content: "{ not structural }"},
		{Path: "b.js", Content: "if (x) { return '}'; }"},
	}
	payload := buildPayload(t, "braces", "a.txt", files)
	resp := "Here is your project: " + payload + " -- let me know {if} you need more."

	res := Extract(resp, "")

	p := requireProject(t, res)
	assert.Equal(t, MethodUnfenced, res.Method)
	assert.InDelta(t, ConfidenceUnfenced, res.Confidence, 0.0001)
	if diff := cmp.Diff(files, p.Files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_UnfencedSkipsEarlierBraceInProse(t *testing.T) {
	payload := `{"format":"multi-file-project","name":"n","files":[{"path":"index.html","content":"<p>{}</p>"}]}`
	resp := "Template syntax uses {{ name }} but the project is " + payload

	res := Extract(resp, "")

	p := requireProject(t, res)
	require.Len(t, p.Files, 1)
	assert.Equal(t, "<p>{}</p>", p.Files[0].Content)
}

func TestEnclosingObjects_StopsOnTruncatedTail(t *testing.T) {
	prose := strings.Repeat("see { this ", 2000)
	resp := prose + `{"format":"multi-file-project","files":[{"path":"a.js","content":"cut`
	anchor := strings.Index(resp, FormatDiscriminator)

	spans, scanned := enclosingObjects(resp, anchor)

	assert.Empty(t, spans)
	assert.Equal(t, maxUnclosedCandidates, scanned)
}

func TestEnclosingObjects_NearestFirst(t *testing.T) {
	payload := `{"format":"multi-file-project","files":[{"path":"a.js","content":"x"}]}`
	resp := `{"wrapper": ` + payload + `}`
	anchor := strings.Index(resp, FormatDiscriminator)

	spans, _ := enclosingObjects(resp, anchor)

	require.Len(t, spans, 2)
	assert.Equal(t, payload, spans[0].Text(resp))
	assert.Equal(t, resp, spans[1].Text(resp))
}

func TestExtract_FencedCandidateThatFailsFallsBackToUnfenced(t *testing.T) {
	good := `{"format":"multi-file-project","name":"ok","files":[{"path":"main.py","content":"print('hi')"}]}`
	resp := "```json\n{\"format\": \"multi-file-project\", \"files\": [oops]}\n```\nCorrected: " + good

	res := Extract(resp, "python script")

	p := requireProject(t, res)
	assert.Equal(t, MethodUnfenced, res.Method)
	assert.Equal(t, "ok", p.Name)
	assert.NotEmpty(t, res.Warnings)
}

func TestExtract_UnterminatedFenceWithCompletePayload(t *testing.T) {
	payload := buildPayload(t, "p", "", sampleFiles())
	resp := "```json\n" + payload

	res := Extract(resp, "node api")

	p := requireProject(t, res)
	assert.Equal(t, MethodFenced, res.Method)
	assert.Equal(t, "package.json", p.EntryFile)
}

func TestExtract_ZeroFilesIsNotASuccess(t *testing.T) {
	resp := "```json\n{\"format\":\"multi-file-project\",\"name\":\"empty\",\"files\":[]}\n```"

	t.Run("without hint degrades to document", func(t *testing.T) {
		res := Extract(resp, "a poem")
		requireDocument(t, res)
		assert.Equal(t, MethodDocument, res.Method)
		assert.InDelta(t, ConfidenceDocument, res.Confidence, 0.0001)
		assert.Contains(t, strings.Join(res.Warnings, "\n"), errNoFiles.Error())
	})

	t.Run("with hint salvages the only region", func(t *testing.T) {
		res := Extract(resp, "react project")
		p := requireProject(t, res)
		assert.Equal(t, MethodSalvage, res.Method)
		require.Len(t, p.Files, 1)
		assert.Equal(t, SalvageManifestName, p.Files[0].Path)
	})

	t.Run("paths that are all empty count as zero files", func(t *testing.T) {
		r := Extract(`{"format":"multi-file-project","files":[{"path":" ","content":"x"}]}`, "")
		requireDocument(t, r)
	})
}

func TestExtract_TruncatedPayloadSalvage(t *testing.T) {
	full := buildPayload(t, "cut", "index.html", []domain.ProjectFile{
		{Path: "index.html", Content: "<!doctype html><html></html>"},
		{Path: "app.js", Content: "console.log('{');"},
		{Path: "style.css", Content: "body { margin: 0 }"},
	})
	truncated := full[:strings.Index(full, "style.css")+len("style.css")+15]

	t.Run("fenced region recovers complete entries", func(t *testing.T) {
		res := Extract("```json\n"+truncated, "react app with an api")

		p := requireProject(t, res)
		assert.Equal(t, MethodSalvage, res.Method)
		assert.InDelta(t, ConfidenceSalvage, res.Confidence, 0.0001)
		assert.Equal(t, []string{"index.html", "app.js"}, paths(p.Files))
		assert.Equal(t, "index.html", p.EntryFile)
	})

	t.Run("zero fenced regions degrades to document", func(t *testing.T) {
		res := Extract("Here it is: "+truncated, "react app with an api")

		doc := requireDocument(t, res)
		assert.Equal(t, MethodDocument, res.Method)
		assert.Contains(t, doc.Content, `"multi-file-project"`)
	})
}

func TestExtract_SalvageNamesRegionsByPosition(t *testing.T) {
	resp := strings.Join([]string{
		"Files below.",
		"```html\n<!doctype html><html><body>hi</body></html>\n```",
		"```css\nbody { color: red }\n```",
		"```json\n{\"name\": \"demo\"}\n```",
		"```js\nconsole.log(1)\n```",
		"```js\nconsole.log(2)\n```",
		"```\n\n```",
		"```html\n<p>second page</p>\n```",
	}, "\n")

	res := Extract(resp, "a vue project")

	p := requireProject(t, res)
	assert.Equal(t, MethodSalvage, res.Method)
	assert.Equal(t, []string{
		"index.html",
		"file-2.css",
		"package.json",
		"file-4.js",
		"file-5.js",
		"file-7.html",
	}, paths(p.Files))
	assert.Equal(t, "index.html", p.EntryFile)
	assert.Equal(t, "Files below.", p.SetupNotes)
}

func TestExtract_HintWithoutFencesIsDocument(t *testing.T) {
	res := Extract("Just run `npm init` and write the server yourself.", "express server")
	doc := requireDocument(t, res)
	assert.True(t, res.ExpectMultiFile)
	assert.InDelta(t, ConfidenceDocument, res.Confidence, 0.0001)
	assert.Equal(t, "Just run `npm init` and write the server yourself.", doc.Content)
}

func TestExtract_DocumentStripsOneFence(t *testing.T) {
	res := Extract("```markdown\n# Title\n\nBody\n```", "a blog post")
	doc := requireDocument(t, res)
	assert.Equal(t, "# Title\n\nBody", doc.Content)
}

func TestExtract_DuplicatePathsKeepFirst(t *testing.T) {
	resp := `{"format":"multi-file-project","name":"d","entryFile":"missing.js","files":[` +
		`{"path":"./a.js","content":"first"},{"path":"a.js","content":"second"},{"path":"index.html","content":"<p></p>"}]}`

	res := Extract(resp, "")

	p := requireProject(t, res)
	assert.Equal(t, []domain.ProjectFile{
		{Path: "a.js", Content: "first"},
		{Path: "index.html", Content: "<p></p>"},
	}, p.Files)
	assert.Equal(t, "index.html", p.EntryFile)
	joined := strings.Join(res.Warnings, "\n")
	assert.Contains(t, joined, "duplicate path")
	assert.Contains(t, joined, "missing.js")
}

func TestExtract_MissingEntryFileFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		files []domain.ProjectFile
		want  string
	}{
		{
			name:  "bare name of a nested file",
			entry: "server.js",
			files: []domain.ProjectFile{
				{Path: "package.json", Content: "{}"},
				{Path: "src/server.js", Content: "console.info('listening')"},
			},
			want: "package.json",
		},
		{
			name:  "index.html preferred",
			entry: "main.js",
			files: []domain.ProjectFile{
				{Path: "style.css", Content: "body{}"},
				{Path: "index.html", Content: "<p></p>"},
			},
			want: "index.html",
		},
		{
			name:  "empty entry uses fallback silently",
			entry: "",
			files: []domain.ProjectFile{{Path: "app.py", Content: "print(1)"}},
			want:  "app.py",
		},
		{
			name:  "listed entry kept",
			entry: "src/server.js",
			files: []domain.ProjectFile{
				{Path: "package.json", Content: "{}"},
				{Path: "src/server.js", Content: "console.info('listening')"},
			},
			want: "src/server.js",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := "```json\n" + buildPayload(t, "demo", tc.entry, tc.files) + "\n```"

			res := Extract(resp, "node project")

			p := requireProject(t, res)
			assert.Equal(t, tc.want, p.EntryFile)
			missing := tc.entry != "" && tc.entry != tc.want
			assert.Equal(t, missing, strings.Contains(strings.Join(res.Warnings, "\n"), "is not in the file list"))
		})
	}
}

func TestExtract_NeverReturnsNil(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"{",
		"}",
		"```",
		"```json",
		`"multi-file-project" "files"`,
		`"multi-file-project" "files" {{{ "`,
		`{"format":"multi-file-project","files":"nope"}`,
		`{"format":"other","files":[{"path":"a","content":"b"}]}`,
		"```json\n{\"format\":\"multi-file-project\",\"files\":[{\"path\":\"a\",\"content\":\"\\",
		strings.Repeat("{", 500) + `"multi-file-project","files"` + strings.Repeat("}", 3),
	}

	for _, in := range inputs {
		for _, req := range []string{"", "node project"} {
			require.NotPanics(t, func() {
				res := Extract(in, req)
				require.NotNil(t, res.Artifact, "input %q", in)
				if p, ok := res.Artifact.(*domain.MultiFileProject); ok {
					assert.NotEmpty(t, p.Files)
				}
			})
		}
	}
}

func TestExtract_EmptyResponseWarns(t *testing.T) {
	res := Extract("", "")
	doc := requireDocument(t, res)
	assert.Empty(t, doc.Content)
	assert.Contains(t, res.Warnings, "empty response")
}

func paths(files []domain.ProjectFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
