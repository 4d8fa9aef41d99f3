package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLintAcceptsMarkedQueries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "q.go", "package q\n\nconst QOne = `\n--sql 6f1c2a52-0b8e-4a53-9d55-6d3c1f0d2a11\nSELECT 1`\n\nconst Label = \"not a query\"\n")

	findings, err := lint([]string{dir})
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestLintReportsMissingMarker(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "q.go", "package q\n\nconst QBare = `SELECT * FROM campaigns`\n")

	findings, err := lint([]string{dir})
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "QBare", findings[0].name)
	assert.Equal(t, 3, findings[0].pos.Line)
}

func TestLintReportsDuplicateMarker(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package q\n\nconst QA = `\n--sql 6f1c2a52-0b8e-4a53-9d55-6d3c1f0d2a11\nSELECT 1`\n")
	writeFile(t, dir, "b.go", "package q\n\nconst QB = `\n--sql 6f1c2a52-0b8e-4a53-9d55-6d3c1f0d2a11\nSELECT 2`\n")

	findings, err := lint([]string{dir})
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "QB", findings[0].name)
	assert.Contains(t, findings[0].msg, "QA")
}

func TestLintSkipsTestFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "q_test.go", "package q\n\nconst QBare = `SELECT 1`\n")

	findings, err := lint([]string{dir})
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestRunExitCodes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "q.go", "package q\n\nconst QBare = `DELETE FROM donations`\n")

	var out bytes.Buffer
	assert.Equal(t, 1, run([]string{dir}, &out))
	assert.Contains(t, out.String(), "QBare")

	out.Reset()
	assert.Equal(t, 2, run([]string{filepath.Join(dir, "missing")}, &out))
}

func TestRepositoryQueriesPass(t *testing.T) {
	findings, err := lint([]string{filepath.Join("..", "..", "internal", "sqlinline")})
	require.NoError(t, err)
	assert.Empty(t, findings)
}
