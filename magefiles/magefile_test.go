// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestPackageLines(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "internal", "a", "a.go"), "package a\n\n\nfunc A() {}\n")
	writeFile(t, filepath.Join(root, "internal", "a", "a_test.go"), "package a\n\n  \nimport \"testing\"\nfunc TestA(t *testing.T) {}\n")
	writeFile(t, filepath.Join(root, "cmd", "x", "main.go"), "package main\nfunc main() {}")
	writeFile(t, filepath.Join(root, "_examples", "skip", "skip.go"), "package skip\n")
	writeFile(t, filepath.Join(root, ".cache", "skip.go"), "package skip\n")
	writeFile(t, filepath.Join(root, "bin", "gen.go"), "package gen\n")
	writeFile(t, filepath.Join(root, "internal", "a", "notes.txt"), "not go\n")

	got, err := packageLines(root)
	require.NoError(t, err)

	rel := func(dir string) string { return filepath.ToSlash(filepath.Join(root, dir)) }
	assert.Equal(t, []pkgLines{
		{Dir: rel("cmd/x"), Prod: 2},
		{Dir: rel("internal/a"), Prod: 2, Test: 3},
	}, got)
}

func TestMarkdownWords(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "DESIGN.md"), "# Design\n\nthree more words\n")
	writeFile(t, filepath.Join(root, "README.md"), "one two")
	writeFile(t, filepath.Join(root, "docs", "nested.md"), "not counted here")

	got, err := markdownWords(root)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}
