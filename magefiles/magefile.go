// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main contains Mage build targets for movie-recommender developer tooling.
package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the service expects.
var projectDirs = []string{
	"datasets",
	".secrets",
}

// Init creates the dataset and secrets directories.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	fmt.Println("Put the OpenAI key in .secrets/openai-api-key (or the Anthropic key in .secrets/anthropic-api-key).")
	return nil
}

const (
	binDir  = "bin"
	binName = "movie-recommender"
	cmdPkg  = "./cmd/movie-recommender"

	// datasetCSV is the default source for the Ingest target.
	datasetCSV = "datasets/movies.csv"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Ingest builds the catalog database from datasets/movies.csv.
func Ingest() error {
	mg.Deps(Init, Build)
	if _, err := os.Stat(datasetCSV); err != nil {
		return fmt.Errorf("dataset not found: %w", err)
	}
	return sh.RunV(filepath.Join(binDir, binName), "ingest", datasetCSV)
}

// Serve builds the binary and starts the HTTP API.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "serve")
}

// Stats prints non-blank Go lines per package, split into production and
// test code, and the word count of the top-level Markdown documents.
func Stats() error {
	pkgs, err := packageLines(".")
	if err != nil {
		return err
	}
	var prod, test int
	for _, p := range pkgs {
		fmt.Printf("%-28s %6d prod %6d test\n", p.Dir, p.Prod, p.Test)
		prod += p.Prod
		test += p.Test
	}
	fmt.Printf("%-28s %6d prod %6d test\n", "total", prod, test)

	words, err := markdownWords(".")
	if err != nil {
		return err
	}
	fmt.Printf("Words (top-level Markdown): %d\n", words)
	return nil
}

// pkgLines is the non-blank Go line count of one directory.
type pkgLines struct {
	Dir  string
	Prod int
	Test int
}

// packageLines counts non-blank Go lines per directory under root, sorted
// by directory. Hidden, underscore-prefixed and bin directories are skipped,
// as the go tool does.
func packageLines(root string) ([]pkgLines, error) {
	byDir := map[string]*pkgLines{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == binDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(name) != ".go" {
			return nil
		}
		n, err := nonBlankLines(path)
		if err != nil {
			return err
		}
		dir := filepath.ToSlash(filepath.Dir(path))
		p, ok := byDir[dir]
		if !ok {
			p = &pkgLines{Dir: dir}
			byDir[dir] = p
		}
		if strings.HasSuffix(name, "_test.go") {
			p.Test += n
		} else {
			p.Prod += n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]pkgLines, 0, len(byDir))
	for _, p := range byDir {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dir < out[j].Dir })
	return out, nil
}

func nonBlankLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n, sc.Err()
}

// markdownWords counts whitespace-separated words in the *.md files directly
// under root (README, DESIGN and the like).
func markdownWords(root string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(root, "*.md"))
	if err != nil {
		return 0, err
	}
	total := 0
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", path, err)
		}
		total += len(strings.Fields(string(data)))
	}
	return total, nil
}
