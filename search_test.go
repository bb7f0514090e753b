package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lexandro/linegrep/match"
	"github.com/lexandro/linegrep/resolve"
)

func compileTestPattern(t *testing.T, expr string) *match.Pattern {
	t.Helper()
	p, err := match.Compile(expr, false)
	if err != nil {
		t.Fatalf("compiling %q: %v", expr, err)
	}
	return p
}

func writeTempFile(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func Test_runSearch_SingleTargetNoPrefix(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeTempFile(t, tmpDir, "input.txt", "hit\nmiss\nhit again\n")

	var out, errOut bytes.Buffer
	entries := resolve.Resolve([]string{path}, resolve.Options{})
	runSearch(&out, &errOut, entries, compileTestPattern(t, "hit"), searchOptions{})

	if out.String() != "hit\nhit again\n" {
		t.Errorf("expected bare matched lines, got %q", out.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("expected no diagnostics, got %q", errOut.String())
	}
}

func Test_runSearch_MultipleTargetsPrefixed(t *testing.T) {
	tmpDir := t.TempDir()
	a := writeTempFile(t, tmpDir, "a.txt", "match here\n")
	b := writeTempFile(t, tmpDir, "b.txt", "no\nmatch there\n")

	var out, errOut bytes.Buffer
	entries := resolve.Resolve([]string{a, b}, resolve.Options{})
	runSearch(&out, &errOut, entries, compileTestPattern(t, "match"), searchOptions{})

	want := a + ":match here\n" + b + ":match there\n"
	if out.String() != want {
		t.Errorf("expected prefixed output %q, got %q", want, out.String())
	}
}

func Test_runSearch_CountMode(t *testing.T) {
	tmpDir := t.TempDir()
	a := writeTempFile(t, tmpDir, "a.txt", "x\ny\nx\n")
	b := writeTempFile(t, tmpDir, "b.txt", "z\n")

	var out, errOut bytes.Buffer
	entries := resolve.Resolve([]string{a, b}, resolve.Options{})
	runSearch(&out, &errOut, entries, compileTestPattern(t, "x"), searchOptions{Count: true})

	want := a + ":2\n" + b + ":0\n"
	if out.String() != want {
		t.Errorf("expected counts %q, got %q", want, out.String())
	}
}

func Test_runSearch_CountModeSingleTarget(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeTempFile(t, tmpDir, "a.txt", "x\ny\nx\n")

	var out, errOut bytes.Buffer
	entries := resolve.Resolve([]string{path}, resolve.Options{})
	runSearch(&out, &errOut, entries, compileTestPattern(t, "x"), searchOptions{Count: true})

	if out.String() != "2\n" {
		t.Errorf("expected bare count, got %q", out.String())
	}
}

func Test_runSearch_ErrorsDoNotStopProcessing(t *testing.T) {
	tmpDir := t.TempDir()
	missing := filepath.Join(tmpDir, "gone.txt")
	good := writeTempFile(t, tmpDir, "good.txt", "present\n")

	var out, errOut bytes.Buffer
	entries := resolve.Resolve([]string{missing, good}, resolve.Options{})
	runSearch(&out, &errOut, entries, compileTestPattern(t, "present"), searchOptions{})

	if !strings.Contains(errOut.String(), missing) {
		t.Errorf("expected diagnostic for %q, got %q", missing, errOut.String())
	}
	// The error entry does not count as a target, so the surviving
	// single target prints without a prefix.
	if out.String() != "present\n" {
		t.Errorf("expected unprefixed match from surviving file, got %q", out.String())
	}
}

func Test_runSearch_InvertedOutput(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeTempFile(t, tmpDir, "input.txt", "keep\ndrop\nkeep\n")

	var out, errOut bytes.Buffer
	entries := resolve.Resolve([]string{path}, resolve.Options{})
	runSearch(&out, &errOut, entries, compileTestPattern(t, "drop"), searchOptions{Invert: true})

	if out.String() != "keep\nkeep\n" {
		t.Errorf("expected non-matching lines, got %q", out.String())
	}
}

func Test_runSearch_PreservesUnterminatedFinalLine(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeTempFile(t, tmpDir, "input.txt", "Lorem\nIpsum\r\nDOLOR")

	var out, errOut bytes.Buffer
	entries := resolve.Resolve([]string{path}, resolve.Options{})
	runSearch(&out, &errOut, entries, compileTestPattern(t, "(?i)or"), searchOptions{})

	// DOLOR had no terminator on disk and must not grow one.
	if out.String() != "Lorem\nDOLOR" {
		t.Errorf("expected verbatim terminators, got %q", out.String())
	}
}

func Test_printMatches_PrefixFormats(t *testing.T) {
	var out bytes.Buffer
	printMatches(&out, "f.txt", []string{"a\n", "b\n"}, false, true)
	if out.String() != "f.txt:a\nf.txt:b\n" {
		t.Errorf("expected per-line prefixes, got %q", out.String())
	}

	out.Reset()
	printMatches(&out, "f.txt", []string{"a\n", "b\n"}, true, true)
	if out.String() != "f.txt:2\n" {
		t.Errorf("expected prefixed count, got %q", out.String())
	}
}

func Test_buildMatcher_NilWithoutFilters(t *testing.T) {
	if buildMatcher(nil, false, []string{"somewhere"}) != nil {
		t.Error("expected no matcher when no filtering was requested")
	}
}

func Test_buildMatcher_GitignorePerSearchRoot(t *testing.T) {
	// The searched root is not the working directory; its .gitignore
	// must still govern the walk.
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte("secret.txt\n"), 0644); err != nil {
		t.Fatal(err)
	}
	writeTempFile(t, root, "secret.txt", "hidden\n")
	ok := writeTempFile(t, root, "ok.txt", "visible\n")

	matcher := buildMatcher(nil, true, directoryRoots([]string{root}))
	if matcher == nil {
		t.Fatal("expected a matcher with -ignore set")
	}

	entries := resolve.Resolve([]string{root}, resolve.Options{Recursive: true, Skip: matcher})

	found := make(map[string]bool)
	for _, entry := range entries {
		if entry.Err != nil {
			t.Fatalf("unexpected error entry: %v", entry.Err)
		}
		found[entry.Target.Path] = true
	}
	if found[filepath.Join(root, "secret.txt")] {
		t.Error("expected secret.txt excluded by the root's .gitignore")
	}
	if !found[ok] {
		t.Errorf("expected %q to survive filtering, got %v", ok, found)
	}
}

func Test_directoryRoots_KeepsOnlyDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	file := writeTempFile(t, tmpDir, "f.txt", "x\n")
	missing := filepath.Join(tmpDir, "gone")

	roots := directoryRoots([]string{tmpDir, file, missing, "-"})

	if len(roots) != 1 || roots[0] != tmpDir {
		t.Errorf("expected only the directory, got %q", roots)
	}
}

func Test_checkWatchFlags_RequiresRecursive(t *testing.T) {
	if err := checkWatchFlags(true, false); err == nil {
		t.Error("expected error for watch without recursion")
	}
	if err := checkWatchFlags(true, true); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := checkWatchFlags(false, false); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func Test_watchIncluded_GlobFilter(t *testing.T) {
	if !watchIncluded("/tmp/project/main.go", []string{"*.go"}) {
		t.Error("expected basename glob to include main.go")
	}
	if watchIncluded("/tmp/project/readme.md", []string{"*.go"}) {
		t.Error("expected non-matching file excluded")
	}
	if !watchIncluded("/tmp/project/readme.md", nil) {
		t.Error("expected empty glob list to include everything")
	}
}
