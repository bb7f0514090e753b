package tools

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func Test_TargetsHandler_ListsResolvedFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeTestFile(t, tmpDir, "a.txt", "a\n")
	writeTestFile(t, tmpDir, "sub/b.txt", "b\n")

	h := &TargetsHandler{Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, TargetsArgs{
		Paths:     []string{tmpDir},
		Recursive: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Resolved 2 targets") {
		t.Errorf("expected 2 targets, got:\n%s", text)
	}
	if !strings.Contains(text, "a.txt") || !strings.Contains(text, "b.txt") {
		t.Errorf("expected both files listed, got:\n%s", text)
	}
}

func Test_TargetsHandler_DirectoryWithoutRecursion(t *testing.T) {
	tmpDir := t.TempDir()
	h := &TargetsHandler{Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, TargetsArgs{
		Paths: []string{tmpDir},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "is a directory") {
		t.Errorf("expected directory error in listing, got:\n%s", text)
	}
}

func Test_TargetsHandler_MissingPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone")
	h := &TargetsHandler{Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, TargetsArgs{
		Paths: []string{missing},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Errors:") || !strings.Contains(text, missing) {
		t.Errorf("expected missing path under Errors, got:\n%s", text)
	}
}
