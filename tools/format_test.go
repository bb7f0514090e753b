package tools

import (
	"strings"
	"testing"

	"github.com/lexandro/linegrep/resolve"
)

func Test_FormatMatches_NoResults(t *testing.T) {
	output := FormatMatches(nil, nil, 0, false, false)
	if !strings.Contains(output, "No matches found") {
		t.Errorf("expected empty-result message, got: %s", output)
	}
}

func Test_FormatMatches_TruncationNote(t *testing.T) {
	results := []FileMatches{{Name: "a.txt", Lines: []string{"x\n"}}}

	output := FormatMatches(results, nil, 1, false, true)
	if !strings.Contains(output, "capped at 1 lines") {
		t.Errorf("expected truncation note, got: %s", output)
	}

	output = FormatMatches(results, nil, 1, false, false)
	if strings.Contains(output, "capped") {
		t.Errorf("expected no truncation note for complete results, got: %s", output)
	}
}

func Test_FormatMatches_StripsTerminatorsForDisplay(t *testing.T) {
	results := []FileMatches{{Name: "f.txt", Lines: []string{"one\r\n", "two\n", "three"}}}

	output := FormatMatches(results, nil, 3, false, false)

	if strings.Contains(output, "\r") {
		t.Errorf("expected CR stripped from display, got: %q", output)
	}
	for _, want := range []string{"one", "two", "three", "── f.txt ──"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func Test_FormatMatches_CountMode(t *testing.T) {
	results := []FileMatches{
		{Name: "a.txt", Lines: []string{"x\n", "y\n"}},
		{Name: "b.txt", Lines: []string{"z\n"}},
	}

	output := FormatMatches(results, nil, 3, true, false)

	if !strings.Contains(output, "a.txt: 2") || !strings.Contains(output, "b.txt: 1") {
		t.Errorf("expected per-file counts, got: %s", output)
	}
	if strings.Contains(output, "── ") {
		t.Errorf("expected no line listing in count mode, got: %s", output)
	}
}

func Test_FormatTargets_MixedEntries(t *testing.T) {
	entries := []resolve.Entry{
		{Target: resolve.Target{Kind: resolve.TargetFile, Path: "a.txt"}},
		{Err: &resolve.DirectoryError{Path: "some-dir"}},
	}

	output := FormatTargets(entries)

	if !strings.Contains(output, "Resolved 1 targets") {
		t.Errorf("expected one resolved target, got: %s", output)
	}
	if !strings.Contains(output, "some-dir is a directory") {
		t.Errorf("expected directory error listed, got: %s", output)
	}
}
