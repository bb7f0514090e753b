package tools

import (
	"fmt"
	"strings"

	"github.com/lexandro/linegrep/resolve"
)

// FileMatches groups the selected lines of one file target.
type FileMatches struct {
	Name  string
	Lines []string // raw lines, original terminators included
}

// FormatMatches renders search results as human-readable text, grouped
// by file. In count mode only per-file totals are shown. A truncated
// result set says so, so callers know more matches exist.
func FormatMatches(results []FileMatches, problems []string, totalMatches int, countOnly bool, truncated bool) string {
	var builder strings.Builder

	if len(results) == 0 {
		builder.WriteString("No matches found.\n")
	} else {
		builder.WriteString(fmt.Sprintf("Found %d matching lines in %d files:\n\n", totalMatches, len(results)))

		for i, result := range results {
			if i > 0 {
				builder.WriteString("\n")
			}
			if countOnly {
				builder.WriteString(fmt.Sprintf("%s: %d\n", result.Name, len(result.Lines)))
				continue
			}
			builder.WriteString(fmt.Sprintf("── %s ──\n", result.Name))
			for _, line := range result.Lines {
				builder.WriteString("  ")
				builder.WriteString(strings.TrimRight(line, "\r\n"))
				builder.WriteString("\n")
			}
		}
	}

	if truncated {
		builder.WriteString(fmt.Sprintf("\n(more matches exist; results capped at %d lines)\n", totalMatches))
	}

	if len(problems) > 0 {
		builder.WriteString("\nSkipped:\n")
		for _, problem := range problems {
			builder.WriteString(fmt.Sprintf("  %s\n", problem))
		}
	}

	return builder.String()
}

// FormatTargets renders resolved entries as a target list followed by
// the paths that produced errors.
func FormatTargets(entries []resolve.Entry) string {
	var targets []string
	var problems []string
	for _, entry := range entries {
		if entry.Err != nil {
			problems = append(problems, entry.Err.Error())
			continue
		}
		targets = append(targets, entry.Target.Name())
	}

	var builder strings.Builder
	if len(targets) == 0 {
		builder.WriteString("No targets resolved.\n")
	} else {
		builder.WriteString(fmt.Sprintf("Resolved %d targets:\n\n", len(targets)))
		for _, target := range targets {
			builder.WriteString("  ")
			builder.WriteString(target)
			builder.WriteString("\n")
		}
	}

	if len(problems) > 0 {
		builder.WriteString("\nErrors:\n")
		for _, problem := range problems {
			builder.WriteString(fmt.Sprintf("  %s\n", problem))
		}
	}

	return builder.String()
}
