package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexandro/linegrep/match"
	"github.com/lexandro/linegrep/resolve"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchArgs defines the input parameters for the grep_search tool.
type SearchArgs struct {
	Pattern     string   `json:"pattern" jsonschema:"Regular expression to search for"`
	Paths       []string `json:"paths,omitempty" jsonschema:"Files or directories to search (default: current directory)"`
	Recursive   bool     `json:"recursive,omitempty" jsonschema:"Descend into directories"`
	Insensitive bool     `json:"insensitive,omitempty" jsonschema:"Case-insensitive matching"`
	Invert      bool     `json:"invert,omitempty" jsonschema:"Select lines NOT matching the pattern"`
	Count       bool     `json:"count,omitempty" jsonschema:"Report per-file match counts instead of lines"`
	MaxMatches  int      `json:"maxMatches,omitempty" jsonschema:"Maximum number of matched lines to return (default 500)"`
}

// SearchHandler holds the dependencies for the search tool.
type SearchHandler struct {
	Skip    resolve.SkipChecker
	Include []string
	Logger  *slog.Logger
}

// Handle processes a grep_search request.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Pattern == "" {
		h.Logger.Warn("grep_search called with empty pattern")
		return errorResult("Error: pattern parameter is required"), nil, nil
	}

	pattern, err := match.Compile(args.Pattern, args.Insensitive)
	if err != nil {
		h.Logger.Error("grep_search failed", "pattern", args.Pattern, "error", err)
		return errorResult(fmt.Sprintf("Pattern error: %v", err)), nil, nil
	}

	paths := args.Paths
	recursive := args.Recursive
	if len(paths) == 0 {
		// An MCP client has no working stdin, so the useful default is
		// the whole working tree rather than the CLI's "-".
		paths = []string{"."}
		recursive = true
	}

	maxMatches := args.MaxMatches
	if maxMatches <= 0 {
		maxMatches = 500
	}

	entries := resolve.Resolve(paths, resolve.Options{
		Recursive: recursive,
		Include:   h.Include,
		Skip:      h.Skip,
	})

	var results []FileMatches
	var problems []string
	totalMatches := 0
	truncated := false

	for _, entry := range entries {
		if entry.Err != nil {
			problems = append(problems, entry.Err.Error())
			continue
		}
		if entry.Target.Kind == resolve.TargetStdin {
			problems = append(problems, "-: standard input is not available here")
			continue
		}
		// Once the cap is reached, later entries are no longer searched,
		// but their resolution problems above are still collected.
		if totalMatches >= maxMatches {
			truncated = true
			continue
		}

		lines, err := searchFile(entry.Target, pattern, args.Invert)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		if len(lines) == 0 {
			continue
		}
		if totalMatches+len(lines) > maxMatches {
			lines = lines[:maxMatches-totalMatches]
			truncated = true
		}
		totalMatches += len(lines)
		results = append(results, FileMatches{Name: entry.Target.Name(), Lines: lines})
	}

	elapsed := time.Since(start)
	h.Logger.Info("grep_search",
		"pattern", args.Pattern,
		"paths", paths,
		"files", len(results),
		"matches", totalMatches,
		"elapsed", elapsed,
	)

	output := FormatMatches(results, problems, totalMatches, args.Count, truncated)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: output}},
	}, nil, nil
}

// searchFile opens one file target and collects its selected lines.
func searchFile(target resolve.Target, pattern *match.Pattern, invert bool) ([]string, error) {
	stream, err := resolve.Open(target)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	lines, err := match.Lines(stream, pattern, invert)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", target.Name(), err)
	}
	return lines, nil
}

// errorResult wraps an error message in a tool result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: message}},
		IsError: true,
	}
}
