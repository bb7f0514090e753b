package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/linegrep/resolve"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// TargetsArgs defines the input parameters for the grep_targets tool.
type TargetsArgs struct {
	Paths     []string `json:"paths,omitempty" jsonschema:"Files or directories to resolve (default: current directory)"`
	Recursive bool     `json:"recursive,omitempty" jsonschema:"Descend into directories"`
}

// TargetsHandler holds the dependencies for the targets tool.
type TargetsHandler struct {
	Skip    resolve.SkipChecker
	Include []string
	Logger  *slog.Logger
}

// Handle processes a grep_targets request: it resolves the given paths
// exactly the way a search would, without reading any file contents.
func (h *TargetsHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args TargetsArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	paths := args.Paths
	recursive := args.Recursive
	if len(paths) == 0 {
		paths = []string{"."}
		recursive = true
	}

	entries := resolve.Resolve(paths, resolve.Options{
		Recursive: recursive,
		Include:   h.Include,
		Skip:      h.Skip,
	})

	elapsed := time.Since(start)
	h.Logger.Info("grep_targets",
		"paths", paths,
		"entries", len(entries),
		"elapsed", elapsed,
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: FormatTargets(entries)}},
	}, nil, nil
}
