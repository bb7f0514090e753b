package server

import (
	"github.com/lexandro/linegrep/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Setup creates and configures the MCP server with all tool registrations.
func Setup(searchHandler *tools.SearchHandler, targetsHandler *tools.TargetsHandler) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "linegrep",
			Version: "0.3.0",
		},
		&mcp.ServerOptions{
			Instructions: `This server exposes regular-expression line search over files and directories.

- Use grep_search to find lines matching (or, inverted, not matching) a pattern.
- Use grep_targets to preview which files a search would touch, without reading them.
Matched lines are returned verbatim; matching respects the server's exclude and include filters.`,
		},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "grep_search",
		Description: `Search file contents line by line with a regular expression.

Behavior:
  - pattern is a Go regular expression; insensitive folds case at compile time
  - paths may mix files and directories; directories need recursive=true
  - invert selects lines that do NOT match
  - count returns per-file totals instead of the lines themselves`,
	}, searchHandler.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "grep_targets",
		Description: "Resolve paths to the concrete list of file targets a search would read, reporting unreadable paths and directories given without recursion.",
	}, targetsHandler.Handle)

	return mcpServer
}
