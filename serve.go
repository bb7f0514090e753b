package main

import (
	"context"
	"log/slog"

	"github.com/lexandro/linegrep/ignore"
	"github.com/lexandro/linegrep/resolve"
	"github.com/lexandro/linegrep/server"
	"github.com/lexandro/linegrep/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// runMCP serves the search tools over MCP stdio. Stdout belongs to the
// transport, so all diagnostics go through the logger on stderr.
func runMCP(matcher *ignore.Matcher, includes []string, logger *slog.Logger) error {
	var skip resolve.SkipChecker
	if matcher != nil {
		skip = matcher
	}

	searchHandler := &tools.SearchHandler{Skip: skip, Include: includes, Logger: logger}
	targetsHandler := &tools.TargetsHandler{Skip: skip, Include: includes, Logger: logger}

	mcpServer := server.Setup(searchHandler, targetsHandler)

	logger.Info("MCP server starting on stdio")
	return mcpServer.Run(context.Background(), &mcp.StdioTransport{})
}
