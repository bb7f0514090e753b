package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lexandro/linegrep/ignore"
	"github.com/lexandro/linegrep/match"
	"github.com/lexandro/linegrep/register"
	"github.com/lexandro/linegrep/resolve"
)

// globList is a repeatable CLI flag for glob patterns.
type globList []string

func (g *globList) String() string { return strings.Join(*g, ", ") }
func (g *globList) Set(value string) error {
	*g = append(*g, value)
	return nil
}

func main() {
	// The register subcommand has its own argument shape; handle it
	// before flag parsing.
	if len(os.Args) > 1 && os.Args[1] == "register" {
		register.Run("linegrep", os.Args[2:])
		return
	}

	var insensitive, recursive, count, invert bool
	var watch, ignoreFiles, serveMCP bool
	var includes, excludes globList
	var logLevel string

	flag.BoolVar(&insensitive, "i", false, "case-insensitive match")
	flag.BoolVar(&insensitive, "insensitive", false, "case-insensitive match")
	flag.BoolVar(&recursive, "r", false, "descend into directories")
	flag.BoolVar(&recursive, "recursive", false, "descend into directories")
	flag.BoolVar(&count, "c", false, "print per-file match counts instead of lines")
	flag.BoolVar(&count, "count", false, "print per-file match counts instead of lines")
	flag.BoolVar(&invert, "v", false, "select lines NOT matching the pattern")
	flag.BoolVar(&invert, "invert-match", false, "select lines NOT matching the pattern")
	flag.Var(&includes, "g", "search only files matching this glob during recursion (repeatable)")
	flag.Var(&includes, "glob", "search only files matching this glob during recursion (repeatable)")
	flag.Var(&excludes, "x", "skip files matching this glob during recursion (repeatable)")
	flag.Var(&excludes, "exclude", "skip files matching this glob during recursion (repeatable)")
	flag.BoolVar(&ignoreFiles, "ignore", false, "honor .gitignore and skip VCS directories during recursion")
	flag.BoolVar(&watch, "w", false, "after the initial pass, re-search files as they change")
	flag.BoolVar(&watch, "watch", false, "after the initial pass, re-search files as they change")
	flag.BoolVar(&serveMCP, "mcp", false, "serve searches over MCP stdio instead of running once")
	flag.StringVar(&logLevel, "log-level", "warn", "log level: debug|info|warn|error")
	flag.Usage = printUsage
	flag.Parse()

	logger := setupLogger(logLevel)

	if serveMCP {
		// The server resolves request paths against its working tree,
		// so that tree's .gitignore governs it.
		matcher := buildMatcher(excludes, ignoreFiles, []string{"."})
		if err := runMCP(matcher, includes, logger); err != nil {
			logger.Error("MCP server error", "error", err)
			os.Exit(1)
		}
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "linegrep: missing pattern")
		flag.Usage()
		os.Exit(2)
	}

	// The pattern is compiled before any path is touched, so a bad
	// pattern can never produce partial output.
	pattern, err := match.Compile(args[0], insensitive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "linegrep: %v\n", err)
		os.Exit(2)
	}

	paths := args[1:]
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	if err := checkWatchFlags(watch, recursive); err != nil {
		fmt.Fprintf(os.Stderr, "linegrep: %v\n", err)
		os.Exit(2)
	}

	matcher := buildMatcher(excludes, ignoreFiles, directoryRoots(paths))

	var skip resolve.SkipChecker
	if matcher != nil {
		skip = matcher
	}

	entries := resolve.Resolve(paths, resolve.Options{
		Recursive: recursive,
		Include:   includes,
		Skip:      skip,
	})

	opts := searchOptions{Invert: invert, Count: count}
	runSearch(os.Stdout, os.Stderr, entries, pattern, opts)

	if watch {
		if err := runWatch(os.Stdout, os.Stderr, paths, pattern, opts, matcher, includes, logger); err != nil {
			fmt.Fprintf(os.Stderr, "linegrep: %v\n", err)
			os.Exit(1)
		}
	}
}

// buildMatcher returns nil when no filtering was requested, so the
// resolver's walk stays unfiltered by default. Each searched directory
// root contributes its own .gitignore.
func buildMatcher(excludes []string, ignoreFiles bool, roots []string) *ignore.Matcher {
	if len(excludes) == 0 && !ignoreFiles {
		return nil
	}
	return ignore.NewMatcher(ignore.MatcherOptions{
		Roots:       roots,
		Patterns:    excludes,
		IgnoreFiles: ignoreFiles,
	})
}

// directoryRoots returns the input paths that name directories: the
// roots whose .gitignore files govern a recursive search.
func directoryRoots(paths []string) []string {
	var roots []string
	for _, path := range paths {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			roots = append(roots, path)
		}
	}
	return roots
}

func printUsage() {
	binaryName := "linegrep"
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  %s [flags] <pattern> [path ...]     # search files, directories, or stdin (-)\n", binaryName)
	fmt.Fprintf(os.Stderr, "  %s -mcp [flags]                     # serve grep_search/grep_targets over MCP stdio\n", binaryName)
	fmt.Fprintf(os.Stderr, "  %s register project|user [...]      # register the MCP server\n", binaryName)
	fmt.Fprintf(os.Stderr, "\nFlags:\n")
	flag.PrintDefaults()
}

// setupLogger creates an slog.Logger on stderr. Stdout carries search
// results (or the MCP transport) and must stay clean.
func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}
