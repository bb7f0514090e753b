package main

import (
	"fmt"
	"io"

	"github.com/lexandro/linegrep/match"
	"github.com/lexandro/linegrep/resolve"
)

// searchOptions carries the per-run matching and output switches.
type searchOptions struct {
	Invert bool
	Count  bool
}

// runSearch processes every resolved entry in order: open, match, print.
// Per-entry failures are reported to errOut and never stop the loop, so
// one unreadable path cannot suppress results from the others.
func runSearch(out io.Writer, errOut io.Writer, entries []resolve.Entry, pattern *match.Pattern, opts searchOptions) {
	targets := 0
	for _, entry := range entries {
		if entry.Err == nil {
			targets++
		}
	}
	// Filename prefixes appear only when more than one target is in play.
	withPrefix := targets > 1

	for _, entry := range entries {
		if entry.Err != nil {
			fmt.Fprintf(errOut, "linegrep: %v\n", entry.Err)
			continue
		}
		searchTarget(out, errOut, entry.Target, pattern, opts, withPrefix)
	}
}

// searchTarget opens one target, matches its lines, and prints the
// result. The stream is closed on every exit path.
func searchTarget(out io.Writer, errOut io.Writer, target resolve.Target, pattern *match.Pattern, opts searchOptions, withPrefix bool) {
	stream, err := resolve.Open(target)
	if err != nil {
		fmt.Fprintf(errOut, "linegrep: %v\n", err)
		return
	}
	defer stream.Close()

	lines, err := match.Lines(stream, pattern, opts.Invert)
	if err != nil {
		fmt.Fprintf(errOut, "linegrep: %s: %v\n", target.Name(), err)
		return
	}

	printMatches(out, target.Name(), lines, opts.Count, withPrefix)
}

// printMatches writes either the selected lines verbatim (original
// terminators included) or, in count mode, the per-target total.
func printMatches(out io.Writer, name string, lines []string, countOnly bool, withPrefix bool) {
	if countOnly {
		if withPrefix {
			fmt.Fprintf(out, "%s:%d\n", name, len(lines))
		} else {
			fmt.Fprintf(out, "%d\n", len(lines))
		}
		return
	}

	for _, line := range lines {
		if withPrefix {
			io.WriteString(out, name)
			io.WriteString(out, ":")
		}
		io.WriteString(out, line)
	}
}
